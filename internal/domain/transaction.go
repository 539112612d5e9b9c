package domain

import "time"

// Действия в журнале транзакций
type TxAction string

const (
	TxActionBet    TxAction = "BET"
	TxActionWin    TxAction = "WIN"
	TxActionBonus  TxAction = "BONUS"
	TxActionRefund TxAction = "REFUND" // возврат ставки несостоявшегося раунда
)

// Transaction - строка журнала изменения баланса, только для добавления.
// Используется как read model для прогресса миссий и отчётов.
type Transaction struct {
	ID        int64     `db:"id" json:"id"`
	PlayerID  string    `db:"player_id" json:"player_id"`
	GameType  string    `db:"game_type" json:"game_type"` // подсистема: mines, wheel, roulette, bacc, blackjack, checkin, mall, ledger
	Action    TxAction  `db:"action_type" json:"action_type"`
	Amount    int64     `db:"amount" json:"amount"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
