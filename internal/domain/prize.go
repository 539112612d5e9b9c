package domain

import "time"

// Статусы призового билета. Ядро создаёт pending,
// погашение при выдаче на руки выполняет бэк-офис.
type PrizeStatus string

const (
	PrizeStatusPending  PrizeStatus = "pending"
	PrizeStatusRedeemed PrizeStatus = "redeemed"
)

// Источники выдачи призов
const (
	PrizeSourceWheel   = "Wheel"
	PrizeSourceMall    = "Mall"
	PrizeSourceMission = "Mission"
	PrizeSourceAirdrop = "Airdrop"
	PrizeSourceCheckin = "DailyCheckIn"
)

// PrizeTicket - запись в списке ожидающих погашения призов игрока
type PrizeTicket struct {
	ID        string      `db:"id" json:"id"`
	PlayerID  string      `db:"player_id" json:"player_id"`
	PrizeName string      `db:"prize_name" json:"prize_name"`
	Status    PrizeStatus `db:"status" json:"status"`
	Source    string      `db:"source" json:"source"`
	Time      time.Time   `db:"time" json:"time"`
	ExpireAt  *time.Time  `db:"expire_at" json:"expire_at,omitempty"`
	// Заполняется для vip карт: бэк-офис продлевает vip_expiry при погашении
	VIPLevel int `db:"vip_level" json:"vip_level,omitempty"`
	VIPHours int `db:"vip_hours" json:"vip_hours,omitempty"`
}
