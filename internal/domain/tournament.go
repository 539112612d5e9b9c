package domain

import "time"

// TournamentRecord - результат живого турнира. Комиссия возвращается
// игроку постоянным XP, очки идут в оба лидерборда.
type TournamentRecord struct {
	ID       int64     `db:"id" json:"id"`
	PlayerID string    `db:"player_id" json:"player_id"`
	BuyIn    int64     `db:"buy_in" json:"buy_in"`
	Fee      int64     `db:"fee" json:"fee"` // фактическая комиссия
	Rank     int       `db:"rank" json:"rank"`
	Points   int64     `db:"points" json:"points"`
	Time     time.Time `db:"time" json:"time"`
}
