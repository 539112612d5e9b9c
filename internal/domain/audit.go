package domain

import "time"

// Логирование действий бэк-офиса: кто и что менял
type AdminAudit struct {
	ID        int64                  `db:"id" json:"id"`
	AdminID   int64                  `db:"admin_id" json:"admin_id"`
	Action    string                 `db:"action" json:"action"`
	Details   map[string]interface{} `db:"details" json:"details"`
	CreatedAt time.Time              `db:"created_at" json:"created_at"`
}

// Действия админов
const (
	AuditActionSettingSet = "setting_set"
	AuditActionAirdrop    = "airdrop"
	AuditActionMonthClose = "month_close"
	AuditActionTournament = "tournament_record"
	AuditActionRedeem     = "prize_redeem"
)
