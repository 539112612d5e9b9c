package domain

import "time"

// Member - участник клуба со всеми балансами
type Member struct {
	PFID            string     `db:"pfid" json:"pfid"`
	Name            string     `db:"name" json:"name"`
	XP              int64      `db:"xp" json:"xp"`                             // постоянная валюта
	BonusXP         int64      `db:"bonus_xp" json:"bonus_xp"`                 // сгорает через 72 часа
	BonusGrantedAt  *time.Time `db:"bonus_granted_at" json:"bonus_granted_at"` // время последнего начисления бонуса
	VIPLevel        int        `db:"vip_level" json:"vip_level"`               // 0-4
	VIPExpiry       *time.Time `db:"vip_expiry" json:"vip_expiry"`
	VIPPoints       int64      `db:"vip_points" json:"vip_points"`
	LastCheckin     *time.Time `db:"last_checkin" json:"last_checkin"`
	ConsecutiveDays int        `db:"consecutive_days" json:"consecutive_days"`
	JoinDate        time.Time  `db:"join_date" json:"join_date"`
}

// Горизонт сгорания бонусного XP с момента последнего начисления
const BonusXPTTL = 72 * time.Hour

// SpendableXP возвращает сумму, доступную для трат на момент now
// (бонусный XP учитывается только пока не истёк)
func (m *Member) SpendableXP(now time.Time) int64 {
	return m.XP + m.LiveBonusXP(now)
}

// LiveBonusXP возвращает неистёкший бонусный XP
func (m *Member) LiveBonusXP(now time.Time) int64 {
	if m.BonusGrantedAt == nil || now.Sub(*m.BonusGrantedAt) > BonusXPTTL {
		return 0
	}
	return m.BonusXP
}

// VIPActive проверяет что vip уровень ещё действует
func (m *Member) VIPActive(now time.Time) bool {
	return m.VIPLevel > 0 && m.VIPExpiry != nil && m.VIPExpiry.After(now)
}
