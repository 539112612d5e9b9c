package domain

import "time"

// Типы миссий определяют начало окна
type MissionType string

const (
	MissionDaily   MissionType = "Daily"
	MissionWeekly  MissionType = "Weekly"
	MissionMonthly MissionType = "Monthly"
	MissionSeason  MissionType = "Season"
)

// Эпоха сезонных миссий
var SeasonEpoch = time.Date(2020, 1, 1, 0, 0, 0, 0, time.Local)

// Критерии выполнения, по одному вычислителю на вариант
type MissionCriteria string

const (
	CriteriaDailyCheckin       MissionCriteria = "daily_checkin"
	CriteriaConsecutiveCheckin MissionCriteria = "consecutive_checkin"
	CriteriaDailyWin           MissionCriteria = "daily_win"
	CriteriaGamePlayCount      MissionCriteria = "game_play_count"
	CriteriaTournamentCount    MissionCriteria = "tournament_count"
	CriteriaMonthlyDays        MissionCriteria = "monthly_days"
	CriteriaRankLevel          MissionCriteria = "rank_level"
	CriteriaVIPLevel           MissionCriteria = "vip_level"
	CriteriaVIPDuration        MissionCriteria = "vip_duration"
)

// Mission - повторяемое задание с наградой
type Mission struct {
	ID              int64           `db:"id" json:"id"`
	Title           string          `db:"title" json:"title"`
	Description     string          `db:"description" json:"description"`
	RewardXP        int64           `db:"reward_xp" json:"reward_xp"`
	RewardSKU       string          `db:"reward_sku" json:"reward_sku"` // пусто = только XP
	Type            MissionType     `db:"mission_type" json:"mission_type"`
	Criteria        MissionCriteria `db:"criteria" json:"criteria"`
	TargetValue     int64           `db:"target_value" json:"target_value"`
	MinVIPLevel     int             `db:"min_vip_level" json:"min_vip_level"`
	MinRankLevel    int             `db:"min_rank_level" json:"min_rank_level"`
	TimeLimitMonths int             `db:"time_limit_months" json:"time_limit_months"` // доступна только аккаунтам моложе n месяцев, 0 = без ограничения
	RecurringMonths int             `db:"recurring_months" json:"recurring_months"`   // повтор каждые n месяцев, 0 = раз в окно
	Active          bool            `db:"active" json:"active"`
}

// WindowStart возвращает начало текущего окна миссии
func (m *Mission) WindowStart(now time.Time) time.Time {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch m.Type {
	case MissionWeekly:
		// последний понедельник
		offset := (int(now.Weekday()) + 6) % 7
		return midnight.AddDate(0, 0, -offset)
	case MissionMonthly:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	case MissionSeason:
		return SeasonEpoch
	default:
		return midnight
	}
}

// MissionLog - запись об успешном получении награды, защищает от повторного клейма
type MissionLog struct {
	ID        int64     `db:"id" json:"id"`
	PlayerID  string    `db:"player_id" json:"player_id"`
	MissionID int64     `db:"mission_id" json:"mission_id"`
	ClaimTime time.Time `db:"claim_time" json:"claim_time"`
}

// MissionStatus - вычисленное состояние миссии для игрока
type MissionStatus struct {
	Mission    *Mission `json:"mission"`
	Met        bool     `json:"met"`
	Claimed    bool     `json:"claimed"`
	CurrentVal int64    `json:"current_val"`
}
