package service

import (
	"context"
	"errors"
	"time"

	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/config"
	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/domain"
	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/metrics"
	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Месяц повторяемости миссий фиксирован в 30 суток
const missionMonth = 30 * 24 * time.Hour

// MissionService вычисляет состояние миссий по журналу операций
// и выдаёт награды
type MissionService struct {
	db          txStarter
	missions    missionStore
	members     memberStore
	journal     journalStore
	inventory   inventoryStore
	tournaments tournamentStore
	boards      boardStore
	settings    *config.Settings
	grants      *GrantService
}

func NewMissionService(db *pgxpool.Pool, settings *config.Settings, grants *GrantService) *MissionService {
	return &MissionService{
		db:          db,
		missions:    repository.NewMissionRepository(db),
		members:     repository.NewMemberRepository(db),
		journal:     repository.NewTransactionRepository(db),
		inventory:   repository.NewInventoryRepository(db),
		tournaments: repository.NewTournamentRepository(db),
		boards:      repository.NewLeaderboardRepository(db),
		settings:    settings,
		grants:      grants,
	}
}

// Eligible проверяет статические условия доступа к миссии.
// Чистая функция: возраст аккаунта, vip и ранг на момент now.
func Eligible(m *domain.Mission, member *domain.Member, rankLevel int, now time.Time) bool {
	if !m.Active {
		return false
	}
	if m.MinVIPLevel > 0 {
		if !member.VIPActive(now) || member.VIPLevel < m.MinVIPLevel {
			return false
		}
	}
	if m.MinRankLevel > 0 && rankLevel < m.MinRankLevel {
		return false
	}
	if m.TimeLimitMonths > 0 {
		age := now.Sub(member.JoinDate)
		if age > time.Duration(m.TimeLimitMonths)*missionMonth {
			return false
		}
	}
	return true
}

// ClaimedInWindow определяет, закрыта ли миссия предыдущим клеймом.
// Повторяемые миссии открываются заново через RecurringMonths.
func ClaimedInWindow(m *domain.Mission, lastClaim, windowStart, now time.Time) bool {
	if lastClaim.IsZero() {
		return false
	}
	if m.RecurringMonths > 0 {
		return now.Sub(lastClaim) < time.Duration(m.RecurringMonths)*missionMonth
	}
	return !lastClaim.Before(windowStart)
}

// progress вычисляет текущее значение критерия в окне миссии
func (s *MissionService) progress(ctx context.Context, m *domain.Mission, member *domain.Member, rankLevel int, now time.Time) (int64, error) {
	start := m.WindowStart(now)
	pfid := member.PFID

	switch m.Criteria {
	case domain.CriteriaDailyCheckin:
		return s.journal.CountSince(ctx, pfid, domain.TxActionBonus, "checkin", start)
	case domain.CriteriaConsecutiveCheckin:
		return int64(member.ConsecutiveDays), nil
	case domain.CriteriaDailyWin:
		return s.journal.CountSince(ctx, pfid, domain.TxActionWin, "", start)
	case domain.CriteriaGamePlayCount:
		return s.journal.CountSince(ctx, pfid, domain.TxActionBet, "", start)
	case domain.CriteriaTournamentCount:
		return s.tournaments.CountSince(ctx, pfid, start)
	case domain.CriteriaMonthlyDays:
		// различные турнирные дни, не дни чекинов
		return s.tournaments.CountDistinctDaysSince(ctx, pfid, start)
	case domain.CriteriaRankLevel:
		return int64(rankLevel), nil
	case domain.CriteriaVIPLevel:
		if !member.VIPActive(now) {
			return 0, nil
		}
		return int64(member.VIPLevel), nil
	case domain.CriteriaVIPDuration:
		// оставшиеся полные дни действия vip карты
		if !member.VIPActive(now) {
			return 0, nil
		}
		return int64(member.VIPExpiry.Sub(now).Hours() / 24), nil
	}
	return 0, nil
}

// Statuses возвращает вычисленное состояние всех доступных миссий игрока
func (s *MissionService) Statuses(ctx context.Context, pfid string) ([]domain.MissionStatus, error) {
	member, err := s.members.GetByID(ctx, pfid)
	if err != nil {
		return nil, err
	}
	missions, err := s.missions.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	rankLevel, err := s.rankLevel(ctx, pfid)
	if err != nil {
		return nil, err
	}

	// более ранние клеймы лежат вне любого защитного окна
	cutoff := now
	for _, m := range missions {
		if ws := guardWindowStart(m, now); ws.Before(cutoff) {
			cutoff = ws
		}
	}
	claims, err := s.missions.ClaimsSince(ctx, pfid, cutoff)
	if err != nil {
		return nil, err
	}

	var out []domain.MissionStatus
	for _, m := range missions {
		if !Eligible(m, member, rankLevel, now) {
			continue
		}
		current, err := s.progress(ctx, m, member, rankLevel, now)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.MissionStatus{
			Mission:    m,
			Met:        current >= m.TargetValue,
			Claimed:    ClaimedInWindow(m, claims[m.ID], m.WindowStart(now), now),
			CurrentVal: current,
		})
	}
	return out, nil
}

// начало окна защиты от повторного клейма
func guardWindowStart(m *domain.Mission, now time.Time) time.Time {
	if m.RecurringMonths > 0 {
		return now.Add(-time.Duration(m.RecurringMonths) * missionMonth)
	}
	return m.WindowStart(now)
}

// ранг игрока по очкам героя
func (s *MissionService) rankLevel(ctx context.Context, pfid string) (int, error) {
	heroPts, err := s.boards.HeroPoints(ctx, pfid)
	if err != nil {
		return 0, err
	}
	return domain.TierLevel(s.settings.Thresholds(ctx).ResolveTier(heroPts)), nil
}

// Claim выдаёт награду миссии. Проверка критерия, защита от повторного
// клейма и зачисление XP выполняются в одной транзакции.
func (s *MissionService) Claim(ctx context.Context, pfid string, missionID int64) (*domain.MissionStatus, error) {
	m, err := s.missions.GetByID(ctx, missionID)
	if err != nil {
		return nil, err
	}
	member, err := s.members.GetByID(ctx, pfid)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	rankLevel, err := s.rankLevel(ctx, pfid)
	if err != nil {
		return nil, err
	}

	if !Eligible(m, member, rankLevel, now) {
		return nil, domain.ErrMissionNotEligible
	}
	current, err := s.progress(ctx, m, member, rankLevel, now)
	if err != nil {
		return nil, err
	}
	if current < m.TargetValue {
		return nil, domain.ErrMissionNotEligible
	}

	windowStart := guardWindowStart(m, now)

	// предметная награда: складская позиция резервируется в той же
	// транзакции, что и клейм; sku вне склада выдаётся именным билетом
	var rewardItem *domain.InventoryItem
	if m.RewardSKU != "" {
		rewardItem, err = s.inventory.GetByName(ctx, m.RewardSKU)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
	}

	var ticket *domain.PrizeTicket
	err = withRetry(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(ctx) }()

		// блокировка строки участника сериализует конкурирующие клеймы:
		// второй увидит уже записанный mission_log
		locked, err := s.members.GetForUpdateTx(ctx, tx, pfid)
		if err != nil {
			return err
		}
		if err := s.missions.RecordClaimTx(ctx, tx, pfid, missionID, windowStart); err != nil {
			return err
		}

		if m.RewardXP > 0 {
			locked.XP += m.RewardXP
			if err := s.members.UpdateBalancesTx(ctx, tx, locked); err != nil {
				return err
			}
			if err := s.journal.CreateTx(ctx, tx, &domain.Transaction{
				PlayerID: pfid,
				GameType: "mission",
				Action:   domain.TxActionWin,
				Amount:   m.RewardXP,
			}); err != nil {
				return err
			}
		}

		if m.RewardSKU != "" {
			if rewardItem != nil {
				ticket, err = s.grants.IssueTx(ctx, tx, pfid, rewardItem, domain.PrizeSourceMission)
			} else {
				ticket, err = s.grants.IssueNamedTx(ctx, tx, pfid, m.RewardSKU, domain.PrizeSourceMission)
			}
			if err != nil {
				return err
			}
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	if ticket != nil {
		if rewardItem != nil {
			s.grants.afterIssue(ctx, ticket, rewardItem)
		} else {
			metrics.PrizesIssued.WithLabelValues(domain.PrizeSourceMission).Inc()
			if s.grants.notifier != nil {
				s.grants.notifier.NotifyPrizeIssued(pfid, m.RewardSKU, domain.PrizeSourceMission)
			}
		}
	}

	metrics.MissionClaims.WithLabelValues(string(m.Type)).Inc()
	return &domain.MissionStatus{Mission: m, Met: true, Claimed: true, CurrentVal: current}, nil
}
