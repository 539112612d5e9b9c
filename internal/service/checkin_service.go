package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/config"
	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/domain"
	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/game"
	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/metrics"
	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CheckinService - ежедневный чекин со случайным бонусом и серией
type CheckinService struct {
	db       txStarter
	members  memberStore
	journal  journalStore
	prizes   prizeStore
	settings *config.Settings
}

func NewCheckinService(db *pgxpool.Pool, settings *config.Settings) *CheckinService {
	return &CheckinService{
		db:       db,
		members:  repository.NewMemberRepository(db),
		journal:  repository.NewTransactionRepository(db),
		prizes:   repository.NewPrizeRepository(db),
		settings: settings,
	}
}

// CheckinResult - итог чекина
type CheckinResult struct {
	Bonus  int64          `json:"bonus"`
	Streak int            `json:"streak"`
	Member *domain.Member `json:"member"`
}

// rollBonus выбирает сумму в [min, max] с кубической кривой:
// крупные суммы выпадают редко. VIP-надбавка применяется сверху.
func rollBonus(min, max int64, u, vipBonusPct float64) int64 {
	base := float64(min) + float64(max-min)*u*u*u
	return int64(math.Round(base * (1 + vipBonusPct/100)))
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Checkin выполняет чекин. Повторный чекин того же дня - отказ.
// Бонус начисляется как сгорающий бонусный XP, серия растёт только
// при чекине на следующий день после предыдущего.
func (s *CheckinService) Checkin(ctx context.Context, pfid string) (*CheckinResult, error) {
	minB, maxB := s.settings.CheckinRange(ctx)

	var result *CheckinResult
	err := withRetry(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(ctx) }()

		m, err := s.members.GetForUpdateTx(ctx, tx, pfid)
		if err != nil {
			return err
		}

		now := time.Now()
		if m.LastCheckin != nil && sameDay(*m.LastCheckin, now) {
			return domain.ErrAlreadyCheckedIn
		}

		streak := 1
		if m.LastCheckin != nil && sameDay(m.LastCheckin.AddDate(0, 0, 1), now) {
			streak = m.ConsecutiveDays + 1
		}

		var vipPct float64
		if m.VIPActive(now) {
			vipPct = s.settings.VIPBonusPct(ctx, m.VIPLevel)
		}
		bonus := rollBonus(minB, maxB, game.SecureRandFloat(), vipPct)

		m.BonusXP = m.LiveBonusXP(now) + bonus
		m.BonusGrantedAt = &now

		if err := s.members.UpdateBalancesTx(ctx, tx, m); err != nil {
			return err
		}
		if err := s.members.SetCheckinTx(ctx, tx, pfid, now, streak); err != nil {
			return err
		}
		if err := s.journal.CreateTx(ctx, tx, &domain.Transaction{
			PlayerID: pfid,
			GameType: "checkin",
			Action:   domain.TxActionBonus,
			Amount:   bonus,
		}); err != nil {
			return err
		}
		// бонус уже зачислен, билет сразу погашен - след для витрины призов
		if err := s.prizes.CreateTx(ctx, tx, &domain.PrizeTicket{
			ID:        uuid.New().String(),
			PlayerID:  pfid,
			PrizeName: fmt.Sprintf("%d Bonus XP", bonus),
			Status:    domain.PrizeStatusRedeemed,
			Source:    domain.PrizeSourceCheckin,
			Time:      now,
		}); err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		m.LastCheckin = &now
		m.ConsecutiveDays = streak
		result = &CheckinResult{Bonus: bonus, Streak: streak, Member: m}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.CheckinsTotal.Inc()
	return result, nil
}
