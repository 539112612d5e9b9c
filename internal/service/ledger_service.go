package service

import (
	"context"
	"time"

	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/domain"
	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/redisdb"
	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LedgerService - единственная точка изменения балансов. Каждая операция
// выполняется в одной транзакции БД: блокировка строки участника, проверка
// покрытия, запись остатков и строка журнала коммитятся вместе.
type LedgerService struct {
	db        txStarter
	members   memberStore
	journal   journalStore
	boards    boardStore
	projector *redisdb.BoardProjector
}

func NewLedgerService(db *pgxpool.Pool, projector *redisdb.BoardProjector) *LedgerService {
	return &LedgerService{
		db:        db,
		members:   repository.NewMemberRepository(db),
		journal:   repository.NewTransactionRepository(db),
		boards:    repository.NewLeaderboardRepository(db),
		projector: projector,
	}
}

// SpendSplit делит списание между бонусным и постоянным XP.
// Бонусный тратится первым. Чистая функция.
func SpendSplit(liveBonus, xp, amount int64) (fromBonus, fromXP int64, err error) {
	if amount <= 0 {
		return 0, 0, domain.ErrStakeOutOfRange
	}
	if liveBonus+xp < amount {
		return 0, 0, domain.ErrInsufficientFunds
	}
	fromBonus = amount
	if fromBonus > liveBonus {
		fromBonus = liveBonus
	}
	return fromBonus, amount - fromBonus, nil
}

// Member возвращает участника. Просроченный бонус виден как ноль.
func (s *LedgerService) Member(ctx context.Context, pfid string) (*domain.Member, error) {
	return s.members.GetByID(ctx, pfid)
}

func (s *LedgerService) Register(ctx context.Context, pfid, name string) (*domain.Member, error) {
	return s.members.GetOrCreate(ctx, pfid, name)
}

// HeroPoints - очки героя игрока, счёт для вычисления ранга
func (s *LedgerService) HeroPoints(ctx context.Context, pfid string) (int64, error) {
	return s.boards.HeroPoints(ctx, pfid)
}

// expireLocked убирает из заблокированной строки мёртвый бонусный остаток
func (s *LedgerService) expireLocked(m *domain.Member) {
	if m.BonusXP > 0 && m.LiveBonusXP(time.Now()) == 0 {
		m.BonusXP = 0
		m.BonusGrantedAt = nil
	}
}

// Debit списывает amount со spendable-остатка: сначала бонусный XP,
// затем постоянный. Недостаточное покрытие - отказ без изменений.
func (s *LedgerService) Debit(ctx context.Context, pfid string, amount int64, gameType string) (*domain.Member, error) {
	var result *domain.Member
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
		s.expireLocked(m)

		fromBonus, fromXP, err := SpendSplit(m.BonusXP, m.XP, amount)
		if err != nil {
			return err
		}
		m.BonusXP -= fromBonus
		m.XP -= fromXP

		if err := s.members.UpdateBalancesTx(ctx, tx, m); err != nil {
			return err
		}
		if err := s.journal.CreateTx(ctx, tx, &domain.Transaction{
			PlayerID: pfid,
			GameType: gameType,
			Action:   domain.TxActionBet,
			Amount:   -amount,
		}); err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}
		result = m
		return nil
	})
	return result, err
}

// Credit зачисляет выигрыш или награду в постоянный XP
func (s *LedgerService) Credit(ctx context.Context, pfid string, amount int64, gameType string, action domain.TxAction) (*domain.Member, error) {
	if amount <= 0 {
		return nil, domain.ErrStakeOutOfRange
	}
	var result *domain.Member
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
		s.expireLocked(m)
		m.XP += amount

		if err := s.members.UpdateBalancesTx(ctx, tx, m); err != nil {
			return err
		}
		if err := s.journal.CreateTx(ctx, tx, &domain.Transaction{
			PlayerID: pfid,
			GameType: gameType,
			Action:   action,
			Amount:   amount,
		}); err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}
		result = m
		return nil
	})
	return result, err
}

// GrantBonus начисляет сгорающий бонусный XP. Начисление обновляет
// отметку времени, продлевая жизнь всему бонусному остатку.
func (s *LedgerService) GrantBonus(ctx context.Context, pfid string, amount int64, gameType string) (*domain.Member, error) {
	if amount <= 0 {
		return nil, domain.ErrStakeOutOfRange
	}
	var result *domain.Member
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
		s.expireLocked(m)

		now := time.Now()
		m.BonusXP += amount
		m.BonusGrantedAt = &now

		if err := s.members.UpdateBalancesTx(ctx, tx, m); err != nil {
			return err
		}
		if err := s.journal.CreateTx(ctx, tx, &domain.Transaction{
			PlayerID: pfid,
			GameType: gameType,
			Action:   domain.TxActionBonus,
			Amount:   amount,
		}); err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}
		result = m
		return nil
	})
	return result, err
}

// SpendVIPPoints списывает VP (покупки в магазине за VP)
func (s *LedgerService) SpendVIPPoints(ctx context.Context, pfid string, amount int64) (*domain.Member, error) {
	if amount <= 0 {
		return nil, domain.ErrStakeOutOfRange
	}
	var result *domain.Member
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
		if m.VIPPoints < amount {
			return domain.ErrInsufficientFunds
		}
		m.VIPPoints -= amount

		if err := s.members.UpdateBalancesTx(ctx, tx, m); err != nil {
			return err
		}
		if err := s.journal.CreateTx(ctx, tx, &domain.Transaction{
			PlayerID: pfid,
			GameType: "mall",
			Action:   domain.TxActionBet,
			Amount:   -amount,
		}); err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}
		result = m
		return nil
	})
	return result, err
}

// AddBoardPoints начисляет очки героя и месяца. Postgres - источник
// истины, проекция в Redis обновляется после коммита и может отстать.
func (s *LedgerService) AddBoardPoints(ctx context.Context, pfid string, hero, monthly int64) error {
	if hero <= 0 && monthly <= 0 {
		return nil
	}
	err := withRetry(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(ctx) }()

		if err := s.boards.AddPointsTx(ctx, tx, pfid, hero, monthly); err != nil {
			return err
		}
		return tx.Commit(ctx)
	})
	if err != nil {
		return err
	}
	s.projector.AddPoints(ctx, pfid, hero, monthly)
	return nil
}

// History возвращает последние операции журнала игрока
func (s *LedgerService) History(ctx context.Context, pfid string, limit int) ([]domain.Transaction, error) {
	return s.journal.ListByPlayer(ctx, pfid, limit)
}
