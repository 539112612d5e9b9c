package service

import (
	"context"

	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/domain"
	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/redisdb"
	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TournamentService фиксирует результаты живых турниров: комиссия
// возвращается игроку постоянным XP, очки идут в оба лидерборда,
// запись турнира питает турнирные критерии миссий. Всё в одной
// транзакции.
type TournamentService struct {
	db        txStarter
	members   memberStore
	journal   journalStore
	boards    boardStore
	records   tournamentStore
	projector *redisdb.BoardProjector
}

func NewTournamentService(db *pgxpool.Pool, projector *redisdb.BoardProjector) *TournamentService {
	return &TournamentService{
		db:        db,
		members:   repository.NewMemberRepository(db),
		journal:   repository.NewTransactionRepository(db),
		boards:    repository.NewLeaderboardRepository(db),
		records:   repository.NewTournamentRepository(db),
		projector: projector,
	}
}

// Record начисляет результат турнира игроку
func (s *TournamentService) Record(ctx context.Context, pfid string, buyIn, fee, points int64, rank int) (*domain.TournamentRecord, error) {
	if fee < 0 || points < 0 {
		return nil, domain.ErrStakeOutOfRange
	}

	rec := &domain.TournamentRecord{
		PlayerID: pfid,
		BuyIn:    buyIn,
		Fee:      fee,
		Rank:     rank,
		Points:   points,
	}
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
		if fee > 0 {
			m.XP += fee
			if err := s.members.UpdateBalancesTx(ctx, tx, m); err != nil {
				return err
			}
			if err := s.journal.CreateTx(ctx, tx, &domain.Transaction{
				PlayerID: pfid,
				GameType: "tournament",
				Action:   domain.TxActionWin,
				Amount:   fee,
			}); err != nil {
				return err
			}
		}
		if points > 0 {
			if err := s.boards.AddPointsTx(ctx, tx, pfid, points, points); err != nil {
				return err
			}
		}
		if err := s.records.CreateTx(ctx, tx, rec); err != nil {
			return err
		}
		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	if points > 0 {
		s.projector.AddPoints(ctx, pfid, points, points)
	}
	return rec, nil
}
