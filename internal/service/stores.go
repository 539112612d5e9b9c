package service

import (
	"context"
	"time"

	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/domain"

	"github.com/jackc/pgx/v5"
)

// Хранилища, через которые сервисы ходят в БД. Боевые реализации живут
// в internal/repository, тесты подставляют фейки в памяти.

type txStarter interface {
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

type memberStore interface {
	GetByID(ctx context.Context, pfid string) (*domain.Member, error)
	GetOrCreate(ctx context.Context, pfid, name string) (*domain.Member, error)
	GetForUpdateTx(ctx context.Context, tx pgx.Tx, pfid string) (*domain.Member, error)
	UpdateBalancesTx(ctx context.Context, tx pgx.Tx, m *domain.Member) error
	UpdateNameTx(ctx context.Context, tx pgx.Tx, pfid, name string) error
	SetVIPTx(ctx context.Context, tx pgx.Tx, pfid string, level int, expiry time.Time) error
	SetCheckinTx(ctx context.Context, tx pgx.Tx, pfid string, day time.Time, streak int) error
}

type journalStore interface {
	CreateTx(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error
	ListByPlayer(ctx context.Context, playerID string, limit int) ([]domain.Transaction, error)
	CountSince(ctx context.Context, playerID string, action domain.TxAction, gameType string, since time.Time) (int64, error)
}

type boardStore interface {
	AddPointsTx(ctx context.Context, tx pgx.Tx, playerID string, hero, monthly int64) error
	HeroPoints(ctx context.Context, playerID string) (int64, error)
}

type inventoryStore interface {
	GetByID(ctx context.Context, id int64) (*domain.InventoryItem, error)
	GetByName(ctx context.Context, name string) (*domain.InventoryItem, error)
	ListAvailable(ctx context.Context, market domain.Market, rankLevel int) ([]domain.InventoryItem, error)
	ReserveTx(ctx context.Context, tx pgx.Tx, itemID int64) error
	Stock(ctx context.Context, itemID int64) (int, error)
}

type prizeStore interface {
	CreateTx(ctx context.Context, tx pgx.Tx, t *domain.PrizeTicket) error
	ListByPlayer(ctx context.Context, playerID string, limit int) ([]domain.PrizeTicket, error)
}

type missionStore interface {
	ListActive(ctx context.Context) ([]*domain.Mission, error)
	GetByID(ctx context.Context, id int64) (*domain.Mission, error)
	RecordClaimTx(ctx context.Context, tx pgx.Tx, playerID string, missionID int64, windowStart time.Time) error
	ClaimsSince(ctx context.Context, playerID string, since time.Time) (map[int64]time.Time, error)
}

type tournamentStore interface {
	CreateTx(ctx context.Context, tx pgx.Tx, rec *domain.TournamentRecord) error
	CountSince(ctx context.Context, playerID string, since time.Time) (int64, error)
	CountDistinctDaysSince(ctx context.Context, playerID string, since time.Time) (int64, error)
}
