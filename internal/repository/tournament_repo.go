package repository

import (
	"context"
	"time"

	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TournamentRepository хранит результаты живых турниров. Записи служат
// источником для турнирных критериев миссий.
type TournamentRepository struct {
	db *pgxpool.Pool
}

func NewTournamentRepository(db *pgxpool.Pool) *TournamentRepository {
	return &TournamentRepository{db: db}
}

// пишет результат в транзакции начисления
func (r *TournamentRepository) CreateTx(ctx context.Context, tx pgx.Tx, rec *domain.TournamentRecord) error {
	return tx.QueryRow(ctx,
		`INSERT INTO tournament_records (player_id, buy_in, fee, rank, points, time)
		 VALUES ($1, $2, $3, $4, $5, NOW())
		 RETURNING id, time`,
		rec.PlayerID, rec.BuyIn, rec.Fee, rec.Rank, rec.Points,
	).Scan(&rec.ID, &rec.Time)
}

// число турниров игрока в окне
func (r *TournamentRepository) CountSince(ctx context.Context, playerID string, since time.Time) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM tournament_records WHERE player_id = $1 AND time >= $2`,
		playerID, since,
	).Scan(&n)
	return n, err
}

// число различных турнирных дней игрока в окне
func (r *TournamentRepository) CountDistinctDaysSince(ctx context.Context, playerID string, since time.Time) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(DISTINCT time::date) FROM tournament_records WHERE player_id = $1 AND time >= $2`,
		playerID, since,
	).Scan(&n)
	return n, err
}
