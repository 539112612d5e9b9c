package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LeaderboardEntry - строка таблицы лидеров
type LeaderboardEntry struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Points   int64  `json:"points"`
}

// LeaderboardRepository ведёт накопительные очки героя и месяца.
// Постоянное хранилище - Postgres, Redis служит горячей проекцией.
type LeaderboardRepository struct {
	db *pgxpool.Pool
}

func NewLeaderboardRepository(db *pgxpool.Pool) *LeaderboardRepository {
	return &LeaderboardRepository{db: db}
}

// добавляет очки игроку внутри транзакции леджера
func (r *LeaderboardRepository) AddPointsTx(ctx context.Context, tx pgx.Tx, playerID string, hero, monthly int64) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO leaderboard (player_id, hero_points, monthly_points)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (player_id) DO UPDATE
		 SET hero_points = leaderboard.hero_points + EXCLUDED.hero_points,
		     monthly_points = leaderboard.monthly_points + EXCLUDED.monthly_points`,
		playerID, hero, monthly)
	return err
}

// HeroPoints - накопленные очки героя игрока, счёт для вычисления ранга.
// Отсутствующая строка читается как ноль.
func (r *LeaderboardRepository) HeroPoints(ctx context.Context, playerID string) (int64, error) {
	var pts int64
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE((SELECT hero_points FROM leaderboard WHERE player_id = $1), 0)`,
		playerID,
	).Scan(&pts)
	return pts, err
}

func (r *LeaderboardRepository) top(ctx context.Context, column string, limit int) ([]LeaderboardEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT l.player_id, m.name, l.`+column+`
		 FROM leaderboard l
		 JOIN members m ON m.pfid = l.player_id
		 WHERE l.`+column+` > 0
		 ORDER BY l.`+column+` DESC, l.player_id
		 LIMIT $1`,
		limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LeaderboardEntry
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.PlayerID, &e.Name, &e.Points); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *LeaderboardRepository) TopHero(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	return r.top(ctx, "hero_points", limit)
}

func (r *LeaderboardRepository) TopMonthly(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	return r.top(ctx, "monthly_points", limit)
}

// фиксирует победителя месяца и обнуляет месячные очки
func (r *LeaderboardRepository) CloseMonth(ctx context.Context, month time.Time) (*LeaderboardEntry, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var winner LeaderboardEntry
	err = tx.QueryRow(ctx,
		`SELECT l.player_id, m.name, l.monthly_points
		 FROM leaderboard l
		 JOIN members m ON m.pfid = l.player_id
		 ORDER BY l.monthly_points DESC, l.player_id
		 LIMIT 1`,
	).Scan(&winner.PlayerID, &winner.Name, &winner.Points)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO monthly_god (player_id, points, month) VALUES ($1, $2, $3)`,
		winner.PlayerID, winner.Points, month); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, `UPDATE leaderboard SET monthly_points = 0`); err != nil {
		return nil, err
	}

	return &winner, tx.Commit(ctx)
}

// MonthlyGod - победитель закрытого месяца
type MonthlyGod struct {
	PlayerID string    `json:"player_id"`
	Points   int64     `json:"points"`
	Month    time.Time `json:"month"`
}

// история победителей месяца
func (r *LeaderboardRepository) Gods(ctx context.Context, limit int) ([]MonthlyGod, error) {
	rows, err := r.db.Query(ctx,
		`SELECT player_id, points, month FROM monthly_god ORDER BY month DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MonthlyGod
	for rows.Next() {
		var g MonthlyGod
		if err := rows.Scan(&g.PlayerID, &g.Points, &g.Month); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
