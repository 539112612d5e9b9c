package repository

import (
	"context"

	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PrizeRepository struct {
	db *pgxpool.Pool
}

func NewPrizeRepository(db *pgxpool.Pool) *PrizeRepository {
	return &PrizeRepository{db: db}
}

// создаёт билет в рамках транзакции выдачи
func (r *PrizeRepository) CreateTx(ctx context.Context, tx pgx.Tx, t *domain.PrizeTicket) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO prizes (id, player_id, prize_name, status, source, time, expire_at, vip_level, vip_hours)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		t.ID, t.PlayerID, t.PrizeName, t.Status, t.Source, t.Time, t.ExpireAt, t.VIPLevel, t.VIPHours)
	return err
}

// возвращает билеты игрока, свежие сверху
func (r *PrizeRepository) ListByPlayer(ctx context.Context, playerID string, limit int) ([]domain.PrizeTicket, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, player_id, prize_name, status, source, time, expire_at, vip_level, vip_hours
		 FROM prizes
		 WHERE player_id = $1
		 ORDER BY time DESC
		 LIMIT $2`,
		playerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []domain.PrizeTicket
	for rows.Next() {
		var t domain.PrizeTicket
		if err := rows.Scan(&t.ID, &t.PlayerID, &t.PrizeName, &t.Status, &t.Source,
			&t.Time, &t.ExpireAt, &t.VIPLevel, &t.VIPHours); err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

// Redeem гасит pending-билет. Повторное погашение - отказ.
func (r *PrizeRepository) Redeem(ctx context.Context, ticketID string) (*domain.PrizeTicket, error) {
	var t domain.PrizeTicket
	err := r.db.QueryRow(ctx,
		`UPDATE prizes SET status = $1
		 WHERE id = $2 AND status = $3
		 RETURNING id, player_id, prize_name, status, source, time, expire_at, vip_level, vip_hours`,
		domain.PrizeStatusRedeemed, ticketID, domain.PrizeStatusPending,
	).Scan(&t.ID, &t.PlayerID, &t.PrizeName, &t.Status, &t.Source, &t.Time, &t.ExpireAt, &t.VIPLevel, &t.VIPHours)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
