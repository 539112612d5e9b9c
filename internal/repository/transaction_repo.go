package repository

import (
	"context"
	"time"

	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TransactionRepository пишет журнал операций. Журнал только добавляется
// и служит read model для прогресса миссий.
type TransactionRepository struct {
	db *pgxpool.Pool
}

func NewTransactionRepository(db *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// пишет строку журнала в транзакции леджера
func (r *TransactionRepository) CreateTx(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	return tx.QueryRow(ctx,
		`INSERT INTO game_transactions (player_id, game_type, action_type, amount, created_at)
		 VALUES ($1, $2, $3, $4, NOW())
		 RETURNING id, created_at`,
		t.PlayerID, t.GameType, t.Action, t.Amount,
	).Scan(&t.ID, &t.CreatedAt)
}

// возвращает последние операции игрока
func (r *TransactionRepository) ListByPlayer(ctx context.Context, playerID string, limit int) ([]domain.Transaction, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, player_id, game_type, action_type, amount, created_at
		 FROM game_transactions
		 WHERE player_id = $1
		 ORDER BY id DESC
		 LIMIT $2`,
		playerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(&t.ID, &t.PlayerID, &t.GameType, &t.Action, &t.Amount, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// число операций игрока в окне, опционально по подсистеме
func (r *TransactionRepository) CountSince(ctx context.Context, playerID string, action domain.TxAction, gameType string, since time.Time) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM game_transactions
		 WHERE player_id = $1 AND action_type = $2 AND created_at >= $3
		   AND ($4 = '' OR game_type = $4)`,
		playerID, action, since, gameType,
	).Scan(&n)
	return n, err
}

// сумма операций игрока в окне, опционально по подсистеме
func (r *TransactionRepository) SumSince(ctx context.Context, playerID string, action domain.TxAction, gameType string, since time.Time) (int64, error) {
	var sum int64
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM game_transactions
		 WHERE player_id = $1 AND action_type = $2 AND created_at >= $3
		   AND ($4 = '' OR game_type = $4)`,
		playerID, action, since, gameType,
	).Scan(&sum)
	return sum, err
}
