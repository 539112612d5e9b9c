package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// HistoryRepository хранит ленты завершённых раундов для витрин:
// бисерная дорожка баккары, последние номера рулетки.
type HistoryRepository struct {
	db *pgxpool.Pool
}

func NewHistoryRepository(db *pgxpool.Pool) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// добавляет запись в ленту игры внутри транзакции раунда
func (r *HistoryRepository) AppendTx(ctx context.Context, tx pgx.Tx, gameType, entry string) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO round_history (game_type, entry, created_at) VALUES ($1, $2, NOW())`,
		gameType, entry)
	return err
}

// последние записи ленты, свежие сверху
func (r *HistoryRepository) Recent(ctx context.Context, gameType string, limit int) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT entry FROM round_history
		 WHERE game_type = $1
		 ORDER BY id DESC
		 LIMIT $2`,
		gameType, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var e string
		if err := rows.Scan(&e); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// подрезает ленту до последних keep записей
func (r *HistoryRepository) Trim(ctx context.Context, gameType string, keep int) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM round_history
		 WHERE game_type = $1 AND id NOT IN (
			SELECT id FROM round_history WHERE game_type = $1 ORDER BY id DESC LIMIT $2
		 )`,
		gameType, keep)
	return err
}
