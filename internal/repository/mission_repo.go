package repository

import (
	"context"
	"errors"
	"time"

	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MissionRepository struct {
	db *pgxpool.Pool
}

func NewMissionRepository(db *pgxpool.Pool) *MissionRepository {
	return &MissionRepository{db: db}
}

const missionColumns = `id, title, description, reward_xp, reward_sku, mission_type, criteria,
	target_value, min_vip_level, min_rank_level, time_limit_months, recurring_months, active`

func scanMission(row pgx.Row) (*domain.Mission, error) {
	var m domain.Mission
	err := row.Scan(&m.ID, &m.Title, &m.Description, &m.RewardXP, &m.RewardSKU, &m.Type, &m.Criteria,
		&m.TargetValue, &m.MinVIPLevel, &m.MinRankLevel, &m.TimeLimitMonths, &m.RecurringMonths, &m.Active)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// возвращает все активные миссии
func (r *MissionRepository) ListActive(ctx context.Context) ([]*domain.Mission, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+missionColumns+` FROM missions WHERE active = true ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Mission
	for rows.Next() {
		m, err := scanMission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *MissionRepository) GetByID(ctx context.Context, id int64) (*domain.Mission, error) {
	m, err := scanMission(r.db.QueryRow(ctx,
		`SELECT `+missionColumns+` FROM missions WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrMissionNotEligible
	}
	return m, err
}

// фиксирует клейм внутри транзакции выдачи награды. От гонки двух
// клеймов защищает блокировка строки участника, взятая вызывающим
// в той же транзакции; NOT EXISTS закрывает повтор внутри окна.
func (r *MissionRepository) RecordClaimTx(ctx context.Context, tx pgx.Tx, playerID string, missionID int64, windowStart time.Time) error {
	tag, err := tx.Exec(ctx,
		`INSERT INTO mission_logs (player_id, mission_id, claim_time)
		 SELECT $1, $2, NOW()
		 WHERE NOT EXISTS (
			SELECT 1 FROM mission_logs
			WHERE player_id = $1 AND mission_id = $2 AND claim_time >= $3
		 )`,
		playerID, missionID, windowStart)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAlreadyClaimed
	}
	return nil
}

// клеймы игрока по списку миссий с момента их окон, для вычисления Claimed в статусах
func (r *MissionRepository) ClaimsSince(ctx context.Context, playerID string, since time.Time) (map[int64]time.Time, error) {
	rows, err := r.db.Query(ctx,
		`SELECT mission_id, MAX(claim_time)
		 FROM mission_logs
		 WHERE player_id = $1 AND claim_time >= $2
		 GROUP BY mission_id`,
		playerID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64]time.Time)
	for rows.Next() {
		var id int64
		var t time.Time
		if err := rows.Scan(&id, &t); err != nil {
			return nil, err
		}
		out[id] = t
	}
	return out, rows.Err()
}
