package repository

import (
	"context"
	"errors"
	"time"

	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MemberRepository struct {
	db *pgxpool.Pool
}

func NewMemberRepository(db *pgxpool.Pool) *MemberRepository {
	return &MemberRepository{db: db}
}

const memberColumns = `pfid, name, xp, bonus_xp, bonus_granted_at, vip_level, vip_expiry,
	vip_points, last_checkin, consecutive_days, join_date`

func scanMember(row pgx.Row) (*domain.Member, error) {
	var m domain.Member
	err := row.Scan(&m.PFID, &m.Name, &m.XP, &m.BonusXP, &m.BonusGrantedAt,
		&m.VIPLevel, &m.VIPExpiry, &m.VIPPoints, &m.LastCheckin, &m.ConsecutiveDays, &m.JoinDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}
	return &m, nil
}

// возвращает участника по PFID
func (r *MemberRepository) GetByID(ctx context.Context, pfid string) (*domain.Member, error) {
	return scanMember(r.db.QueryRow(ctx,
		`SELECT `+memberColumns+` FROM members WHERE pfid = $1`, pfid))
}

// возвращает участника, создавая запись при первом обращении
func (r *MemberRepository) GetOrCreate(ctx context.Context, pfid, name string) (*domain.Member, error) {
	m, err := r.GetByID(ctx, pfid)
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, domain.ErrMemberNotFound) {
		return nil, err
	}

	return scanMember(r.db.QueryRow(ctx,
		`INSERT INTO members (pfid, name, join_date)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (pfid) DO UPDATE SET pfid = EXCLUDED.pfid
		 RETURNING `+memberColumns,
		pfid, name))
}

// блокирует строку участника в рамках транзакции леджера
func (r *MemberRepository) GetForUpdateTx(ctx context.Context, tx pgx.Tx, pfid string) (*domain.Member, error) {
	return scanMember(tx.QueryRow(ctx,
		`SELECT `+memberColumns+` FROM members WHERE pfid = $1 FOR UPDATE`, pfid))
}

// записывает новое состояние валютных остатков внутри транзакции
func (r *MemberRepository) UpdateBalancesTx(ctx context.Context, tx pgx.Tx, m *domain.Member) error {
	_, err := tx.Exec(ctx,
		`UPDATE members
		 SET xp = $1, bonus_xp = $2, bonus_granted_at = $3, vip_points = $4
		 WHERE pfid = $5`,
		m.XP, m.BonusXP, m.BonusGrantedAt, m.VIPPoints, m.PFID)
	return err
}

// меняет отображаемое имя в транзакции оплаты
func (r *MemberRepository) UpdateNameTx(ctx context.Context, tx pgx.Tx, pfid, name string) error {
	tag, err := tx.Exec(ctx, `UPDATE members SET name = $1 WHERE pfid = $2`, name, pfid)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

// активирует VIP-карту: уровень и срок действия
func (r *MemberRepository) SetVIPTx(ctx context.Context, tx pgx.Tx, pfid string, level int, expiry time.Time) error {
	_, err := tx.Exec(ctx,
		`UPDATE members SET vip_level = $1, vip_expiry = $2 WHERE pfid = $3`,
		level, expiry, pfid)
	return err
}

// фиксирует чекин: дата и длина серии
func (r *MemberRepository) SetCheckinTx(ctx context.Context, tx pgx.Tx, pfid string, day time.Time, streak int) error {
	_, err := tx.Exec(ctx,
		`UPDATE members SET last_checkin = $1, consecutive_days = $2 WHERE pfid = $3`,
		day, streak, pfid)
	return err
}
