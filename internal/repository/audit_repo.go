package repository

import (
	"context"
	"encoding/json"

	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// отвечает за операции с базой данных для журнала действий админов
type AuditRepository struct {
	db *pgxpool.Pool
}

func NewAuditRepository(db *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{db: db}
}

// создает новую запись в журнале
func (r *AuditRepository) Create(ctx context.Context, log *domain.AdminAudit) error {
	detailsJSON, err := json.Marshal(log.Details)
	if err != nil {
		detailsJSON = []byte("{}")
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO admin_audit (admin_id, action, details)
		VALUES ($1, $2, $3)
	`, log.AdminID, log.Action, detailsJSON)
	return err
}

// возвращает записи по действию
func (r *AuditRepository) ListByAction(ctx context.Context, action string, limit int) ([]*domain.AdminAudit, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, admin_id, action, details, created_at
		FROM admin_audit
		WHERE action = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, action, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAuditLogs(rows)
}

// возвращает самые последние записи
func (r *AuditRepository) Recent(ctx context.Context, limit int) ([]*domain.AdminAudit, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, admin_id, action, details, created_at
		FROM admin_audit
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAuditLogs(rows)
}

// преобразует строки из БД в структуры AdminAudit
func scanAuditLogs(rows pgx.Rows) ([]*domain.AdminAudit, error) {
	var logs []*domain.AdminAudit
	for rows.Next() {
		var log domain.AdminAudit
		var detailsJSON []byte
		if err := rows.Scan(&log.ID, &log.AdminID, &log.Action, &detailsJSON, &log.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(detailsJSON, &log.Details); err != nil {
			log.Details = make(map[string]interface{})
		}
		logs = append(logs, &log)
	}
	return logs, rows.Err()
}
