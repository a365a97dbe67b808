package pgsql

import (
	"context"

	"github.com/SscSPs/billistry/internal/core/domain"
	portsrepo "github.com/SscSPs/billistry/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxAuditLogRepository struct {
	db *pgxpool.Pool
}

func newPgxAuditLogRepository(db *pgxpool.Pool) portsrepo.AuditLogRepositoryFacade {
	return &PgxAuditLogRepository{db: db}
}

var _ portsrepo.AuditLogRepositoryFacade = (*PgxAuditLogRepository)(nil)

const auditColumns = `audit_id, business_id, user_id, action, resource_type, resource_id, before, after, ip, user_agent, created_at`

func (r *PgxAuditLogRepository) AppendAuditLog(ctx context.Context, entry domain.AuditLog) error {
	query := `INSERT INTO audit_logs (` + auditColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);`
	_, err := r.db.Exec(ctx, query,
		entry.AuditID,
		entry.BusinessID,
		entry.UserID,
		entry.Action,
		entry.ResourceType,
		entry.ResourceID,
		entry.Before,
		entry.After,
		entry.IP,
		entry.UserAgent,
		entry.CreatedAt,
	)
	return mapError(err, "audit log")
}

func scanAuditLog(row pgx.Row) (domain.AuditLog, error) {
	var l domain.AuditLog
	err := row.Scan(
		&l.AuditID,
		&l.BusinessID,
		&l.UserID,
		&l.Action,
		&l.ResourceType,
		&l.ResourceID,
		&l.Before,
		&l.After,
		&l.IP,
		&l.UserAgent,
		&l.CreatedAt,
	)
	return l, err
}

func (r *PgxAuditLogRepository) ListAuditLogs(ctx context.Context, filter domain.AuditLogFilter, page int, limit int) ([]domain.AuditLog, int64, error) {
	w := newWhere("TRUE")
	if filter.BusinessID != "" {
		w.and("business_id = ?", filter.BusinessID)
	}
	if filter.UserID != "" {
		w.and("user_id = ?", filter.UserID)
	}
	if filter.Action != "" {
		w.and("action = ?", filter.Action)
	}
	if filter.ResourceType != "" {
		w.and("resource_type = ?", filter.ResourceType)
	}
	dateRange(w, "created_at", filter.DateRange)

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM audit_logs `+w.String()+`;`, w.args...).Scan(&total); err != nil {
		return nil, 0, mapError(err, "audit logs")
	}

	if page < 1 {
		page = 1
	}
	limit = clampLimit(limit)
	query := `SELECT ` + auditColumns + ` FROM audit_logs ` + w.String() +
		` ORDER BY created_at DESC LIMIT ` + w.next(limit) + ` OFFSET ` + w.next((page-1)*limit) + `;`
	rows, err := r.db.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, mapError(err, "audit logs")
	}
	logs, err := collect(rows, scanAuditLog)
	if err != nil {
		return nil, 0, mapError(err, "audit logs")
	}
	return logs, total, nil
}
