package repositories

import (
	"context"

	"github.com/SscSPs/billistry/internal/core/domain"
)

// AuditLogWriter appends audit entries. There is no update or delete.
type AuditLogWriter interface {
	AppendAuditLog(ctx context.Context, entry domain.AuditLog) error
}

// AuditLogReader lists audit entries newest first.
type AuditLogReader interface {
	// ListAuditLogs returns one page of matching entries and the total match count.
	ListAuditLogs(ctx context.Context, filter domain.AuditLogFilter, page int, limit int) ([]domain.AuditLog, int64, error)
}

// AuditLogRepositoryFacade combines all audit-related repository interfaces
type AuditLogRepositoryFacade interface {
	AuditLogWriter
	AuditLogReader
}
