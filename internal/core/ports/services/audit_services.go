package services

import (
	"context"

	"github.com/SscSPs/billistry/internal/core/domain"
	"github.com/SscSPs/billistry/internal/dto"
)

// AuditRecorder writes audit entries on a best-effort basis. Failures are
// logged, never returned.
type AuditRecorder interface {
	Record(ctx context.Context, actor domain.Actor, action domain.AuditAction, resourceType, resourceID string, before, after any)
}

// AuditSvcFacade records and lists audit entries.
type AuditSvcFacade interface {
	AuditRecorder
	ListAuditLogs(ctx context.Context, actor domain.Actor, params dto.ListAuditLogsParams) (*dto.ListAuditLogsResponse, error)
}

// ReportingSvcFacade provides business summaries.
type ReportingSvcFacade interface {
	Overview(ctx context.Context, actor domain.Actor, dateRange domain.DateRange) (*domain.BusinessOverview, error)
}
