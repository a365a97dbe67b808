package services

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/SscSPs/billistry/internal/apperrors"
	"github.com/SscSPs/billistry/internal/core/domain"
	portsrepo "github.com/SscSPs/billistry/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/billistry/internal/core/ports/services"
	"github.com/SscSPs/billistry/internal/dto"
	"github.com/SscSPs/billistry/internal/middleware"
	"github.com/google/uuid"
)

// auditService records and lists audit entries.
type auditService struct {
	BaseService
	auditRepo portsrepo.AuditLogRepositoryFacade
}

// NewAuditService creates a new audit service.
func NewAuditService(repo portsrepo.AuditLogRepositoryFacade, opts ...ServiceOption) portssvc.AuditSvcFacade {
	svc := &auditService{auditRepo: repo}
	svc.apply(opts)
	return svc
}

var _ portssvc.AuditSvcFacade = (*auditService)(nil)

func snapshot(v any) json.RawMessage {
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil || string(raw) == "null" {
		return nil
	}
	return raw
}

// Record appends an audit entry. Failures are logged and swallowed so the
// audited operation is never affected.
func (s *auditService) Record(ctx context.Context, actor domain.Actor, action domain.AuditAction, resourceType, resourceID string, before, after any) {
	meta := middleware.RequestMetaFromCtx(ctx)
	entry := domain.AuditLog{
		AuditID:      uuid.NewString(),
		UserID:       actor.UserID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Before:       snapshot(before),
		After:        snapshot(after),
		IP:           meta.IP,
		UserAgent:    meta.UserAgent,
		CreatedAt:    s.Now(),
	}
	if actor.BusinessID != "" {
		businessID := actor.BusinessID
		entry.BusinessID = &businessID
	}

	// Written even when the request context is already cancelled.
	if err := s.auditRepo.AppendAuditLog(context.WithoutCancel(ctx), entry); err != nil {
		s.LogError(ctx, err, "Failed to write audit log",
			slog.String("action", string(action)),
			slog.String("resource_type", resourceType),
			slog.String("resource_id", resourceID))
	}
}

// ListAuditLogs lists entries for shopkeepers (own business) and superadmins (any).
func (s *auditService) ListAuditLogs(ctx context.Context, actor domain.Actor, params dto.ListAuditLogsParams) (*dto.ListAuditLogsResponse, error) {
	if err := actor.Allow(domain.RoleShopkeeper); err != nil {
		return nil, err
	}

	dateRange, err := domain.ParseDateRange(params.From, params.To)
	if err != nil {
		return nil, err
	}

	filter := domain.AuditLogFilter{
		BusinessID:   params.BusinessID,
		UserID:       params.UserID,
		Action:       domain.AuditAction(params.Action),
		ResourceType: params.ResourceType,
		DateRange:    dateRange,
	}
	if actor.Role != domain.RoleSuperAdmin {
		if actor.BusinessID == "" {
			return nil, apperrors.NewForbiddenError("user is not attached to a business")
		}
		filter.BusinessID = actor.BusinessID
	}

	page := params.Page
	if page < 1 {
		page = 1
	}
	limit := clampLimit(params.Limit)

	logs, total, err := s.auditRepo.ListAuditLogs(ctx, filter, page, limit)
	if err != nil {
		s.LogError(ctx, err, "Failed to list audit logs")
		return nil, err
	}
	if logs == nil {
		logs = []domain.AuditLog{}
	}
	return &dto.ListAuditLogsResponse{Logs: logs, Total: total, Page: page, Limit: limit}, nil
}
