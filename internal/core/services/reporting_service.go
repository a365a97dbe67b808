package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/billistry/internal/core/domain"
	portsrepo "github.com/SscSPs/billistry/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/billistry/internal/core/ports/services"
)

type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
}

// NewReportingService creates a new reporting service.
func NewReportingService(repo portsrepo.ReportingRepository, opts ...ServiceOption) portssvc.ReportingSvcFacade {
	svc := &reportingService{reportingRepo: repo}
	svc.apply(opts)
	return svc
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// Overview summarizes documents inside dateRange together with current balances.
func (s *reportingService) Overview(ctx context.Context, actor domain.Actor, dateRange domain.DateRange) (*domain.BusinessOverview, error) {
	if err := actor.ScopedTo(domain.AllRoles...); err != nil {
		return nil, err
	}
	overview, err := s.reportingRepo.BusinessOverview(ctx, actor.BusinessID, dateRange)
	if err != nil {
		s.LogError(ctx, err, "Failed to build business overview", slog.String("business_id", actor.BusinessID))
		return nil, err
	}
	return overview, nil
}
