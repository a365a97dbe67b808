package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/SscSPs/billistry/internal/apperrors"
	"github.com/SscSPs/billistry/internal/core/domain"
	portsrepo "github.com/SscSPs/billistry/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/billistry/internal/core/ports/services"
	"github.com/SscSPs/billistry/internal/dto"
)

type businessService struct {
	BaseService
	businessRepo portsrepo.BusinessRepositoryFacade
}

// NewBusinessService creates a new business service.
func NewBusinessService(repo portsrepo.BusinessRepositoryFacade, opts ...ServiceOption) portssvc.BusinessSvcFacade {
	svc := &businessService{businessRepo: repo}
	svc.apply(opts)
	return svc
}

var _ portssvc.BusinessSvcFacade = (*businessService)(nil)

func (s *businessService) GetBusiness(ctx context.Context, actor domain.Actor) (*domain.Business, error) {
	if err := actor.ScopedTo(domain.AllRoles...); err != nil {
		return nil, err
	}
	return s.businessRepo.FindBusinessByID(ctx, actor.BusinessID)
}

func setString(dst *string, src *string, changed *bool) {
	if src == nil {
		return
	}
	v := strings.TrimSpace(*src)
	if v != *dst {
		*dst = v
		*changed = true
	}
}

// UpdateBusiness changes profile and numbering fields. Subscription fields
// are owned by the subscription lifecycle.
func (s *businessService) UpdateBusiness(ctx context.Context, actor domain.Actor, req dto.UpdateBusinessRequest) (*domain.Business, error) {
	if err := actor.ScopedTo(domain.RoleShopkeeper); err != nil {
		return nil, err
	}
	business, err := s.businessRepo.FindBusinessByID(ctx, actor.BusinessID)
	if err != nil {
		return nil, err
	}
	before := *business

	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, apperrors.NewValidationError("business name must not be empty")
	}

	changed := false
	setString(&business.Name, req.Name, &changed)
	setString(&business.Phone, req.Phone, &changed)
	setString(&business.Email, req.Email, &changed)
	setString(&business.Address, req.Address, &changed)
	setString(&business.GSTIN, req.GSTIN, &changed)
	setString(&business.Timezone, req.Timezone, &changed)
	setString(&business.InvoicePrefix, req.InvoicePrefix, &changed)
	if req.Currency != nil {
		currency := strings.ToUpper(*req.Currency)
		setString(&business.Currency, &currency, &changed)
	}
	if req.InvoiceStartNumber != nil && *req.InvoiceStartNumber != business.InvoiceStartNumber {
		business.InvoiceStartNumber = *req.InvoiceStartNumber
		changed = true
	}
	if !changed {
		return business, nil
	}

	business.Touch(actor.UserID, s.Now())
	if err := s.businessRepo.UpdateBusiness(ctx, *business); err != nil {
		s.LogError(ctx, err, "Failed to update business", slog.String("business_id", business.BusinessID))
		return nil, err
	}
	s.record(ctx, actor, domain.ActionUpdate, resourceBusiness, business.BusinessID, before, business)
	return business, nil
}

// ListBusinesses is superadmin only.
func (s *businessService) ListBusinesses(ctx context.Context, actor domain.Actor, limit, offset int) ([]domain.Business, error) {
	if err := actor.Allow(); err != nil {
		return nil, err
	}
	businesses, err := s.businessRepo.ListBusinesses(ctx, clampLimit(limit), clampOffset(offset))
	if err != nil {
		s.LogError(ctx, err, "Failed to list businesses")
		return nil, err
	}
	if businesses == nil {
		businesses = []domain.Business{}
	}
	return businesses, nil
}

// DeactivateBusiness soft deletes a business. Superadmin only.
func (s *businessService) DeactivateBusiness(ctx context.Context, actor domain.Actor, businessID string) error {
	if err := actor.Allow(); err != nil {
		return err
	}
	business, err := s.businessRepo.FindBusinessByID(ctx, businessID)
	if err != nil {
		return err
	}
	if err := s.businessRepo.MarkBusinessDeleted(ctx, businessID, s.Now(), actor.UserID); err != nil {
		s.LogError(ctx, err, "Failed to deactivate business", slog.String("business_id", businessID))
		return err
	}
	s.record(ctx, actor, domain.ActionDelete, resourceBusiness, businessID, business, nil)
	return nil
}
