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
	"github.com/google/uuid"
)

type partyService struct {
	BaseService
	partyRepo portsrepo.PartyRepositoryFacade
}

// NewPartyService creates a new party service.
func NewPartyService(repo portsrepo.PartyRepositoryFacade, opts ...ServiceOption) portssvc.PartySvcFacade {
	svc := &partyService{partyRepo: repo}
	svc.apply(opts)
	return svc
}

var _ portssvc.PartySvcFacade = (*partyService)(nil)

// CreateParty adds a customer or supplier. The running balance starts at the opening balance.
func (s *partyService) CreateParty(ctx context.Context, actor domain.Actor, req dto.CreatePartyRequest) (*domain.Party, error) {
	if err := actor.ScopedTo(domain.AllRoles...); err != nil {
		return nil, err
	}
	if !req.Type.Valid() {
		return nil, apperrors.NewValidationError("party type must be customer or supplier")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("party name is required")
	}

	opening := domain.RoundMoney(req.OpeningBalance)
	party := domain.Party{
		PartyID:        uuid.NewString(),
		BusinessID:     actor.BusinessID,
		Type:           req.Type,
		Name:           name,
		Mobile:         strings.TrimSpace(req.Mobile),
		Email:          strings.TrimSpace(req.Email),
		Address:        strings.TrimSpace(req.Address),
		GSTIN:          strings.ToUpper(strings.TrimSpace(req.GSTIN)),
		BankDetails:    req.BankDetails,
		OpeningBalance: opening,
		Balance:        opening,
		AuditFields:    domain.NewAuditFields(actor.UserID, s.Now()),
	}
	if err := s.partyRepo.SaveParty(ctx, party); err != nil {
		s.LogError(ctx, err, "Failed to save party", slog.String("mobile", party.Mobile))
		return nil, err
	}

	s.record(ctx, actor, domain.ActionCreate, resourceParty, party.PartyID, nil, party)
	return &party, nil
}

func (s *partyService) GetParty(ctx context.Context, actor domain.Actor, partyID string) (*domain.Party, error) {
	if err := actor.ScopedTo(domain.AllRoles...); err != nil {
		return nil, err
	}
	return s.partyRepo.FindPartyByID(ctx, actor.BusinessID, partyID)
}

func (s *partyService) ListParties(ctx context.Context, actor domain.Actor, params dto.ListPartiesParams) ([]domain.Party, error) {
	if err := actor.ScopedTo(domain.AllRoles...); err != nil {
		return nil, err
	}
	filter := portsrepo.PartyFilter{Type: params.Type, Search: strings.TrimSpace(params.Search)}
	parties, err := s.partyRepo.ListParties(ctx, actor.BusinessID, filter, clampLimit(params.Limit), clampOffset(params.Offset))
	if err != nil {
		s.LogError(ctx, err, "Failed to list parties")
		return nil, err
	}
	if parties == nil {
		parties = []domain.Party{}
	}
	return parties, nil
}

// UpdateParty changes contact details. The balance is never touched here.
func (s *partyService) UpdateParty(ctx context.Context, actor domain.Actor, partyID string, req dto.UpdatePartyRequest) (*domain.Party, error) {
	if err := actor.ScopedTo(domain.RoleShopkeeper); err != nil {
		return nil, err
	}
	party, err := s.partyRepo.FindPartyByID(ctx, actor.BusinessID, partyID)
	if err != nil {
		return nil, err
	}
	before := *party

	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, apperrors.NewValidationError("party name must not be empty")
	}
	changed := false
	setString(&party.Name, req.Name, &changed)
	setString(&party.Mobile, req.Mobile, &changed)
	setString(&party.Email, req.Email, &changed)
	setString(&party.Address, req.Address, &changed)
	if req.GSTIN != nil {
		gstin := strings.ToUpper(*req.GSTIN)
		setString(&party.GSTIN, &gstin, &changed)
	}
	if req.BankDetails != nil {
		party.BankDetails = req.BankDetails
		changed = true
	}
	if !changed {
		return party, nil
	}

	party.Touch(actor.UserID, s.Now())
	if err := s.partyRepo.UpdateParty(ctx, *party); err != nil {
		s.LogError(ctx, err, "Failed to update party", slog.String("party_id", partyID))
		return nil, err
	}
	s.record(ctx, actor, domain.ActionUpdate, resourceParty, partyID, before, party)
	return party, nil
}

func (s *partyService) DeleteParty(ctx context.Context, actor domain.Actor, partyID string) error {
	if err := actor.ScopedTo(domain.RoleShopkeeper); err != nil {
		return err
	}
	party, err := s.partyRepo.FindPartyByID(ctx, actor.BusinessID, partyID)
	if err != nil {
		return err
	}
	if err := s.partyRepo.MarkPartyDeleted(ctx, actor.BusinessID, partyID, s.Now(), actor.UserID); err != nil {
		s.LogError(ctx, err, "Failed to delete party", slog.String("party_id", partyID))
		return err
	}
	s.record(ctx, actor, domain.ActionDelete, resourceParty, partyID, party, nil)
	return nil
}
