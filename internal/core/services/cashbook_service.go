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

type cashbookService struct {
	BaseService
	ledger  portsrepo.LedgerRepositoryWithTx
	parties portsrepo.PartyReader
}

// NewCashbookService creates the service for payments and expenses.
func NewCashbookService(ledger portsrepo.LedgerRepositoryWithTx, parties portsrepo.PartyReader, opts ...ServiceOption) portssvc.CashbookSvcFacade {
	svc := &cashbookService{ledger: ledger, parties: parties}
	svc.apply(opts)
	return svc
}

var _ portssvc.CashbookSvcFacade = (*cashbookService)(nil)

// draftEntry validates the request. Payments need a live party; a payment
// against a party of the other type is accepted.
func (s *cashbookService) draftEntry(ctx context.Context, actor domain.Actor, req dto.CashbookEntryRequest) (*domain.CashbookEntry, error) {
	if !req.Type.Valid() {
		return nil, apperrors.NewValidationError("entry type must be payment_in, payment_out or expense")
	}
	if !req.Mode.Valid() {
		return nil, apperrors.NewValidationError("unsupported payment mode")
	}
	if !req.Amount.IsPositive() {
		return nil, apperrors.NewValidationError("amount must be greater than 0")
	}

	entry := &domain.CashbookEntry{
		Type:      req.Type,
		Amount:    domain.RoundMoney(req.Amount),
		Mode:      req.Mode,
		EntryDate: dateOr(req.EntryDate, s.Now()),
		Notes:     strings.TrimSpace(req.Notes),
	}
	if req.Type == domain.EntryExpense {
		entry.ExpenseCategory = strings.TrimSpace(req.ExpenseCategory)
	}

	hasParty := req.PartyID != nil && *req.PartyID != ""
	if req.Type.IsPayment() && !hasParty {
		return nil, apperrors.NewValidationError("a payment needs a party")
	}
	if hasParty {
		party, err := loadParty(ctx, s.parties, actor.BusinessID, *req.PartyID, domain.KindCashbook)
		if err != nil {
			return nil, err
		}
		partyID := party.PartyID
		entry.PartyID = &partyID
		if (req.Type == domain.EntryPaymentIn && party.Type != domain.PartyCustomer) ||
			(req.Type == domain.EntryPaymentOut && party.Type != domain.PartySupplier) {
			s.LogDebug(ctx, "Payment direction does not match party type",
				slog.String("type", string(req.Type)), slog.String("party_type", string(party.Type)))
		}
	}
	return entry, nil
}

func (s *cashbookService) CreateEntry(ctx context.Context, actor domain.Actor, req dto.CashbookEntryRequest) (*domain.CashbookEntry, error) {
	if err := actor.ScopedTo(domain.AllRoles...); err != nil {
		return nil, err
	}
	entry, err := s.draftEntry(ctx, actor, req)
	if err != nil {
		return nil, err
	}
	now := s.Now()
	entry.EntryID = uuid.NewString()
	entry.BusinessID = actor.BusinessID
	entry.AuditFields = domain.NewAuditFields(actor.UserID, now)
	entry.Effects = entry.ComputeEffects()

	err = s.ledger.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		if err := tx.InsertCashbookEntry(ctx, *entry); err != nil {
			return err
		}
		return tx.ApplyEffects(ctx, actor.BusinessID, docRef(domain.KindCashbook, entry.EntryID), entry.Effects, actor.UserID, now)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create cashbook entry", slog.String("type", string(req.Type)))
		return nil, err
	}
	s.record(ctx, actor, domain.ActionCreate, resourceCashbook, entry.EntryID, nil, entry)
	return entry, nil
}

func (s *cashbookService) GetEntry(ctx context.Context, actor domain.Actor, entryID string) (*domain.CashbookEntry, error) {
	if err := actor.ScopedTo(domain.AllRoles...); err != nil {
		return nil, err
	}
	return s.ledger.FindCashbookEntryByID(ctx, actor.BusinessID, entryID)
}

func (s *cashbookService) ListEntries(ctx context.Context, actor domain.Actor, params dto.ListCashbookParams) (*dto.ListCashbookResponse, error) {
	if err := actor.ScopedTo(domain.AllRoles...); err != nil {
		return nil, err
	}
	if params.Type != "" && !params.Type.Valid() {
		return nil, apperrors.NewValidationError("unknown entry type")
	}
	dateRange, err := domain.ParseDateRange(params.From, params.To)
	if err != nil {
		return nil, err
	}
	filter := portsrepo.CashbookFilter{
		Type:           params.Type,
		PartyID:        params.PartyID,
		DateRange:      dateRange,
		IncludeDeleted: params.IncludeDeleted,
	}
	entries, next, err := s.ledger.ListCashbookEntries(ctx, actor.BusinessID, filter, clampLimit(params.Limit), params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list cashbook entries")
		return nil, err
	}
	if entries == nil {
		entries = []domain.CashbookEntry{}
	}
	return &dto.ListCashbookResponse{Entries: entries, NextToken: next}, nil
}

func (s *cashbookService) UpdateEntry(ctx context.Context, actor domain.Actor, entryID string, req dto.CashbookEntryRequest) (*domain.CashbookEntry, error) {
	if err := actor.ScopedTo(domain.RoleShopkeeper); err != nil {
		return nil, err
	}
	draft, err := s.draftEntry(ctx, actor, req)
	if err != nil {
		return nil, err
	}

	var before, updated domain.CashbookEntry
	err = s.ledger.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		existing, err := tx.LockCashbookEntry(ctx, actor.BusinessID, entryID)
		if err != nil {
			return err
		}
		before = *existing

		updated = *existing
		updated.Type = draft.Type
		updated.PartyID = draft.PartyID
		updated.Amount = draft.Amount
		updated.Mode = draft.Mode
		updated.ExpenseCategory = draft.ExpenseCategory
		updated.Notes = draft.Notes
		if req.EntryDate != nil {
			updated.EntryDate = draft.EntryDate
		}
		updated.Effects = updated.ComputeEffects()
		now := s.Now()
		updated.Touch(actor.UserID, now)

		if err := reapply(ctx, tx, actor.BusinessID, docRef(domain.KindCashbook, entryID), existing.Effects, updated.Effects, actor.UserID, now); err != nil {
			return err
		}
		return tx.UpdateCashbookEntry(ctx, updated)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to update cashbook entry", slog.String("entry_id", entryID))
		return nil, err
	}
	s.record(ctx, actor, domain.ActionUpdate, resourceCashbook, entryID, before, updated)
	return &updated, nil
}

func (s *cashbookService) DeleteEntry(ctx context.Context, actor domain.Actor, entryID string) error {
	if err := actor.ScopedTo(domain.RoleShopkeeper); err != nil {
		return err
	}
	var before domain.CashbookEntry
	err := s.ledger.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		existing, err := tx.LockCashbookEntry(ctx, actor.BusinessID, entryID)
		if err != nil {
			return err
		}
		before = *existing
		now := s.Now()
		if err := tx.ApplyEffects(ctx, actor.BusinessID, docRef(domain.KindCashbook, entryID), existing.Effects.Negate(), actor.UserID, now); err != nil {
			return err
		}
		return tx.MarkCashbookEntryDeleted(ctx, actor.BusinessID, entryID, now, actor.UserID)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to delete cashbook entry", slog.String("entry_id", entryID))
		return err
	}
	s.record(ctx, actor, domain.ActionDelete, resourceCashbook, entryID, before, nil)
	return nil
}
