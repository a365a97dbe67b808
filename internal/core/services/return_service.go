package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/billistry/internal/apperrors"
	"github.com/SscSPs/billistry/internal/core/domain"
	portsrepo "github.com/SscSPs/billistry/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/billistry/internal/core/ports/services"
	"github.com/SscSPs/billistry/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// returnService is the ledger mutator for sale and purchase returns.
type returnService struct {
	BaseService
	ledger       portsrepo.LedgerRepositoryWithTx
	businessRepo portsrepo.BusinessReader
}

// NewReturnService creates the service handling sale and purchase returns.
func NewReturnService(ledger portsrepo.LedgerRepositoryWithTx, businessRepo portsrepo.BusinessReader, opts ...ServiceOption) portssvc.ReturnSvcFacade {
	svc := &returnService{ledger: ledger, businessRepo: businessRepo}
	svc.apply(opts)
	return svc
}

var _ portssvc.ReturnSvcFacade = (*returnService)(nil)

func checkReturnKind(kind domain.DocumentKind) error {
	if !kind.IsReturn() {
		return apperrors.NewValidationError(fmt.Sprintf("unsupported return kind %q", kind))
	}
	return nil
}

// validateReturnRequest checks what can be checked without the original invoice.
func validateReturnRequest(req dto.ReturnRequest) error {
	if strings.TrimSpace(req.OriginalInvoiceID) == "" {
		return apperrors.NewValidationError("original invoice is required")
	}
	if len(req.Items) == 0 {
		return apperrors.NewValidationError("at least one item is required")
	}
	for i, item := range req.Items {
		if !item.Quantity.IsPositive() {
			return apperrors.NewValidationError(fmt.Sprintf("item %d: quantity must be greater than 0", i+1))
		}
		if item.Rate != nil && item.Rate.IsNegative() {
			return apperrors.NewValidationError(fmt.Sprintf("item %d: rate must not be negative", i+1))
		}
		if !item.Condition.Valid() {
			return apperrors.NewValidationError(fmt.Sprintf("item %d: condition must be good or bad", i+1))
		}
	}
	if req.TaxRate != nil {
		return validateTaxRate(*req.TaxRate)
	}
	return nil
}

// buildReturn checks the request against the original invoice and the returns
// already raised against it, then computes the lines and totals.
func buildReturn(original domain.Invoice, others []domain.Return, req dto.ReturnRequest, base domain.Return) (domain.Return, error) {
	ret := base
	already := returnedQuantities(others)
	requested := make(map[string]decimal.Decimal)

	items := make([]domain.ReturnItem, len(req.Items))
	for i, item := range req.Items {
		var line *domain.LineItem
		for j := range original.Items {
			if original.Items[j].ProductID == item.ProductID {
				line = &original.Items[j]
				break
			}
		}
		if line == nil {
			return ret, apperrors.NewValidationError(fmt.Sprintf("product %s is not on invoice %s", item.ProductID, original.InvoiceNumber))
		}
		rate := line.Rate
		if item.Rate != nil {
			rate = *item.Rate
		}
		requested[item.ProductID] = requested[item.ProductID].Add(item.Quantity)
		items[i] = domain.ReturnItem{
			ProductID:   item.ProductID,
			ProductName: line.ProductName,
			Quantity:    item.Quantity,
			Rate:        rate,
			Condition:   item.Condition,
		}
	}
	for productID, qty := range requested {
		invoiced := original.QuantityOf(productID)
		if already[productID].Add(qty).GreaterThan(invoiced) {
			remaining := invoiced.Sub(already[productID])
			return ret, apperrors.NewValidationError(fmt.Sprintf("product %s: only %s left to return", productID, remaining))
		}
	}

	taxRate := original.TaxRate
	if req.TaxRate != nil {
		taxRate = *req.TaxRate
	}
	ret.Items, ret.ReturnTotals = domain.ComputeReturnTotals(items, taxRate, original.InvoiceTotals)
	ret.TaxRate = taxRate
	ret.OriginalInvoiceID = original.InvoiceID
	ret.OriginalInvoiceNumber = original.InvoiceNumber
	ret.PartyID = original.PartyID
	ret.PartyName = original.PartyName
	ret.Reason = strings.TrimSpace(req.Reason)
	ret.Effects = ret.ComputeEffects()
	return ret, nil
}

// withoutReturn drops returnID from returns.
func withoutReturn(returns []domain.Return, returnID string) []domain.Return {
	out := returns[:0:0]
	for _, r := range returns {
		if r.ReturnID != returnID {
			out = append(out, r)
		}
	}
	return out
}

// CreateReturn raises a return against a live invoice. The returnable
// quantity is checked while the invoice is locked.
func (s *returnService) CreateReturn(ctx context.Context, actor domain.Actor, kind domain.DocumentKind, req dto.ReturnRequest) (*domain.Return, error) {
	if err := checkReturnKind(kind); err != nil {
		return nil, err
	}
	if err := actor.ScopedTo(domain.AllRoles...); err != nil {
		return nil, err
	}
	if err := validateReturnRequest(req); err != nil {
		return nil, err
	}
	business, err := s.businessRepo.FindBusinessByID(ctx, actor.BusinessID)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	var ret domain.Return
	err = s.ledger.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		original, err := tx.LockInvoice(ctx, actor.BusinessID, kind.OriginalKind(), req.OriginalInvoiceID)
		if err != nil {
			return err
		}
		others, err := tx.ListLiveReturnsForInvoice(ctx, actor.BusinessID, original.InvoiceID)
		if err != nil {
			return err
		}
		ret, err = buildReturn(*original, others, req, domain.Return{
			ReturnID:    uuid.NewString(),
			BusinessID:  actor.BusinessID,
			Kind:        kind,
			ReturnDate:  dateOr(req.ReturnDate, now),
			AuditFields: domain.NewAuditFields(actor.UserID, now),
		})
		if err != nil {
			return err
		}

		no, err := tx.ClaimDocumentNumber(ctx, actor.BusinessID, kind, seriesStart(*business, kind))
		if err != nil {
			return err
		}
		ret.ReturnNo = no
		ret.ReturnNumber = business.DisplayNumber(kind, no)
		if err := tx.InsertReturn(ctx, ret); err != nil {
			return duplicateNumber(err, kind, no)
		}
		return tx.ApplyEffects(ctx, actor.BusinessID, docRef(kind, ret.ReturnID), ret.Effects, actor.UserID, now)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create return", slog.String("kind", string(kind)), slog.String("original_invoice_id", req.OriginalInvoiceID))
		return nil, err
	}

	s.LogInfo(ctx, "Return created", slog.String("return_id", ret.ReturnID), slog.String("grand_total", ret.GrandTotal.String()))
	s.record(ctx, actor, domain.ActionCreate, string(kind), ret.ReturnID, nil, ret)
	return &ret, nil
}

func (s *returnService) GetReturn(ctx context.Context, actor domain.Actor, kind domain.DocumentKind, returnID string) (*domain.Return, error) {
	if err := checkReturnKind(kind); err != nil {
		return nil, err
	}
	if err := actor.ScopedTo(domain.AllRoles...); err != nil {
		return nil, err
	}
	return s.ledger.FindReturnByID(ctx, actor.BusinessID, kind, returnID)
}

func (s *returnService) ListReturns(ctx context.Context, actor domain.Actor, kind domain.DocumentKind, params dto.ListReturnsParams) (*dto.ListReturnsResponse, error) {
	if err := checkReturnKind(kind); err != nil {
		return nil, err
	}
	if err := actor.ScopedTo(domain.AllRoles...); err != nil {
		return nil, err
	}
	dateRange, err := domain.ParseDateRange(params.From, params.To)
	if err != nil {
		return nil, err
	}
	filter := portsrepo.ReturnFilter{
		OriginalInvoiceID: params.OriginalInvoiceID,
		PartyID:           params.PartyID,
		DateRange:         dateRange,
		IncludeDeleted:    params.IncludeDeleted,
	}
	returns, next, err := s.ledger.ListReturns(ctx, actor.BusinessID, kind, filter, clampLimit(params.Limit), params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list returns", slog.String("kind", string(kind)))
		return nil, err
	}
	if returns == nil {
		returns = []domain.Return{}
	}
	return &dto.ListReturnsResponse{Returns: returns, NextToken: next}, nil
}

// UpdateReturn replaces the lines of a return. The original invoice cannot change.
func (s *returnService) UpdateReturn(ctx context.Context, actor domain.Actor, kind domain.DocumentKind, returnID string, req dto.ReturnRequest) (*domain.Return, error) {
	if err := checkReturnKind(kind); err != nil {
		return nil, err
	}
	if err := actor.ScopedTo(domain.RoleShopkeeper); err != nil {
		return nil, err
	}
	if err := validateReturnRequest(req); err != nil {
		return nil, err
	}

	var before, updated domain.Return
	err := s.ledger.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		existing, err := tx.LockReturn(ctx, actor.BusinessID, kind, returnID)
		if err != nil {
			return err
		}
		before = *existing
		if existing.OriginalInvoiceID != req.OriginalInvoiceID {
			return apperrors.NewValidationError("original invoice of a return cannot be changed")
		}
		original, err := tx.LockInvoice(ctx, actor.BusinessID, kind.OriginalKind(), existing.OriginalInvoiceID)
		if err != nil {
			return err
		}
		others, err := tx.ListLiveReturnsForInvoice(ctx, actor.BusinessID, original.InvoiceID)
		if err != nil {
			return err
		}

		base := *existing
		if req.ReturnDate != nil && !req.ReturnDate.IsZero() {
			base.ReturnDate = req.ReturnDate.UTC()
		}
		updated, err = buildReturn(*original, withoutReturn(others, returnID), req, base)
		if err != nil {
			return err
		}
		now := s.Now()
		updated.Touch(actor.UserID, now)

		if err := reapply(ctx, tx, actor.BusinessID, docRef(kind, returnID), existing.Effects, updated.Effects, actor.UserID, now); err != nil {
			return err
		}
		return tx.UpdateReturn(ctx, updated)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to update return", slog.String("return_id", returnID))
		return nil, err
	}

	s.record(ctx, actor, domain.ActionUpdate, string(kind), returnID, before, updated)
	return &updated, nil
}

// DeleteReturn reverses exactly the stored effects of the return and soft deletes it.
func (s *returnService) DeleteReturn(ctx context.Context, actor domain.Actor, kind domain.DocumentKind, returnID string) error {
	if err := checkReturnKind(kind); err != nil {
		return err
	}
	if err := actor.ScopedTo(domain.RoleShopkeeper); err != nil {
		return err
	}

	var before domain.Return
	err := s.ledger.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		existing, err := tx.LockReturn(ctx, actor.BusinessID, kind, returnID)
		if err != nil {
			return err
		}
		before = *existing
		now := s.Now()
		if err := tx.ApplyEffects(ctx, actor.BusinessID, docRef(kind, returnID), existing.Effects.Negate(), actor.UserID, now); err != nil {
			return err
		}
		return tx.MarkReturnDeleted(ctx, actor.BusinessID, returnID, now, actor.UserID)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to delete return", slog.String("return_id", returnID))
		return err
	}

	s.record(ctx, actor, domain.ActionDelete, string(kind), returnID, before, nil)
	return nil
}
