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

// invoiceService is the ledger mutator for sales and purchases.
type invoiceService struct {
	BaseService
	ledger       portsrepo.LedgerRepositoryWithTx
	parties      portsrepo.PartyReader
	products     portsrepo.ProductReader
	businessRepo portsrepo.BusinessReader
}

// NewInvoiceService creates the service handling sales and purchases.
func NewInvoiceService(
	ledger portsrepo.LedgerRepositoryWithTx,
	parties portsrepo.PartyReader,
	products portsrepo.ProductReader,
	businessRepo portsrepo.BusinessReader,
	opts ...ServiceOption,
) portssvc.InvoiceSvcFacade {
	svc := &invoiceService{ledger: ledger, parties: parties, products: products, businessRepo: businessRepo}
	svc.apply(opts)
	return svc
}

var _ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)

func checkInvoiceKind(kind domain.DocumentKind) error {
	if !kind.IsInvoice() {
		return apperrors.NewValidationError(fmt.Sprintf("unsupported invoice kind %q", kind))
	}
	return nil
}

// draftInvoice validates the payload against the store and computes totals.
// The result carries no id, number or effects yet.
func (s *invoiceService) draftInvoice(ctx context.Context, actor domain.Actor, kind domain.DocumentKind, req dto.InvoiceRequest) (*domain.Invoice, error) {
	if len(req.Items) == 0 {
		return nil, apperrors.NewValidationError("at least one item is required")
	}
	discountType := req.DiscountType
	if discountType == "" {
		discountType = domain.DiscountFlat
	}
	switch discountType {
	case domain.DiscountFlat, domain.DiscountPercent:
	default:
		return nil, apperrors.NewValidationError("discount type must be flat or percent")
	}
	if req.DiscountValue.IsNegative() {
		return nil, apperrors.NewValidationError("discount must not be negative")
	}
	if discountType == domain.DiscountPercent && !domain.IsPercent(req.DiscountValue) {
		return nil, apperrors.NewValidationError("percent discount must not exceed 100")
	}
	if err := validateTaxRate(req.TaxRate); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(req.Items))
	for i, item := range req.Items {
		if strings.TrimSpace(item.ProductID) == "" {
			return nil, apperrors.NewValidationError(fmt.Sprintf("item %d: product is required", i+1))
		}
		if !item.Quantity.IsPositive() {
			return nil, apperrors.NewValidationError(fmt.Sprintf("item %d: quantity must be greater than 0", i+1))
		}
		if item.Rate.IsNegative() {
			return nil, apperrors.NewValidationError(fmt.Sprintf("item %d: rate must not be negative", i+1))
		}
		ids = append(ids, item.ProductID)
	}

	party, err := loadParty(ctx, s.parties, actor.BusinessID, req.PartyID, kind)
	if err != nil {
		return nil, err
	}
	products, err := loadProducts(ctx, s.products, actor.BusinessID, ids)
	if err != nil {
		return nil, err
	}

	items := make([]domain.LineItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = domain.LineItem{
			ProductID:   item.ProductID,
			ProductName: products[item.ProductID].Name,
			Quantity:    item.Quantity,
			Rate:        item.Rate,
		}
	}
	items, totals := domain.ComputeInvoiceTotals(items, discountType, req.DiscountValue, req.TaxRate)

	return &domain.Invoice{
		Kind:          kind,
		PartyID:       party.PartyID,
		PartyName:     party.Name,
		InvoiceDate:   dateOr(req.InvoiceDate, s.Now()),
		Items:         items,
		DiscountType:  discountType,
		DiscountValue: req.DiscountValue,
		TaxRate:       req.TaxRate,
		InvoiceTotals: totals,
		Notes:         strings.TrimSpace(req.Notes),
	}, nil
}

// CreateInvoice validates, numbers and applies a new sale or purchase in one transaction.
func (s *invoiceService) CreateInvoice(ctx context.Context, actor domain.Actor, kind domain.DocumentKind, req dto.InvoiceRequest) (*domain.Invoice, error) {
	if err := checkInvoiceKind(kind); err != nil {
		return nil, err
	}
	if err := actor.ScopedTo(domain.AllRoles...); err != nil {
		return nil, err
	}
	business, err := s.businessRepo.FindBusinessByID(ctx, actor.BusinessID)
	if err != nil {
		return nil, err
	}
	inv, err := s.draftInvoice(ctx, actor, kind, req)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	inv.InvoiceID = uuid.NewString()
	inv.BusinessID = actor.BusinessID
	inv.AuditFields = domain.NewAuditFields(actor.UserID, now)
	inv.Effects = inv.ComputeEffects()

	err = s.ledger.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		if req.InvoiceNo != nil {
			inv.InvoiceNo = *req.InvoiceNo
			if err := tx.ReserveDocumentNumber(ctx, actor.BusinessID, kind, inv.InvoiceNo); err != nil {
				return err
			}
		} else {
			no, err := tx.ClaimDocumentNumber(ctx, actor.BusinessID, kind, seriesStart(*business, kind))
			if err != nil {
				return err
			}
			inv.InvoiceNo = no
		}
		inv.InvoiceNumber = business.DisplayNumber(kind, inv.InvoiceNo)

		if err := tx.InsertInvoice(ctx, *inv); err != nil {
			return duplicateNumber(err, kind, inv.InvoiceNo)
		}
		return tx.ApplyEffects(ctx, actor.BusinessID, docRef(kind, inv.InvoiceID), inv.Effects, actor.UserID, now)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create invoice", slog.String("kind", string(kind)))
		return nil, err
	}

	s.LogInfo(ctx, "Invoice created",
		slog.String("invoice_id", inv.InvoiceID),
		slog.String("invoice_number", inv.InvoiceNumber),
		slog.String("amount", inv.InvoiceAmount.String()))
	s.record(ctx, actor, domain.ActionCreate, string(kind), inv.InvoiceID, nil, inv)
	return inv, nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, actor domain.Actor, kind domain.DocumentKind, invoiceID string) (*domain.Invoice, error) {
	if err := checkInvoiceKind(kind); err != nil {
		return nil, err
	}
	if err := actor.ScopedTo(domain.AllRoles...); err != nil {
		return nil, err
	}
	return s.ledger.FindInvoiceByID(ctx, actor.BusinessID, kind, invoiceID)
}

func (s *invoiceService) ListInvoices(ctx context.Context, actor domain.Actor, kind domain.DocumentKind, params dto.ListDocumentsParams) (*dto.ListInvoicesResponse, error) {
	if err := checkInvoiceKind(kind); err != nil {
		return nil, err
	}
	if err := actor.ScopedTo(domain.AllRoles...); err != nil {
		return nil, err
	}
	dateRange, err := domain.ParseDateRange(params.From, params.To)
	if err != nil {
		return nil, err
	}
	filter := portsrepo.InvoiceFilter{PartyID: params.PartyID, DateRange: dateRange, IncludeDeleted: params.IncludeDeleted}
	invoices, next, err := s.ledger.ListInvoices(ctx, actor.BusinessID, kind, filter, clampLimit(params.Limit), params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list invoices", slog.String("kind", string(kind)))
		return nil, err
	}
	if invoices == nil {
		invoices = []domain.Invoice{}
	}
	return &dto.ListInvoicesResponse{Invoices: invoices, NextToken: next}, nil
}

// returnedQuantities sums returned quantity per product over returns.
func returnedQuantities(returns []domain.Return) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, r := range returns {
		for _, item := range r.Items {
			out[item.ProductID] = out[item.ProductID].Add(item.Quantity)
		}
	}
	return out
}

// UpdateInvoice replaces the content of an invoice. Its stored effects are
// reversed and the new ones applied in the same transaction.
func (s *invoiceService) UpdateInvoice(ctx context.Context, actor domain.Actor, kind domain.DocumentKind, invoiceID string, req dto.InvoiceRequest) (*domain.Invoice, error) {
	if err := checkInvoiceKind(kind); err != nil {
		return nil, err
	}
	if err := actor.ScopedTo(domain.RoleShopkeeper); err != nil {
		return nil, err
	}
	draft, err := s.draftInvoice(ctx, actor, kind, req)
	if err != nil {
		return nil, err
	}

	var before, updated domain.Invoice
	err = s.ledger.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		existing, err := tx.LockInvoice(ctx, actor.BusinessID, kind, invoiceID)
		if err != nil {
			return err
		}
		before = *existing
		if req.InvoiceNo != nil && *req.InvoiceNo != existing.InvoiceNo {
			return apperrors.NewValidationError("invoice number cannot be changed")
		}

		returns, err := tx.ListLiveReturnsForInvoice(ctx, actor.BusinessID, invoiceID)
		if err != nil {
			return err
		}
		if len(returns) > 0 {
			if draft.PartyID != existing.PartyID {
				return apperrors.NewConflictError("party cannot change while returns exist against this invoice")
			}
			for productID, returned := range returnedQuantities(returns) {
				if draft.QuantityOf(productID).LessThan(returned) {
					return apperrors.NewValidationError(fmt.Sprintf("product %s: quantity is below the %s already returned", productID, returned))
				}
			}
		}

		updated = *existing
		updated.PartyID = draft.PartyID
		updated.PartyName = draft.PartyName
		if req.InvoiceDate != nil {
			updated.InvoiceDate = draft.InvoiceDate
		}
		updated.Items = draft.Items
		updated.DiscountType = draft.DiscountType
		updated.DiscountValue = draft.DiscountValue
		updated.TaxRate = draft.TaxRate
		updated.InvoiceTotals = draft.InvoiceTotals
		updated.Notes = draft.Notes
		updated.Effects = updated.ComputeEffects()
		updated.Touch(actor.UserID, s.Now())

		if err := reapply(ctx, tx, actor.BusinessID, docRef(kind, invoiceID), existing.Effects, updated.Effects, actor.UserID, s.Now()); err != nil {
			return err
		}
		return tx.UpdateInvoice(ctx, updated)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to update invoice", slog.String("invoice_id", invoiceID))
		return nil, err
	}

	s.record(ctx, actor, domain.ActionUpdate, string(kind), invoiceID, before, updated)
	return &updated, nil
}

// DeleteInvoice reverses the stored effects and soft deletes the invoice.
func (s *invoiceService) DeleteInvoice(ctx context.Context, actor domain.Actor, kind domain.DocumentKind, invoiceID string) error {
	if err := checkInvoiceKind(kind); err != nil {
		return err
	}
	if err := actor.ScopedTo(domain.RoleShopkeeper); err != nil {
		return err
	}

	var before domain.Invoice
	err := s.ledger.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		existing, err := tx.LockInvoice(ctx, actor.BusinessID, kind, invoiceID)
		if err != nil {
			return err
		}
		before = *existing

		returns, err := tx.ListLiveReturnsForInvoice(ctx, actor.BusinessID, invoiceID)
		if err != nil {
			return err
		}
		if len(returns) > 0 {
			return apperrors.NewConflictError("delete the returns raised against this invoice first")
		}

		now := s.Now()
		if err := tx.ApplyEffects(ctx, actor.BusinessID, docRef(kind, invoiceID), existing.Effects.Negate(), actor.UserID, now); err != nil {
			return err
		}
		return tx.MarkInvoiceDeleted(ctx, actor.BusinessID, invoiceID, now, actor.UserID)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to delete invoice", slog.String("invoice_id", invoiceID))
		return err
	}

	s.record(ctx, actor, domain.ActionDelete, string(kind), invoiceID, before, nil)
	return nil
}

// PreviewNextNumber shows the number the next document of kind would get.
// Nothing is claimed.
func (s *invoiceService) PreviewNextNumber(ctx context.Context, actor domain.Actor, kind domain.DocumentKind) (*dto.NextNumberResponse, error) {
	if !kind.IsInvoice() && !kind.IsReturn() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unsupported document kind %q", kind))
	}
	if err := actor.ScopedTo(domain.AllRoles...); err != nil {
		return nil, err
	}
	business, err := s.businessRepo.FindBusinessByID(ctx, actor.BusinessID)
	if err != nil {
		return nil, err
	}
	next, err := s.ledger.PeekDocumentNumber(ctx, actor.BusinessID, kind, seriesStart(*business, kind))
	if err != nil {
		s.LogError(ctx, err, "Failed to preview document number", slog.String("kind", string(kind)))
		return nil, err
	}
	return &dto.NextNumberResponse{Kind: kind, NextNumber: next, DisplayNumber: business.DisplayNumber(kind, next)}, nil
}
