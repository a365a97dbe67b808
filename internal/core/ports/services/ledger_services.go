package services

import (
	"context"

	"github.com/SscSPs/billistry/internal/core/domain"
	"github.com/SscSPs/billistry/internal/dto"
)

// InvoiceSvcFacade creates, edits and removes sales and purchases together
// with their stock and balance effects.
type InvoiceSvcFacade interface {
	CreateInvoice(ctx context.Context, actor domain.Actor, kind domain.DocumentKind, req dto.InvoiceRequest) (*domain.Invoice, error)
	GetInvoice(ctx context.Context, actor domain.Actor, kind domain.DocumentKind, invoiceID string) (*domain.Invoice, error)
	ListInvoices(ctx context.Context, actor domain.Actor, kind domain.DocumentKind, params dto.ListDocumentsParams) (*dto.ListInvoicesResponse, error)
	UpdateInvoice(ctx context.Context, actor domain.Actor, kind domain.DocumentKind, invoiceID string, req dto.InvoiceRequest) (*domain.Invoice, error)
	DeleteInvoice(ctx context.Context, actor domain.Actor, kind domain.DocumentKind, invoiceID string) error

	// PreviewNextNumber is advisory; the number is claimed at create time.
	PreviewNextNumber(ctx context.Context, actor domain.Actor, kind domain.DocumentKind) (*dto.NextNumberResponse, error)
}

// ReturnSvcFacade handles sale and purchase returns.
type ReturnSvcFacade interface {
	CreateReturn(ctx context.Context, actor domain.Actor, kind domain.DocumentKind, req dto.ReturnRequest) (*domain.Return, error)
	GetReturn(ctx context.Context, actor domain.Actor, kind domain.DocumentKind, returnID string) (*domain.Return, error)
	ListReturns(ctx context.Context, actor domain.Actor, kind domain.DocumentKind, params dto.ListReturnsParams) (*dto.ListReturnsResponse, error)
	UpdateReturn(ctx context.Context, actor domain.Actor, kind domain.DocumentKind, returnID string, req dto.ReturnRequest) (*domain.Return, error)
	DeleteReturn(ctx context.Context, actor domain.Actor, kind domain.DocumentKind, returnID string) error
}

// CashbookSvcFacade handles payments and expenses.
type CashbookSvcFacade interface {
	CreateEntry(ctx context.Context, actor domain.Actor, req dto.CashbookEntryRequest) (*domain.CashbookEntry, error)
	GetEntry(ctx context.Context, actor domain.Actor, entryID string) (*domain.CashbookEntry, error)
	ListEntries(ctx context.Context, actor domain.Actor, params dto.ListCashbookParams) (*dto.ListCashbookResponse, error)
	UpdateEntry(ctx context.Context, actor domain.Actor, entryID string, req dto.CashbookEntryRequest) (*domain.CashbookEntry, error)
	DeleteEntry(ctx context.Context, actor domain.Actor, entryID string) error
}
