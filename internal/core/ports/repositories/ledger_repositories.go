package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/billistry/internal/core/domain"
)

// InvoiceFilter narrows an invoice listing.
type InvoiceFilter struct {
	PartyID string
	domain.DateRange
	IncludeDeleted bool
}

// ReturnFilter narrows a return listing.
type ReturnFilter struct {
	OriginalInvoiceID string
	PartyID           string
	domain.DateRange
	IncludeDeleted bool
}

// CashbookFilter narrows a cashbook listing.
type CashbookFilter struct {
	Type    domain.CashbookEntryType
	PartyID string
	domain.DateRange
	IncludeDeleted bool
}

// InvoiceReader defines read operations for sales and purchases.
type InvoiceReader interface {
	// FindInvoiceByID retrieves a live invoice of the given kind.
	FindInvoiceByID(ctx context.Context, businessID string, kind domain.DocumentKind, invoiceID string) (*domain.Invoice, error)

	// ListInvoices retrieves invoices newest first using token-based pagination.
	ListInvoices(ctx context.Context, businessID string, kind domain.DocumentKind, filter InvoiceFilter, limit int, nextToken *string) ([]domain.Invoice, *string, error)
}

// ReturnReader defines read operations for sale and purchase returns.
type ReturnReader interface {
	FindReturnByID(ctx context.Context, businessID string, kind domain.DocumentKind, returnID string) (*domain.Return, error)
	ListReturns(ctx context.Context, businessID string, kind domain.DocumentKind, filter ReturnFilter, limit int, nextToken *string) ([]domain.Return, *string, error)
}

// CashbookReader defines read operations for cashbook entries.
type CashbookReader interface {
	FindCashbookEntryByID(ctx context.Context, businessID, entryID string) (*domain.CashbookEntry, error)
	ListCashbookEntries(ctx context.Context, businessID string, filter CashbookFilter, limit int, nextToken *string) ([]domain.CashbookEntry, *string, error)
}

// SequenceReader previews document numbering.
type SequenceReader interface {
	// PeekDocumentNumber returns the number the next claim would get, without claiming it.
	PeekDocumentNumber(ctx context.Context, businessID string, kind domain.DocumentKind, start int64) (int64, error)
}

// LedgerTx is the set of writes a ledger mutation performs inside one store
// transaction. Lock* methods return live documents only and hold them until
// the transaction ends.
type LedgerTx interface {
	// ClaimDocumentNumber atomically takes the next number of the (business, kind)
	// series, starting at start for a fresh series.
	ClaimDocumentNumber(ctx context.Context, businessID string, kind domain.DocumentKind, start int64) (int64, error)

	// ReserveDocumentNumber moves the series past a manually chosen number.
	ReserveDocumentNumber(ctx context.Context, businessID string, kind domain.DocumentKind, number int64) error

	// ApplyEffects adds the stock deltas to the products and the balance delta
	// to the party as atomic increments, and appends stock movements for ref.
	ApplyEffects(ctx context.Context, businessID string, ref domain.DocumentRef, effects domain.LedgerEffects, userID string, at time.Time) error

	// ReplaceEffects undoes old and applies updated for ref as one set of net
	// increments, taking row locks in the same order as ApplyEffects.
	ReplaceEffects(ctx context.Context, businessID string, ref domain.DocumentRef, old, updated domain.LedgerEffects, userID string, at time.Time) error

	// InsertInvoice persists a new invoice. A number already used within the
	// business and kind returns apperrors.ErrDuplicate.
	InsertInvoice(ctx context.Context, invoice domain.Invoice) error
	LockInvoice(ctx context.Context, businessID string, kind domain.DocumentKind, invoiceID string) (*domain.Invoice, error)
	UpdateInvoice(ctx context.Context, invoice domain.Invoice) error
	MarkInvoiceDeleted(ctx context.Context, businessID, invoiceID string, deletedAt time.Time, deletedBy string) error

	InsertReturn(ctx context.Context, ret domain.Return) error
	LockReturn(ctx context.Context, businessID string, kind domain.DocumentKind, returnID string) (*domain.Return, error)
	UpdateReturn(ctx context.Context, ret domain.Return) error
	MarkReturnDeleted(ctx context.Context, businessID, returnID string, deletedAt time.Time, deletedBy string) error

	// ListLiveReturnsForInvoice lists the non-deleted returns raised against an invoice.
	ListLiveReturnsForInvoice(ctx context.Context, businessID, invoiceID string) ([]domain.Return, error)

	InsertCashbookEntry(ctx context.Context, entry domain.CashbookEntry) error
	LockCashbookEntry(ctx context.Context, businessID, entryID string) (*domain.CashbookEntry, error)
	UpdateCashbookEntry(ctx context.Context, entry domain.CashbookEntry) error
	MarkCashbookEntryDeleted(ctx context.Context, businessID, entryID string, deletedAt time.Time, deletedBy string) error
}

// LedgerRepositoryFacade combines the document readers.
type LedgerRepositoryFacade interface {
	InvoiceReader
	ReturnReader
	CashbookReader
	SequenceReader
}

// LedgerRepositoryWithTx extends LedgerRepositoryFacade with transactional mutations.
type LedgerRepositoryWithTx interface {
	LedgerRepositoryFacade
	TxRunner[LedgerTx]
}
