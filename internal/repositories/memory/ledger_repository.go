package memory

import (
	"context"
	"time"

	"github.com/SscSPs/billistry/internal/core/domain"
	portsrepo "github.com/SscSPs/billistry/internal/core/ports/repositories"
	"github.com/SscSPs/billistry/internal/utils/pagination"
	"github.com/google/uuid"
)

type ledgerRepository struct {
	store *Store
}

func newLedgerRepository(store *Store) *ledgerRepository {
	return &ledgerRepository{store: store}
}

var _ portsrepo.LedgerRepositoryWithTx = (*ledgerRepository)(nil)

// WithinTx runs fn with exclusive access to a staged copy of the store.
func (r *ledgerRepository) WithinTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	return r.store.write(ctx, func(st *state) error {
		return fn(ctx, &ledgerTx{st: st})
	})
}

func nextNumber(st *state, businessID string, kind domain.DocumentKind, start int64) int64 {
	next := start
	if last, ok := st.sequences[seqKey{businessID, kind}]; ok && last+1 > next {
		next = last + 1
	}
	return next
}

func (r *ledgerRepository) PeekDocumentNumber(ctx context.Context, businessID string, kind domain.DocumentKind, start int64) (int64, error) {
	var next int64
	r.store.read(func(st *state) {
		next = nextNumber(st, businessID, kind, start)
	})
	return next, nil
}

func invoiceCursor(inv domain.Invoice) pagination.Cursor {
	return pagination.Cursor{SortAt: inv.InvoiceDate, CreatedAt: inv.CreatedAt, ID: inv.InvoiceID}
}

func returnCursor(ret domain.Return) pagination.Cursor {
	return pagination.Cursor{SortAt: ret.ReturnDate, CreatedAt: ret.CreatedAt, ID: ret.ReturnID}
}

func cashbookCursor(e domain.CashbookEntry) pagination.Cursor {
	return pagination.Cursor{SortAt: e.EntryDate, CreatedAt: e.CreatedAt, ID: e.EntryID}
}

func (r *ledgerRepository) FindInvoiceByID(ctx context.Context, businessID string, kind domain.DocumentKind, invoiceID string) (*domain.Invoice, error) {
	var (
		inv *domain.Invoice
		err error
	)
	r.store.read(func(st *state) {
		inv, err = (&ledgerTx{st: st}).LockInvoice(ctx, businessID, kind, invoiceID)
	})
	return inv, err
}

func (r *ledgerRepository) ListInvoices(ctx context.Context, businessID string, kind domain.DocumentKind, filter portsrepo.InvoiceFilter, limit int, nextToken *string) ([]domain.Invoice, *string, error) {
	var invoices []domain.Invoice
	r.store.read(func(st *state) {
		for _, inv := range st.invoices {
			if inv.BusinessID != businessID || inv.Kind != kind {
				continue
			}
			if inv.IsDeleted && !filter.IncludeDeleted {
				continue
			}
			if filter.PartyID != "" && inv.PartyID != filter.PartyID {
				continue
			}
			if !filter.Contains(inv.InvoiceDate) {
				continue
			}
			invoices = append(invoices, inv)
		}
	})
	return cursorPage(invoices, invoiceCursor, limit, nextToken)
}

func (r *ledgerRepository) FindReturnByID(ctx context.Context, businessID string, kind domain.DocumentKind, returnID string) (*domain.Return, error) {
	var (
		ret *domain.Return
		err error
	)
	r.store.read(func(st *state) {
		ret, err = (&ledgerTx{st: st}).LockReturn(ctx, businessID, kind, returnID)
	})
	return ret, err
}

func (r *ledgerRepository) ListReturns(ctx context.Context, businessID string, kind domain.DocumentKind, filter portsrepo.ReturnFilter, limit int, nextToken *string) ([]domain.Return, *string, error) {
	var returns []domain.Return
	r.store.read(func(st *state) {
		for _, ret := range st.returns {
			if ret.BusinessID != businessID || ret.Kind != kind {
				continue
			}
			if ret.IsDeleted && !filter.IncludeDeleted {
				continue
			}
			if filter.OriginalInvoiceID != "" && ret.OriginalInvoiceID != filter.OriginalInvoiceID {
				continue
			}
			if filter.PartyID != "" && ret.PartyID != filter.PartyID {
				continue
			}
			if !filter.Contains(ret.ReturnDate) {
				continue
			}
			returns = append(returns, ret)
		}
	})
	return cursorPage(returns, returnCursor, limit, nextToken)
}

func (r *ledgerRepository) FindCashbookEntryByID(ctx context.Context, businessID, entryID string) (*domain.CashbookEntry, error) {
	var (
		entry *domain.CashbookEntry
		err   error
	)
	r.store.read(func(st *state) {
		entry, err = (&ledgerTx{st: st}).LockCashbookEntry(ctx, businessID, entryID)
	})
	return entry, err
}

func (r *ledgerRepository) ListCashbookEntries(ctx context.Context, businessID string, filter portsrepo.CashbookFilter, limit int, nextToken *string) ([]domain.CashbookEntry, *string, error) {
	var entries []domain.CashbookEntry
	r.store.read(func(st *state) {
		for _, e := range st.cashbook {
			if e.BusinessID != businessID {
				continue
			}
			if e.IsDeleted && !filter.IncludeDeleted {
				continue
			}
			if filter.Type != "" && e.Type != filter.Type {
				continue
			}
			if filter.PartyID != "" && (e.PartyID == nil || *e.PartyID != filter.PartyID) {
				continue
			}
			if !filter.Contains(e.EntryDate) {
				continue
			}
			entries = append(entries, e)
		}
	})
	return cursorPage(entries, cashbookCursor, limit, nextToken)
}

// ledgerTx works on the staged state of one transaction.
type ledgerTx struct {
	st *state
}

var _ portsrepo.LedgerTx = (*ledgerTx)(nil)

func (tx *ledgerTx) ClaimDocumentNumber(ctx context.Context, businessID string, kind domain.DocumentKind, start int64) (int64, error) {
	next := nextNumber(tx.st, businessID, kind, start)
	tx.st.sequences[seqKey{businessID, kind}] = next
	return next, nil
}

func (tx *ledgerTx) ReserveDocumentNumber(ctx context.Context, businessID string, kind domain.DocumentKind, number int64) error {
	key := seqKey{businessID, kind}
	if last, ok := tx.st.sequences[key]; !ok || number > last {
		tx.st.sequences[key] = number
	}
	return nil
}

// ApplyEffects touches products and parties even when they are soft deleted,
// so reversing an old document stays exact.
func (tx *ledgerTx) ApplyEffects(ctx context.Context, businessID string, ref domain.DocumentRef, effects domain.LedgerEffects, userID string, at time.Time) error {
	return tx.apply(businessID, ref, effects.Stock, effects.Balances(), userID, at)
}

func (tx *ledgerTx) ReplaceEffects(ctx context.Context, businessID string, ref domain.DocumentRef, old, updated domain.LedgerEffects, userID string, at time.Time) error {
	stock, balances := domain.NetChange(old, updated)
	return tx.apply(businessID, ref, stock, balances, userID, at)
}

func (tx *ledgerTx) apply(businessID string, ref domain.DocumentRef, stock []domain.StockDelta, balances []domain.BalanceDelta, userID string, at time.Time) error {
	for _, d := range stock {
		if d.Quantity.IsZero() {
			continue
		}
		product, ok := tx.st.products[d.ProductID]
		if !ok || product.BusinessID != businessID {
			return notFound("product " + d.ProductID)
		}
		product.CurrentStock = product.CurrentStock.Add(d.Quantity)
		product.Touch(userID, at)
		tx.st.products[d.ProductID] = product
		tx.st.movements = append(tx.st.movements, domain.StockMovement{
			MovementID:   uuid.NewString(),
			BusinessID:   businessID,
			ProductID:    d.ProductID,
			DocumentKind: ref.Kind,
			DocumentID:   ref.ID,
			Quantity:     d.Quantity,
			CreatedAt:    at,
			CreatedBy:    userID,
		})
	}
	for _, b := range balances {
		if b.Amount.IsZero() {
			continue
		}
		party, ok := tx.st.parties[b.PartyID]
		if !ok || party.BusinessID != businessID {
			return notFound("party")
		}
		party.Balance = party.Balance.Add(b.Amount)
		party.Touch(userID, at)
		tx.st.parties[b.PartyID] = party
	}
	return nil
}

// InsertInvoice rejects a number already used in the series, deleted invoices included.
func (tx *ledgerTx) InsertInvoice(ctx context.Context, invoice domain.Invoice) error {
	for _, other := range tx.st.invoices {
		if other.BusinessID == invoice.BusinessID && other.Kind == invoice.Kind && other.InvoiceNo == invoice.InvoiceNo {
			return duplicate("invoice number")
		}
	}
	tx.st.invoices[invoice.InvoiceID] = invoice
	return nil
}

func (tx *ledgerTx) LockInvoice(ctx context.Context, businessID string, kind domain.DocumentKind, invoiceID string) (*domain.Invoice, error) {
	inv, ok := tx.st.invoices[invoiceID]
	if !ok || inv.IsDeleted || inv.BusinessID != businessID || inv.Kind != kind {
		return nil, notFound(string(kind))
	}
	return &inv, nil
}

func (tx *ledgerTx) UpdateInvoice(ctx context.Context, invoice domain.Invoice) error {
	if _, err := tx.LockInvoice(ctx, invoice.BusinessID, invoice.Kind, invoice.InvoiceID); err != nil {
		return err
	}
	tx.st.invoices[invoice.InvoiceID] = invoice
	return nil
}

func (tx *ledgerTx) MarkInvoiceDeleted(ctx context.Context, businessID, invoiceID string, deletedAt time.Time, deletedBy string) error {
	inv, ok := tx.st.invoices[invoiceID]
	if !ok || inv.IsDeleted || inv.BusinessID != businessID {
		return notFound("invoice")
	}
	inv.IsDeleted = true
	inv.DeletedAt = &deletedAt
	inv.Touch(deletedBy, deletedAt)
	tx.st.invoices[invoiceID] = inv
	return nil
}

func (tx *ledgerTx) InsertReturn(ctx context.Context, ret domain.Return) error {
	for _, other := range tx.st.returns {
		if other.BusinessID == ret.BusinessID && other.Kind == ret.Kind && other.ReturnNo == ret.ReturnNo {
			return duplicate("return number")
		}
	}
	tx.st.returns[ret.ReturnID] = ret
	return nil
}

func (tx *ledgerTx) LockReturn(ctx context.Context, businessID string, kind domain.DocumentKind, returnID string) (*domain.Return, error) {
	ret, ok := tx.st.returns[returnID]
	if !ok || ret.IsDeleted || ret.BusinessID != businessID || ret.Kind != kind {
		return nil, notFound(string(kind))
	}
	return &ret, nil
}

func (tx *ledgerTx) UpdateReturn(ctx context.Context, ret domain.Return) error {
	if _, err := tx.LockReturn(ctx, ret.BusinessID, ret.Kind, ret.ReturnID); err != nil {
		return err
	}
	tx.st.returns[ret.ReturnID] = ret
	return nil
}

func (tx *ledgerTx) MarkReturnDeleted(ctx context.Context, businessID, returnID string, deletedAt time.Time, deletedBy string) error {
	ret, ok := tx.st.returns[returnID]
	if !ok || ret.IsDeleted || ret.BusinessID != businessID {
		return notFound("return")
	}
	ret.IsDeleted = true
	ret.DeletedAt = &deletedAt
	ret.Touch(deletedBy, deletedAt)
	tx.st.returns[returnID] = ret
	return nil
}

func (tx *ledgerTx) ListLiveReturnsForInvoice(ctx context.Context, businessID, invoiceID string) ([]domain.Return, error) {
	var out []domain.Return
	for _, ret := range tx.st.returns {
		if !ret.IsDeleted && ret.BusinessID == businessID && ret.OriginalInvoiceID == invoiceID {
			out = append(out, ret)
		}
	}
	return out, nil
}

func (tx *ledgerTx) InsertCashbookEntry(ctx context.Context, entry domain.CashbookEntry) error {
	if _, exists := tx.st.cashbook[entry.EntryID]; exists {
		return duplicate("cashbook entry")
	}
	tx.st.cashbook[entry.EntryID] = entry
	return nil
}

func (tx *ledgerTx) LockCashbookEntry(ctx context.Context, businessID, entryID string) (*domain.CashbookEntry, error) {
	entry, ok := tx.st.cashbook[entryID]
	if !ok || entry.IsDeleted || entry.BusinessID != businessID {
		return nil, notFound("cashbook entry")
	}
	return &entry, nil
}

func (tx *ledgerTx) UpdateCashbookEntry(ctx context.Context, entry domain.CashbookEntry) error {
	if _, err := tx.LockCashbookEntry(ctx, entry.BusinessID, entry.EntryID); err != nil {
		return err
	}
	tx.st.cashbook[entry.EntryID] = entry
	return nil
}

func (tx *ledgerTx) MarkCashbookEntryDeleted(ctx context.Context, businessID, entryID string, deletedAt time.Time, deletedBy string) error {
	entry, err := tx.LockCashbookEntry(ctx, businessID, entryID)
	if err != nil {
		return err
	}
	entry.IsDeleted = true
	entry.DeletedAt = &deletedAt
	entry.Touch(deletedBy, deletedAt)
	tx.st.cashbook[entryID] = *entry
	return nil
}
