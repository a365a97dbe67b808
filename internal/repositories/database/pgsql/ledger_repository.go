package pgsql

import (
	"context"
	"sort"
	"time"

	"github.com/SscSPs/billistry/internal/core/domain"
	portsrepo "github.com/SscSPs/billistry/internal/core/ports/repositories"
	"github.com/SscSPs/billistry/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates the repository for invoices, returns and cashbook entries.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryWithTx {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepositoryWithTx
var _ portsrepo.LedgerRepositoryWithTx = (*PgxLedgerRepository)(nil)

// WithinTx runs fn on one database transaction.
func (r *PgxLedgerRepository) WithinTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(ctx, &pgxLedgerTx{tx: tx})
	})
}

func (r *PgxLedgerRepository) PeekDocumentNumber(ctx context.Context, businessID string, kind domain.DocumentKind, start int64) (int64, error) {
	query := `
		SELECT GREATEST(COALESCE(MAX(last_number) + 1, $3), $3)
		FROM document_sequences
		WHERE business_id = $1 AND kind = $2;
	`
	var next int64
	if err := r.Pool.QueryRow(ctx, query, businessID, kind, start).Scan(&next); err != nil {
		return 0, mapError(err, "document sequence")
	}
	return next, nil
}

const invoiceColumns = `invoice_id, business_id, kind, invoice_no, invoice_number, party_id, party_name, invoice_date,
	items, discount_type, discount_value, tax_rate, subtotal, discount_amount, tax_amount, invoice_amount,
	notes, applied_effects, is_deleted, deleted_at, created_at, created_by, last_updated_at, last_updated_by`

func scanInvoice(row pgx.Row) (domain.Invoice, error) {
	var inv domain.Invoice
	err := row.Scan(
		&inv.InvoiceID,
		&inv.BusinessID,
		&inv.Kind,
		&inv.InvoiceNo,
		&inv.InvoiceNumber,
		&inv.PartyID,
		&inv.PartyName,
		&inv.InvoiceDate,
		&inv.Items,
		&inv.DiscountType,
		&inv.DiscountValue,
		&inv.TaxRate,
		&inv.Subtotal,
		&inv.DiscountAmount,
		&inv.TaxAmount,
		&inv.InvoiceAmount,
		&inv.Notes,
		&inv.Effects,
		&inv.IsDeleted,
		&inv.DeletedAt,
		&inv.CreatedAt,
		&inv.CreatedBy,
		&inv.LastUpdatedAt,
		&inv.LastUpdatedBy,
	)
	return inv, err
}

func invoiceCursor(inv domain.Invoice) pagination.Cursor {
	return pagination.Cursor{SortAt: inv.InvoiceDate, CreatedAt: inv.CreatedAt, ID: inv.InvoiceID}
}

// findInvoice loads a live invoice, locking it when lock is set.
func findInvoice(ctx context.Context, q querier, businessID string, kind domain.DocumentKind, invoiceID string, lock bool) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices
		WHERE invoice_id = $1 AND business_id = $2 AND kind = $3 AND NOT is_deleted`
	if lock {
		query += ` FOR UPDATE`
	}
	inv, err := scanInvoice(q.QueryRow(ctx, query, invoiceID, businessID, kind))
	if err != nil {
		return nil, mapError(err, string(kind))
	}
	return &inv, nil
}

func (r *PgxLedgerRepository) FindInvoiceByID(ctx context.Context, businessID string, kind domain.DocumentKind, invoiceID string) (*domain.Invoice, error) {
	return findInvoice(ctx, r.Pool, businessID, kind, invoiceID, false)
}

func (r *PgxLedgerRepository) ListInvoices(ctx context.Context, businessID string, kind domain.DocumentKind, filter portsrepo.InvoiceFilter, limit int, nextToken *string) ([]domain.Invoice, *string, error) {
	limit = clampLimit(limit)
	w := newWhere("business_id = ?", businessID).and("kind = ?", kind)
	if !filter.IncludeDeleted {
		w.and("NOT is_deleted")
	}
	if filter.PartyID != "" {
		w.and("party_id = ?", filter.PartyID)
	}
	dateRange(w, "invoice_date", filter.DateRange)
	if err := w.afterCursor(nextToken, "invoice_date", "invoice_id"); err != nil {
		return nil, nil, err
	}
	query := `SELECT ` + invoiceColumns + ` FROM invoices ` + w.String() +
		` ORDER BY invoice_date DESC, created_at DESC, invoice_id DESC LIMIT ` + w.next(limit+1) + `;`

	rows, err := r.Pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, nil, mapError(err, "invoices")
	}
	invoices, err := collect(rows, scanInvoice)
	if err != nil {
		return nil, nil, mapError(err, "invoices")
	}
	page, next := splitPage(invoices, limit, invoiceCursor)
	return page, next, nil
}

const returnColumns = `return_id, business_id, kind, return_no, return_number, original_invoice_id, original_invoice_number,
	party_id, party_name, return_date, items, tax_rate, subtotal, refund_amount, tax_amount, grand_total,
	reason, applied_effects, is_deleted, deleted_at, created_at, created_by, last_updated_at, last_updated_by`

func scanReturn(row pgx.Row) (domain.Return, error) {
	var ret domain.Return
	err := row.Scan(
		&ret.ReturnID,
		&ret.BusinessID,
		&ret.Kind,
		&ret.ReturnNo,
		&ret.ReturnNumber,
		&ret.OriginalInvoiceID,
		&ret.OriginalInvoiceNumber,
		&ret.PartyID,
		&ret.PartyName,
		&ret.ReturnDate,
		&ret.Items,
		&ret.TaxRate,
		&ret.Subtotal,
		&ret.RefundAmount,
		&ret.TaxAmount,
		&ret.GrandTotal,
		&ret.Reason,
		&ret.Effects,
		&ret.IsDeleted,
		&ret.DeletedAt,
		&ret.CreatedAt,
		&ret.CreatedBy,
		&ret.LastUpdatedAt,
		&ret.LastUpdatedBy,
	)
	return ret, err
}

func returnCursor(ret domain.Return) pagination.Cursor {
	return pagination.Cursor{SortAt: ret.ReturnDate, CreatedAt: ret.CreatedAt, ID: ret.ReturnID}
}

func findReturn(ctx context.Context, q querier, businessID string, kind domain.DocumentKind, returnID string, lock bool) (*domain.Return, error) {
	query := `SELECT ` + returnColumns + ` FROM returns
		WHERE return_id = $1 AND business_id = $2 AND kind = $3 AND NOT is_deleted`
	if lock {
		query += ` FOR UPDATE`
	}
	ret, err := scanReturn(q.QueryRow(ctx, query, returnID, businessID, kind))
	if err != nil {
		return nil, mapError(err, string(kind))
	}
	return &ret, nil
}

func (r *PgxLedgerRepository) FindReturnByID(ctx context.Context, businessID string, kind domain.DocumentKind, returnID string) (*domain.Return, error) {
	return findReturn(ctx, r.Pool, businessID, kind, returnID, false)
}

func (r *PgxLedgerRepository) ListReturns(ctx context.Context, businessID string, kind domain.DocumentKind, filter portsrepo.ReturnFilter, limit int, nextToken *string) ([]domain.Return, *string, error) {
	limit = clampLimit(limit)
	w := newWhere("business_id = ?", businessID).and("kind = ?", kind)
	if !filter.IncludeDeleted {
		w.and("NOT is_deleted")
	}
	if filter.OriginalInvoiceID != "" {
		w.and("original_invoice_id = ?", filter.OriginalInvoiceID)
	}
	if filter.PartyID != "" {
		w.and("party_id = ?", filter.PartyID)
	}
	dateRange(w, "return_date", filter.DateRange)
	if err := w.afterCursor(nextToken, "return_date", "return_id"); err != nil {
		return nil, nil, err
	}
	query := `SELECT ` + returnColumns + ` FROM returns ` + w.String() +
		` ORDER BY return_date DESC, created_at DESC, return_id DESC LIMIT ` + w.next(limit+1) + `;`

	rows, err := r.Pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, nil, mapError(err, "returns")
	}
	returns, err := collect(rows, scanReturn)
	if err != nil {
		return nil, nil, mapError(err, "returns")
	}
	page, next := splitPage(returns, limit, returnCursor)
	return page, next, nil
}

const cashbookColumns = `entry_id, business_id, type, party_id, amount, mode, expense_category, entry_date, notes,
	applied_effects, is_deleted, deleted_at, created_at, created_by, last_updated_at, last_updated_by`

func scanCashbookEntry(row pgx.Row) (domain.CashbookEntry, error) {
	var e domain.CashbookEntry
	err := row.Scan(
		&e.EntryID,
		&e.BusinessID,
		&e.Type,
		&e.PartyID,
		&e.Amount,
		&e.Mode,
		&e.ExpenseCategory,
		&e.EntryDate,
		&e.Notes,
		&e.Effects,
		&e.IsDeleted,
		&e.DeletedAt,
		&e.CreatedAt,
		&e.CreatedBy,
		&e.LastUpdatedAt,
		&e.LastUpdatedBy,
	)
	return e, err
}

func cashbookCursor(e domain.CashbookEntry) pagination.Cursor {
	return pagination.Cursor{SortAt: e.EntryDate, CreatedAt: e.CreatedAt, ID: e.EntryID}
}

func findCashbookEntry(ctx context.Context, q querier, businessID, entryID string, lock bool) (*domain.CashbookEntry, error) {
	query := `SELECT ` + cashbookColumns + ` FROM cashbook_entries
		WHERE entry_id = $1 AND business_id = $2 AND NOT is_deleted`
	if lock {
		query += ` FOR UPDATE`
	}
	e, err := scanCashbookEntry(q.QueryRow(ctx, query, entryID, businessID))
	if err != nil {
		return nil, mapError(err, "cashbook entry")
	}
	return &e, nil
}

func (r *PgxLedgerRepository) FindCashbookEntryByID(ctx context.Context, businessID, entryID string) (*domain.CashbookEntry, error) {
	return findCashbookEntry(ctx, r.Pool, businessID, entryID, false)
}

func (r *PgxLedgerRepository) ListCashbookEntries(ctx context.Context, businessID string, filter portsrepo.CashbookFilter, limit int, nextToken *string) ([]domain.CashbookEntry, *string, error) {
	limit = clampLimit(limit)
	w := newWhere("business_id = ?", businessID)
	if !filter.IncludeDeleted {
		w.and("NOT is_deleted")
	}
	if filter.Type != "" {
		w.and("type = ?", filter.Type)
	}
	if filter.PartyID != "" {
		w.and("party_id = ?", filter.PartyID)
	}
	dateRange(w, "entry_date", filter.DateRange)
	if err := w.afterCursor(nextToken, "entry_date", "entry_id"); err != nil {
		return nil, nil, err
	}
	query := `SELECT ` + cashbookColumns + ` FROM cashbook_entries ` + w.String() +
		` ORDER BY entry_date DESC, created_at DESC, entry_id DESC LIMIT ` + w.next(limit+1) + `;`

	rows, err := r.Pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, nil, mapError(err, "cashbook entries")
	}
	entries, err := collect(rows, scanCashbookEntry)
	if err != nil {
		return nil, nil, mapError(err, "cashbook entries")
	}
	page, next := splitPage(entries, limit, cashbookCursor)
	return page, next, nil
}

func dateRange(w *where, col string, r domain.DateRange) {
	if r.From != nil {
		w.and(col+" >= ?", *r.From)
	}
	if r.To != nil {
		w.and(col+" <= ?", *r.To)
	}
}

// pgxLedgerTx implements portsrepo.LedgerTx on an open transaction.
type pgxLedgerTx struct {
	tx pgx.Tx
}

var _ portsrepo.LedgerTx = (*pgxLedgerTx)(nil)

// ClaimDocumentNumber upserts the series row; the row lock serializes concurrent claims.
func (t *pgxLedgerTx) ClaimDocumentNumber(ctx context.Context, businessID string, kind domain.DocumentKind, start int64) (int64, error) {
	query := `
		INSERT INTO document_sequences (business_id, kind, last_number)
		VALUES ($1, $2, $3)
		ON CONFLICT (business_id, kind)
		DO UPDATE SET last_number = GREATEST(document_sequences.last_number + 1, EXCLUDED.last_number)
		RETURNING last_number;
	`
	var no int64
	if err := t.tx.QueryRow(ctx, query, businessID, kind, start).Scan(&no); err != nil {
		return 0, mapError(err, "document sequence")
	}
	return no, nil
}

func (t *pgxLedgerTx) ReserveDocumentNumber(ctx context.Context, businessID string, kind domain.DocumentKind, number int64) error {
	query := `
		INSERT INTO document_sequences (business_id, kind, last_number)
		VALUES ($1, $2, $3)
		ON CONFLICT (business_id, kind)
		DO UPDATE SET last_number = GREATEST(document_sequences.last_number, EXCLUDED.last_number);
	`
	_, err := t.tx.Exec(ctx, query, businessID, kind, number)
	return mapError(err, "document sequence")
}

// ApplyEffects increments in place, so concurrent documents never lose an
// update. Soft-deleted rows are still updated so old documents reverse exactly.
func (t *pgxLedgerTx) ApplyEffects(ctx context.Context, businessID string, ref domain.DocumentRef, effects domain.LedgerEffects, userID string, at time.Time) error {
	return t.apply(ctx, businessID, ref, effects.Stock, effects.Balances(), userID, at)
}

func (t *pgxLedgerTx) ReplaceEffects(ctx context.Context, businessID string, ref domain.DocumentRef, old, updated domain.LedgerEffects, userID string, at time.Time) error {
	stock, balances := domain.NetChange(old, updated)
	return t.apply(ctx, businessID, ref, stock, balances, userID, at)
}

// apply touches products in id order, then parties in id order, to keep the
// lock order stable across transactions.
func (t *pgxLedgerTx) apply(ctx context.Context, businessID string, ref domain.DocumentRef, stock []domain.StockDelta, balances []domain.BalanceDelta, userID string, at time.Time) error {
	deltas := make([]domain.StockDelta, 0, len(stock))
	for _, d := range stock {
		if !d.Quantity.IsZero() {
			deltas = append(deltas, d)
		}
	}
	sort.Slice(deltas, func(i, j int) bool { return deltas[i].ProductID < deltas[j].ProductID })

	stockQuery := `
		UPDATE products
		SET current_stock = current_stock + $1, last_updated_at = $2, last_updated_by = $3
		WHERE product_id = $4 AND business_id = $5;
	`
	movementQuery := `
		INSERT INTO stock_movements (movement_id, business_id, product_id, document_kind, document_id, quantity, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	for _, d := range deltas {
		tag, err := t.tx.Exec(ctx, stockQuery, d.Quantity, at, userID, d.ProductID, businessID)
		if err != nil {
			return mapError(err, "product "+d.ProductID)
		}
		if err := requireRow(tag, "product "+d.ProductID); err != nil {
			return err
		}
	}

	if len(deltas) > 0 {
		batch := &pgx.Batch{}
		for _, d := range deltas {
			batch.Queue(movementQuery, uuid.NewString(), businessID, d.ProductID, ref.Kind, ref.ID, d.Quantity, at, userID)
		}
		if err := t.tx.SendBatch(ctx, batch).Close(); err != nil {
			return mapError(err, "stock movements")
		}
	}

	parties := make([]domain.BalanceDelta, 0, len(balances))
	for _, b := range balances {
		if !b.Amount.IsZero() {
			parties = append(parties, b)
		}
	}
	sort.Slice(parties, func(i, j int) bool { return parties[i].PartyID < parties[j].PartyID })

	balanceQuery := `
		UPDATE parties
		SET balance = balance + $1, last_updated_at = $2, last_updated_by = $3
		WHERE party_id = $4 AND business_id = $5;
	`
	for _, b := range parties {
		tag, err := t.tx.Exec(ctx, balanceQuery, b.Amount, at, userID, b.PartyID, businessID)
		if err != nil {
			return mapError(err, "party")
		}
		if err := requireRow(tag, "party"); err != nil {
			return err
		}
	}
	return nil
}

func (t *pgxLedgerTx) InsertInvoice(ctx context.Context, inv domain.Invoice) error {
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24);
	`
	_, err := t.tx.Exec(ctx, query,
		inv.InvoiceID,
		inv.BusinessID,
		inv.Kind,
		inv.InvoiceNo,
		inv.InvoiceNumber,
		inv.PartyID,
		inv.PartyName,
		inv.InvoiceDate,
		inv.Items,
		inv.DiscountType,
		inv.DiscountValue,
		inv.TaxRate,
		inv.Subtotal,
		inv.DiscountAmount,
		inv.TaxAmount,
		inv.InvoiceAmount,
		inv.Notes,
		inv.Effects,
		inv.IsDeleted,
		inv.DeletedAt,
		inv.CreatedAt,
		inv.CreatedBy,
		inv.LastUpdatedAt,
		inv.LastUpdatedBy,
	)
	return mapError(err, "invoice number")
}

func (t *pgxLedgerTx) LockInvoice(ctx context.Context, businessID string, kind domain.DocumentKind, invoiceID string) (*domain.Invoice, error) {
	return findInvoice(ctx, t.tx, businessID, kind, invoiceID, true)
}

// UpdateInvoice rewrites the mutable part of a live invoice. Number and kind stay.
func (t *pgxLedgerTx) UpdateInvoice(ctx context.Context, inv domain.Invoice) error {
	query := `
		UPDATE invoices
		SET party_id = $3, party_name = $4, invoice_date = $5, items = $6, discount_type = $7, discount_value = $8,
		    tax_rate = $9, subtotal = $10, discount_amount = $11, tax_amount = $12, invoice_amount = $13,
		    notes = $14, applied_effects = $15, last_updated_at = $16, last_updated_by = $17
		WHERE invoice_id = $1 AND business_id = $2 AND NOT is_deleted;
	`
	tag, err := t.tx.Exec(ctx, query,
		inv.InvoiceID,
		inv.BusinessID,
		inv.PartyID,
		inv.PartyName,
		inv.InvoiceDate,
		inv.Items,
		inv.DiscountType,
		inv.DiscountValue,
		inv.TaxRate,
		inv.Subtotal,
		inv.DiscountAmount,
		inv.TaxAmount,
		inv.InvoiceAmount,
		inv.Notes,
		inv.Effects,
		inv.LastUpdatedAt,
		inv.LastUpdatedBy,
	)
	if err != nil {
		return mapError(err, "invoice")
	}
	return requireRow(tag, "invoice")
}

func (t *pgxLedgerTx) MarkInvoiceDeleted(ctx context.Context, businessID, invoiceID string, deletedAt time.Time, deletedBy string) error {
	return markDeleted(ctx, t.tx, "invoices", "invoice_id", businessID, invoiceID, deletedAt, deletedBy, "invoice")
}

func (t *pgxLedgerTx) InsertReturn(ctx context.Context, ret domain.Return) error {
	query := `
		INSERT INTO returns (` + returnColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24);
	`
	_, err := t.tx.Exec(ctx, query,
		ret.ReturnID,
		ret.BusinessID,
		ret.Kind,
		ret.ReturnNo,
		ret.ReturnNumber,
		ret.OriginalInvoiceID,
		ret.OriginalInvoiceNumber,
		ret.PartyID,
		ret.PartyName,
		ret.ReturnDate,
		ret.Items,
		ret.TaxRate,
		ret.Subtotal,
		ret.RefundAmount,
		ret.TaxAmount,
		ret.GrandTotal,
		ret.Reason,
		ret.Effects,
		ret.IsDeleted,
		ret.DeletedAt,
		ret.CreatedAt,
		ret.CreatedBy,
		ret.LastUpdatedAt,
		ret.LastUpdatedBy,
	)
	return mapError(err, "return number")
}

func (t *pgxLedgerTx) LockReturn(ctx context.Context, businessID string, kind domain.DocumentKind, returnID string) (*domain.Return, error) {
	return findReturn(ctx, t.tx, businessID, kind, returnID, true)
}

func (t *pgxLedgerTx) UpdateReturn(ctx context.Context, ret domain.Return) error {
	query := `
		UPDATE returns
		SET return_date = $3, items = $4, tax_rate = $5, subtotal = $6, refund_amount = $7, tax_amount = $8,
		    grand_total = $9, reason = $10, applied_effects = $11, last_updated_at = $12, last_updated_by = $13
		WHERE return_id = $1 AND business_id = $2 AND NOT is_deleted;
	`
	tag, err := t.tx.Exec(ctx, query,
		ret.ReturnID,
		ret.BusinessID,
		ret.ReturnDate,
		ret.Items,
		ret.TaxRate,
		ret.Subtotal,
		ret.RefundAmount,
		ret.TaxAmount,
		ret.GrandTotal,
		ret.Reason,
		ret.Effects,
		ret.LastUpdatedAt,
		ret.LastUpdatedBy,
	)
	if err != nil {
		return mapError(err, "return")
	}
	return requireRow(tag, "return")
}

func (t *pgxLedgerTx) MarkReturnDeleted(ctx context.Context, businessID, returnID string, deletedAt time.Time, deletedBy string) error {
	return markDeleted(ctx, t.tx, "returns", "return_id", businessID, returnID, deletedAt, deletedBy, "return")
}

func (t *pgxLedgerTx) ListLiveReturnsForInvoice(ctx context.Context, businessID, invoiceID string) ([]domain.Return, error) {
	query := `
		SELECT ` + returnColumns + `
		FROM returns
		WHERE business_id = $1 AND original_invoice_id = $2 AND NOT is_deleted
		ORDER BY created_at;
	`
	rows, err := t.tx.Query(ctx, query, businessID, invoiceID)
	if err != nil {
		return nil, mapError(err, "returns")
	}
	returns, err := collect(rows, scanReturn)
	return returns, mapError(err, "returns")
}

func (t *pgxLedgerTx) InsertCashbookEntry(ctx context.Context, e domain.CashbookEntry) error {
	query := `
		INSERT INTO cashbook_entries (` + cashbookColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err := t.tx.Exec(ctx, query,
		e.EntryID,
		e.BusinessID,
		e.Type,
		e.PartyID,
		e.Amount,
		e.Mode,
		e.ExpenseCategory,
		e.EntryDate,
		e.Notes,
		e.Effects,
		e.IsDeleted,
		e.DeletedAt,
		e.CreatedAt,
		e.CreatedBy,
		e.LastUpdatedAt,
		e.LastUpdatedBy,
	)
	return mapError(err, "cashbook entry")
}

func (t *pgxLedgerTx) LockCashbookEntry(ctx context.Context, businessID, entryID string) (*domain.CashbookEntry, error) {
	return findCashbookEntry(ctx, t.tx, businessID, entryID, true)
}

func (t *pgxLedgerTx) UpdateCashbookEntry(ctx context.Context, e domain.CashbookEntry) error {
	query := `
		UPDATE cashbook_entries
		SET type = $3, party_id = $4, amount = $5, mode = $6, expense_category = $7, entry_date = $8,
		    notes = $9, applied_effects = $10, last_updated_at = $11, last_updated_by = $12
		WHERE entry_id = $1 AND business_id = $2 AND NOT is_deleted;
	`
	tag, err := t.tx.Exec(ctx, query,
		e.EntryID,
		e.BusinessID,
		e.Type,
		e.PartyID,
		e.Amount,
		e.Mode,
		e.ExpenseCategory,
		e.EntryDate,
		e.Notes,
		e.Effects,
		e.LastUpdatedAt,
		e.LastUpdatedBy,
	)
	if err != nil {
		return mapError(err, "cashbook entry")
	}
	return requireRow(tag, "cashbook entry")
}

func (t *pgxLedgerTx) MarkCashbookEntryDeleted(ctx context.Context, businessID, entryID string, deletedAt time.Time, deletedBy string) error {
	return markDeleted(ctx, t.tx, "cashbook_entries", "entry_id", businessID, entryID, deletedAt, deletedBy, "cashbook entry")
}

// markDeleted soft deletes one live document row. table and idCol are never user input.
func markDeleted(ctx context.Context, q querier, table, idCol, businessID, id string, deletedAt time.Time, deletedBy, what string) error {
	query := `UPDATE ` + table + `
		SET is_deleted = TRUE, deleted_at = $3, last_updated_at = $3, last_updated_by = $4
		WHERE ` + idCol + ` = $1 AND business_id = $2 AND NOT is_deleted;`
	tag, err := q.Exec(ctx, query, id, businessID, deletedAt, deletedBy)
	if err != nil {
		return mapError(err, what)
	}
	return requireRow(tag, what)
}
