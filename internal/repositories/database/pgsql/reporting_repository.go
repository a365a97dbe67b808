package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/billistry/internal/core/domain"
	portsrepo "github.com/SscSPs/billistry/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// reportingRepository implements the ReportingRepository interface
type reportingRepository struct {
	BaseRepository
}

// NewReportingRepository creates a new reporting repository
func newReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// BusinessOverview sums live documents dated inside the range. Receivables and
// payables only count positive balances.
func (r *reportingRepository) BusinessOverview(ctx context.Context, businessID string, dateRange domain.DateRange) (*domain.BusinessOverview, error) {
	query := `
		WITH inv AS (
			SELECT kind, COALESCE(SUM(invoice_amount), 0) AS total, COUNT(*) AS n
			FROM invoices
			WHERE business_id = $1 AND NOT is_deleted
				AND ($2::timestamptz IS NULL OR invoice_date >= $2)
				AND ($3::timestamptz IS NULL OR invoice_date <= $3)
			GROUP BY kind
		), ret AS (
			SELECT kind, COALESCE(SUM(grand_total), 0) AS total
			FROM returns
			WHERE business_id = $1 AND NOT is_deleted
				AND ($2::timestamptz IS NULL OR return_date >= $2)
				AND ($3::timestamptz IS NULL OR return_date <= $3)
			GROUP BY kind
		)
		SELECT
			COALESCE((SELECT total FROM inv WHERE kind = 'sale'), 0),
			COALESCE((SELECT n FROM inv WHERE kind = 'sale'), 0),
			COALESCE((SELECT total FROM inv WHERE kind = 'purchase'), 0),
			COALESCE((SELECT n FROM inv WHERE kind = 'purchase'), 0),
			COALESCE((SELECT total FROM ret WHERE kind = 'sale_return'), 0),
			COALESCE((SELECT total FROM ret WHERE kind = 'purchase_return'), 0),
			(SELECT COALESCE(SUM(amount), 0) FROM cashbook_entries
				WHERE business_id = $1 AND NOT is_deleted AND type = 'expense'
					AND ($2::timestamptz IS NULL OR entry_date >= $2)
					AND ($3::timestamptz IS NULL OR entry_date <= $3)),
			(SELECT COALESCE(SUM(balance), 0) FROM parties
				WHERE business_id = $1 AND NOT is_deleted AND type = 'customer' AND balance > 0),
			(SELECT COALESCE(SUM(balance), 0) FROM parties
				WHERE business_id = $1 AND NOT is_deleted AND type = 'supplier' AND balance > 0),
			(SELECT COUNT(*) FROM products
				WHERE business_id = $1 AND NOT is_deleted AND current_stock <= low_stock_threshold);
	`
	var out domain.BusinessOverview
	err := r.Pool.QueryRow(ctx, query, businessID, dateRange.From, dateRange.To).Scan(
		&out.SalesTotal,
		&out.SalesCount,
		&out.PurchasesTotal,
		&out.PurchasesCount,
		&out.SaleReturnsTotal,
		&out.PurchaseReturnTotal,
		&out.ExpensesTotal,
		&out.Receivables,
		&out.Payables,
		&out.LowStockProducts,
	)
	if err != nil {
		return nil, fmt.Errorf("error querying business overview: %w", err)
	}
	return &out, nil
}
