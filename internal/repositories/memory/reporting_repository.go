package memory

import (
	"context"

	"github.com/SscSPs/billistry/internal/core/domain"
	portsrepo "github.com/SscSPs/billistry/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

type reportingRepository struct {
	store *Store
}

func newReportingRepository(store *Store) *reportingRepository {
	return &reportingRepository{store: store}
}

var _ portsrepo.ReportingRepository = (*reportingRepository)(nil)

func (r *reportingRepository) BusinessOverview(ctx context.Context, businessID string, dateRange domain.DateRange) (*domain.BusinessOverview, error) {
	out := &domain.BusinessOverview{
		SalesTotal:          decimal.Zero,
		PurchasesTotal:      decimal.Zero,
		SaleReturnsTotal:    decimal.Zero,
		PurchaseReturnTotal: decimal.Zero,
		ExpensesTotal:       decimal.Zero,
		Receivables:         decimal.Zero,
		Payables:            decimal.Zero,
	}
	r.store.read(func(st *state) {
		for _, inv := range st.invoices {
			if inv.IsDeleted || inv.BusinessID != businessID || !dateRange.Contains(inv.InvoiceDate) {
				continue
			}
			switch inv.Kind {
			case domain.KindSale:
				out.SalesTotal = out.SalesTotal.Add(inv.InvoiceAmount)
				out.SalesCount++
			case domain.KindPurchase:
				out.PurchasesTotal = out.PurchasesTotal.Add(inv.InvoiceAmount)
				out.PurchasesCount++
			}
		}
		for _, ret := range st.returns {
			if ret.IsDeleted || ret.BusinessID != businessID || !dateRange.Contains(ret.ReturnDate) {
				continue
			}
			switch ret.Kind {
			case domain.KindSaleReturn:
				out.SaleReturnsTotal = out.SaleReturnsTotal.Add(ret.GrandTotal)
			case domain.KindPurchaseReturn:
				out.PurchaseReturnTotal = out.PurchaseReturnTotal.Add(ret.GrandTotal)
			}
		}
		for _, e := range st.cashbook {
			if !e.IsDeleted && e.BusinessID == businessID && e.Type == domain.EntryExpense && dateRange.Contains(e.EntryDate) {
				out.ExpensesTotal = out.ExpensesTotal.Add(e.Amount)
			}
		}
		for _, p := range st.parties {
			if p.IsDeleted || p.BusinessID != businessID || !p.Balance.IsPositive() {
				continue
			}
			if p.Type == domain.PartyCustomer {
				out.Receivables = out.Receivables.Add(p.Balance)
			} else {
				out.Payables = out.Payables.Add(p.Balance)
			}
		}
		for _, p := range st.products {
			if !p.IsDeleted && p.BusinessID == businessID && p.IsLowStock() {
				out.LowStockProducts++
			}
		}
	})
	return out, nil
}
