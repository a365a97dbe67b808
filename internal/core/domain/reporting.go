package domain

import (
	"github.com/shopspring/decimal"
)

// BusinessOverview summarizes a business over a date range.
// Balances and stock reflect the current state, not the range.
type BusinessOverview struct {
	SalesTotal          decimal.Decimal `json:"salesTotal"`
	PurchasesTotal      decimal.Decimal `json:"purchasesTotal"`
	SaleReturnsTotal    decimal.Decimal `json:"saleReturnsTotal"`
	PurchaseReturnTotal decimal.Decimal `json:"purchaseReturnsTotal"`
	ExpensesTotal       decimal.Decimal `json:"expensesTotal"`
	Receivables         decimal.Decimal `json:"receivables"`
	Payables            decimal.Decimal `json:"payables"`
	SalesCount          int             `json:"salesCount"`
	PurchasesCount      int             `json:"purchasesCount"`
	LowStockProducts    int             `json:"lowStockProducts"`
}
