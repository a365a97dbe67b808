package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a stock-keeping unit of a business.
type Product struct {
	ProductID         string          `json:"productID"`
	BusinessID        string          `json:"businessID"`
	CategoryID        *string         `json:"categoryID,omitempty"`
	Name              string          `json:"name"`
	SKU               string          `json:"sku,omitempty"`
	Unit              string          `json:"unit"`
	PurchasePrice     decimal.Decimal `json:"purchasePrice"`
	SellingPrice      decimal.Decimal `json:"sellingPrice"`
	TaxPercent        decimal.Decimal `json:"taxPercent"`
	OpeningStock      decimal.Decimal `json:"openingStock"`
	CurrentStock      decimal.Decimal `json:"currentStock"` // openingStock + Σ movements
	LowStockThreshold decimal.Decimal `json:"lowStockThreshold"`
	SoftDelete
	AuditFields
}

// IsLowStock reports whether current stock has fallen to the threshold.
func (p Product) IsLowStock() bool {
	return p.CurrentStock.LessThanOrEqual(p.LowStockThreshold)
}

// StockMovement is one signed change of a product's stock, written whenever
// a document's effects are applied or reversed.
type StockMovement struct {
	MovementID   string          `json:"movementID"`
	BusinessID   string          `json:"businessID"`
	ProductID    string          `json:"productID"`
	DocumentKind DocumentKind    `json:"documentKind"`
	DocumentID   string          `json:"documentID"`
	Quantity     decimal.Decimal `json:"quantity"`
	CreatedAt    time.Time       `json:"createdAt"`
	CreatedBy    string          `json:"createdBy"`
}
