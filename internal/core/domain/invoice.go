package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DiscountType selects how DiscountValue is interpreted.
type DiscountType string

const (
	DiscountFlat    DiscountType = "flat"
	DiscountPercent DiscountType = "percent"
)

// LineItem is one product line on a sale or purchase.
type LineItem struct {
	ProductID   string          `json:"productID"`
	ProductName string          `json:"productName"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	Total       decimal.Decimal `json:"total"`
}

// InvoiceTotals are the computed aggregates of an invoice.
type InvoiceTotals struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	TaxAmount      decimal.Decimal `json:"taxAmount"`
	InvoiceAmount  decimal.Decimal `json:"invoiceAmount"`
}

// Invoice is a sale or purchase document.
type Invoice struct {
	InvoiceID     string          `json:"invoiceID"`
	BusinessID    string          `json:"businessID"`
	Kind          DocumentKind    `json:"kind"`
	InvoiceNo     int64           `json:"invoiceNo"` // unique per business and kind
	InvoiceNumber string          `json:"invoiceNumber"`
	PartyID       string          `json:"partyID"`
	PartyName     string          `json:"partyName"`
	InvoiceDate   time.Time       `json:"invoiceDate"`
	Items         []LineItem      `json:"items"`
	DiscountType  DiscountType    `json:"discountType"`
	DiscountValue decimal.Decimal `json:"discountValue"`
	TaxRate       decimal.Decimal `json:"taxRate"`
	InvoiceTotals
	Notes   string        `json:"notes,omitempty"`
	Effects LedgerEffects `json:"appliedEffects"`
	SoftDelete
	AuditFields
}

// ComputeInvoiceTotals fills in line totals and returns the aggregates.
// The discount is capped at the subtotal.
func ComputeInvoiceTotals(items []LineItem, discountType DiscountType, discountValue, taxRate decimal.Decimal) ([]LineItem, InvoiceTotals) {
	out := make([]LineItem, len(items))
	subtotal := decimal.Zero
	for i, item := range items {
		item.Total = RoundMoney(item.Quantity.Mul(item.Rate))
		subtotal = subtotal.Add(item.Total)
		out[i] = item
	}

	discount := decimal.Zero
	switch discountType {
	case DiscountPercent:
		discount = PercentOf(subtotal, discountValue)
	case DiscountFlat:
		discount = RoundMoney(discountValue)
	}
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}

	discounted := subtotal.Sub(discount)
	tax := PercentOf(discounted, taxRate)

	return out, InvoiceTotals{
		Subtotal:       subtotal,
		DiscountAmount: discount,
		TaxAmount:      tax,
		InvoiceAmount:  discounted.Add(tax),
	}
}

// Discounted scales amount by the share of the subtotal left after the
// discount, rounded to money.
func (t InvoiceTotals) Discounted(amount decimal.Decimal) decimal.Decimal {
	if t.DiscountAmount.IsZero() || !t.Subtotal.IsPositive() {
		return RoundMoney(amount)
	}
	return RoundMoney(amount.Mul(t.Subtotal.Sub(t.DiscountAmount)).Div(t.Subtotal))
}

// ComputeEffects derives the stock and balance deltas the invoice applies:
// a sale takes stock out, a purchase brings it in, and both raise the party
// balance by the invoice amount.
func (inv Invoice) ComputeEffects() LedgerEffects {
	sign := decimal.NewFromInt(1)
	if inv.Kind == KindSale {
		sign = sign.Neg()
	}
	deltas := make([]StockDelta, 0, len(inv.Items))
	for _, item := range inv.Items {
		deltas = append(deltas, StockDelta{ProductID: item.ProductID, Quantity: item.Quantity.Mul(sign)})
	}
	return LedgerEffects{
		Stock:   mergeStock(deltas),
		Balance: &BalanceDelta{PartyID: inv.PartyID, Amount: inv.InvoiceAmount},
	}
}

// QuantityOf sums the invoiced quantity of productID.
func (inv Invoice) QuantityOf(productID string) decimal.Decimal {
	total := decimal.Zero
	for _, item := range inv.Items {
		if item.ProductID == productID {
			total = total.Add(item.Quantity)
		}
	}
	return total
}
