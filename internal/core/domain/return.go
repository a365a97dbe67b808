package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemCondition tags a returned line as resalable or not.
type ItemCondition string

const (
	ConditionGood ItemCondition = "good"
	ConditionBad  ItemCondition = "bad"
)

func (c ItemCondition) Valid() bool {
	return c == ConditionGood || c == ConditionBad
}

// ReturnItem is one returned product line.
type ReturnItem struct {
	ProductID   string          `json:"productID"`
	ProductName string          `json:"productName"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	Total       decimal.Decimal `json:"total"`
	Condition   ItemCondition   `json:"condition"`
}

// ReturnTotals are the computed aggregates of a return.
type ReturnTotals struct {
	Subtotal     decimal.Decimal `json:"subtotal"`
	RefundAmount decimal.Decimal `json:"refundAmount"`
	TaxAmount    decimal.Decimal `json:"taxAmount"`
	GrandTotal   decimal.Decimal `json:"grandTotal"`
}

// Return is a sale return or a purchase return against an original invoice.
type Return struct {
	ReturnID              string          `json:"returnID"`
	BusinessID            string          `json:"businessID"`
	Kind                  DocumentKind    `json:"kind"`
	ReturnNo              int64           `json:"returnNo"`
	ReturnNumber          string          `json:"returnNumber"`
	OriginalInvoiceID     string          `json:"originalInvoiceID"`
	OriginalInvoiceNumber string          `json:"originalInvoiceNumber"`
	PartyID               string          `json:"partyID"`
	PartyName             string          `json:"partyName"`
	ReturnDate            time.Time       `json:"returnDate"`
	Items                 []ReturnItem    `json:"items"`
	TaxRate               decimal.Decimal `json:"taxRate"`
	ReturnTotals
	Reason  string        `json:"reason,omitempty"`
	Effects LedgerEffects `json:"appliedEffects"`
	SoftDelete
	AuditFields
}

// ComputeReturnTotals fills in line totals and returns the aggregates.
// Tax is charged on every returned item, the refund only covers good ones:
// grandTotal = refundAmount + tax. The original invoice's discount is spread
// over the returned value in proportion, so a full return of a discounted
// invoice credits exactly what was billed.
func ComputeReturnTotals(items []ReturnItem, taxRate decimal.Decimal, original InvoiceTotals) ([]ReturnItem, ReturnTotals) {
	out := make([]ReturnItem, len(items))
	subtotal := decimal.Zero
	good := decimal.Zero
	for i, item := range items {
		item.Total = RoundMoney(item.Quantity.Mul(item.Rate))
		subtotal = subtotal.Add(item.Total)
		if item.Condition == ConditionGood {
			good = good.Add(item.Total)
		}
		out[i] = item
	}
	refund := original.Discounted(good)
	tax := PercentOf(original.Discounted(subtotal), taxRate)
	return out, ReturnTotals{
		Subtotal:     subtotal,
		RefundAmount: refund,
		TaxAmount:    tax,
		GrandTotal:   refund.Add(tax),
	}
}

// ComputeEffects restocks good items on a sale return, sends good items back
// on a purchase return, and credits the party by the grand total.
func (r Return) ComputeEffects() LedgerEffects {
	sign := decimal.NewFromInt(1)
	if r.Kind == KindPurchaseReturn {
		sign = sign.Neg()
	}
	deltas := make([]StockDelta, 0, len(r.Items))
	for _, item := range r.Items {
		if item.Condition != ConditionGood {
			continue
		}
		deltas = append(deltas, StockDelta{ProductID: item.ProductID, Quantity: item.Quantity.Mul(sign)})
	}
	return LedgerEffects{
		Stock:   mergeStock(deltas),
		Balance: &BalanceDelta{PartyID: r.PartyID, Amount: r.GrandTotal.Neg()},
	}
}

// QuantityOf sums the returned quantity of productID regardless of condition.
func (r Return) QuantityOf(productID string) decimal.Decimal {
	total := decimal.Zero
	for _, item := range r.Items {
		if item.ProductID == productID {
			total = total.Add(item.Quantity)
		}
	}
	return total
}
