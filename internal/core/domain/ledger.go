package domain

import "github.com/shopspring/decimal"

// DocumentKind identifies a ledger-affecting document type.
type DocumentKind string

const (
	KindSale           DocumentKind = "sale"
	KindPurchase       DocumentKind = "purchase"
	KindSaleReturn     DocumentKind = "sale_return"
	KindPurchaseReturn DocumentKind = "purchase_return"
	KindCashbook       DocumentKind = "cashbook"
)

// IsInvoice reports whether k is a sale or a purchase.
func (k DocumentKind) IsInvoice() bool {
	return k == KindSale || k == KindPurchase
}

// IsReturn reports whether k is a sale or purchase return.
func (k DocumentKind) IsReturn() bool {
	return k == KindSaleReturn || k == KindPurchaseReturn
}

// OriginalKind is the invoice kind a return kind refers to.
func (k DocumentKind) OriginalKind() DocumentKind {
	switch k {
	case KindSaleReturn:
		return KindSale
	case KindPurchaseReturn:
		return KindPurchase
	}
	return ""
}

// PartyType is the party type expected on documents of this kind.
func (k DocumentKind) PartyType() PartyType {
	switch k {
	case KindSale, KindSaleReturn:
		return PartyCustomer
	case KindPurchase, KindPurchaseReturn:
		return PartySupplier
	}
	return ""
}

// DocumentRef points at the document that produced a movement.
type DocumentRef struct {
	Kind DocumentKind
	ID   string
}

// StockDelta is a signed quantity applied to a product's current stock.
type StockDelta struct {
	ProductID string          `json:"productID"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// BalanceDelta is a signed amount applied to a party's balance.
type BalanceDelta struct {
	PartyID string          `json:"partyID"`
	Amount  decimal.Decimal `json:"amount"`
}

// LedgerEffects is what a document did to stock and balances. It is stored
// with the document so reversing is a pure function of stored data.
type LedgerEffects struct {
	Stock   []StockDelta  `json:"stock,omitempty"`
	Balance *BalanceDelta `json:"balance,omitempty"`
}

// Negate returns the effects that undo e.
func (e LedgerEffects) Negate() LedgerEffects {
	out := LedgerEffects{}
	if len(e.Stock) > 0 {
		out.Stock = make([]StockDelta, len(e.Stock))
		for i, d := range e.Stock {
			out.Stock[i] = StockDelta{ProductID: d.ProductID, Quantity: d.Quantity.Neg()}
		}
	}
	if e.Balance != nil {
		out.Balance = &BalanceDelta{PartyID: e.Balance.PartyID, Amount: e.Balance.Amount.Neg()}
	}
	return out
}

// IsZero reports whether applying e changes nothing.
func (e LedgerEffects) IsZero() bool {
	if e.Balance != nil && !e.Balance.Amount.IsZero() {
		return false
	}
	for _, d := range e.Stock {
		if !d.Quantity.IsZero() {
			return false
		}
	}
	return true
}

// ProductIDs lists the products touched by e in order.
func (e LedgerEffects) ProductIDs() []string {
	ids := make([]string, 0, len(e.Stock))
	for _, d := range e.Stock {
		ids = append(ids, d.ProductID)
	}
	return ids
}

// StockFor returns the net delta e applies to productID.
func (e LedgerEffects) StockFor(productID string) decimal.Decimal {
	total := decimal.Zero
	for _, d := range e.Stock {
		if d.ProductID == productID {
			total = total.Add(d.Quantity)
		}
	}
	return total
}

// Balances lists the party delta of e, if any.
func (e LedgerEffects) Balances() []BalanceDelta {
	if e.Balance == nil || e.Balance.Amount.IsZero() {
		return nil
	}
	return []BalanceDelta{*e.Balance}
}

// NetChange folds undoing old and applying updated into one delta per product
// and one per party, dropping rows whose net is zero.
func NetChange(old, updated LedgerEffects) ([]StockDelta, []BalanceDelta) {
	undo := old.Negate()
	stock := make([]StockDelta, 0, len(undo.Stock)+len(updated.Stock))
	stock = append(append(stock, undo.Stock...), updated.Stock...)

	var balances []BalanceDelta
	for _, b := range []*BalanceDelta{undo.Balance, updated.Balance} {
		if b == nil {
			continue
		}
		if len(balances) == 1 && balances[0].PartyID == b.PartyID {
			balances[0].Amount = balances[0].Amount.Add(b.Amount)
			continue
		}
		balances = append(balances, *b)
	}
	out := balances[:0]
	for _, b := range balances {
		if !b.Amount.IsZero() {
			out = append(out, b)
		}
	}
	if len(out) == 0 {
		out = nil
	}
	return mergeStock(stock), out
}

// mergeStock folds deltas on the same product into one, keeping first-seen order
// and dropping zero nets.
func mergeStock(deltas []StockDelta) []StockDelta {
	index := make(map[string]int, len(deltas))
	merged := make([]StockDelta, 0, len(deltas))
	for _, d := range deltas {
		if i, ok := index[d.ProductID]; ok {
			merged[i].Quantity = merged[i].Quantity.Add(d.Quantity)
			continue
		}
		index[d.ProductID] = len(merged)
		merged = append(merged, d)
	}
	out := merged[:0]
	for _, d := range merged {
		if !d.Quantity.IsZero() {
			out = append(out, d)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
