package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashbookEntryType is the direction of a cashbook entry.
type CashbookEntryType string

const (
	EntryPaymentIn  CashbookEntryType = "payment_in"  // received from a party
	EntryPaymentOut CashbookEntryType = "payment_out" // paid to a party
	EntryExpense    CashbookEntryType = "expense"
)

func (t CashbookEntryType) Valid() bool {
	switch t {
	case EntryPaymentIn, EntryPaymentOut, EntryExpense:
		return true
	}
	return false
}

// IsPayment reports whether entries of this type settle a party balance.
func (t CashbookEntryType) IsPayment() bool {
	return t == EntryPaymentIn || t == EntryPaymentOut
}

// PaymentMode is how money moved.
type PaymentMode string

const (
	ModeCash   PaymentMode = "cash"
	ModeBank   PaymentMode = "bank"
	ModeUPI    PaymentMode = "upi"
	ModeCard   PaymentMode = "card"
	ModeCheque PaymentMode = "cheque"
)

func (m PaymentMode) Valid() bool {
	switch m {
	case ModeCash, ModeBank, ModeUPI, ModeCard, ModeCheque:
		return true
	}
	return false
}

// CashbookEntry records money in or out of the business.
type CashbookEntry struct {
	EntryID         string            `json:"entryID"`
	BusinessID      string            `json:"businessID"`
	Type            CashbookEntryType `json:"type"`
	PartyID         *string           `json:"partyID,omitempty"`
	Amount          decimal.Decimal   `json:"amount"`
	Mode            PaymentMode       `json:"mode"`
	ExpenseCategory string            `json:"expenseCategory,omitempty"`
	EntryDate       time.Time         `json:"entryDate"`
	Notes           string            `json:"notes,omitempty"`
	Effects         LedgerEffects     `json:"appliedEffects"`
	SoftDelete
	AuditFields
}

// ComputeEffects settles the party balance by the paid amount. Expenses
// touch no balance.
func (e CashbookEntry) ComputeEffects() LedgerEffects {
	if !e.Type.IsPayment() || e.PartyID == nil {
		return LedgerEffects{}
	}
	return LedgerEffects{Balance: &BalanceDelta{PartyID: *e.PartyID, Amount: e.Amount.Neg()}}
}
