package dto

import (
	"time"

	"github.com/SscSPs/billistry/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CashbookEntryRequest creates or fully replaces a cashbook entry.
type CashbookEntryRequest struct {
	Type            domain.CashbookEntryType `json:"type" binding:"required,oneof=payment_in payment_out expense"`
	PartyID         *string                  `json:"partyID"`
	Amount          decimal.Decimal          `json:"amount" binding:"gt=0"`
	Mode            domain.PaymentMode       `json:"mode" binding:"required,oneof=cash bank upi card cheque"`
	ExpenseCategory string                   `json:"expenseCategory"`
	EntryDate       *time.Time               `json:"entryDate"`
	Notes           string                   `json:"notes"`
}

// ListCashbookParams defines query parameters for listing cashbook entries.
type ListCashbookParams struct {
	ListDocumentsParams
	Type domain.CashbookEntryType `form:"type" binding:"omitempty,oneof=payment_in payment_out expense"`
}

// ListCashbookResponse wraps a page of entries.
type ListCashbookResponse struct {
	Entries   []domain.CashbookEntry `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}
