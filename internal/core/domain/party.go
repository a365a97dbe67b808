package domain

import "github.com/shopspring/decimal"

// PartyType distinguishes customers from suppliers.
type PartyType string

const (
	PartyCustomer PartyType = "customer"
	PartySupplier PartyType = "supplier"
)

func (t PartyType) Valid() bool {
	return t == PartyCustomer || t == PartySupplier
}

// BankDetails are optional payout details of a party.
type BankDetails struct {
	AccountName   string `json:"accountName,omitempty"`
	AccountNumber string `json:"accountNumber,omitempty"`
	IFSC          string `json:"ifsc,omitempty"`
	BankName      string `json:"bankName,omitempty"`
}

// Party is a customer or supplier with a running balance.
// For customers the balance is receivable, for suppliers it is payable.
type Party struct {
	PartyID        string          `json:"partyID"`
	BusinessID     string          `json:"businessID"`
	Type           PartyType       `json:"type"`
	Name           string          `json:"name"`
	Mobile         string          `json:"mobile"` // unique per business+type
	Email          string          `json:"email,omitempty"`
	Address        string          `json:"address,omitempty"`
	GSTIN          string          `json:"gstin,omitempty"`
	BankDetails    *BankDetails    `json:"bankDetails,omitempty"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Balance        decimal.Decimal `json:"balance"` // mutated only through ledger effects
	SoftDelete
	AuditFields
}
