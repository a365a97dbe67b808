package domain

import (
	"strconv"
	"time"
)

const (
	DefaultCurrency      = "INR"
	DefaultTimezone      = "Asia/Kolkata"
	DefaultInvoicePrefix = "INV-"
)

// Business is the tenant root. Every other record references it.
type Business struct {
	BusinessID         string     `json:"businessID"`
	Name               string     `json:"name"`
	OwnerID            string     `json:"ownerID"` // unique: one business per owner
	Phone              string     `json:"phone,omitempty"`
	Email              string     `json:"email,omitempty"`
	Address            string     `json:"address,omitempty"`
	GSTIN              string     `json:"gstin,omitempty"`
	Currency           string     `json:"currency"`
	Timezone           string     `json:"timezone"`
	InvoicePrefix      string     `json:"invoicePrefix"`
	InvoiceStartNumber int64      `json:"invoiceStartNumber"`
	SubscriptionPlanID *string    `json:"subscriptionPlanID,omitempty"`
	SubscriptionExpiry *time.Time `json:"subscriptionExpiry,omitempty"`
	IsActive           bool       `json:"isActive"`
	SoftDelete
	AuditFields
}

// HasActiveSubscription reports whether the mirrored expiry lies after now.
func (b Business) HasActiveSubscription(now time.Time) bool {
	return b.SubscriptionExpiry != nil && b.SubscriptionExpiry.After(now)
}

// StartNumber is the first number of a fresh document series.
func (b Business) StartNumber() int64 {
	if b.InvoiceStartNumber < 1 {
		return 1
	}
	return b.InvoiceStartNumber
}

// DocumentPrefix returns the display prefix for a document kind.
func (b Business) DocumentPrefix(kind DocumentKind) string {
	switch kind {
	case KindSale:
		if b.InvoicePrefix != "" {
			return b.InvoicePrefix
		}
		return DefaultInvoicePrefix
	case KindPurchase:
		return "PUR-"
	case KindSaleReturn:
		return "SR-"
	case KindPurchaseReturn:
		return "PR-"
	case KindCashbook:
		return "CB-"
	}
	return ""
}

// DisplayNumber formats no with the kind's prefix, e.g. "INV-42".
func (b Business) DisplayNumber(kind DocumentKind, no int64) string {
	return b.DocumentPrefix(kind) + strconv.FormatInt(no, 10)
}
