package dto

import (
	"time"

	"github.com/SscSPs/billistry/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LineItemRequest is one product line of a sale or purchase.
type LineItemRequest struct {
	ProductID string          `json:"productID" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"gt=0"`
	Rate      decimal.Decimal `json:"rate" binding:"gte=0"`
}

// InvoiceRequest creates or fully replaces a sale or purchase.
type InvoiceRequest struct {
	PartyID       string              `json:"partyID" binding:"required"`
	InvoiceNo     *int64              `json:"invoiceNo" binding:"omitempty,gte=1"` // optional manual number, create only
	InvoiceDate   *time.Time          `json:"invoiceDate"`
	Items         []LineItemRequest   `json:"items" binding:"required,min=1,dive"`
	DiscountType  domain.DiscountType `json:"discountType" binding:"omitempty,oneof=flat percent"`
	DiscountValue decimal.Decimal     `json:"discountValue" binding:"gte=0"`
	TaxRate       decimal.Decimal     `json:"taxRate" binding:"gte=0,lte=100"`
	Notes         string              `json:"notes"`
}

// ListDocumentsParams defines query parameters shared by document listings.
type ListDocumentsParams struct {
	PartyID        string  `form:"partyID"`
	From           string  `form:"from"` // YYYY-MM-DD
	To             string  `form:"to"`   // YYYY-MM-DD
	IncludeDeleted bool    `form:"includeDeleted"`
	Limit          int     `form:"limit,default=20"`
	NextToken      *string `form:"nextToken"`
}

// ListInvoicesResponse wraps a page of invoices.
type ListInvoicesResponse struct {
	Invoices  []domain.Invoice `json:"invoices"`
	NextToken *string          `json:"nextToken,omitempty"`
}

// NextNumberResponse previews the next document number.
type NextNumberResponse struct {
	Kind          domain.DocumentKind `json:"kind"`
	NextNumber    int64               `json:"nextNumber"`
	DisplayNumber string              `json:"displayNumber"`
}
