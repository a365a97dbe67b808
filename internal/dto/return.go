package dto

import (
	"time"

	"github.com/SscSPs/billistry/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReturnItemRequest is one returned product line. Rate defaults to the rate on
// the original invoice.
type ReturnItemRequest struct {
	ProductID string               `json:"productID" binding:"required"`
	Quantity  decimal.Decimal      `json:"quantity" binding:"gt=0"`
	Rate      *decimal.Decimal     `json:"rate" binding:"omitempty,gte=0"`
	Condition domain.ItemCondition `json:"condition" binding:"required,oneof=good bad"`
}

// ReturnRequest creates or fully replaces a sale or purchase return.
// TaxRate defaults to the tax rate of the original invoice.
type ReturnRequest struct {
	OriginalInvoiceID string              `json:"originalInvoiceID" binding:"required"`
	ReturnDate        *time.Time          `json:"returnDate"`
	Items             []ReturnItemRequest `json:"items" binding:"required,min=1,dive"`
	TaxRate           *decimal.Decimal    `json:"taxRate" binding:"omitempty,gte=0,lte=100"`
	Reason            string              `json:"reason"`
}

// ListReturnsParams defines query parameters for listing returns.
type ListReturnsParams struct {
	ListDocumentsParams
	OriginalInvoiceID string `form:"originalInvoiceID"`
}

// ListReturnsResponse wraps a page of returns.
type ListReturnsResponse struct {
	Returns   []domain.Return `json:"returns"`
	NextToken *string         `json:"nextToken,omitempty"`
}
