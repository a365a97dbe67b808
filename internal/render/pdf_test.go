package render

import (
	"bytes"
	"testing"
	"time"

	"github.com/SscSPs/billistry/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBusiness() domain.Business {
	return domain.Business{Name: "Sharma Traders", Currency: "INR", Address: "MG Road, Pune", GSTIN: "27AAPFU0939F1ZV"}
}

func TestInvoicePDF(t *testing.T) {
	inv := domain.Invoice{
		Kind:          domain.KindSale,
		InvoiceNumber: "INV-7",
		PartyName:     "Café Ramé",
		InvoiceDate:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Items: []domain.LineItem{
			{ProductName: "Tea 500g", Quantity: decimal.NewFromInt(2), Rate: decimal.RequireFromString("120.50"), Total: decimal.RequireFromString("241.00")},
		},
		TaxRate:       decimal.NewFromInt(5),
		InvoiceTotals: domain.InvoiceTotals{Subtotal: decimal.RequireFromString("241"), TaxAmount: decimal.RequireFromString("12.05"), InvoiceAmount: decimal.RequireFromString("253.05")},
		Notes:         "Thank you",
	}

	data, err := Invoice(testBusiness(), inv, 1)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	two, err := Invoice(testBusiness(), inv, 2)
	require.NoError(t, err)
	assert.Greater(t, len(two), len(data))
}

func TestReturnPDF(t *testing.T) {
	ret := domain.Return{
		Kind:                  domain.KindPurchaseReturn,
		ReturnNumber:          "PR-1",
		OriginalInvoiceNumber: "PUR-3",
		PartyName:             "Wholesale Co",
		ReturnDate:            time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
		Items: []domain.ReturnItem{
			{ProductName: "Rice 5kg", Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromInt(400), Total: decimal.NewFromInt(400), Condition: domain.ConditionBad},
		},
		ReturnTotals: domain.ReturnTotals{Subtotal: decimal.NewFromInt(400), TaxAmount: decimal.NewFromInt(20), GrandTotal: decimal.NewFromInt(20)},
	}

	data, err := Return(testBusiness(), ret, 0)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}
