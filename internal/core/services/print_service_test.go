package services_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/SscSPs/billistry/internal/apperrors"
	"github.com/SscSPs/billistry/internal/core/domain"
	"github.com/SscSPs/billistry/internal/core/services"
	"github.com/SscSPs/billistry/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintTokenIsSingleUse(t *testing.T) {
	f := newFixture(t)
	customer := f.party(domain.PartyCustomer, "Meena", "9876543210")
	product := f.product("Tea", "5", "10")
	inv, err := f.svc.Invoice.CreateInvoice(f.ctx, f.staff, domain.KindSale,
		dto.InvoiceRequest{PartyID: customer.PartyID, Items: []dto.LineItemRequest{line(product.ProductID, "2", "10")}})
	require.NoError(t, err)

	issued, err := f.svc.Print.IssuePrintToken(f.ctx, f.staff, domain.KindSale, inv.InvoiceID, dto.PrintTokenRequest{Copies: 2})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(issued.URL, services.PrintPathPrefix))
	assert.True(t, strings.HasSuffix(issued.URL, issued.Token))
	assert.Len(t, issued.Token, 64)
	assert.True(t, issued.ExpiresAt.Equal(f.now.Add(f.cfg.PrintTokenTTL)))

	doc, err := f.svc.Print.RenderByToken(f.ctx, issued.Token)
	require.NoError(t, err)
	assert.Equal(t, "INV-1.pdf", doc.FileName)
	assert.True(t, bytes.HasPrefix(doc.Data, []byte("%PDF")))

	_, err = f.svc.Print.RenderByToken(f.ctx, issued.Token)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestPrintRejectsUnknownDocuments(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Print.IssuePrintToken(f.ctx, f.owner, domain.KindSale, "missing", dto.PrintTokenRequest{})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = f.svc.Print.IssuePrintToken(f.ctx, f.owner, domain.KindCashbook, "any", dto.PrintTokenRequest{})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = f.svc.Print.RenderByToken(f.ctx, "not-a-token")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRenderReturnDocument(t *testing.T) {
	f := newFixture(t)
	customer := f.party(domain.PartyCustomer, "Meena", "9876543210")
	product := f.product("Tea", "5", "10")
	inv, err := f.svc.Invoice.CreateInvoice(f.ctx, f.owner, domain.KindSale,
		dto.InvoiceRequest{PartyID: customer.PartyID, Items: []dto.LineItemRequest{line(product.ProductID, "2", "10")}})
	require.NoError(t, err)
	ret, err := f.svc.Return.CreateReturn(f.ctx, f.owner, domain.KindSaleReturn, dto.ReturnRequest{
		OriginalInvoiceID: inv.InvoiceID,
		Items:             []dto.ReturnItemRequest{{ProductID: product.ProductID, Quantity: dec("1"), Condition: domain.ConditionGood}},
	})
	require.NoError(t, err)

	doc, err := f.svc.Print.RenderDocument(f.ctx, f.owner, domain.KindSaleReturn, ret.ReturnID)
	require.NoError(t, err)
	assert.Equal(t, "SR-1.pdf", doc.FileName)
	assert.NotEmpty(t, doc.Data)

	stranger, _ := f.signup("other@shop.test", "Other Stores")
	_, err = f.svc.Print.RenderDocument(f.ctx, stranger, domain.KindSaleReturn, ret.ReturnID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
