package domain_test

import (
	"testing"

	"github.com/SscSPs/billistry/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestComputeReturnTotals_BadItemsNeverRefunded(t *testing.T) {
	items := []domain.ReturnItem{
		{ProductID: "p1", Quantity: d("2"), Rate: d("50"), Condition: domain.ConditionGood},
		{ProductID: "p2", Quantity: d("1"), Rate: d("40"), Condition: domain.ConditionBad},
	}

	lines, totals := domain.ComputeReturnTotals(items, d("10"), domain.InvoiceTotals{})

	assert.True(t, d("100").Equal(lines[0].Total))
	assert.True(t, d("40").Equal(lines[1].Total))
	assert.True(t, d("140").Equal(totals.Subtotal))
	assert.True(t, d("100").Equal(totals.RefundAmount))
	assert.True(t, d("14").Equal(totals.TaxAmount))
	assert.True(t, d("114").Equal(totals.GrandTotal))
}

func TestComputeReturnTotals_SpreadsInvoiceDiscount(t *testing.T) {
	original := domain.InvoiceTotals{Subtotal: d("300"), DiscountAmount: d("100"), TaxAmount: d("20"), InvoiceAmount: d("220")}

	t.Run("full return credits what was billed", func(t *testing.T) {
		items := []domain.ReturnItem{
			{ProductID: "p1", Quantity: d("3"), Rate: d("100"), Condition: domain.ConditionGood},
		}
		_, totals := domain.ComputeReturnTotals(items, d("10"), original)

		assert.True(t, d("300").Equal(totals.Subtotal))
		assert.True(t, d("200").Equal(totals.RefundAmount))
		assert.True(t, d("20").Equal(totals.TaxAmount))
		assert.True(t, original.InvoiceAmount.Equal(totals.GrandTotal))
	})

	t.Run("partial return takes its share", func(t *testing.T) {
		items := []domain.ReturnItem{
			{ProductID: "p1", Quantity: d("1"), Rate: d("100"), Condition: domain.ConditionGood},
			{ProductID: "p1", Quantity: d("1"), Rate: d("100"), Condition: domain.ConditionBad},
		}
		_, totals := domain.ComputeReturnTotals(items, d("10"), original)

		assert.True(t, d("66.67").Equal(totals.RefundAmount), "refund %s", totals.RefundAmount)
		assert.True(t, d("13.33").Equal(totals.TaxAmount), "tax %s", totals.TaxAmount)
		assert.True(t, d("80").Equal(totals.GrandTotal), "grand total %s", totals.GrandTotal)
	})
}

func TestReturn_ComputeEffects(t *testing.T) {
	items := []domain.ReturnItem{
		{ProductID: "p1", Quantity: d("2"), Condition: domain.ConditionGood},
		{ProductID: "p2", Quantity: d("5"), Condition: domain.ConditionBad},
	}

	t.Run("sale return restocks good items only", func(t *testing.T) {
		r := domain.Return{Kind: domain.KindSaleReturn, PartyID: "c1", Items: items}
		r.GrandTotal = d("110")
		effects := r.ComputeEffects()

		assert.True(t, d("2").Equal(effects.StockFor("p1")))
		assert.True(t, effects.StockFor("p2").IsZero())
		assert.Equal(t, []string{"p1"}, effects.ProductIDs())
		assert.True(t, d("-110").Equal(effects.Balance.Amount))
	})

	t.Run("purchase return sends good items back", func(t *testing.T) {
		r := domain.Return{Kind: domain.KindPurchaseReturn, PartyID: "s1", Items: items}
		r.GrandTotal = d("20")
		effects := r.ComputeEffects()

		assert.True(t, d("-2").Equal(effects.StockFor("p1")))
		assert.True(t, d("-20").Equal(effects.Balance.Amount))
	})
}
