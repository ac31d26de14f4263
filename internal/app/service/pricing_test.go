package service

import (
	"math/rand"
	"testing"

	"github.com/ikkim/perfume-storefront/internal/app/model"
	"github.com/stretchr/testify/assert"
)

const cents = 1e-9

func TestComputeTotals_NoGiftCard(t *testing.T) {
	totals := ComputeTotals(sampleCart, nil)

	assert.InDelta(t, 35.00, totals.Subtotal, cents)
	assert.InDelta(t, 5.00, totals.Shipping, cents)
	assert.InDelta(t, 2.93125, totals.Tax, cents)
	assert.InDelta(t, 42.93125, totals.PreDiscountTotal, cents)
	assert.Zero(t, totals.GiftDiscount)
	assert.InDelta(t, 42.93125, totals.GrandTotal, cents)

	assert.Equal(t, "2.93", FormatAmount(totals.Tax))
	assert.Equal(t, "$42.93", FormatCurrency(totals.GrandTotal))
}

func TestComputeTotals_EmptyCart(t *testing.T) {
	totals := ComputeTotals(nil, nil)
	assert.Zero(t, totals.Subtotal)
	assert.Zero(t, totals.Tax)
	assert.InDelta(t, 5.00, totals.GrandTotal, cents)

	withCard := ComputeTotals([]model.LineItem{}, &model.AppliedGiftCard{Code: "X", Balance: 3})
	assert.InDelta(t, 3.00, withCard.GiftDiscount, cents)
	assert.InDelta(t, 2.00, withCard.GrandTotal, cents)

	covered := ComputeTotals([]model.LineItem{}, &model.AppliedGiftCard{Code: "X", Balance: 50})
	assert.InDelta(t, 5.00, covered.GiftDiscount, cents)
	assert.Zero(t, covered.GrandTotal)
}

func TestComputeTotals_RemainingTakesPrecedence(t *testing.T) {
	applied := &model.AppliedGiftCard{Code: "GIFT10", Balance: 10, Remaining: model.Float64Ptr(4)}
	totals := ComputeTotals(sampleCart, applied)

	assert.InDelta(t, 4.00, totals.GiftDiscount, cents)
	assert.InDelta(t, 38.93125, totals.GrandTotal, cents)

	spent := &model.AppliedGiftCard{Code: "GIFT10", Balance: 10, Remaining: model.Float64Ptr(0)}
	assert.Zero(t, ComputeTotals(sampleCart, spent).GiftDiscount)
}

func TestComputeTotals_BalanceCoversOrder(t *testing.T) {
	applied := &model.AppliedGiftCard{Code: "BIG100", Balance: 100}
	totals := ComputeTotals(sampleCart, applied)

	assert.InDelta(t, totals.PreDiscountTotal, totals.GiftDiscount, cents)
	assert.Zero(t, totals.GrandTotal)
	assert.InDelta(t, 100-42.93125, RemainingAfter(applied.Available(), totals.GiftDiscount), cents)
}

func TestComputeTotals_Invariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 500; i++ {
		items := make([]model.LineItem, rng.Intn(6))
		for j := range items {
			items[j] = model.LineItem{Name: "item", Price: float64(rng.Intn(10000)) / 100}
		}

		var applied *model.AppliedGiftCard
		available := 0.0
		if rng.Intn(2) == 0 {
			available = float64(rng.Intn(20000)) / 100
			applied = &model.AppliedGiftCard{Code: "C", Balance: available}
		}

		totals := ComputeTotals(items, applied)
		subtotal := model.CartSubtotal(items)
		expected := subtotal + ShippingCost + subtotal*TaxRate - totals.GiftDiscount
		if expected < 0 {
			expected = 0
		}

		assert.InDelta(t, expected, totals.GrandTotal, cents)
		assert.GreaterOrEqual(t, totals.GiftDiscount, 0.0)
		assert.LessOrEqual(t, totals.GiftDiscount, totals.PreDiscountTotal+cents)
		if applied != nil {
			assert.LessOrEqual(t, totals.GiftDiscount, available+cents)
		}
		assert.GreaterOrEqual(t, totals.GrandTotal, 0.0)
	}
}

func TestGiftDiscount_Clamps(t *testing.T) {
	assert.Zero(t, GiftDiscount(-5, 20))
	assert.Equal(t, 7.0, GiftDiscount(7, 20))
	assert.Equal(t, 20.0, GiftDiscount(70, 20))
	assert.Zero(t, RemainingAfter(3, 5))
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "0.00", FormatAmount(0))
	assert.Equal(t, "12.50", FormatAmount(12.5))
	assert.Equal(t, "$5.00", FormatCurrency(5))
	assert.Equal(t, "-$0.00", FormatDeduction(0))
	assert.Equal(t, "-$10.00", FormatDeduction(10))
}
