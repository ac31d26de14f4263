package service

import (
	"math"

	"github.com/ikkim/perfume-storefront/internal/app/model"
	"github.com/shopspring/decimal"
)

const (
	// ShippingCost is flat per order regardless of cart size.
	ShippingCost = 5.00

	// TaxRate applies to the subtotal only, never to shipping.
	TaxRate = 0.08375
)

// ComputeTotals derives order totals from scratch. Nothing is rounded here;
// rounding happens only when values are formatted for display.
func ComputeTotals(items []model.LineItem, applied *model.AppliedGiftCard) model.OrderTotals {
	subtotal := model.CartSubtotal(items)
	tax := subtotal * TaxRate
	preDiscount := subtotal + ShippingCost + tax

	var discount float64
	if applied != nil {
		discount = GiftDiscount(applied.Available(), preDiscount)
	}

	return model.OrderTotals{
		Subtotal:         subtotal,
		Shipping:         ShippingCost,
		Tax:              tax,
		PreDiscountTotal: preDiscount,
		GiftDiscount:     discount,
		GrandTotal:       math.Max(0, preDiscount-discount),
	}
}

// GiftDiscount clamps the available balance to [0, preDiscountTotal].
func GiftDiscount(available, preDiscountTotal float64) float64 {
	return math.Max(0, math.Min(available, preDiscountTotal))
}

// RemainingAfter is the balance left once discount has been used.
func RemainingAfter(available, discount float64) float64 {
	return math.Max(0, available-discount)
}

// FormatAmount renders a currency value with two decimals.
func FormatAmount(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// FormatCurrency renders "$12.34".
func FormatCurrency(v float64) string {
	return "$" + FormatAmount(v)
}

// FormatDeduction renders "-$12.34".
func FormatDeduction(v float64) string {
	return "-$" + FormatAmount(v)
}
