package model

import "strings"

// OrderTotals is derived from a cart and an optional applied gift card on
// every render. Values are unrounded.
type OrderTotals struct {
	Subtotal         float64 `json:"subtotal"`
	Shipping         float64 `json:"shipping"`
	Tax              float64 `json:"tax"`
	PreDiscountTotal float64 `json:"prediscount_total"`
	GiftDiscount     float64 `json:"gift_discount"`
	GrandTotal       float64 `json:"grand_total"`
}

// CustomerDetails is the checkout form.
type CustomerDetails struct {
	Name         string `json:"customer_name"`
	Address      string `json:"customer_address"`
	Email        string `json:"customer_email"`
	PerfumeSpray bool   `json:"perfume_spray"`
	ExtraDetails string `json:"extra_details"`
}

// MissingFields lists the required fields that are blank after trimming,
// in form order.
func (d CustomerDetails) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(d.Name) == "" {
		missing = append(missing, "customer_name")
	}
	if strings.TrimSpace(d.Address) == "" {
		missing = append(missing, "customer_address")
	}
	if strings.TrimSpace(d.Email) == "" {
		missing = append(missing, "customer_email")
	}
	return missing
}
