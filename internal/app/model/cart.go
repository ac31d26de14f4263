package model

// LineItem is one entry in a shopper's cart. Items have no identity beyond
// their position; two entries with the same name are two purchases.
type LineItem struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// CartSubtotal sums item prices without rounding.
func CartSubtotal(items []LineItem) float64 {
	var subtotal float64
	for _, item := range items {
		subtotal += item.Price
	}
	return subtotal
}
