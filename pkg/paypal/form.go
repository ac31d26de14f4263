package paypal

import "fmt"

// Field is one hidden input of the hand-off form.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Item is a cart line already formatted for PayPal.
type Item struct {
	Name   string
	Amount string
}

// Form is a fully described POST the browser submits to PayPal as-is.
type Form struct {
	Action string  `json:"action"`
	Method string  `json:"method"`
	Fields []Field `json:"fields"`
}

// Get returns the value of the first field called name.
func (f Form) Get(name string) (string, bool) {
	for _, field := range f.Fields {
		if field.Name == name {
			return field.Value, true
		}
	}
	return "", false
}

// CartFields mirrors a cart into cart-upload variables: item_name_N and
// amount_N for N starting at 1, then handling_cart and tax_cart.
func CartFields(items []Item, handling, tax string) []Field {
	fields := make([]Field, 0, len(items)*2+2)
	for i, item := range items {
		n := i + 1
		fields = append(fields,
			Field{Name: fmt.Sprintf("item_name_%d", n), Value: item.Name},
			Field{Name: fmt.Sprintf("amount_%d", n), Value: item.Amount},
		)
	}
	fields = append(fields,
		Field{Name: "handling_cart", Value: handling},
		Field{Name: "tax_cart", Value: tax},
	)
	return fields
}

// DiscountField carries the gift card deduction for the whole cart.
func DiscountField(discount string) Field {
	return Field{Name: "discount_amount_cart", Value: discount}
}

// BuildCartForm prefixes the merchant variables to the cart mirror.
func BuildCartForm(cfg Config, cart []Field) (Form, error) {
	if err := cfg.Validate(); err != nil {
		return Form{}, err
	}

	fields := []Field{
		{Name: "cmd", Value: "_cart"},
		{Name: "upload", Value: "1"},
		{Name: "business", Value: cfg.Business},
		{Name: "currency_code", Value: cfg.Currency},
	}
	if cfg.ReturnURL != "" {
		fields = append(fields, Field{Name: "return", Value: cfg.ReturnURL})
	}
	if cfg.CancelURL != "" {
		fields = append(fields, Field{Name: "cancel_return", Value: cfg.CancelURL})
	}
	fields = append(fields, cart...)

	return Form{
		Action: cfg.Endpoint,
		Method: "POST",
		Fields: fields,
	}, nil
}
