package paypal

import "errors"

// ErrInvalidConfig is returned when the hand-off cannot be addressed.
var ErrInvalidConfig = errors.New("invalid paypal config")

// Config represents the merchant settings for the cart upload hand-off
type Config struct {
	// Endpoint is the PayPal Payments Standard URL the form posts to
	Endpoint string

	// Business is the merchant account email or id
	Business string

	// Currency is the ISO code for every amount in the form
	Currency string

	// ReturnURL and CancelURL are optional redirect targets after payment
	ReturnURL string
	CancelURL string
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Endpoint == "" || c.Currency == "" {
		return ErrInvalidConfig
	}
	return nil
}
