package emailjs

// Config represents the configuration for the EmailJS client
type Config struct {
	// BaseURL is the EmailJS API origin, e.g. https://api.emailjs.com
	BaseURL string

	// ServiceID identifies the mail service configured in the EmailJS dashboard
	ServiceID string

	// PublicKey is the account's public key (sent as user_id)
	PublicKey string

	// PrivateKey is the access token required for calls made outside a browser.
	// Optional while the account still allows public-key-only requests.
	PrivateKey string
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrInvalidConfig
	}
	if c.ServiceID == "" {
		return ErrInvalidConfig
	}
	if c.PublicKey == "" {
		return ErrInvalidConfig
	}
	return nil
}
