package emailjs

import "errors"

var (
	// ErrInvalidConfig is returned when the client configuration is incomplete
	ErrInvalidConfig = errors.New("invalid emailjs config")

	// ErrInvalidRequest is returned when the template or params are rejected
	ErrInvalidRequest = errors.New("invalid emailjs request")

	// ErrUnauthorized is returned when the keys are wrong or non-browser calls are disabled
	ErrUnauthorized = errors.New("emailjs unauthorized")

	// ErrRateLimited is returned when the account exceeds its sending limit
	ErrRateLimited = errors.New("emailjs rate limited")

	// ErrSendFailed is returned for any other non-200 answer
	ErrSendFailed = errors.New("emailjs send failed")

	// ErrNetworkError is returned when there's a network communication error
	ErrNetworkError = errors.New("network error")
)
