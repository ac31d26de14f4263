package errors

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ikkim/perfume-storefront/internal/app/service"
	"github.com/ikkim/perfume-storefront/internal/catalog"
	"github.com/ikkim/perfume-storefront/internal/storage"
	"github.com/ikkim/perfume-storefront/pkg/emailjs"
)

// ErrorInfo is what an error becomes on the wire.
type ErrorInfo struct {
	Status  int
	Code    string
	Message string
}

// ParseError maps domain errors to a status, code and shopper-facing
// message. Backend details never reach the message.
func ParseError(err error) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Status:  http.StatusInternalServerError,
			Code:    InternalServerError,
			Message: "Something went wrong. Please try again",
		}
	}

	switch {
	case errors.Is(err, service.ErrCheckoutIncomplete):
		return ErrorInfo{
			Status:  http.StatusUnprocessableEntity,
			Code:    CheckoutIncomplete,
			Message: "Please fill in your name, address and email",
		}
	case errors.Is(err, service.ErrNotificationFailed):
		return ErrorInfo{
			Status:  http.StatusBadGateway,
			Code:    CheckoutNotificationFailed,
			Message: "Oops! Something went wrong with sending the confirmation email. Please try again.",
		}
	case errors.Is(err, service.ErrRequestInFlight):
		return ErrorInfo{
			Status:  http.StatusConflict,
			Code:    CheckoutInFlight,
			Message: "Your previous request is still being processed",
		}
	case errors.Is(err, catalog.ErrCatalogUnavailable), errors.Is(err, catalog.ErrCatalogMalformed):
		return ErrorInfo{
			Status:  http.StatusBadGateway,
			Code:    GiftCardCatalogUnavailable,
			Message: service.MsgGiftCardFetchFailed,
		}
	case errors.Is(err, storage.ErrNotFound):
		return ErrorInfo{
			Status:  http.StatusNotFound,
			Code:    InternalStorage,
			Message: "The requested data was not found",
		}
	case isEmailError(err):
		return ErrorInfo{
			Status:  http.StatusBadGateway,
			Code:    InternalExternalAPI,
			Message: "The email service is unavailable. Please try again later",
		}
	}

	errLower := strings.ToLower(err.Error())
	if strings.Contains(errLower, "connection refused") ||
		strings.Contains(errLower, "no such host") ||
		strings.Contains(errLower, "timeout") {
		return ErrorInfo{
			Status:  http.StatusServiceUnavailable,
			Code:    InternalStorage,
			Message: "A backing service is unavailable. Please try again later",
		}
	}

	return ErrorInfo{
		Status:  http.StatusInternalServerError,
		Code:    InternalServerError,
		Message: "Something went wrong. Please try again",
	}
}

func isEmailError(err error) bool {
	for _, target := range []error{
		emailjs.ErrUnauthorized,
		emailjs.ErrRateLimited,
		emailjs.ErrSendFailed,
		emailjs.ErrNetworkError,
		emailjs.ErrInvalidRequest,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
