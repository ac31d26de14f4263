package errors

// Error codes returned in the "error" field of every error response.
// Format: CATEGORY_SPECIFIC_DETAIL. Clients map messages from these codes.

const (
	// ==================== Session (SESSION_) ====================
	SessionInvalid = "SESSION_INVALID" // session token could not be issued or read

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT" // malformed request body
	ValidationRequired     = "VALIDATION_REQUIRED"      // required field missing

	// ==================== Cart (CART_) ====================
	CartInvalidItem = "CART_INVALID_ITEM" // item without a name or numeric price

	// ==================== Gift card (GIFTCARD_) ====================
	GiftCardEmptyCode          = "GIFTCARD_EMPTY_CODE"          // no code entered
	GiftCardNotFound           = "GIFTCARD_NOT_FOUND"           // unknown or inactive code
	GiftCardCatalogUnavailable = "GIFTCARD_CATALOG_UNAVAILABLE" // catalog fetch failed
	GiftCardInFlight           = "GIFTCARD_IN_FLIGHT"           // an apply is already running

	// ==================== Checkout (CHECKOUT_) ====================
	CheckoutIncomplete         = "CHECKOUT_INCOMPLETE"          // customer details missing
	CheckoutInFlight           = "CHECKOUT_IN_FLIGHT"           // a submit is already running
	CheckoutNotificationFailed = "CHECKOUT_NOTIFICATION_FAILED" // confirmation email failed

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError = "INTERNAL_SERVER_ERROR" // unexpected failure
	InternalStorage     = "INTERNAL_STORAGE"      // state backend failure
	InternalExternalAPI = "INTERNAL_EXTERNAL_API" // third-party service failure
)
