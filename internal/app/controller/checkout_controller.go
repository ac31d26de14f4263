package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/perfume-storefront/internal/app/model"
	"github.com/ikkim/perfume-storefront/internal/app/service"
	apperrors "github.com/ikkim/perfume-storefront/internal/errors"
	"github.com/ikkim/perfume-storefront/internal/middleware"
)

type CheckoutController struct {
	checkoutService service.CheckoutService
}

func NewCheckoutController(checkoutService service.CheckoutService) *CheckoutController {
	return &CheckoutController{
		checkoutService: checkoutService,
	}
}

// ValidateCheckout evaluates the checkout gate for the current form values
// POST /api/v1/checkout/validate
func (ctrl *CheckoutController) ValidateCheckout(c *gin.Context) {
	var details model.CustomerDetails
	if err := c.ShouldBindJSON(&details); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	c.JSON(http.StatusOK, ctrl.checkoutService.Validate(details))
}

// Checkout sends the confirmations and returns the PayPal hand-off
// POST /api/v1/checkout
func (ctrl *CheckoutController) Checkout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	sessionID, ok := middleware.GetSessionID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	var details model.CustomerDetails
	if err := c.ShouldBindJSON(&details); err != nil {
		log.Warn("Invalid checkout request", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	result, err := ctrl.checkoutService.Submit(c.Request.Context(), sessionID, details)
	if err != nil {
		info := apperrors.ParseError(err)
		switch {
		case errors.Is(err, service.ErrCheckoutIncomplete):
			c.JSON(info.Status, gin.H{
				"error":   info.Code,
				"message": info.Message,
				"gate":    result.Gate,
			})
		case errors.Is(err, service.ErrNotificationFailed):
			log.Error("Checkout confirmation failed", err, map[string]interface{}{
				"session_id": sessionID,
			})
			c.JSON(info.Status, gin.H{
				"error":   info.Code,
				"message": info.Message,
				"detail":  result.FailureDetail,
				"label":   result.Label,
				"gate":    result.Gate,
			})
		default:
			log.Error("Checkout failed", err, map[string]interface{}{
				"session_id": sessionID,
			})
			apperrors.RespondWithError(c, info.Status, info.Code, info.Message)
		}
		return
	}

	log.Info("Checkout handed off", map[string]interface{}{
		"session_id":  sessionID,
		"grand_total": result.Totals.GrandTotal,
	})
	c.JSON(http.StatusOK, result)
}
