package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/perfume-storefront/internal/app/service"
	apperrors "github.com/ikkim/perfume-storefront/internal/errors"
	"github.com/ikkim/perfume-storefront/internal/middleware"
)

type GiftCardController struct {
	giftCardService service.GiftCardService
}

func NewGiftCardController(giftCardService service.GiftCardService) *GiftCardController {
	return &GiftCardController{
		giftCardService: giftCardService,
	}
}

// GetGiftCard restores the applied card banner
// GET /api/v1/giftcard
func (ctrl *GiftCardController) GetGiftCard(c *gin.Context) {
	sessionID, ok := middleware.GetSessionID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	c.JSON(http.StatusOK, ctrl.giftCardService.Current(c.Request.Context(), sessionID))
}

// ApplyGiftCard redeems a code against the current cart
// POST /api/v1/giftcard/apply
func (ctrl *GiftCardController) ApplyGiftCard(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	sessionID, ok := middleware.GetSessionID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	var req service.ApplyGiftCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid gift card request", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	result, err := ctrl.giftCardService.Apply(c.Request.Context(), sessionID, req)
	if err != nil {
		if errors.Is(err, service.ErrRequestInFlight) {
			apperrors.Conflict(c, apperrors.GiftCardInFlight, "Your gift card is still being checked")
			return
		}
		log.Error("Failed to apply gift card", err, map[string]interface{}{
			"session_id": sessionID,
		})
		apperrors.RespondWithParsed(c, err)
		return
	}

	if result.Outcome == service.OutcomeApplied {
		c.JSON(http.StatusOK, result)
		return
	}

	status, code := rejectionStatus(result.Reason)
	c.JSON(status, gin.H{
		"error":   code,
		"message": result.Message,
		"outcome": result.Outcome,
		"reason":  result.Reason,
		"view":    result.View,
		"effects": result.Effects,
	})
}

func rejectionStatus(reason service.RejectReason) (int, string) {
	switch reason {
	case service.RejectEmptyCode:
		return http.StatusBadRequest, apperrors.GiftCardEmptyCode
	case service.RejectFetchFailed:
		return http.StatusBadGateway, apperrors.GiftCardCatalogUnavailable
	default:
		return http.StatusNotFound, apperrors.GiftCardNotFound
	}
}
