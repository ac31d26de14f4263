package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/perfume-storefront/internal/app/service"
	apperrors "github.com/ikkim/perfume-storefront/internal/errors"
	"github.com/ikkim/perfume-storefront/internal/middleware"
)

type CartController struct {
	cartService     service.CartService
	cartViewService service.CartViewService
}

func NewCartController(cartService service.CartService, cartViewService service.CartViewService) *CartController {
	return &CartController{
		cartService:     cartService,
		cartViewService: cartViewService,
	}
}

// AddToCartRequest requires a numeric price; pages that add items send the
// product's list price.
type AddToCartRequest struct {
	Name  string   `json:"name" binding:"required"`
	Price *float64 `json:"price" binding:"required"`
}

// GetCart renders the cart page
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	sessionID, ok := middleware.GetSessionID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	view := ctrl.cartViewService.Render(c.Request.Context(), sessionID)

	log.Debug("Cart rendered", map[string]interface{}{
		"session_id": sessionID,
		"count":      view.Count,
	})

	c.JSON(http.StatusOK, view)
}

// GetCartCount returns the navigation badge value
// GET /api/v1/cart/count
func (ctrl *CartController) GetCartCount(c *gin.Context) {
	sessionID, ok := middleware.GetSessionID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count": ctrl.cartService.CartCount(c.Request.Context(), sessionID),
	})
}

// AddToCart appends one item
// POST /api/v1/cart
func (ctrl *CartController) AddToCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	sessionID, ok := middleware.GetSessionID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add to cart request", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		apperrors.BadRequest(c, apperrors.CartInvalidItem, "Items need a name and a numeric price")
		return
	}

	result, err := ctrl.cartService.AddToCart(c.Request.Context(), sessionID, req.Name, *req.Price)
	if err != nil {
		log.Error("Failed to add item to cart", err, map[string]interface{}{
			"session_id": sessionID,
		})
		apperrors.RespondWithParsed(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}
