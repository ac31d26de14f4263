package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/perfume-storefront/config"
	"github.com/ikkim/perfume-storefront/internal/app/controller"
	"github.com/ikkim/perfume-storefront/internal/middleware"
)

type Router struct {
	cartController       *controller.CartController
	giftCardController   *controller.GiftCardController
	checkoutController   *controller.CheckoutController
	cartSocketController *controller.CartSocketController
	sessionMiddleware    *middleware.SessionMiddleware
	config               *config.Config
}

func NewRouter(
	cartController *controller.CartController,
	giftCardController *controller.GiftCardController,
	checkoutController *controller.CheckoutController,
	cartSocketController *controller.CartSocketController,
	sessionMiddleware *middleware.SessionMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		cartController:       cartController,
		giftCardController:   giftCardController,
		checkoutController:   checkoutController,
		cartSocketController: cartSocketController,
		sessionMiddleware:    sessionMiddleware,
		config:               cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Perfume storefront API is running",
		})
	})

	// The page fetches the catalog itself when it is kept as a local file.
	if r.config.Catalog.URL == "" && r.config.Catalog.S3Bucket == "" && r.config.Catalog.FilePath != "" {
		router.StaticFile("/giftcards.json", r.config.Catalog.FilePath)
	}

	v1 := router.Group("/api/v1")
	v1.Use(r.sessionMiddleware.Ensure())
	{
		cart := v1.Group("/cart")
		{
			cart.GET("", r.cartController.GetCart)
			cart.GET("/count", r.cartController.GetCartCount)
			cart.POST("", r.cartController.AddToCart)
		}

		giftcard := v1.Group("/giftcard")
		{
			giftcard.GET("", r.giftCardController.GetGiftCard)
			giftcard.POST("/apply", r.giftCardController.ApplyGiftCard)
		}

		checkout := v1.Group("/checkout")
		{
			checkout.POST("", r.checkoutController.Checkout)
			checkout.POST("/validate", r.checkoutController.ValidateCheckout)
		}

		v1.GET("/ws", r.cartSocketController.Connect)
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, accept, origin, Cache-Control, X-Requested-With, "+middleware.SessionTokenHeader+", "+middleware.RequestIDHeader)
		c.Writer.Header().Set("Access-Control-Expose-Headers", middleware.SessionTokenHeader+", "+middleware.RequestIDHeader)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
