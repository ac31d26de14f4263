package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/ikkim/perfume-storefront/internal/app/service"
	apperrors "github.com/ikkim/perfume-storefront/internal/errors"
	"github.com/ikkim/perfume-storefront/internal/middleware"
	ws "github.com/ikkim/perfume-storefront/internal/websocket"
)

// CartSocketController pushes "Cart (N)" updates to open pages.
type CartSocketController struct {
	cartService service.CartService
	hub         *ws.Hub
	upgrader    websocket.Upgrader
}

func NewCartSocketController(cartService service.CartService, hub *ws.Hub, allowedOrigins []string) *CartSocketController {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}

	return &CartSocketController{
		cartService: cartService,
		hub:         hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed["*"] || allowed[origin]
			},
		},
	}
}

// Connect upgrades to a websocket and sends the current count first
// GET /api/v1/ws
func (ctrl *CartSocketController) Connect(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	sessionID, ok := middleware.GetSessionID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade to WebSocket", err)
		return
	}

	client := ws.NewClient(ctrl.hub, &ws.Conn{Conn: conn}, sessionID)
	if frame, err := ws.CartCountFrame(ctrl.cartService.CartCount(c.Request.Context(), sessionID)); err == nil {
		client.Send <- frame
	}
	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	log.Debug("Cart count socket connected", map[string]interface{}{
		"session_id": sessionID,
	})
}
