package controller

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/ikkim/perfume-storefront/internal/app/repository"
	"github.com/ikkim/perfume-storefront/internal/app/service"
	"github.com/ikkim/perfume-storefront/internal/storage"
	ws "github.com/ikkim/perfume-storefront/internal/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartSocketController_PushesCartCount(t *testing.T) {
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := ws.NewHub()
	go hub.Run(ctx)

	cartService := service.NewCartService(repository.NewCartRepository(storage.NewMemoryStore()), hub)
	_, err := cartService.AddToCart(ctx, testSessionID, "Rose Oil", 20)
	require.NoError(t, err)

	router := gin.New()
	router.GET("/ws", func(c *gin.Context) {
		c.Set("session_id", testSessionID)
		c.Next()
	}, NewCartSocketController(cartService, hub, []string{"*"}).Connect)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	var msg ws.CartCountMessage
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, ws.MessageTypeCartCount, msg.Type)
	assert.Equal(t, 1, msg.Count)

	require.Eventually(t, func() bool { return hub.IsSessionOnline(testSessionID) }, 2*time.Second, 10*time.Millisecond)

	_, err = cartService.AddToCart(ctx, testSessionID, "Amber Musk", 15)
	require.NoError(t, err)

	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, 2, msg.Count)
}

func TestCartSocketController_RequiresSession(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cartService := service.NewCartService(repository.NewCartRepository(storage.NewMemoryStore()), nil)
	router := gin.New()
	router.GET("/ws", NewCartSocketController(cartService, ws.NewHub(), nil).Connect)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/ws", nil))
	assert.Equal(t, 401, w.Code)
}
