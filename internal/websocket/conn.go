package websocket

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/ikkim/perfume-storefront/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// Pages only send {"type":"ping"}.
	maxMessageSize       = 1024
	maxMessagesPerSecond = 10
)

// Conn wraps a gorilla connection.
type Conn struct {
	*websocket.Conn
}

// ReadPump keeps the read deadline fresh and answers page pings until the
// page goes away, then unregisters the client.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("Cart socket closed unexpectedly", map[string]interface{}{
					"session_id": c.SessionID,
					"error":      err.Error(),
				})
			}
			return
		}
		c.Hub.HandleClientMessage(c, message)
	}
}

// WritePump delivers queued frames. A burst of cart count updates collapses
// to the newest count, since the badge only shows the latest value.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.Send:
			if !ok {
				c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			frames := [][]byte{frame}
			for n := len(c.Send); n > 0; n-- {
				next, ok := <-c.Send
				if !ok {
					break
				}
				frames = append(frames, next)
			}

			for _, f := range latestCartCount(frames) {
				c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := c.Conn.WriteMessage(websocket.TextMessage, f); err != nil {
					logger.Warn("Failed to write cart socket frame", map[string]interface{}{
						"session_id": c.SessionID,
						"error":      err.Error(),
					})
					return
				}
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// latestCartCount drops every cart count frame except the last one and keeps
// other frames in order.
func latestCartCount(frames [][]byte) [][]byte {
	last := -1
	for i, f := range frames {
		if isCartCount(f) {
			last = i
		}
	}

	out := frames[:0:0]
	for i, f := range frames {
		if isCartCount(f) && i != last {
			continue
		}
		out = append(out, f)
	}
	return out
}

func isCartCount(frame []byte) bool {
	var msg ClientMessage
	return json.Unmarshal(frame, &msg) == nil && msg.Type == MessageTypeCartCount
}
