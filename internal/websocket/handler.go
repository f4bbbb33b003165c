package websocket

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/legatoproject/datahub/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Handler serves the live delta subscription endpoint (spec §4.7,
// SPEC_FULL.md "live delta subscription").
type Handler struct {
	hub    *Hub
	logger logger.Logger
}

// NewHandler creates a Handler and starts its Hub's run loop, which
// stops when done is closed.
func NewHandler(log logger.Logger, done <-chan struct{}) *Handler {
	hub := NewHub()
	go hub.Run(done)
	return &Handler{hub: hub, logger: log}
}

// Hub exposes the underlying broadcast hub so the engine layer can
// push delta/barrier frames onto it.
func (h *Handler) Hub() *Hub { return h.hub }

// ServeDelta upgrades the request to a WebSocket and subscribes the
// connection to delta frames under the "path" query parameter prefix
// (empty or "/" subscribes to the whole tree).
func (h *Handler) ServeDelta(c *gin.Context) {
	prefix := c.Query("path")
	if prefix == "" {
		prefix = "/"
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("failed to upgrade delta subscription", logger.Error(err))
		return
	}

	if prefix != "/" && !strings.HasPrefix(prefix, "/") {
		h.rejectSubscription(conn, "path must be absolute")
		return
	}

	client := &Client{
		Conn:       conn,
		Send:       make(chan *Message, 256),
		PathPrefix: prefix,
		CreatedAt:  time.Now(),
	}

	h.hub.Register(client)
	go h.readPump(client)
	go h.writePump(client)
}

// rejectSubscription sends a single error frame over a just-upgraded
// connection and closes it, for subscription requests that pass
// upgrade but fail validation before a Client is ever registered.
func (h *Handler) rejectSubscription(conn *websocket.Conn, reason string) {
	defer conn.Close()
	data, err := json.Marshal(ErrorMessage(reason))
	if err != nil {
		return
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = conn.WriteMessage(websocket.TextMessage, data)
}

func (h *Handler) readPump(client *Client) {
	defer func() {
		h.hub.Unregister(client)
		client.Conn.Close()
	}()

	client.Conn.SetReadLimit(maxMessageSize)
	_ = client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	client.Conn.SetPongHandler(func(string) error {
		return client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		// This endpoint is receive-only from the subscriber's
		// perspective; any inbound frame is drained just to detect
		// connection close and keep the pong handler active.
		if _, _, err := client.Conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (h *Handler) writePump(client *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send:
			_ = client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			data, err := json.Marshal(message)
			if err != nil {
				continue
			}
			if err := client.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
