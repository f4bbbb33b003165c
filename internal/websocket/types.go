// Package websocket implements live snapshot/delta streaming over a
// persistent connection (spec §9 Design Notes: "Snapshot as an
// asynchronous write sink" — here realized as a broadcast hub rather
// than the donor's VM-status fan-out, adapted from
// internal/websocket's Hub/Client register/unregister/broadcast loop).
package websocket

import (
	"time"

	"github.com/gorilla/websocket"

	"github.com/legatoproject/datahub/internal/sample"
)

// MessageType identifies the kind of frame sent to a subscriber.
type MessageType string

const (
	MessageTypeDelta        MessageType = "delta"
	MessageTypeBarrierStart MessageType = "barrier_start"
	MessageTypeBarrierEnd   MessageType = "barrier_end"
	MessageTypeError        MessageType = "error"
)

// Message is one frame delivered to a subscriber.
type Message struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Path      string      `json:"path,omitempty"`
	Kind      string      `json:"kind,omitempty"`
	Value     string      `json:"value,omitempty"`
	Deleted   bool        `json:"deleted,omitempty"`
	Error     string      `json:"error,omitempty"`
}

// DeltaMessage builds a delta frame for one changed resource.
func DeltaMessage(path, kind string, s sample.Sample, deleted bool) *Message {
	return &Message{
		Type:      MessageTypeDelta,
		Timestamp: time.Now(),
		Path:      path,
		Kind:      kind,
		Value:     s.JSONForm(),
		Deleted:   deleted,
	}
}

// BarrierMessage builds an update-barrier transition frame.
func BarrierMessage(starting bool) *Message {
	t := MessageTypeBarrierEnd
	if starting {
		t = MessageTypeBarrierStart
	}
	return &Message{Type: t, Timestamp: time.Now()}
}

// ErrorMessage builds an error frame.
func ErrorMessage(msg string) *Message {
	return &Message{Type: MessageTypeError, Timestamp: time.Now(), Error: msg}
}

// Client is one subscriber connection, scoped to a subtree prefix.
type Client struct {
	Conn       *websocket.Conn
	Send       chan *Message
	PathPrefix string
	CreatedAt  time.Time
}

// Hub fans delta and barrier frames out to subscribed clients,
// matching the donor Hub's register/unregister/broadcast channel loop
// one-for-one, retargeted from VM name scoping to resource path-prefix
// scoping.
type Hub struct {
	clients       map[*Client]bool
	prefixClients map[string][]*Client

	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client
}

// NewHub creates an empty Hub. Call Run in its own goroutine to start
// serving.
func NewHub() *Hub {
	return &Hub{
		clients:       make(map[*Client]bool),
		prefixClients: make(map[string][]*Client),
		broadcast:     make(chan *Message),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
	}
}

// Run services register/unregister/broadcast until done is closed.
func (h *Hub) Run(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case client := <-h.register:
			h.clients[client] = true
			h.prefixClients[client.PathPrefix] = append(h.prefixClients[client.PathPrefix], client)
		case client := <-h.unregister:
			h.removeClient(client)
		case msg := <-h.broadcast:
			h.deliver(msg)
		}
	}
}

func (h *Hub) removeClient(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.Send)

	peers := h.prefixClients[client.PathPrefix]
	for i, c := range peers {
		if c == client {
			h.prefixClients[client.PathPrefix] = append(peers[:i], peers[i+1:]...)
			break
		}
	}
	if len(h.prefixClients[client.PathPrefix]) == 0 {
		delete(h.prefixClients, client.PathPrefix)
	}
}

func (h *Hub) deliver(msg *Message) {
	for client := range h.clients {
		if msg.Path != "" && client.PathPrefix != "" && !hasPrefix(msg.Path, client.PathPrefix) {
			continue
		}
		select {
		case client.Send <- msg:
		default:
			h.removeClient(client)
		}
	}
}

func hasPrefix(path, prefix string) bool {
	if prefix == "/" {
		return true
	}
	return len(path) >= len(prefix) && path[:len(prefix)] == prefix
}

// Register subscribes client to the hub's broadcast stream.
func (h *Hub) Register(client *Client) { h.register <- client }

// Unregister removes client from the hub.
func (h *Hub) Unregister(client *Client) { h.unregister <- client }

// Broadcast enqueues msg for delivery to every matching subscriber.
func (h *Hub) Broadcast(msg *Message) { h.broadcast <- msg }
