package realtime

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Event is one realtime frame pushed to a connected client.
type Event struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	CreatedAt time.Time   `json:"created_at"`
}

// Publisher is the delivery interface the notification workflow writes to.
// The data layer never reaches for a transport handle directly; whoever wires
// the application decides what implementation (websocket hub, no-op) to
// inject.
type Publisher interface {
	Publish(userID string, event Event)
}

// NopPublisher drops every event. Used when realtime push is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(string, Event) {}

// Hub tracks connected websocket clients by user ID and pushes events to
// them. Delivery is best-effort: a user with no open connection simply
// misses the push and reads the notification from the store later.
type Hub struct {
	mu      sync.Mutex
	clients map[string]*websocket.Conn
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*websocket.Conn),
	}
}

// Register associates a connection with a user, replacing any previous one.
func (h *Hub) Register(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if old, ok := h.clients[userID]; ok {
		old.Close()
	}
	h.clients[userID] = conn
}

// Unregister removes a user's connection if it is still the registered one.
func (h *Hub) Unregister(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if current, ok := h.clients[userID]; ok && current == conn {
		delete(h.clients, userID)
	}
}

// Publish sends an event to the user's connection, if any. The lock is held
// across the write: gorilla/websocket allows at most one concurrent writer
// per connection, and two notifications for the same user can land at once.
func (h *Hub) Publish(userID string, event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conn, ok := h.clients[userID]
	if !ok {
		return
	}

	if err := conn.WriteJSON(event); err != nil {
		logrus.WithError(err).Warnf("Failed to push event to user %s, dropping connection", userID)
		delete(h.clients, userID)
		conn.Close()
	}
}
