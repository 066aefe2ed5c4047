// Package ws pushes stored events to connected dashboard clients over
// websockets. Delivery is best-effort; slow clients are dropped rather than
// allowed to block the broadcast loop.
package ws

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/dollancemedia/vapegaurd/internal/domain"
)

// message is the wire envelope sent to clients
type message struct {
	Type    string        `json:"type"`
	Payload *domain.Event `json:"payload"`
}

// Hub maintains the set of active clients and broadcasts stored events to
// them. All client-set mutation happens on the Run goroutine.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	log        *zap.Logger
}

// NewHub creates a new hub
func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		log:        log,
	}
}

// Run processes register/unregister/broadcast requests until ctx is done
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.log.Info("Websocket hub shutting down")
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			return

		case client := <-h.register:
			h.clients[client] = true
			h.log.Info("Websocket client registered",
				zap.Int("client_count", len(h.clients)))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.log.Info("Websocket client unregistered",
					zap.Int("client_count", len(h.clients)))
			}

		case msg := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- msg:
				default:
					// Send buffer full; assume the client is gone.
					close(client.send)
					delete(h.clients, client)
					h.log.Warn("Dropped slow websocket client",
						zap.Int("client_count", len(h.clients)))
				}
			}
		}
	}
}

// BroadcastEvent sends a stored event to all connected clients
func (h *Hub) BroadcastEvent(event *domain.Event) {
	msg, err := json.Marshal(message{Type: "event", Payload: event})
	if err != nil {
		h.log.Error("Failed to marshal event for broadcast", zap.Error(err))
		return
	}

	select {
	case h.broadcast <- msg:
	default:
		h.log.Warn("Broadcast channel full, dropping event",
			zap.String("event_id", event.ID.Hex()))
	}
}
