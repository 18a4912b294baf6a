package websocket

import (
	"context"
	"encoding/json"
	"log/slog"

	"catalog-api/internal/event"
)

// Hub fans bus events out to the connected clients they are addressed to.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client

	events      <-chan event.Event
	unsubscribe func()
	done        chan struct{}
}

// NewHub subscribes to bus immediately so events published before Run starts are buffered.
func NewHub(bus event.Bus) *Hub {
	events, unsubscribe := bus.Subscribe()
	return &Hub{
		clients:     make(map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		events:      events,
		unsubscribe: unsubscribe,
		done:        make(chan struct{}),
	}
}

// Run processes registrations and events until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		h.unsubscribe()
		for client := range h.clients {
			delete(h.clients, client)
			close(client.send)
		}
		close(h.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.clients[client] = true
			slog.Debug("websocket client connected", "user_id", client.userID, "total_clients", len(h.clients))
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				slog.Debug("websocket client disconnected", "user_id", client.userID, "total_clients", len(h.clients))
			}
		case e, ok := <-h.events:
			if !ok {
				return
			}
			h.deliver(e)
		}
	}
}

func (h *Hub) deliver(e event.Event) {
	var message []byte
	for client := range h.clients {
		if !e.Addressed(client.userID) {
			continue
		}
		if message == nil {
			var err error
			message, err = json.Marshal(e)
			if err != nil {
				slog.Error("failed to marshal event", "event_type", e.Type, "error", err)
				return
			}
		}
		select {
		case client.send <- message:
		default:
			slog.Warn("dropping slow websocket client", "user_id", client.userID)
			close(client.send)
			delete(h.clients, client)
		}
	}
}

// Register adds client to the hub. It reports false once the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}
