// Package server serves the interactive graph page and its API.
package server

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/SamhitaKotian/reading-graph/internal/selection"
)

// Hub channel buffer sizes.
const (
	broadcastBuffer = 64
	registerBuffer  = 16
)

// Hub manages active websocket clients and fans events out to them.
// All client map mutations happen exclusively in the Run goroutine.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	log        *zap.Logger
}

// NewHub creates a new Hub instance.
func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, registerBuffer),
		unregister: make(chan *Client, registerBuffer),
		broadcast:  make(chan []byte, broadcastBuffer),
		log:        log,
	}
}

// Run starts the hub event loop. It should be run as a goroutine and exits
// when the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				client.closeSend()
				delete(h.clients, client)
			}
			return

		case client := <-h.register:
			h.clients[client] = true
			h.log.Debug("ws client registered", zap.Int("total", len(h.clients)))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.closeSend()
				h.log.Debug("ws client unregistered", zap.Int("total", len(h.clients)))
			}

		case msg := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- msg:
				default:
					// Slow consumer: drop it rather than stalling the hub.
					delete(h.clients, client)
					client.closeSend()
					h.log.Warn("dropping slow ws client")
				}
			}
		}
	}
}

// Register queues a client for registration.
func (h *Hub) Register(c *Client) {
	h.register <- c
}

// Unregister queues a client for removal.
func (h *Hub) Unregister(c *Client) {
	h.unregister <- c
}

// Broadcast sends a raw message to every connected client. Messages are
// dropped when the hub's buffer is full; renderer events are advisory.
func (h *Hub) Broadcast(msg []byte) {
	select {
	case h.broadcast <- msg:
	default:
		h.log.Warn("ws broadcast buffer full, dropping event")
	}
}

// Publish implements selection.Bus: selection events stream straight to the
// rendered page.
func (h *Hub) Publish(ev selection.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.log.Error("encoding selection event", zap.Error(err))
		return
	}
	h.Broadcast(data)
}
