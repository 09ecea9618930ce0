package server

import (
	"log/slog"
	"sync"

	"github.com/gofiber/websocket/v2"

	"github.com/equidrill/drillbook/pkg/streaming"
)

// Hub tracks connected follower sockets and fans session envelopes out to
// them.
type Hub struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]struct{}
	log     *slog.Logger
}

// NewHub creates an empty hub.
func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		clients: make(map[*websocket.Conn]struct{}),
		log:     log,
	}
}

// Register adds a follower connection.
func (h *Hub) Register(c *websocket.Conn) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.log.Debug("follower connected", "remote", c.RemoteAddr())
}

// Unregister removes and closes a follower connection.
func (h *Hub) Unregister(c *websocket.Conn) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()
	if ok {
		_ = c.Close()
		h.log.Debug("follower disconnected", "remote", c.RemoteAddr())
	}
}

// ClientCount returns the number of connected followers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends an envelope to every follower. Connections that fail to
// write are dropped.
func (h *Hub) Broadcast(env streaming.Envelope) {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for c := range h.clients {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		if err := c.WriteJSON(env); err != nil {
			h.log.Warn("follower write failed, dropping", "error", err)
			h.Unregister(c)
		}
	}
}
