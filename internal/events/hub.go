// Package events broadcasts document-change notifications to connected
// dashboard clients over WebSocket.
package events

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Event describes a change to a tracked document.
type Event struct {
	Type      string `json:"type"` // document_added | document_changed | document_removed
	DocID     string `json:"doc_id"`
	Path      string `json:"path"`
	ItemCount int    `json:"item_count,omitempty"`
}

const (
	DocumentAdded   = "document_added"
	DocumentChanged = "document_changed"
	DocumentRemoved = "document_removed"
)

// Hub tracks active client connections and fans events out to all of them.
type Hub struct {
	mu       sync.Mutex
	clients  map[*websocket.Conn]uuid.UUID
	log      *slog.Logger
	upgrader websocket.Upgrader
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]uuid.UUID),
		log:     log,
	}
}

// ServeHTTP upgrades the connection and holds it open until the client goes
// away. Clients are read-only consumers; anything they send is discarded.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	id := uuid.New()
	h.mu.Lock()
	h.clients[conn] = id
	h.mu.Unlock()

	h.log.Info("event client connected", "client_id", id)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	h.log.Info("event client disconnected", "client_id", id)
}

// Broadcast sends an event to every connected client, pruning connections
// that fail to write.
func (h *Hub) Broadcast(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, id := range h.clients {
		if err := conn.WriteJSON(ev); err != nil {
			h.log.Warn("dropping event client", "client_id", id, "error", err)
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
