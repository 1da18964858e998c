// Package server provides the HTTP server for the Handwing virtual
// controller.
package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/handwing/internal/controller"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// StateUpdate is one controller state snapshot pushed to overlay
// clients: the computed frame plus the confirmed gesture of each hand.
type StateUpdate struct {
	Frame     controller.Frame  `json:"frame"`
	Gestures  map[string]string `json:"gestures"`
	Timestamp int64             `json:"timestamp"`
}

// stateWriteTimeout bounds each client write so a stalled overlay
// client can never block the pipeline behind Publish.
const stateWriteTimeout = 1 * time.Second

// StateHandler broadcasts controller state to WebSocket clients. The
// pipeline pushes every computed frame through Publish; clients that
// cannot keep up are dropped.
type StateHandler struct {
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
}

// NewStateHandler creates a StateHandler with no clients.
func NewStateHandler() *StateHandler {
	return &StateHandler{clients: make(map[*websocket.Conn]bool)}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *StateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Publish sends one state update to all connected clients. A client
// whose write times out or fails is closed and removed.
func (h *StateHandler) Publish(update StateUpdate) {
	if update.Timestamp == 0 {
		update.Timestamp = time.Now().UnixMilli()
	}

	msg, err := json.Marshal(update)
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.SetWriteDeadline(time.Now().Add(stateWriteTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			log.Printf("state client dropped: %v", err)
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

// Clients returns the number of connected overlay clients.
func (h *StateHandler) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
