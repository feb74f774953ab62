package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/greeva/internal/app"
	"github.com/ayusman/greeva/internal/exercise"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// ResultsSocket broadcasts per-frame exercise results via WebSocket.
type ResultsSocket struct {
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
}

// NewResultsSocket creates a ResultsSocket and registers it as the
// application's results handler.
func NewResultsSocket(a *app.App) *ResultsSocket {
	h := &ResultsSocket{
		clients: make(map[*websocket.Conn]bool),
	}
	a.AddResultsHandler(h.Broadcast)
	return h
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *ResultsSocket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
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

// Broadcast sends the results of a processed frame to all connected clients.
func (h *ResultsSocket) Broadcast(results map[exercise.Type]exercise.Result) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.clients) == 0 {
		return
	}

	msg, err := json.Marshal(map[string]any{
		"results":   results,
		"timestamp": time.Now().UnixMilli(),
	})
	if err != nil {
		return
	}

	for conn := range h.clients {
		conn.WriteMessage(websocket.TextMessage, msg)
	}
}

// ClientCount returns the number of connected WebSocket clients.
func (h *ResultsSocket) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
