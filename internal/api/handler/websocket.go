package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"devicesim/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // allow all origins for an operator-facing control surface
	},
}

// statsSource is the narrow pool view the websocket handler polls; kept as
// an interface so it can be exercised without a live pool in tests.
type statsSource interface {
	GetStats() domain.PoolStats
}

// WebSocketHandler streams periodic pool-stats snapshots to connected
// clients for a live dashboard view of the simulated fleet.
type WebSocketHandler struct {
	stats   statsSource
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
}

// NewWebSocketHandler creates a new WebSocket handler and starts its
// broadcast loop.
func NewWebSocketHandler(stats statsSource) *WebSocketHandler {
	h := &WebSocketHandler{
		stats:   stats,
		clients: make(map[*websocket.Conn]bool),
	}
	go h.broadcastLoop()
	return h
}

// HandleWebSocket upgrades the HTTP connection to a WebSocket.
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[ERROR] websocket: upgrade failed: %v", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	h.sendStats(conn)
	go h.handleClient(conn)
}

func (h *WebSocketHandler) handleClient(conn *websocket.Conn) {
	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
		conn.Close()
	}()

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[ERROR] websocket: read error: %v", err)
			}
			return
		}
	}
}

func (h *WebSocketHandler) sendStats(conn *websocket.Conn) {
	if h.stats == nil {
		return
	}
	msg := map[string]interface{}{
		"type": "pool_stats",
		"data": h.stats.GetStats(),
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	conn.WriteMessage(websocket.TextMessage, data)
}

func (h *WebSocketHandler) broadcastLoop() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		h.mu.RLock()
		for client := range h.clients {
			h.sendStats(client)
		}
		h.mu.RUnlock()
	}
}
