// Package realtime pushes project chat messages to websocket subscribers.
package realtime

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/shram-daan/shramdaan/internal/metrics"
	"github.com/shram-daan/shramdaan/internal/storage"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 32
)

// Event is the envelope written to subscribers.
type Event struct {
	Type      string                     `json:"type"`
	ProjectID string                     `json:"projectId"`
	Message   *storage.MessageWithSender `json:"message,omitempty"`
}

type client struct {
	projectID string
	conn      *websocket.Conn
	send      chan []byte
}

// Hub tracks the open connections of every project chat.
type Hub struct {
	clients  map[string]map[*client]bool
	mu       sync.RWMutex
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

// NewHub returns a Hub accepting browser connections from allowedOrigins.
// A "*" entry accepts any origin; requests without an Origin header are
// always accepted.
func NewHub(allowedOrigins []string, log zerolog.Logger) *Hub {
	h := &Hub{
		clients: make(map[string]map[*client]bool),
		log:     log.With().Str("component", "realtime").Logger(),
	}

	h.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			for _, allowed := range allowedOrigins {
				if allowed == "*" || origin == allowed {
					return true
				}
			}
			return false
		},
	}

	return h
}

// Subscribers returns the number of open connections for a project.
func (h *Hub) Subscribers(projectID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[projectID])
}

// Publish sends a posted message to every subscriber of the project. Clients
// that cannot keep up are disconnected.
func (h *Hub) Publish(projectID string, message storage.MessageWithSender) {
	payload, err := json.Marshal(Event{Type: "message", ProjectID: projectID, Message: &message})
	if err != nil {
		h.log.Error().Err(err).Str("project_id", projectID).Msg("failed to encode message event")
		return
	}

	h.broadcast(projectID, payload)
}

func (h *Hub) broadcast(projectID string, payload []byte) {
	var slow []*client

	// Sends happen under the read lock so unregister cannot close a queue
	// mid-send.
	h.mu.RLock()
	for c := range h.clients[projectID] {
		select {
		case c.send <- payload:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.log.Warn().Str("project_id", projectID).Msg("dropping slow websocket client")
		h.unregister(c)
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[c.projectID] == nil {
		h.clients[c.projectID] = make(map[*client]bool)
	}
	h.clients[c.projectID][c] = true
	metrics.SubscriberConnected()
}

// unregister removes c and closes its send queue. Safe to call twice.
func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[c.projectID]
	if !ok || !clients[c] {
		return
	}

	delete(clients, c)
	if len(clients) == 0 {
		delete(h.clients, c.projectID)
	}
	close(c.send)
	metrics.SubscriberDisconnected()
}

// Serve upgrades the request and blocks until the connection closes.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, projectID string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug().Err(err).Str("project_id", projectID).Msg("websocket upgrade failed")
		return
	}

	c := &client{
		projectID: projectID,
		conn:      conn,
		send:      make(chan []byte, sendBuffer),
	}

	welcome, _ := json.Marshal(Event{Type: "connected", ProjectID: projectID})
	c.send <- welcome

	h.register(c)

	go h.writePump(c)
	h.readPump(c)
}

// readPump drains client frames so pongs and close frames are processed.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Debug().Err(err).Str("project_id", c.projectID).Msg("websocket closed")
			}
			return
		}
	}
}

// writePump is the only writer of c.conn.
func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
