// Package diag serves the game's static assets over HTTP and streams the
// frame-rate readout to websocket clients.
package diag

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeTimeout = 2 * time.Second
	// sendQueue is the per-client backlog; updates beyond it are dropped.
	sendQueue = 8
)

// Message is the JSON payload pushed to /diag clients.
type Message struct {
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub broadcasts readout updates to connected websocket clients. It
// implements the readout interface used by the animation driver.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]bool
	last    []byte

	upgrader websocket.Upgrader
}

func NewHub() *Hub {
	return &Hub{
		clients:  map[*client]bool{},
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}
}

// SetText queues text for every client without waiting on the network.
// A client whose queue is full misses this update.
func (h *Hub) SetText(text string) {
	data, err := json.Marshal(Message{Text: text, At: time.Now()})
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = data
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request and registers the client. The latest
// readout, if any, is queued straight away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Debug().Str("component", "Hub").Err(err).Msg("upgrade failed")
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendQueue)}
	h.mu.Lock()
	h.clients[c] = true
	if h.last != nil {
		c.send <- h.last
	}
	h.mu.Unlock()

	go h.writeLoop(c)
	go h.readLoop(c)
}

func (h *Hub) writeLoop(c *client) {
	for data := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Debug().Str("component", "Hub").Err(err).Msg("write failed")
			c.conn.Close()
			return
		}
	}
}

// readLoop discards client messages and unregisters the client once the
// connection fails.
func (h *Hub) readLoop(c *client) {
	defer func() {
		h.remove(c)
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c] {
		delete(h.clients, c)
		close(c.send)
	}
}
