package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Hub maintains the active websocket connections by connection id. Presence
// decides which connection a user owns; the hub only moves frames.
//
// The registry lock is never held across a network write. Each connection
// carries its own write lock, so a stalled client delays only its own frames.
type Hub struct {
	mu    sync.Mutex
	conns map[string]*hubConn
}

// hubConn pairs a socket with the lock serializing writes to it.
type hubConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (hc *hubConn) write(payload []byte) error {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	return hc.conn.WriteMessage(websocket.TextMessage, payload)
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{conns: make(map[string]*hubConn)}
}

// Add registers a connection under its id.
func (h *Hub) Add(connID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[connID] = &hubConn{conn: conn}
}

// Remove drops a connection.
func (h *Hub) Remove(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, connID)
}

// Len reports the number of live connections.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

func (h *Hub) lookup(connID string) *hubConn {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.conns[connID]
}

// drop closes and deregisters a connection after a failed write, unless a
// newer connection already reused the id.
func (h *Hub) drop(connID string, hc *hubConn) {
	hc.conn.Close()
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[connID] == hc {
		delete(h.conns, connID)
	}
}

// Send pushes an event to one connection. A write failure closes and evicts
// the connection.
func (h *Hub) Send(connID string, event ServerEvent) bool {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("websocket event marshal error: %v", err)
		return false
	}

	hc := h.lookup(connID)
	if hc == nil {
		return false
	}
	if err := hc.write(payload); err != nil {
		log.Printf("websocket write error: %v", err)
		h.drop(connID, hc)
		return false
	}
	return true
}

// Broadcast pushes an event to every connection except the given one. Used
// for the presence online/offline notifications.
func (h *Hub) Broadcast(exceptConnID string, event ServerEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("websocket event marshal error: %v", err)
		return
	}

	h.mu.Lock()
	targets := make(map[string]*hubConn, len(h.conns))
	for connID, hc := range h.conns {
		if connID != exceptConnID {
			targets[connID] = hc
		}
	}
	h.mu.Unlock()

	for connID, hc := range targets {
		if err := hc.write(payload); err != nil {
			log.Printf("websocket write error: %v", err)
			h.drop(connID, hc)
		}
	}
}
