package notify

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// unreadUpdate is the message pushed when a user's unread count changes
type unreadUpdate struct {
	Type        string `json:"type"`
	UnreadCount int64  `json:"unread_count"`
}

// Hub tracks WebSocket connections per user
type Hub struct {
	mu    sync.RWMutex
	conns map[uint]map[*connection]bool
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{conns: make(map[uint]map[*connection]bool)}
}

type connection struct {
	conn *websocket.Conn
	send chan []byte
}

// Serve upgrades an HTTP request and registers the connection for a user
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, userID uint) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}

	c := &connection{conn: ws, send: make(chan []byte, 16)}

	h.mu.Lock()
	if h.conns[userID] == nil {
		h.conns[userID] = make(map[*connection]bool)
	}
	h.conns[userID][c] = true
	h.mu.Unlock()

	go c.writePump()
	go h.readPump(c, userID)
}

// SendUnreadCount pushes the unread count to every connection of a user
func (h *Hub) SendUnreadCount(userID uint, count int64) {
	data, err := json.Marshal(unreadUpdate{Type: "unread_count", UnreadCount: count})
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.conns[userID] {
		select {
		case c.send <- data:
		default:
			log.Println("WebSocket buffer full, dropping message")
		}
	}
}

// readPump discards client messages and unregisters on close
func (h *Hub) readPump(c *connection, userID uint) {
	defer func() {
		h.mu.Lock()
		delete(h.conns[userID], c)
		if len(h.conns[userID]) == 0 {
			delete(h.conns, userID)
		}
		h.mu.Unlock()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(1024)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
	}
}

// writePump pumps queued messages to the connection with keepalive pings
func (c *connection) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
