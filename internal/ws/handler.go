package ws

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
		return true // Allow all origins in development
	},
}

// Client represents a connected WebSocket client. The connection identity is
// generated per connection; a player who reconnects gets a fresh one and
// re-binds it to their seat via the rejoin command.
type Client struct {
	conn     *websocket.Conn
	id       string // connection identity
	name     string // display name, set by create/join/rejoin
	roomCode string
	send     chan []byte
}

// Hub maintains the set of active clients and their room membership
type Hub struct {
	clients    map[string]*Client            // connection ID -> Client
	rooms      map[string]map[string]*Client // room code -> connection ID -> Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		rooms:      make(map[string]map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// BroadcastToRoom sends a message to every participant of a room
func (h *Hub) BroadcastToRoom(roomCode string, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if room, exists := h.rooms[roomCode]; exists {
		for _, client := range room {
			select {
			case client.send <- data:
			default:
				// Client's buffer is full
				log.Printf("Client send buffer full for connection %s in room %s, dropping message", client.id, roomCode)
			}
		}
	}
}

// SendToConnection sends a message to a single connection
func (h *Hub) SendToConnection(connID string, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if client, exists := h.clients[connID]; exists {
		select {
		case client.send <- data:
			// sent
		default:
			log.Printf("[WS] SendToConnection dropped message for %s (buffer full)", connID)
		}
	} else {
		log.Printf("[WS] SendToConnection no client for %s", connID)
	}
}

// addToRoom moves a client into a room group (a client is in one room at a time)
func (h *Hub) addToRoom(c *Client, roomCode string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c.roomCode != "" && c.roomCode != roomCode {
		if room, exists := h.rooms[c.roomCode]; exists {
			delete(room, c.id)
			if len(room) == 0 {
				delete(h.rooms, c.roomCode)
			}
		}
	}

	if _, exists := h.rooms[roomCode]; !exists {
		h.rooms[roomCode] = make(map[string]*Client)
	}
	h.rooms[roomCode][c.id] = c
	c.roomCode = roomCode
}

// WSMessage is the envelope for every inbound command
type WSMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// writePump writes messages to the WebSocket connection
func (c *Client) writePump() {
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
				// Channel closed - connection is being cleaned up.
				// Best-effort close frame; ignore errors (conn may already be closed).
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("WebSocket write error for connection %s: %v", c.id, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("WebSocket ping error for connection %s: %v", c.id, err)
				return
			}
		}
	}
}

// sendError reports a rejected command to the originating client only
func (c *Client) sendError(message string) {
	data, _ := json.Marshal(map[string]interface{}{
		"type":    "error",
		"message": message,
	})

	select {
	case c.send <- data:
	default:
		log.Printf("[WS] dropped error for connection %s (buffer full)", c.id)
	}
}
