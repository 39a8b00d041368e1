package ws

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/caravanonline/backend/internal/game"
)

// Turn-protocol message data types
type CreateRoomData struct {
	PlayerName string `json:"player_name"`
}

type JoinRoomData struct {
	RoomCode   string `json:"room_code"`
	PlayerName string `json:"player_name"`
}

type RejoinData struct {
	RoomCode   string `json:"room_code"`
	PlayerName string `json:"player_name"`
}

type PlaceCardData struct {
	RoomCode string `json:"room_code"`
	Card     string `json:"card"` // "FACE SUIT" token
	Lane     int    `json:"lane"`
}

type PlaceCardAttachedData struct {
	RoomCode     string `json:"room_code"`
	Card         string `json:"card"`          // base card token
	AttachedCard string `json:"attached_card"` // J/Q/K token
	Lane         int    `json:"lane"`
	CardIndex    int    `json:"card_index"`
}

type DiscardCardData struct {
	RoomCode string `json:"room_code"`
	Face     string `json:"face"`
	Suit     string `json:"suit"`
}

type DiscardLaneData struct {
	RoomCode string `json:"room_code"`
	Lane     int    `json:"lane"`
}

// gameStateMessage wraps the broadcast view with its message type.
type gameStateMessage struct {
	Type string `json:"type"`
	game.RoomState
}

// GameHub is the single hub for all rooms.
var GameHub *Hub

func init() {
	GameHub = NewHub()
	go runGameHub(GameHub)
}

// HandleWebSocket upgrades the connection and assigns it a fresh identity.
func HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS] Upgrade error: %v", err)
		return
	}

	client := &Client{
		conn: conn,
		id:   uuid.NewString(),
		send: make(chan []byte, 256),
	}

	GameHub.register <- client

	go client.writePump()
	go client.readPump()
}

// runGameHub processes connect/disconnect bookkeeping for the hub.
func runGameHub(h *Hub) {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.id] = client
			h.mu.Unlock()

			log.Printf("[WS] Connection %s established", client.id)

			// The client compares this against current_turn in room state.
			h.SendToConnection(client.id, map[string]interface{}{
				"type":          "connected",
				"connection_id": client.id,
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if cur, ok := h.clients[client.id]; ok && cur == client {
				delete(h.clients, client.id)
				if room, exists := h.rooms[client.roomCode]; exists {
					delete(room, client.id)
					if len(room) == 0 {
						delete(h.rooms, client.roomCode)
					}
				}

				close(client.send)
			}
			h.mu.Unlock()

			log.Printf("[WS] Connection %s closed", client.id)

			// A lobby host who disconnects abandons the room. Once the game
			// has started the room stays, pending a rejoin; only the cleanup
			// worker removes it.
			if room, ok := game.Manager.GetRoomByConnection(client.id); ok && !room.IsStarted() {
				log.Printf("[WS] Removing unstarted room %s after disconnect of %s", room.Code, client.id)
				game.Manager.RemoveRoom(room.Code)
			}
		}
	}
}

// readPump reads and dispatches commands for one connection.
func (c *Client) readPump() {
	defer func() {
		GameHub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(65536)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error (unexpected) for connection %s: %v", c.id, err)
			} else {
				log.Printf("WebSocket read error for connection %s: %v", c.id, err)
			}
			break
		}

		var msg WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}

		c.handleMessage(msg)
	}
}

// handleMessage dispatches one turn-protocol command.
func (c *Client) handleMessage(msg WSMessage) {
	switch msg.Type {
	case "create_room":
		var data CreateRoomData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("Invalid create_room data")
			return
		}
		c.handleCreateRoom(data)

	case "join_room":
		var data JoinRoomData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("Invalid join_room data")
			return
		}
		c.handleJoinRoom(data)

	case "list_rooms":
		GameHub.SendToConnection(c.id, map[string]interface{}{
			"type":  "available_rooms",
			"rooms": game.Manager.AvailableRooms(),
		})

	case "rejoin":
		var data RejoinData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("Invalid rejoin data")
			return
		}
		c.handleRejoin(data)

	case "place_card":
		var data PlaceCardData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("Invalid place_card data")
			return
		}
		c.handlePlaceCard(data)

	case "place_card_attached":
		var data PlaceCardAttachedData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("Invalid place_card_attached data")
			return
		}
		c.handlePlaceCardAttached(data)

	case "discard_card":
		var data DiscardCardData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("Invalid discard_card data")
			return
		}
		c.handleDiscardCard(data)

	case "discard_lane":
		var data DiscardLaneData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("Invalid discard_lane data")
			return
		}
		c.handleDiscardLane(data)

	default:
		c.sendError("Unknown message type")
	}
}

// handleCreateRoom registers a new room with the caller seated as player 1.
func (c *Client) handleCreateRoom(data CreateRoomData) {
	room := game.Manager.CreateRoom(c.id, data.PlayerName)
	c.name = data.PlayerName
	GameHub.addToRoom(c, room.Code)

	log.Printf("[WS] Room %s created by %s (%s)", room.Code, data.PlayerName, c.id)

	GameHub.SendToConnection(c.id, map[string]interface{}{
		"type":        "room_created",
		"room_code":   room.Code,
		"player_name": data.PlayerName,
	})
}

// handleJoinRoom seats the caller as player 2 and starts the game.
func (c *Client) handleJoinRoom(data JoinRoomData) {
	room, err := game.Manager.JoinRoom(data.RoomCode, c.id, data.PlayerName)
	if err != nil {
		GameHub.SendToConnection(c.id, map[string]interface{}{
			"type":    "join_failed",
			"message": "Room is full or does not exist.",
		})
		return
	}
	c.name = data.PlayerName
	GameHub.addToRoom(c, room.Code)

	log.Printf("[WS] %s (%s) joined room %s - game starting", data.PlayerName, c.id, room.Code)

	p1Name, p2Name := room.PlayerNames()
	GameHub.BroadcastToRoom(room.Code, map[string]interface{}{
		"type":         "player_joined",
		"player_name":  data.PlayerName,
		"player1_name": p1Name,
		"player2_name": p2Name,
	})

	c.broadcastRoomState(room)
}

// handleRejoin re-binds a (possibly new) connection to a named seat and
// pushes the current state to the whole room.
func (c *Client) handleRejoin(data RejoinData) {
	room, ok := game.Manager.GetRoom(data.RoomCode)
	if !ok {
		c.sendError(game.ErrRoomNotFound.Error())
		return
	}
	if err := room.Rejoin(c.id, data.PlayerName); err != nil {
		c.sendError(err.Error())
		return
	}
	c.name = data.PlayerName
	GameHub.addToRoom(c, room.Code)

	log.Printf("[WS] %s rejoined room %s as %s", data.PlayerName, room.Code, c.id)

	c.broadcastRoomState(room)
}

// handlePlaceCard plays a card from the caller's hand into a lane.
func (c *Client) handlePlaceCard(data PlaceCardData) {
	room, ok := game.Manager.GetRoom(data.RoomCode)
	if !ok {
		c.sendError(game.ErrRoomNotFound.Error())
		return
	}
	if err := room.PlaceCard(c.id, data.Card, data.Lane); err != nil {
		c.sendError(err.Error())
		return
	}
	c.broadcastRoomState(room)
}

// handlePlaceCardAttached applies a J/Q/K attachment effect.
func (c *Client) handlePlaceCardAttached(data PlaceCardAttachedData) {
	room, ok := game.Manager.GetRoom(data.RoomCode)
	if !ok {
		c.sendError(game.ErrRoomNotFound.Error())
		return
	}
	if err := room.AttachCard(c.id, data.Card, data.AttachedCard, data.Lane, data.CardIndex); err != nil {
		c.sendError(err.Error())
		return
	}
	c.broadcastRoomState(room)
}

// handleDiscardCard removes a card from the caller's hand.
func (c *Client) handleDiscardCard(data DiscardCardData) {
	room, ok := game.Manager.GetRoom(data.RoomCode)
	if !ok {
		c.sendError(game.ErrRoomNotFound.Error())
		return
	}
	if err := room.DiscardCard(c.id, data.Face, game.Suit(data.Suit)); err != nil {
		c.sendError(err.Error())
		return
	}
	c.broadcastRoomState(room)
}

// handleDiscardLane clears a lane.
func (c *Client) handleDiscardLane(data DiscardLaneData) {
	room, ok := game.Manager.GetRoom(data.RoomCode)
	if !ok {
		c.sendError(game.ErrRoomNotFound.Error())
		return
	}
	if err := room.DiscardLane(c.id, data.Lane); err != nil {
		c.sendError(err.Error())
		return
	}
	c.broadcastRoomState(room)
}

// broadcastRoomState sends the full updated view to every room participant.
func (c *Client) broadcastRoomState(room *game.Room) {
	GameHub.BroadcastToRoom(room.Code, gameStateMessage{
		Type:      "game_state",
		RoomState: room.Snapshot(),
	})
}
