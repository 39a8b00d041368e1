package ws

import (
	"encoding/json"
	"testing"
)

func testClient(id string) *Client {
	return &Client{id: id, send: make(chan []byte, 8)}
}

func register(h *Hub, c *Client) {
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
}

func receive(t *testing.T, c *Client) map[string]interface{} {
	t.Helper()
	select {
	case raw := <-c.send:
		var msg map[string]interface{}
		if err := json.Unmarshal(raw, &msg); err != nil {
			t.Fatalf("decode message: %v", err)
		}
		return msg
	default:
		t.Fatalf("no message queued for connection %s", c.id)
		return nil
	}
}

func TestBroadcastToRoomReachesAllMembers(t *testing.T) {
	h := NewHub()
	a, b, outsider := testClient("a"), testClient("b"), testClient("c")
	register(h, a)
	register(h, b)
	register(h, outsider)
	h.addToRoom(a, "ROOM1")
	h.addToRoom(b, "ROOM1")
	h.addToRoom(outsider, "ROOM2")

	h.BroadcastToRoom("ROOM1", map[string]string{"type": "game_state"})

	for _, c := range []*Client{a, b} {
		if msg := receive(t, c); msg["type"] != "game_state" {
			t.Errorf("connection %s got %v", c.id, msg)
		}
	}
	select {
	case raw := <-outsider.send:
		t.Errorf("outsider received %s", raw)
	default:
	}

	// Broadcasting to an unknown room is a no-op.
	h.BroadcastToRoom("NOPE", map[string]string{"type": "game_state"})
}

func TestSendToConnection(t *testing.T) {
	h := NewHub()
	c := testClient("a")
	register(h, c)

	h.SendToConnection("a", map[string]string{"type": "connected"})
	if msg := receive(t, c); msg["type"] != "connected" {
		t.Errorf("got %v", msg)
	}

	// Unknown connections are logged and skipped, never a panic.
	h.SendToConnection("ghost", map[string]string{"type": "connected"})
}

func TestAddToRoomMovesClientBetweenRooms(t *testing.T) {
	h := NewHub()
	c := testClient("a")
	register(h, c)

	h.addToRoom(c, "ROOM1")
	h.addToRoom(c, "ROOM2")
	if c.roomCode != "ROOM2" {
		t.Errorf("roomCode = %q, want ROOM2", c.roomCode)
	}
	if _, exists := h.rooms["ROOM1"]; exists {
		t.Error("empty room left in the registry")
	}

	h.BroadcastToRoom("ROOM1", map[string]string{"type": "game_state"})
	select {
	case raw := <-c.send:
		t.Errorf("moved client still receives old room traffic: %s", raw)
	default:
	}

	h.BroadcastToRoom("ROOM2", map[string]string{"type": "game_state"})
	receive(t, c)
}

func TestBroadcastDropsWhenBufferFull(t *testing.T) {
	h := NewHub()
	c := &Client{id: "a", send: make(chan []byte, 1)}
	register(h, c)
	h.addToRoom(c, "ROOM1")

	h.BroadcastToRoom("ROOM1", map[string]string{"type": "game_state"})
	h.BroadcastToRoom("ROOM1", map[string]string{"type": "game_state"})

	// Exactly one message queued; the second was dropped, not blocked on.
	<-c.send
	select {
	case raw := <-c.send:
		t.Errorf("unexpected second message: %s", raw)
	default:
	}
}

func TestSendErrorEnvelope(t *testing.T) {
	c := testClient("a")
	c.sendError("room not found")

	msg := receive(t, c)
	if msg["type"] != "error" || msg["message"] != "room not found" {
		t.Errorf("error envelope = %v", msg)
	}
}
