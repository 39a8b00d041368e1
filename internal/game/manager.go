package game

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/caravanonline/backend/internal/config"
)

// RoomManager is the process-wide registry of active rooms. Map operations
// are guarded by the manager's lock; mutation of an individual room's state
// is serialized by that room's own mutex.
type RoomManager struct {
	rooms  map[string]*Room // keyed by room code
	config *config.Config
	mu     sync.RWMutex
}

// RoomSummary is the discovery view of a joinable room.
type RoomSummary struct {
	RoomCode string `json:"room_code"`
	HostName string `json:"host_name"`
}

// Manager is the global room manager instance.
var Manager *RoomManager

// InitializeManager initializes the global room manager.
func InitializeManager(cfg *config.Config) {
	Manager = NewRoomManager(cfg)
}

// NewRoomManager creates a room manager.
func NewRoomManager(cfg *config.Config) *RoomManager {
	return &RoomManager{
		rooms:  make(map[string]*Room),
		config: cfg,
	}
}

// generateRoomCode derives a short shareable code from a random UUID.
func generateRoomCode() string {
	return strings.ToUpper(uuid.NewString()[:6])
}

// CreateRoom registers a new room hosted by the given connection and returns it.
func (rm *RoomManager) CreateRoom(hostConn, hostName string) *Room {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	code := generateRoomCode()
	for {
		if _, exists := rm.rooms[code]; !exists {
			break
		}
		code = generateRoomCode()
	}

	room := NewRoom(code, hostConn, hostName, rm.config.InitialHandSize, rm.config.MinHandSize)
	rm.rooms[code] = room
	return room
}

// JoinRoom seats a second player in an existing, not-yet-full room. Joining
// a full or missing room fails without side effects.
func (rm *RoomManager) JoinRoom(roomCode, conn, name string) (*Room, error) {
	room, ok := rm.GetRoom(roomCode)
	if !ok {
		return nil, ErrRoomUnavailable
	}
	if err := room.Join(conn, name); err != nil {
		return nil, err
	}
	return room, nil
}

// GetRoom retrieves a room by code.
func (rm *RoomManager) GetRoom(roomCode string) (*Room, bool) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	room, ok := rm.rooms[roomCode]
	return room, ok
}

// AvailableRooms lists rooms that are neither full nor started, for discovery.
func (rm *RoomManager) AvailableRooms() []RoomSummary {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	summaries := []RoomSummary{}
	for _, room := range rm.rooms {
		if !room.IsFull() && !room.IsStarted() {
			summaries = append(summaries, RoomSummary{
				RoomCode: room.Code,
				HostName: room.HostName(),
			})
		}
	}
	return summaries
}

// GetRoomByConnection finds the room holding the given connection in either seat.
func (rm *RoomManager) GetRoomByConnection(conn string) (*Room, bool) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	for _, room := range rm.rooms {
		if room.HasConnection(conn) {
			return room, true
		}
	}
	return nil, false
}

// RemoveRoom deletes a room from the registry.
func (rm *RoomManager) RemoveRoom(roomCode string) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	delete(rm.rooms, roomCode)
}

// AbandonedRooms snapshots the rooms whose last accepted action is older
// than the threshold.
func (rm *RoomManager) AbandonedRooms(threshold time.Duration) []*Room {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	cutoff := time.Now().Add(-threshold)
	abandoned := []*Room{}
	for _, room := range rm.rooms {
		if room.LastActivityAt().Before(cutoff) {
			abandoned = append(abandoned, room)
		}
	}
	return abandoned
}

// ActiveRoomCount returns the number of registered rooms.
func (rm *RoomManager) ActiveRoomCount() int {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return len(rm.rooms)
}
