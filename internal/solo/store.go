package solo

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/caravanonline/backend/internal/game"
)

// Session store field names. Hands and lanes are stored as independent JSON
// arrays; the rest are plain scalars.
const (
	fieldPlayer1Cards  = "player1_cards"
	fieldPlayer2Cards  = "player2_cards"
	fieldLanes         = "lanes"
	fieldCurrentPlayer = "current_player"
	fieldCurrentLane   = "current_lane"
	fieldPhase         = "phase"
	fieldMessage       = "message"
	fieldSelected      = "selected_card"
)

// Store persists solo-game snapshots keyed by session ID.
type Store interface {
	Load(ctx context.Context, sessionID string) (*Snapshot, bool, error)
	Save(ctx context.Context, sessionID string, snap *Snapshot) error
	Clear(ctx context.Context, sessionID string) error
}

// RedisStore keeps each session as a redis hash with a sliding TTL.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore creates a redis-backed session store.
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func sessionKey(sessionID string) string {
	return "solo:" + sessionID
}

// Load reads and decodes a snapshot. A missing session returns found=false.
func (s *RedisStore) Load(ctx context.Context, sessionID string) (*Snapshot, bool, error) {
	fields, err := s.rdb.HGetAll(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		return nil, false, err
	}
	if len(fields) == 0 {
		return nil, false, nil
	}

	snap := &Snapshot{
		Lanes:         game.NewLanes(),
		CurrentPlayer: fields[fieldCurrentPlayer],
		Message:       fields[fieldMessage],
	}
	if snap.CurrentPlayer == "" {
		snap.CurrentPlayer = Player1
	}
	if err := json.Unmarshal([]byte(fields[fieldPlayer1Cards]), &snap.Player1Cards); err != nil {
		return nil, false, err
	}
	if err := json.Unmarshal([]byte(fields[fieldPlayer2Cards]), &snap.Player2Cards); err != nil {
		return nil, false, err
	}
	if err := json.Unmarshal([]byte(fields[fieldLanes]), snap.Lanes); err != nil {
		return nil, false, err
	}
	if raw := fields[fieldSelected]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &snap.Selected); err != nil {
			return nil, false, err
		}
	}
	snap.CurrentLane, _ = strconv.Atoi(fields[fieldCurrentLane])
	if snap.CurrentLane == 0 {
		snap.CurrentLane = 1
	}
	snap.Phase, _ = strconv.Atoi(fields[fieldPhase])
	if snap.Phase == 0 {
		snap.Phase = 1
	}
	return snap, true, nil
}

// Save encodes and writes a snapshot, refreshing the session TTL.
func (s *RedisStore) Save(ctx context.Context, sessionID string, snap *Snapshot) error {
	p1, err := json.Marshal(snap.Player1Cards)
	if err != nil {
		return err
	}
	p2, err := json.Marshal(snap.Player2Cards)
	if err != nil {
		return err
	}
	lanes, err := json.Marshal(snap.Lanes)
	if err != nil {
		return err
	}
	selected := ""
	if snap.Selected != nil {
		b, err := json.Marshal(snap.Selected)
		if err != nil {
			return err
		}
		selected = string(b)
	}

	key := sessionKey(sessionID)
	if err := s.rdb.HSet(ctx, key,
		fieldPlayer1Cards, string(p1),
		fieldPlayer2Cards, string(p2),
		fieldLanes, string(lanes),
		fieldCurrentPlayer, snap.CurrentPlayer,
		fieldCurrentLane, strconv.Itoa(snap.CurrentLane),
		fieldPhase, strconv.Itoa(snap.Phase),
		fieldMessage, snap.Message,
		fieldSelected, selected,
	).Err(); err != nil {
		return err
	}
	return s.rdb.Expire(ctx, key, s.ttl).Err()
}

// Clear drops a session.
func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, sessionKey(sessionID)).Err()
}
