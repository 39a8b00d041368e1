package game

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// Seat identifies a player slot. Turn ownership is tracked by seat, not by
// connection identity, so a reconnect can swap the connection without
// touching whose turn it is.
type Seat int

const (
	NoSeat Seat = 0
	Seat1  Seat = 1
	Seat2  Seat = 2
)

func (s Seat) other() Seat {
	if s == Seat1 {
		return Seat2
	}
	return Seat1
}

// Room is one two-player match: seats, hands, lanes, turn, phase. Every
// validate-then-apply span runs under the room's own mutex; a rejected
// command leaves the room exactly as it was.
type Room struct {
	Code string

	Player1Name string
	Player2Name string
	Player1Conn string
	Player2Conn string

	Player1Cards []*Card
	Player2Cards []*Card
	Lanes        *Lanes

	Turn        Seat
	Phase       int
	CurrentLane int
	Message     string
	Started     bool

	CreatedAt    time.Time
	LastActivity time.Time

	initialHandSize int
	minHandSize     int

	mu sync.Mutex
}

// NewRoom creates a room with the host seated as player 1.
func NewRoom(code, hostConn, hostName string, initialHandSize, minHandSize int) *Room {
	now := time.Now()
	return &Room{
		Code:            code,
		Player1Name:     hostName,
		Player1Conn:     hostConn,
		Lanes:           NewLanes(),
		Turn:            Seat1,
		Phase:           1,
		CurrentLane:     1,
		Message:         "Welcome to the game!",
		CreatedAt:       now,
		LastActivity:    now,
		initialHandSize: initialHandSize,
		minHandSize:     minHandSize,
	}
}

// IsFull reports whether both seats are taken.
func (r *Room) IsFull() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Player2Conn != ""
}

// IsStarted reports whether the deal has happened.
func (r *Room) IsStarted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Started
}

// HostName returns player 1's display name, used for room discovery.
func (r *Room) HostName() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Player1Name
}

// PlayerNames returns both display names (the second is empty until a guest
// joins).
func (r *Room) PlayerNames() (string, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Player1Name, r.Player2Name
}

func (r *Room) guestName() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Player2Name == "" {
		return "none"
	}
	return r.Player2Name
}

// LastActivityAt returns the time of the last accepted action.
func (r *Room) LastActivityAt() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.LastActivity
}

// HasConnection reports whether the connection occupies either seat.
func (r *Room) HasConnection(conn string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seatOf(conn) != NoSeat
}

// Join seats the second player and starts the game: both hands dealt, lanes
// emptied, turn back to player 1, phase 1 targeting lane 1.
func (r *Room) Join(conn, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Player2Conn != "" {
		return ErrRoomUnavailable
	}
	r.Player2Conn = conn
	r.Player2Name = name

	r.Player1Cards = RandomCards(r.initialHandSize)
	r.Player2Cards = RandomCards(r.initialHandSize)
	r.Lanes = NewLanes()
	r.Started = true
	r.Turn = Seat1
	r.CurrentLane = 1
	r.Phase = 1
	r.touch()
	return nil
}

// Rejoin re-binds a connection to the seat holding the given display name.
// The turn owner is a seat, so a stale connection can never hold the turn.
func (r *Room) Rejoin(conn, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch name {
	case r.Player1Name:
		r.Player1Conn = conn
	case r.Player2Name:
		r.Player2Conn = conn
	default:
		return ErrPlayerNotInRoom
	}
	r.touch()
	return nil
}

// PlaceCard plays a card from the acting player's hand into a lane.
func (r *Room) PlaceCard(conn, cardToken string, lane int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seat, err := r.turnCheck(conn)
	if err != nil {
		return err
	}

	face, suit, err := ParseCardToken(cardToken)
	if err != nil {
		return err
	}
	card := r.cardInHand(seat, face, suit)
	if card == nil {
		return ErrCardNotInHand
	}
	if lane < 1 || lane > NumLanes {
		return ErrInvalidLane
	}
	if r.Phase == 1 && lane != r.CurrentLane {
		return fmt.Errorf("%w: phase 1: you must play in lane %d", ErrPhaseRestriction, r.CurrentLane)
	}

	if err := r.Lanes.AddCard(lane, card); err != nil {
		return err
	}
	r.removeFromHand(seat, card)
	r.replenish(seat)

	if r.Phase == 1 {
		if r.Lanes.AllSeeded() {
			r.Phase = 2
			r.Turn = Seat1
			r.Message = "Phase 2: Build your caravans!"
			r.touch()
		} else {
			r.CurrentLane = NextLane(seat, r.CurrentLane)
			r.switchTurn()
		}
	} else {
		r.switchTurn()
	}
	return nil
}

// AttachCard binds a face card from the acting player's hand to a card
// already in a lane, applying the Jack/Queen/King effect.
func (r *Room) AttachCard(conn, baseToken, attachedToken string, lane, cardIndex int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seat, err := r.turnCheck(conn)
	if err != nil {
		return err
	}

	baseFace, baseSuit, err := ParseCardToken(baseToken)
	if err != nil {
		return err
	}
	attachedFace, attachedSuit, err := ParseCardToken(attachedToken)
	if err != nil {
		return err
	}
	if attachedFace != "J" && attachedFace != "Q" && attachedFace != "K" {
		return fmt.Errorf("%w: only Jacks, Queens and Kings can be attached to cards", ErrInvalidAttachment)
	}

	cardToAttach := r.cardInHand(seat, attachedFace, attachedSuit)
	if cardToAttach == nil {
		return ErrCardNotInHand
	}
	if lane < 1 || lane > NumLanes {
		return ErrInvalidLane
	}
	laneCards := r.Lanes.Lane(lane)
	if cardIndex < 0 || cardIndex >= len(laneCards) {
		return fmt.Errorf("%w: invalid card index", ErrInvalidAttachment)
	}
	if !laneCards[cardIndex].Is(baseFace, baseSuit) {
		return fmt.Errorf("%w: target card mismatch", ErrInvalidAttachment)
	}

	if err := r.Lanes.Attach(lane, cardIndex, cardToAttach); err != nil {
		return err
	}
	r.removeFromHand(seat, cardToAttach)
	r.replenish(seat)
	r.switchTurn()
	return nil
}

// DiscardCard removes a card from the acting player's hand.
func (r *Room) DiscardCard(conn, face string, suit Suit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seat, err := r.turnCheck(conn)
	if err != nil {
		return err
	}
	card := r.cardInHand(seat, face, suit)
	if card == nil {
		return ErrCardNotInHand
	}
	r.removeFromHand(seat, card)
	r.replenish(seat)
	r.switchTurn()
	return nil
}

// DiscardLane clears a lane entirely.
func (r *Room) DiscardLane(conn string, lane int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.turnCheck(conn); err != nil {
		return err
	}
	if err := r.Lanes.Discard(lane); err != nil {
		return err
	}
	r.switchTurn()
	return nil
}

// RoomState is the full view broadcast to every participant after an
// accepted action. Card data is deep-copied so a later command cannot race
// the serialization.
type RoomState struct {
	Player1Cards      []*Card   `json:"player1_cards"`
	Player2Cards      []*Card   `json:"player2_cards"`
	Lanes             [][]*Card `json:"lanes"`
	CurrentTurn       string    `json:"current_turn"`
	CurrentPlayerName string    `json:"current_player_name"`
	CurrentLane       int       `json:"current_lane"`
	Phase             int       `json:"phase"`
	Message           string    `json:"message"`
	LaneScores        []int     `json:"lane_scores"`
	Player1Name       string    `json:"player1_name"`
	Player2Name       string    `json:"player2_name"`
	IsGameComplete    bool      `json:"is_game_complete"`
	GameResult        string    `json:"game_result,omitempty"`
}

// Snapshot evaluates the game and builds the broadcast view. A decided game
// keeps its room until the cleanup worker sweeps it, so the completion flag
// is derived on every snapshot rather than stored.
func (r *Room) Snapshot() RoomState {
	r.mu.Lock()
	defer r.mu.Unlock()

	result, complete := r.Lanes.Evaluate()
	if complete {
		r.Message = result
	}

	state := RoomState{
		Player1Cards:      cloneCards(r.Player1Cards),
		Player2Cards:      cloneCards(r.Player2Cards),
		Lanes:             make([][]*Card, NumLanes),
		CurrentTurn:       r.connOf(r.Turn),
		CurrentPlayerName: r.nameOf(r.Turn),
		CurrentLane:       r.CurrentLane,
		Phase:             r.Phase,
		Message:           r.Message,
		LaneScores:        r.Lanes.Scores(),
		Player1Name:       r.Player1Name,
		Player2Name:       r.Player2Name,
		IsGameComplete:    complete,
	}
	for i := 0; i < NumLanes; i++ {
		state.Lanes[i] = cloneCards(r.Lanes.Lane(i + 1))
	}
	if complete {
		state.GameResult = result
	}
	return state
}

func cloneCards(cards []*Card) []*Card {
	out := make([]*Card, len(cards))
	for i, c := range cards {
		copied := *c
		copied.Attached = cloneCards(c.Attached)
		out[i] = &copied
	}
	return out
}

// turnCheck resolves the caller's seat and verifies it owns the turn.
func (r *Room) turnCheck(conn string) (Seat, error) {
	if !r.Started {
		return NoSeat, fmt.Errorf("%w: game has not started", ErrPhaseRestriction)
	}
	seat := r.seatOf(conn)
	if seat == NoSeat || seat != r.Turn {
		return NoSeat, ErrNotYourTurn
	}
	return seat, nil
}

func (r *Room) seatOf(conn string) Seat {
	switch conn {
	case "":
		return NoSeat
	case r.Player1Conn:
		return Seat1
	case r.Player2Conn:
		return Seat2
	}
	return NoSeat
}

func (r *Room) connOf(seat Seat) string {
	if seat == Seat2 {
		return r.Player2Conn
	}
	return r.Player1Conn
}

func (r *Room) nameOf(seat Seat) string {
	if seat == Seat2 {
		return r.Player2Name
	}
	return r.Player1Name
}

func (r *Room) hand(seat Seat) []*Card {
	if seat == Seat2 {
		return r.Player2Cards
	}
	return r.Player1Cards
}

func (r *Room) cardInHand(seat Seat, face string, suit Suit) *Card {
	for _, c := range r.hand(seat) {
		if c.Is(face, suit) {
			return c
		}
	}
	return nil
}

func (r *Room) removeFromHand(seat Seat, card *Card) {
	hand := r.hand(seat)
	for i, c := range hand {
		if c == card {
			hand = append(hand[:i], hand[i+1:]...)
			break
		}
	}
	if seat == Seat2 {
		r.Player2Cards = hand
	} else {
		r.Player1Cards = hand
	}
}

// replenish draws one fresh card whenever a hand falls below the minimum.
func (r *Room) replenish(seat Seat) {
	hand := r.hand(seat)
	if len(hand) >= r.minHandSize {
		return
	}
	drawn := RandomCard()
	hand = append(hand, drawn)
	if seat == Seat2 {
		r.Player2Cards = hand
	} else {
		r.Player1Cards = hand
	}
	log.Printf("[ROOM %s] player %d drew %s (hand size %d)", r.Code, seat, drawn, len(hand))
}

func (r *Room) switchTurn() {
	r.Turn = r.Turn.other()
	r.touch()
}

func (r *Room) touch() {
	r.LastActivity = time.Now()
}

// NextLane is the phase-1 seeding rotation: each player cycles through their
// own three lanes (player 1 over 1,2,3 via 4,5,6; player 2 over 4,5,6 via
// 2,3,1).
func NextLane(seat Seat, currentLane int) int {
	if seat == Seat1 {
		switch currentLane {
		case 1:
			return 4
		case 2:
			return 5
		case 3:
			return 6
		default:
			return 1
		}
	}
	switch currentLane {
	case 4:
		return 2
	case 5:
		return 3
	case 6:
		return 1
	default:
		return 4
	}
}
