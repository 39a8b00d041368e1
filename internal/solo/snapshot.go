package solo

import (
	"github.com/caravanonline/backend/internal/game"
)

// Player labels used by the solo variant, which drives both hands from one
// browser session.
const (
	Player1 = "Player 1"
	Player2 = "Player 2"
)

// Snapshot is the typed state of one solo game. It is the explicit
// serialization boundary for the session store: every field is persisted
// independently (hands and lanes as JSON arrays, the rest as scalars).
type Snapshot struct {
	Player1Cards  []*game.Card
	Player2Cards  []*game.Card
	Lanes         *game.Lanes
	CurrentPlayer string
	CurrentLane   int
	Phase         int
	Message       string
	// Selected holds the pending phase-2 card between the select-card and
	// select-lane requests.
	Selected *game.Card
}

// NewSnapshot deals a fresh solo game.
func NewSnapshot(handSize int) *Snapshot {
	return &Snapshot{
		Player1Cards:  game.RandomCards(handSize),
		Player2Cards:  game.RandomCards(handSize),
		Lanes:         game.NewLanes(),
		CurrentPlayer: Player1,
		CurrentLane:   1,
		Phase:         1,
		Message:       "Welcome to the game!",
	}
}

func (s *Snapshot) seat() game.Seat {
	if s.CurrentPlayer == Player2 {
		return game.Seat2
	}
	return game.Seat1
}

func (s *Snapshot) hand() []*game.Card {
	if s.CurrentPlayer == Player2 {
		return s.Player2Cards
	}
	return s.Player1Cards
}

func (s *Snapshot) setHand(hand []*game.Card) {
	if s.CurrentPlayer == Player2 {
		s.Player2Cards = hand
	} else {
		s.Player1Cards = hand
	}
}

func (s *Snapshot) switchPlayer() {
	if s.CurrentPlayer == Player1 {
		s.CurrentPlayer = Player2
	} else {
		s.CurrentPlayer = Player1
	}
}

func (s *Snapshot) findInHand(face string, suit game.Suit) *game.Card {
	for _, c := range s.hand() {
		if c.Is(face, suit) {
			return c
		}
	}
	return nil
}

func (s *Snapshot) removeFromHand(card *game.Card) {
	hand := s.hand()
	for i, c := range hand {
		if c.Is(card.Face, card.Suit) {
			s.setHand(append(hand[:i], hand[i+1:]...))
			return
		}
	}
}

func (s *Snapshot) replenish(minHandSize int) {
	hand := s.hand()
	if len(hand) < minHandSize {
		s.setHand(append(hand, game.RandomCard()))
	}
}
