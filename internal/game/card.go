package game

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// Suit represents a card suit
type Suit string

const (
	Spades   Suit = "Spades"
	Diamonds Suit = "Diamonds"
	Hearts   Suit = "Hearts"
	Clubs    Suit = "Clubs"
)

// Suits lists the four suits in deal order
var Suits = []Suit{Spades, Diamonds, Hearts, Clubs}

// Faces lists the thirteen faces in rank order
var Faces = []string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}

// Direction is the sequencing tag carried by a lane's most recent card.
// A card has no direction until it is the second-or-later card in a lane.
type Direction string

const (
	DirectionNone Direction = ""
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// Card represents a playing card. Face and Suit are fixed at construction;
// Rank is derived from Face. Attached holds face cards (J/Q/K) bound to this
// card while it sits in a lane.
type Card struct {
	Face      string    `json:"face"`
	Suit      Suit      `json:"suit"`
	Rank      int       `json:"rank"`
	Direction Direction `json:"direction,omitempty"`
	Attached  []*Card   `json:"attached,omitempty"`
}

// NewCard creates a card with its rank derived from the face.
func NewCard(face string, suit Suit) (*Card, error) {
	rank, ok := rankOf(face)
	if !ok {
		return nil, fmt.Errorf("%w: unknown face %q", ErrMalformedCard, face)
	}
	return &Card{Face: face, Suit: suit, Rank: rank}, nil
}

func rankOf(face string) (int, bool) {
	for i, f := range Faces {
		if f == face {
			return i + 1, true
		}
	}
	return 0, false
}

// String returns the wire token for the card (e.g. "5 Hearts")
func (c *Card) String() string {
	return c.Face + " " + string(c.Suit)
}

// Is reports whether the card matches a face/suit pair.
func (c *Card) Is(face string, suit Suit) bool {
	return c.Face == face && c.Suit == suit
}

// IsFaceCard reports whether the card can be attached to another card.
// Only Jacks, Queens and Kings carry attachment effects.
func (c *Card) IsFaceCard() bool {
	return c.Face == "J" || c.Face == "Q" || c.Face == "K"
}

// ImagePath returns the static asset path for the card image
// (e.g. "/assets/cards/king_of_spades2.png").
func (c *Card) ImagePath() string {
	suitName := strings.ToLower(string(c.Suit))

	faceName := c.Face
	suffix := ""
	switch c.Face {
	case "K":
		faceName, suffix = "king", "2"
	case "Q":
		faceName, suffix = "queen", "2"
	case "J":
		faceName, suffix = "jack", "2"
	case "A":
		faceName = "ace"
	}

	return fmt.Sprintf("/assets/cards/%s_of_%s%s.png", faceName, suitName, suffix)
}

// ParseCardToken parses a "FACE SUIT" wire token (e.g. "10 Diamonds").
func ParseCardToken(token string) (face string, suit Suit, err error) {
	parts := strings.Fields(token)
	if len(parts) < 2 {
		return "", "", ErrMalformedCard
	}
	if _, ok := rankOf(parts[0]); !ok {
		return "", "", fmt.Errorf("%w: unknown face %q", ErrMalformedCard, parts[0])
	}
	return parts[0], Suit(parts[1]), nil
}

// RandomCards deals count distinct cards from a freshly shuffled 52-card deck.
func RandomCards(count int) []*Card {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	deck := make([]*Card, 0, len(Faces)*len(Suits))
	for _, suit := range Suits {
		for i, face := range Faces {
			deck = append(deck, &Card{Face: face, Suit: suit, Rank: i + 1})
		}
	}
	r.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})

	if count > len(deck) {
		count = len(deck)
	}
	return deck[:count]
}

// RandomCard draws a single card from the infinite notional deck. Replacement
// draws are independent, so duplicates across hands and lanes are possible.
func RandomCard() *Card {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	face := Faces[r.Intn(len(Faces))]
	suit := Suits[r.Intn(len(Suits))]
	rank, _ := rankOf(face)
	return &Card{Face: face, Suit: suit, Rank: rank}
}
