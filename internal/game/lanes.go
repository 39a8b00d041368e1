package game

import "fmt"

// NumLanes is the number of caravan lanes on the table. Lanes 1-3 belong to
// player 1 and lanes 4-6 to player 2; they score as the pairs (1,4) (2,5) (3,6).
const NumLanes = 6

// Score band a lane pair must reach before the game can be decided.
const (
	ScoreBandMin = 21
	ScoreBandMax = 26
)

// Result messages. ResultOngoing is reported until every lane pair has a
// member inside the score band.
const (
	ResultOngoing    = "The game is still ongoing."
	ResultPlayer1Win = "Player 1 wins!"
	ResultPlayer2Win = "Player 2 wins!"
	ResultTie        = "It's a tie!"
)

// Lanes holds the six ordered card sequences of one match. All rule checks
// operate on the owning room's lanes passed by reference; the engine keeps no
// state of its own.
type Lanes [NumLanes][]*Card

// NewLanes returns six empty lanes.
func NewLanes() *Lanes {
	return &Lanes{}
}

// Lane returns the cards of a 1-based lane, or nil for an invalid number.
func (l *Lanes) Lane(lane int) []*Card {
	if lane < 1 || lane > NumLanes {
		return nil
	}
	return l[lane-1]
}

// AddCard validates a placement against the lane's sequencing rules and
// appends the card on success. The card's direction is assigned here:
//   - empty lane: accepted, direction stays unset
//   - one card: direction from rank comparison against it (tie counts as up)
//   - same suit as the last card: direction recomputed from rank alone,
//     regardless of the lane's established direction
//   - different suit: the rank must strictly continue the last card's direction
//
// A failed placement leaves the lane unchanged.
func (l *Lanes) AddCard(lane int, card *Card) error {
	if lane < 1 || lane > NumLanes {
		return ErrInvalidLane
	}
	current := l[lane-1]

	if len(current) == 0 {
		card.Direction = DirectionNone
		l[lane-1] = append(current, card)
		return nil
	}

	if len(current) == 1 {
		card.Direction = compareDirection(card.Rank, current[0].Rank)
		l[lane-1] = append(current, card)
		return nil
	}

	last := current[len(current)-1]
	if card.Suit == last.Suit {
		card.Direction = compareDirection(card.Rank, last.Rank)
	} else {
		switch last.Direction {
		case DirectionUp:
			if card.Rank <= last.Rank {
				return fmt.Errorf("%w: %s must be higher than %s in 'up' lane", ErrLaneRule, card.Face, last.Face)
			}
			card.Direction = DirectionUp
		case DirectionDown:
			if card.Rank >= last.Rank {
				return fmt.Errorf("%w: %s must be lower than %s in 'down' lane", ErrLaneRule, card.Face, last.Face)
			}
			card.Direction = DirectionDown
		default:
			card.Direction = DirectionUp
		}
	}

	l[lane-1] = append(current, card)
	return nil
}

func compareDirection(rank, against int) Direction {
	if rank < against {
		return DirectionDown
	}
	return DirectionUp
}

// Attach applies a face-card effect to the lane card at cardIndex:
//   - Jack: removes the target card (and everything attached to it) from the
//     lane; the Jack itself is consumed
//   - Queen: only legal on the last card of the lane; reverses its direction
//     and stays attached to it
//   - King: stays attached and doubles the target's score contribution
//
// Validation happens before any mutation, so a failed attach changes nothing.
func (l *Lanes) Attach(lane, cardIndex int, attached *Card) error {
	if lane < 1 || lane > NumLanes {
		return ErrInvalidLane
	}
	if !attached.IsFaceCard() {
		return fmt.Errorf("%w: only Jacks, Queens and Kings can be attached to cards", ErrInvalidAttachment)
	}
	current := l[lane-1]
	if cardIndex < 0 || cardIndex >= len(current) {
		return fmt.Errorf("%w: invalid card index", ErrInvalidAttachment)
	}
	base := current[cardIndex]

	switch attached.Face {
	case "J":
		l[lane-1] = append(current[:cardIndex], current[cardIndex+1:]...)
	case "Q":
		if cardIndex != len(current)-1 {
			return fmt.Errorf("%w: Queens can only attach to the last card in a lane", ErrInvalidAttachment)
		}
		base.Attached = append(base.Attached, attached)
		base.Direction = reverse(base.Direction)
	case "K":
		base.Attached = append(base.Attached, attached)
	}
	return nil
}

// reverse flips a direction. An unset direction flips to down, matching the
// behavior of a fresh card that was never compared against a predecessor.
func reverse(d Direction) Direction {
	if d == DirectionDown {
		return DirectionUp
	}
	return DirectionDown
}

// Score sums rank x 2^kings over the lane's cards. An invalid lane scores 0.
func (l *Lanes) Score(lane int) int {
	if lane < 1 || lane > NumLanes {
		return 0
	}
	score := 0
	for _, card := range l[lane-1] {
		value := card.Rank
		for _, a := range card.Attached {
			if a.Face == "K" {
				value *= 2
			}
		}
		score += value
	}
	return score
}

// Scores returns all six lane scores in lane order.
func (l *Lanes) Scores() []int {
	scores := make([]int, NumLanes)
	for i := range scores {
		scores[i] = l.Score(i + 1)
	}
	return scores
}

// AllSeeded reports whether every lane holds at least one card, which ends
// phase 1.
func (l *Lanes) AllSeeded() bool {
	for _, lane := range l {
		if len(lane) == 0 {
			return false
		}
	}
	return true
}

// Discard clears a lane. Clearing an invalid lane number fails.
func (l *Lanes) Discard(lane int) error {
	if lane < 1 || lane > NumLanes {
		return ErrInvalidLane
	}
	l[lane-1] = nil
	return nil
}

// lanePairs maps the three scored contests: player 1's lane against player 2's.
var lanePairs = [3][2]int{{1, 4}, {2, 5}, {3, 6}}

// Evaluate decides the game once every pair has a member lane scoring inside
// [ScoreBandMin, ScoreBandMax]. Until then the result is ResultOngoing and
// complete is false. When decidable, the higher lane of each pair awards its
// owner one point (a tied pair awards nobody); most points wins.
func (l *Lanes) Evaluate() (result string, complete bool) {
	if !l.shouldEvaluate() {
		return ResultOngoing, false
	}

	p1Points, p2Points := 0, 0
	for _, pair := range lanePairs {
		s1 := l.Score(pair[0])
		s2 := l.Score(pair[1])
		if s1 > s2 {
			p1Points++
		} else if s2 > s1 {
			p2Points++
		}
	}

	switch {
	case p1Points > p2Points:
		return ResultPlayer1Win, true
	case p2Points > p1Points:
		return ResultPlayer2Win, true
	default:
		return ResultTie, true
	}
}

func (l *Lanes) shouldEvaluate() bool {
	for _, pair := range lanePairs {
		if !l.inBand(pair[0]) && !l.inBand(pair[1]) {
			return false
		}
	}
	return true
}

func (l *Lanes) inBand(lane int) bool {
	score := l.Score(lane)
	return score >= ScoreBandMin && score <= ScoreBandMax
}
