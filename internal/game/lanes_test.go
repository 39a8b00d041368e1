package game

import (
	"errors"
	"testing"
)

func mustCard(t *testing.T, face string, suit Suit) *Card {
	t.Helper()
	card, err := NewCard(face, suit)
	if err != nil {
		t.Fatalf("NewCard(%s %s): %v", face, suit, err)
	}
	return card
}

// Builds a lane by playing cards in order, failing the test on any rejection.
func buildLane(t *testing.T, l *Lanes, lane int, cards ...*Card) {
	t.Helper()
	for _, c := range cards {
		if err := l.AddCard(lane, c); err != nil {
			t.Fatalf("AddCard(%d, %s): %v", lane, c, err)
		}
	}
}

func TestAddCardInvalidLane(t *testing.T) {
	l := NewLanes()
	for _, lane := range []int{0, -1, 7} {
		if err := l.AddCard(lane, mustCard(t, "5", Hearts)); !errors.Is(err, ErrInvalidLane) {
			t.Errorf("AddCard(lane=%d) error = %v, want ErrInvalidLane", lane, err)
		}
	}
}

func TestAddCardEmptyLaneHasNoDirection(t *testing.T) {
	l := NewLanes()
	card := mustCard(t, "5", Hearts)
	if err := l.AddCard(1, card); err != nil {
		t.Fatalf("AddCard into empty lane: %v", err)
	}
	if card.Direction != DirectionNone {
		t.Errorf("first card direction = %q, want unset", card.Direction)
	}
}

func TestSecondCardDirectionFromRankComparison(t *testing.T) {
	cases := []struct {
		first, second string
		want          Direction
	}{
		{"5", "9", DirectionUp},
		{"9", "5", DirectionDown},
		{"7", "7", DirectionUp}, // tie counts as up
	}
	for _, tc := range cases {
		l := NewLanes()
		buildLane(t, l, 1, mustCard(t, tc.first, Hearts))
		second := mustCard(t, tc.second, Spades)
		if err := l.AddCard(1, second); err != nil {
			t.Fatalf("second card %s on %s: %v", tc.second, tc.first, err)
		}
		if second.Direction != tc.want {
			t.Errorf("%s on %s: direction = %q, want %q", tc.second, tc.first, second.Direction, tc.want)
		}
	}
}

func TestSameSuitIgnoresEstablishedDirection(t *testing.T) {
	l := NewLanes()
	// Lane going up: 2H then 5H.
	buildLane(t, l, 1, mustCard(t, "2", Hearts), mustCard(t, "5", Hearts))

	// Same suit, lower rank: allowed despite the up direction, recomputed down.
	card := mustCard(t, "3", Hearts)
	if err := l.AddCard(1, card); err != nil {
		t.Fatalf("same-suit card rejected: %v", err)
	}
	if card.Direction != DirectionDown {
		t.Errorf("same-suit direction = %q, want down", card.Direction)
	}
}

func TestDifferentSuitMustContinueDirection(t *testing.T) {
	l := NewLanes()
	buildLane(t, l, 1, mustCard(t, "2", Hearts), mustCard(t, "5", Hearts)) // direction up

	// Lower rank, different suit: rejected, lane untouched.
	err := l.AddCard(1, mustCard(t, "3", Spades))
	if !errors.Is(err, ErrLaneRule) {
		t.Fatalf("AddCard error = %v, want ErrLaneRule", err)
	}
	if got := len(l.Lane(1)); got != 2 {
		t.Errorf("lane length after rejection = %d, want 2", got)
	}

	// Higher rank continues up.
	if err := l.AddCard(1, mustCard(t, "9", Spades)); err != nil {
		t.Errorf("continuing card rejected: %v", err)
	}
}

func TestDownLaneRejectsHigherDifferentSuit(t *testing.T) {
	l := NewLanes()
	buildLane(t, l, 3, mustCard(t, "9", Clubs), mustCard(t, "4", Clubs)) // direction down

	if err := l.AddCard(3, mustCard(t, "8", Hearts)); !errors.Is(err, ErrLaneRule) {
		t.Errorf("AddCard error = %v, want ErrLaneRule", err)
	}
	if err := l.AddCard(3, mustCard(t, "2", Hearts)); err != nil {
		t.Errorf("lower card in down lane rejected: %v", err)
	}
}

func TestScoreSumsRanks(t *testing.T) {
	l := NewLanes()
	buildLane(t, l, 2, mustCard(t, "5", Hearts), mustCard(t, "10", Hearts), mustCard(t, "A", Hearts))
	if got := l.Score(2); got != 16 {
		t.Errorf("Score = %d, want 16", got)
	}
	if got := l.Score(1); got != 0 {
		t.Errorf("empty lane score = %d, want 0", got)
	}
	if got := l.Score(9); got != 0 {
		t.Errorf("invalid lane score = %d, want 0", got)
	}
}

func TestKingDoublesCardValue(t *testing.T) {
	l := NewLanes()
	buildLane(t, l, 1, mustCard(t, "4", Hearts), mustCard(t, "6", Hearts))

	if err := l.Attach(1, 1, mustCard(t, "K", Spades)); err != nil {
		t.Fatalf("first king: %v", err)
	}
	if got := l.Score(1); got != 16 { // 4 + 6*2
		t.Errorf("score with one king = %d, want 16", got)
	}

	if err := l.Attach(1, 1, mustCard(t, "K", Clubs)); err != nil {
		t.Fatalf("second king: %v", err)
	}
	if got := l.Score(1); got != 28 { // 4 + 6*4
		t.Errorf("score with two kings = %d, want 28", got)
	}
}

func TestJackRemovesCard(t *testing.T) {
	l := NewLanes()
	buildLane(t, l, 1, mustCard(t, "4", Hearts), mustCard(t, "6", Hearts), mustCard(t, "8", Hearts))

	if err := l.Attach(1, 1, mustCard(t, "J", Spades)); err != nil {
		t.Fatalf("jack attach: %v", err)
	}
	if got := len(l.Lane(1)); got != 2 {
		t.Fatalf("lane length after jack = %d, want 2", got)
	}
	if got := l.Score(1); got != 12 { // 4 + 8
		t.Errorf("score after jack = %d, want 12", got)
	}
}

func TestQueenReversesLastCardOnly(t *testing.T) {
	l := NewLanes()
	buildLane(t, l, 2, mustCard(t, "3", Diamonds), mustCard(t, "7", Diamonds)) // 7D direction up

	// Queen on a non-last card is rejected.
	if err := l.Attach(2, 0, mustCard(t, "Q", Hearts)); !errors.Is(err, ErrInvalidAttachment) {
		t.Errorf("queen on non-last card error = %v, want ErrInvalidAttachment", err)
	}

	if err := l.Attach(2, 1, mustCard(t, "Q", Hearts)); err != nil {
		t.Fatalf("queen attach: %v", err)
	}
	last := l.Lane(2)[1]
	if last.Direction != DirectionDown {
		t.Errorf("direction after queen = %q, want down", last.Direction)
	}
	if len(last.Attached) != 1 || last.Attached[0].Face != "Q" {
		t.Errorf("queen not recorded as attachment: %+v", last.Attached)
	}

	// A queen does not change the lane's score.
	if got := l.Score(2); got != 10 {
		t.Errorf("score after queen = %d, want 10", got)
	}
}

func TestAttachRejectsNonFaceCard(t *testing.T) {
	l := NewLanes()
	buildLane(t, l, 1, mustCard(t, "4", Hearts))

	if err := l.Attach(1, 0, mustCard(t, "7", Spades)); !errors.Is(err, ErrInvalidAttachment) {
		t.Errorf("attach 7 error = %v, want ErrInvalidAttachment", err)
	}
	if err := l.Attach(1, 5, mustCard(t, "K", Spades)); !errors.Is(err, ErrInvalidAttachment) {
		t.Errorf("attach out of range error = %v, want ErrInvalidAttachment", err)
	}
	if err := l.Attach(0, 0, mustCard(t, "K", Spades)); !errors.Is(err, ErrInvalidLane) {
		t.Errorf("attach invalid lane error = %v, want ErrInvalidLane", err)
	}
}

// fillLaneToScore puts cards summing to the wanted score into a lane.
func fillLaneToScore(t *testing.T, l *Lanes, lane, score int) {
	t.Helper()
	for score > 0 {
		rank := score
		if rank > 10 {
			rank = 10
		}
		buildLane(t, l, lane, mustCard(t, Faces[rank-1], Hearts))
		score -= rank
	}
}

func TestEvaluateOngoingUntilEveryPairInBand(t *testing.T) {
	l := NewLanes()
	fillLaneToScore(t, l, 1, 22)
	fillLaneToScore(t, l, 2, 24)
	// Pair (3,6) has no member in band.
	fillLaneToScore(t, l, 3, 15)
	fillLaneToScore(t, l, 6, 30)

	result, complete := l.Evaluate()
	if complete || result != ResultOngoing {
		t.Errorf("Evaluate = (%q, %v), want ongoing", result, complete)
	}
}

func TestEvaluatePlayerOneWins(t *testing.T) {
	l := NewLanes()
	fillLaneToScore(t, l, 1, 26)
	fillLaneToScore(t, l, 4, 10)
	fillLaneToScore(t, l, 2, 25)
	fillLaneToScore(t, l, 5, 21)
	fillLaneToScore(t, l, 3, 5)
	fillLaneToScore(t, l, 6, 22)

	result, complete := l.Evaluate()
	if !complete || result != ResultPlayer1Win {
		t.Errorf("Evaluate = (%q, %v), want player 1 win", result, complete)
	}
}

func TestEvaluateIsSymmetric(t *testing.T) {
	scores := [NumLanes]int{26, 25, 5, 10, 21, 22}

	build := func(s [NumLanes]int) *Lanes {
		l := NewLanes()
		for lane, score := range s {
			fillLaneToScore(t, l, lane+1, score)
		}
		return l
	}

	// Swap each pair's owners and the result must flip.
	swapped := [NumLanes]int{scores[3], scores[4], scores[5], scores[0], scores[1], scores[2]}

	if result, _ := build(scores).Evaluate(); result != ResultPlayer1Win {
		t.Errorf("original result = %q, want player 1 win", result)
	}
	if result, _ := build(swapped).Evaluate(); result != ResultPlayer2Win {
		t.Errorf("swapped result = %q, want player 2 win", result)
	}
}

func TestEvaluateTiedPairAwardsNobody(t *testing.T) {
	l := NewLanes()
	// All three pairs tie exactly.
	for lane := 1; lane <= NumLanes; lane++ {
		fillLaneToScore(t, l, lane, 22)
	}
	result, complete := l.Evaluate()
	if !complete || result != ResultTie {
		t.Errorf("Evaluate = (%q, %v), want tie", result, complete)
	}
}

func TestDiscardLaneClearsIt(t *testing.T) {
	l := NewLanes()
	buildLane(t, l, 5, mustCard(t, "4", Hearts), mustCard(t, "9", Hearts))

	if err := l.Discard(5); err != nil {
		t.Fatalf("Discard: %v", err)
	}
	if got := len(l.Lane(5)); got != 0 {
		t.Errorf("lane length after discard = %d, want 0", got)
	}
	if err := l.Discard(7); !errors.Is(err, ErrInvalidLane) {
		t.Errorf("Discard(7) error = %v, want ErrInvalidLane", err)
	}
}

func TestAllSeeded(t *testing.T) {
	l := NewLanes()
	if l.AllSeeded() {
		t.Error("empty lanes reported as seeded")
	}
	for lane := 1; lane <= NumLanes; lane++ {
		buildLane(t, l, lane, mustCard(t, "5", Hearts))
	}
	if !l.AllSeeded() {
		t.Error("fully seeded lanes reported as not seeded")
	}
}
