package solo

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/caravanonline/backend/internal/config"
	"github.com/caravanonline/backend/internal/game"
)

const sessionCookie = "solo_session"

// Handler serves the legacy single-player variant: one browser session plays
// both hands against itself, with state persisted per session between
// requests. It shares the lane engine with the online core but lives entirely
// outside it.
type Handler struct {
	store Store
	cfg   *config.Config
}

// NewHandler creates a solo-mode handler.
func NewHandler(store Store, cfg *config.Config) *Handler {
	return &Handler{store: store, cfg: cfg}
}

// MoveRequest mirrors the original page form: a move is either a card
// selection or (in phase 2) a lane selection for the previously chosen card.
type MoveRequest struct {
	SelectedCard string `json:"selected_card"` // "FACE SUIT" token
	SelectedLane int    `json:"selected_lane"`
}

// cardView augments a card with its image asset path for the frontend.
type cardView struct {
	Face      string         `json:"face"`
	Suit      game.Suit      `json:"suit"`
	Rank      int            `json:"rank"`
	Direction game.Direction `json:"direction,omitempty"`
	Attached  []cardView     `json:"attached,omitempty"`
	Image     string         `json:"image"`
}

type stateResponse struct {
	Player1Cards   []cardView   `json:"player1_cards"`
	Player2Cards   []cardView   `json:"player2_cards"`
	Lanes          [][]cardView `json:"lanes"`
	CurrentPlayer  string       `json:"current_player"`
	CurrentLane    int          `json:"current_lane"`
	Phase          int          `json:"phase"`
	Message        string       `json:"message"`
	LaneScores     []int        `json:"lane_scores"`
	IsGameComplete bool         `json:"is_game_complete"`
	GameResult     string       `json:"game_result,omitempty"`
}

// GetState returns the session's game, dealing a fresh one if none exists.
func (h *Handler) GetState(c *gin.Context) {
	sessionID := h.sessionID(c)

	snap, found, err := h.store.Load(c.Request.Context(), sessionID)
	if err != nil {
		log.Printf("[SOLO] Failed to load session %s: %v", sessionID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load game state"})
		return
	}
	if !found {
		snap = NewSnapshot(h.cfg.InitialHandSize)
		if err := h.store.Save(c.Request.Context(), sessionID, snap); err != nil {
			log.Printf("[SOLO] Failed to save session %s: %v", sessionID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save game state"})
			return
		}
	}

	c.JSON(http.StatusOK, buildState(snap))
}

// Move applies one solo action. Errors come back in the message field with
// state otherwise unchanged, the way the original page re-rendered with an
// explanatory message.
func (h *Handler) Move(c *gin.Context) {
	sessionID := h.sessionID(c)

	var req MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid move payload"})
		return
	}

	snap, found, err := h.store.Load(c.Request.Context(), sessionID)
	if err != nil {
		log.Printf("[SOLO] Failed to load session %s: %v", sessionID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load game state"})
		return
	}
	if !found {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no game in progress"})
		return
	}

	var completed bool
	if snap.Phase == 1 {
		h.handlePhase1(snap, req)
	} else {
		completed = h.handlePhase2(snap, req)
	}

	if completed {
		// A decided solo game clears its session; the next request deals anew.
		if err := h.store.Clear(c.Request.Context(), sessionID); err != nil {
			log.Printf("[SOLO] Failed to clear session %s: %v", sessionID, err)
		}
	} else if err := h.store.Save(c.Request.Context(), sessionID, snap); err != nil {
		log.Printf("[SOLO] Failed to save session %s: %v", sessionID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save game state"})
		return
	}

	c.JSON(http.StatusOK, buildState(snap))
}

// Reset abandons the session's game.
func (h *Handler) Reset(c *gin.Context) {
	sessionID := h.sessionID(c)
	if err := h.store.Clear(c.Request.Context(), sessionID); err != nil {
		log.Printf("[SOLO] Failed to clear session %s: %v", sessionID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reset game"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handlePhase1 places the selected card in the forced target lane.
func (h *Handler) handlePhase1(snap *Snapshot, req MoveRequest) {
	if req.SelectedCard == "" {
		snap.Message = "No card selected."
		return
	}
	face, suit, err := game.ParseCardToken(req.SelectedCard)
	if err != nil {
		snap.Message = "Invalid card selected."
		return
	}
	card := snap.findInHand(face, suit)
	if card == nil {
		snap.Message = "Card not found in " + snap.CurrentPlayer + "'s hand."
		return
	}

	if err := snap.Lanes.AddCard(snap.CurrentLane, card); err != nil {
		snap.Message = err.Error()
		return
	}
	snap.removeFromHand(card)
	snap.replenish(h.cfg.MinHandSize)

	if snap.Lanes.AllSeeded() {
		snap.Phase = 2
		snap.CurrentPlayer = Player1
		snap.Message = "Phase 2: Build your caravans!"
	} else {
		snap.CurrentLane = game.NextLane(snap.seat(), snap.CurrentLane)
		snap.switchPlayer()
		snap.Message = snap.CurrentPlayer + "'s turn."
	}
}

// handlePhase2 runs the two-step select-card-then-lane flow and reports
// whether the game was decided by the move.
func (h *Handler) handlePhase2(snap *Snapshot, req MoveRequest) bool {
	switch {
	case req.SelectedCard != "":
		face, suit, err := game.ParseCardToken(req.SelectedCard)
		if err != nil {
			snap.Message = "Invalid card selected."
			return false
		}
		card := snap.findInHand(face, suit)
		if card == nil {
			snap.Message = "Card not found."
			return false
		}
		snap.Selected = card
		snap.Message = "Please select a lane"
		return false

	case req.SelectedLane != 0:
		if snap.Selected == nil {
			snap.Message = "Please select a card first."
			return false
		}
		if req.SelectedLane < 1 || req.SelectedLane > game.NumLanes {
			snap.Message = "Invalid lane selected."
			return false
		}
		// The selected card was reloaded from the store, so re-resolve it
		// against the hand before playing it.
		card := snap.findInHand(snap.Selected.Face, snap.Selected.Suit)
		if card == nil {
			snap.Message = "Card not found in " + snap.CurrentPlayer + "'s hand."
			return false
		}
		if err := snap.Lanes.AddCard(req.SelectedLane, card); err != nil {
			snap.Message = err.Error()
			return false
		}
		snap.removeFromHand(card)
		snap.replenish(h.cfg.MinHandSize)
		snap.Selected = nil
		snap.switchPlayer()

		result, complete := snap.Lanes.Evaluate()
		if complete {
			snap.Message = result
			return true
		}
		snap.Message = snap.CurrentPlayer + "'s turn."
		return false

	default:
		snap.Message = "No card or lane selected."
		return false
	}
}

// sessionID reads the session cookie, minting one on first contact.
func (h *Handler) sessionID(c *gin.Context) string {
	if id, err := c.Cookie(sessionCookie); err == nil && id != "" {
		return id
	}
	id := uuid.NewString()
	c.SetCookie(sessionCookie, id, h.cfg.SoloSessionTTLMinutes*60, "/", "", false, true)
	return id
}

func buildState(snap *Snapshot) stateResponse {
	result, complete := snap.Lanes.Evaluate()

	resp := stateResponse{
		Player1Cards:   toViews(snap.Player1Cards),
		Player2Cards:   toViews(snap.Player2Cards),
		Lanes:          make([][]cardView, game.NumLanes),
		CurrentPlayer:  snap.CurrentPlayer,
		CurrentLane:    snap.CurrentLane,
		Phase:          snap.Phase,
		Message:        snap.Message,
		LaneScores:     snap.Lanes.Scores(),
		IsGameComplete: complete,
	}
	for i := 0; i < game.NumLanes; i++ {
		resp.Lanes[i] = toViews(snap.Lanes.Lane(i + 1))
	}
	if complete {
		resp.GameResult = result
	}
	return resp
}

func toViews(cards []*game.Card) []cardView {
	views := make([]cardView, len(cards))
	for i, c := range cards {
		views[i] = cardView{
			Face:      c.Face,
			Suit:      c.Suit,
			Rank:      c.Rank,
			Direction: c.Direction,
			Attached:  toViews(c.Attached),
			Image:     c.ImagePath(),
		}
	}
	return views
}
