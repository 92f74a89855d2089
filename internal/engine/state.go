// internal/engine/state.go
package engine

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mtran/switchstack/internal/models"
)

// GamePhase is the lifecycle stage of one game instance.
type GamePhase string

const (
	PhaseWaiting  GamePhase = "waiting"
	PhaseDealing  GamePhase = "dealing"
	PhasePlaying  GamePhase = "playing"
	PhaseFinished GamePhase = "finished"
)

// GameState is the authoritative aggregate for one room's current game.
// All mutation goes through the engine's move entry points while mu is held;
// mu is the room's serialization boundary, so concurrent moves against the
// same game are processed strictly one at a time.
type GameState struct {
	ID     uuid.UUID `json:"id"`
	RoomID uuid.UUID `json:"roomId"`

	Phase           GamePhase           `json:"phase"`
	PlayerOrder     []uuid.UUID         `json:"playerOrder"`
	CurrentPlayerID uuid.UUID           `json:"currentPlayerId"`
	PlayerHands     []models.PlayerHand `json:"playerHands"`
	DiscardPile     []models.Card       `json:"discardPile"`
	DrawPile        []models.Card       `json:"drawPile"`
	Direction       int                 `json:"direction"`
	AttackStack     int                 `json:"attackStack"`
	TurnCount       int                 `json:"turnCount"`
	WinnerID        *uuid.UUID          `json:"winnerId,omitempty"`
	CreatedAt       time.Time           `json:"createdAt"`

	mu sync.Mutex
}

// TopDiscard returns the current top of the discard pile, or nil while the
// pile is empty. The caller must hold the game lock.
func (s *GameState) TopDiscard() *models.Card {
	if len(s.DiscardPile) == 0 {
		return nil
	}
	return &s.DiscardPile[len(s.DiscardPile)-1]
}

// handOf returns the hand entry for playerID, or nil if the player is not in
// this game. Caller must hold the game lock.
func (s *GameState) handOf(playerID uuid.UUID) *models.PlayerHand {
	for i := range s.PlayerHands {
		if s.PlayerHands[i].PlayerID == playerID {
			return &s.PlayerHands[i]
		}
	}
	return nil
}

// currentIndex resolves CurrentPlayerID into PlayerOrder.
func (s *GameState) currentIndex() int {
	for i, pid := range s.PlayerOrder {
		if pid == s.CurrentPlayerID {
			return i
		}
	}
	return -1
}

// advanceTurn moves the active-player pointer one step along the current
// direction, wrapping around the fixed player order.
func (s *GameState) advanceTurn() {
	n := len(s.PlayerOrder)
	next := (s.currentIndex() + s.Direction + n) % n
	s.CurrentPlayerID = s.PlayerOrder[next]
}

// Snapshot returns a deep copy safe to hand to callers and broadcast without
// racing later mutations. Caller must hold the game lock.
func (s *GameState) snapshot() *GameState {
	cp := &GameState{
		ID:              s.ID,
		RoomID:          s.RoomID,
		Phase:           s.Phase,
		PlayerOrder:     append([]uuid.UUID(nil), s.PlayerOrder...),
		CurrentPlayerID: s.CurrentPlayerID,
		DiscardPile:     append([]models.Card(nil), s.DiscardPile...),
		DrawPile:        append([]models.Card(nil), s.DrawPile...),
		Direction:       s.Direction,
		AttackStack:     s.AttackStack,
		TurnCount:       s.TurnCount,
		CreatedAt:       s.CreatedAt,
	}
	if s.WinnerID != nil {
		w := *s.WinnerID
		cp.WinnerID = &w
	}
	cp.PlayerHands = make([]models.PlayerHand, len(s.PlayerHands))
	for i, h := range s.PlayerHands {
		cp.PlayerHands[i] = models.PlayerHand{
			PlayerID:   h.PlayerID,
			Cards:      append([]models.Card(nil), h.Cards...),
			CardsCount: h.CardsCount,
		}
	}
	return cp
}

// Snapshot locks the game and returns a committed deep copy. Read-only
// callers use this; they never observe a partial mutation.
func (s *GameState) Snapshot() *GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}
