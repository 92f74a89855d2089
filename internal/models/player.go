package models

import (
	"github.com/coder/websocket"
	"github.com/google/uuid"
)

// Player tracks one room member's live connection state. Hand contents live
// in the engine's game state, not here.
type Player struct {
	ID        uuid.UUID       `json:"id"`
	Username  string          `json:"username"`
	Connected bool            `json:"connected"`
	Conn      *websocket.Conn `json:"-"`

	User *User `json:"-"`
}

// PlayerHand is one player's dealt cards inside a game state snapshot. Order
// is stable for display only and carries no game meaning.
type PlayerHand struct {
	PlayerID   uuid.UUID `json:"playerId"`
	Cards      []Card    `json:"cards"`
	CardsCount int       `json:"cardsCount"`
}
