// internal/models/move_record.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// MoveType enumerates the kinds of moves recorded in the game history.
type MoveType string

const (
	MovePlayCard  MoveType = "play_card"
	MoveDrawCard  MoveType = "draw_card"
	MoveSkipTurn  MoveType = "skip_turn"
	MoveChallenge MoveType = "challenge"
	MoveUnoCall   MoveType = "uno_call"
)

// MoveRecord is an append-only audit entry for one accepted move. It is
// diagnostic history and is never read back to reconstruct game state.
type MoveRecord struct {
	RoomID     uuid.UUID              `json:"room_id"`
	PlayerID   uuid.UUID              `json:"player_id"`
	MoveType   MoveType               `json:"move_type"`
	Payload    map[string]interface{} `json:"payload,omitempty"`
	TurnNumber int                    `json:"turn_number"`
	CreatedAt  time.Time              `json:"created_at"`
}
