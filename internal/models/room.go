// internal/models/room.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// RoomStatus tracks a room's lifecycle.
type RoomStatus string

const (
	RoomStatusWaiting    RoomStatus = "waiting"
	RoomStatusInProgress RoomStatus = "in_progress"
	RoomStatusFinished   RoomStatus = "finished"
	RoomStatusCancelled  RoomStatus = "cancelled"
)

// Room represents a row in the game_rooms table. PlayerIDs is the join order
// and becomes the fixed playerOrder when a game starts.
type Room struct {
	ID         uuid.UUID   `json:"id"`
	Name       string      `json:"name"`
	HostID     uuid.UUID   `json:"host_id"`
	MinPlayers int         `json:"min_players"`
	MaxPlayers int         `json:"max_players"`
	Status     RoomStatus  `json:"status"`
	PlayerIDs  []uuid.UUID `json:"player_ids"`
	IsPrivate  bool        `json:"is_private"`
	CreatedAt  time.Time   `json:"created_at"`
}
