// internal/database/gamestate.go
package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/mtran/switchstack/internal/engine"
)

// GameStates implements engine.Persister on the game_states table. Each game
// gets one row, updated per accepted move; prior games for a room keep their
// rows as history.
type GameStates struct{}

func (GameStates) SaveGameState(ctx context.Context, snap *engine.GameState) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal game state %s: %w", snap.ID, err)
	}

	q := `
	INSERT INTO game_states (id, room_id, phase, turn_count, winner_id, snapshot, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	ON CONFLICT (id)
	DO UPDATE SET phase = EXCLUDED.phase,
	              turn_count = EXCLUDED.turn_count,
	              winner_id = EXCLUDED.winner_id,
	              snapshot = EXCLUDED.snapshot,
	              updated_at = NOW()
	`
	err = pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, e := tx.Exec(ctx, q,
			snap.ID, snap.RoomID, snap.Phase, snap.TurnCount,
			snap.WinnerID, data, snap.CreatedAt,
		)
		return e
	})
	if err != nil {
		return fmt.Errorf("failed to save game state %s: %w", snap.ID, err)
	}
	return nil
}

// GetLatestGameStateByRoom loads the newest persisted snapshot for a room,
// or nil if the room never started a game. Used for queries after a restart;
// live games are always served from memory.
func GetLatestGameStateByRoom(ctx context.Context, roomID uuid.UUID) (*engine.GameState, error) {
	var data []byte
	q := `
	SELECT snapshot
	FROM game_states
	WHERE room_id = $1
	ORDER BY created_at DESC
	LIMIT 1
	`
	err := DB.QueryRow(ctx, q, roomID).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var snap engine.GameState
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game state for room %s: %w", roomID, err)
	}
	return &snap, nil
}
