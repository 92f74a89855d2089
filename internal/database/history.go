// internal/database/history.go
package database

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/mtran/switchstack/internal/models"
)

// InsertMoveRecords writes a batch of move-log entries to game_history in a
// single transaction. Called by the historian service draining the Redis
// queue; the table is append-only and never read back by the engine.
func InsertMoveRecords(ctx context.Context, recs []models.MoveRecord) error {
	if len(recs) == 0 {
		return nil
	}
	q := `
	INSERT INTO game_history (room_id, player_id, move_type, move_data, turn_number, created_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	`
	return pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		for _, rec := range recs {
			payload, err := json.Marshal(rec.Payload)
			if err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, q,
				rec.RoomID, rec.PlayerID, rec.MoveType,
				payload, rec.TurnNumber, rec.CreatedAt,
			); err != nil {
				return err
			}
		}
		return nil
	})
}
