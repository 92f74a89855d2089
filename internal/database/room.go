// internal/database/room.go
package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/mtran/switchstack/internal/models"
)

// UpsertRoom writes a room row, replacing the member list and status on
// conflict. The in-memory room store is authoritative while the process
// lives; rows exist for restarts and listing.
func UpsertRoom(ctx context.Context, room *models.Room) error {
	playerIDs, err := json.Marshal(room.PlayerIDs)
	if err != nil {
		return fmt.Errorf("failed to marshal room members: %w", err)
	}

	q := `
	INSERT INTO game_rooms (id, name, host_id, min_players, max_players, status, player_ids, is_private, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (id)
	DO UPDATE SET status = EXCLUDED.status, player_ids = EXCLUDED.player_ids
	`
	err = pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, e := tx.Exec(ctx, q,
			room.ID, room.Name, room.HostID,
			room.MinPlayers, room.MaxPlayers, room.Status,
			playerIDs, room.IsPrivate, room.CreatedAt,
		)
		return e
	})
	if err != nil {
		return fmt.Errorf("failed to upsert room %s: %w", room.ID, err)
	}
	return nil
}

// GetRoom loads one room row, or nil if no such room exists.
func GetRoom(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	var room models.Room
	var playerIDs []byte
	q := `
	SELECT id, name, host_id, min_players, max_players, status, player_ids, is_private, created_at
	FROM game_rooms
	WHERE id = $1
	`
	err := DB.QueryRow(ctx, q, id).Scan(
		&room.ID, &room.Name, &room.HostID,
		&room.MinPlayers, &room.MaxPlayers, &room.Status,
		&playerIDs, &room.IsPrivate, &room.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(playerIDs, &room.PlayerIDs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal room members: %w", err)
	}
	return &room, nil
}

// ListOpenRooms returns all public rooms still waiting for players.
func ListOpenRooms(ctx context.Context) ([]*models.Room, error) {
	q := `
	SELECT id, name, host_id, min_players, max_players, status, player_ids, is_private, created_at
	FROM game_rooms
	WHERE status = $1 AND is_private = FALSE
	ORDER BY created_at DESC
	`
	rows, err := DB.Query(ctx, q, models.RoomStatusWaiting)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Room
	for rows.Next() {
		var room models.Room
		var playerIDs []byte
		if err := rows.Scan(
			&room.ID, &room.Name, &room.HostID,
			&room.MinPlayers, &room.MaxPlayers, &room.Status,
			&playerIDs, &room.IsPrivate, &room.CreatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(playerIDs, &room.PlayerIDs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal room members: %w", err)
		}
		out = append(out, &room)
	}
	return out, rows.Err()
}
