// internal/handlers/room.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/mtran/switchstack/internal/engine"
)

type createRoomRequest struct {
	Name       string `json:"name"`
	MinPlayers int    `json:"minPlayers"`
	MaxPlayers int    `json:"maxPlayers"`
	Private    bool   `json:"private"`
}

// CreateRoomHandler creates a room hosted by the caller.
func CreateRoomHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := EnsureEphemeralUser(w, r)
		if err != nil {
			http.Error(w, "authentication failed", http.StatusForbidden)
			return
		}

		var req createRoomRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid payload", http.StatusBadRequest)
			return
		}

		rm, err := gs.Rooms.CreateRoom(r.Context(), userID, req.Name, req.MinPlayers, req.MaxPlayers, req.Private)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(rm)
	}
}

// ListRoomsHandler returns public rooms still waiting for players.
func ListRoomsHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rooms := gs.Rooms.ListOpen(r.Context())
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(rooms)
	}
}

// JoinRoomHandler seats the caller in an existing room over plain HTTP.
// Most clients join through the WebSocket endpoint instead; this exists
// for lobby UIs that reserve a seat before opening the socket.
func JoinRoomHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := EnsureEphemeralUser(w, r)
		if err != nil {
			http.Error(w, "authentication failed", http.StatusForbidden)
			return
		}

		roomID, err := roomIDFromPath(r.URL.Path, "/rooms/join/")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		rm, err := gs.Rooms.JoinRoom(r.Context(), roomID, userID)
		if err != nil {
			writeRoomError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(rm)
	}
}

// LeaveRoomHandler unseats the caller from a waiting room.
func LeaveRoomHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := EnsureEphemeralUser(w, r)
		if err != nil {
			http.Error(w, "authentication failed", http.StatusForbidden)
			return
		}

		roomID, err := roomIDFromPath(r.URL.Path, "/rooms/leave/")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if err := gs.Rooms.LeaveRoom(r.Context(), roomID, userID); err != nil {
			writeRoomError(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

func roomIDFromPath(path, prefix string) (uuid.UUID, error) {
	idStr := strings.TrimPrefix(path, prefix)
	if idx := strings.Index(idStr, "/"); idx != -1 {
		idStr = idStr[:idx]
	}
	if idStr == "" {
		return uuid.Nil, errors.New("missing room id in path")
	}
	return uuid.Parse(idStr)
}

func writeRoomError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrRoomNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, engine.ErrRoomFull), errors.Is(err, engine.ErrRoomNotJoinable):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
