// internal/handlers/game_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mtran/switchstack/internal/engine"
	"github.com/mtran/switchstack/internal/models"
)

// RoomMessage is the envelope for incoming WebSocket messages.
type RoomMessage struct {
	Type   string `json:"type"`
	CardID string `json:"cardId,omitempty"`
}

// RoomWSHandler upgrades the HTTP connection to WebSocket for a room.
// It authenticates the user (creating a guest account if needed), seats
// them in the room, registers the connection, and runs the read loop
// until the client disconnects.
func RoomWSHandler(logger *logrus.Logger, gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Extract room ID from URL path: /rooms/ws/{room_id}
		pathParts := strings.Split(strings.TrimPrefix(r.URL.Path, "/rooms/ws/"), "/")
		if len(pathParts) < 1 || pathParts[0] == "" {
			http.Error(w, "missing room_id in path (/rooms/ws/{room_id})", http.StatusBadRequest)
			return
		}
		roomID, err := uuid.Parse(pathParts[0])
		if err != nil {
			http.Error(w, "invalid room_id format", http.StatusBadRequest)
			return
		}

		rm, err := gs.Rooms.Room(r.Context(), roomID)
		if err != nil || rm == nil {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}

		// Authenticate before the upgrade so the guest cookie can still be set.
		userID, err := EnsureEphemeralUser(w, r)
		if err != nil {
			logger.Warnf("user authentication failed for room %s: %v", roomID, err)
			http.Error(w, "authentication failed", http.StatusForbidden)
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"game"},
			OriginPatterns: []string{"*"}, // Adjust for production security.
		})
		if err != nil {
			logger.Warnf("WebSocket accept error for room %s: %v", roomID, err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "internal server error during handler exit")

		if c.Subprotocol() != "game" {
			c.Close(BadSubprotocolError, "client must use the 'game' subprotocol")
			return
		}

		// Seat the player. Games already in progress reject new seats but
		// let existing players reconnect.
		if _, err := gs.Rooms.JoinRoom(r.Context(), roomID, userID); err != nil {
			if !isSeated(rm, userID) {
				logger.Warnf("user %s cannot join room %s: %v", userID, roomID, err)
				c.Close(RoomNotJoinableError, err.Error())
				return
			}
		}
		logger.Infof("user %s connected to room %s", userID, roomID)

		player := &models.Player{ID: userID, Connected: true, Conn: c}
		gs.registerConn(roomID, player)
		defer gs.unregisterConn(roomID, player)

		// A reconnecting player gets the current state straight away.
		if snap := gs.Engine.GetGameState(roomID); snap != nil {
			gs.writeToPlayer(player, viewFor(snap, userID))
		}

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		gs.readRoomMessages(ctx, c, roomID, userID, logger)

		logger.Infof("user %s read loop exited for room %s", userID, roomID)
	}
}

func isSeated(rm *models.Room, userID uuid.UUID) bool {
	for _, id := range rm.PlayerIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// readRoomMessages reads client messages, routes them to the engine, and
// fans the resulting state out to the room. It exits on read error or
// context cancellation.
func (gs *GameServer) readRoomMessages(ctx context.Context, c *websocket.Conn, roomID, userID uuid.UUID, logger *logrus.Logger) {
	for {
		msgType, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				logger.Infof("WebSocket closed normally for user %s in room %s", userID, roomID)
			} else if strings.Contains(err.Error(), "context canceled") {
				logger.Infof("WebSocket context canceled for user %s in room %s", userID, roomID)
			} else {
				logger.Warnf("error reading from WebSocket for user %s in room %s: %v", userID, roomID, err)
			}
			return
		}

		if msgType != websocket.MessageText {
			continue
		}

		var msg RoomMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Warnf("invalid JSON from user %s in room %s: %v", userID, roomID, err)
			sendWsError(ctx, c, "invalid JSON format")
			continue
		}

		logger.Debugf("received action '%s' from user %s in room %s", msg.Type, userID, roomID)

		switch msg.Type {
		case "start_game":
			snap, err := gs.Engine.StartGame(ctx, roomID)
			if err != nil {
				gs.replyEngineError(ctx, c, err)
				continue
			}
			gs.BroadcastState(snap)

		case "play_card":
			if msg.CardID == "" {
				sendWsError(ctx, c, "play_card requires cardId")
				continue
			}
			gs.dispatchMove(ctx, c, roomID, userID, func(gameID uuid.UUID) (*engine.GameState, error) {
				return gs.Engine.PlayCard(ctx, gameID, userID, msg.CardID)
			})

		case "draw_card":
			gs.dispatchMove(ctx, c, roomID, userID, func(gameID uuid.UUID) (*engine.GameState, error) {
				return gs.Engine.DrawCard(ctx, gameID, userID)
			})

		case "get_game_state":
			snap := gs.Engine.GetGameState(roomID)
			if snap == nil {
				sendWsError(ctx, c, "no game running in this room")
				continue
			}
			sendWsMessage(ctx, c, viewFor(snap, userID))

		case "ping":
			sendWsMessage(ctx, c, map[string]string{"type": "pong"})

		default:
			sendWsError(ctx, c, fmt.Sprintf("unknown action type: %s", msg.Type))
		}

		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}

// dispatchMove resolves the room's current game, applies the move, and
// broadcasts the result. A finished game additionally gets a terminal
// game_finished event.
func (gs *GameServer) dispatchMove(ctx context.Context, c *websocket.Conn, roomID, userID uuid.UUID, move func(gameID uuid.UUID) (*engine.GameState, error)) {
	cur := gs.Engine.GetGameState(roomID)
	if cur == nil {
		gs.replyEngineError(ctx, c, engine.ErrGameNotFound)
		return
	}

	snap, err := move(cur.ID)
	if err != nil {
		gs.replyEngineError(ctx, c, err)
		return
	}

	gs.BroadcastState(snap)
	if snap.Phase == engine.PhaseFinished && snap.WinnerID != nil {
		gs.BroadcastEvent(roomID, map[string]interface{}{
			"type":   "game_finished",
			"gameId": snap.ID.String(),
			"winner": snap.WinnerID.String(),
		})
	}
}

// replyEngineError maps engine errors to client messages. Validation
// rejections go back to the offending client only; integrity failures are
// server faults and say so.
func (gs *GameServer) replyEngineError(ctx context.Context, c *websocket.Conn, err error) {
	if engine.IsIntegrity(err) {
		gs.Logger.Errorf("game integrity failure: %v", err)
		sendWsMessage(ctx, c, map[string]interface{}{
			"type":    "error",
			"fatal":   true,
			"message": err.Error(),
		})
		return
	}
	sendWsError(ctx, c, err.Error())
}

// sendWsMessage marshals a message and writes it with a timeout.
func sendWsMessage(ctx context.Context, c *websocket.Conn, message interface{}) {
	if c == nil {
		return
	}
	msgBytes, err := json.Marshal(message)
	if err != nil {
		logrus.Errorf("error marshaling WebSocket message: %v", err)
		return
	}

	writeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.Write(writeCtx, websocket.MessageText, msgBytes); err != nil {
		status := websocket.CloseStatus(err)
		if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway {
			logrus.Warnf("error writing WebSocket message: %v", err)
		}
	}
}

// sendWsError sends a structured error message to the client.
func sendWsError(ctx context.Context, c *websocket.Conn, errorMsg string) {
	sendWsMessage(ctx, c, map[string]interface{}{
		"type":    "error",
		"message": errorMsg,
	})
}
