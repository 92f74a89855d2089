// internal/handlers/game_server.go
package handlers

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mtran/switchstack/internal/engine"
	"github.com/mtran/switchstack/internal/models"
	"github.com/mtran/switchstack/internal/room"
)

// GameServer ties the engine and room store to the live WebSocket
// connections. It tracks which players are connected to which room and
// fans game state out to them.
type GameServer struct {
	Engine *engine.Engine
	Rooms  *room.Store
	Logger *logrus.Logger

	mu    sync.Mutex
	conns map[uuid.UUID]map[uuid.UUID]*models.Player // roomID -> playerID -> player
}

// NewGameServer constructs a GameServer around an engine and room store.
func NewGameServer(eng *engine.Engine, rooms *room.Store, logger *logrus.Logger) *GameServer {
	if logger == nil {
		logger = logrus.New()
	}
	return &GameServer{
		Engine: eng,
		Rooms:  rooms,
		Logger: logger,
		conns:  make(map[uuid.UUID]map[uuid.UUID]*models.Player),
	}
}

// registerConn attaches a player's live connection to a room. A second
// connection for the same player replaces the first.
func (gs *GameServer) registerConn(roomID uuid.UUID, p *models.Player) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	if gs.conns[roomID] == nil {
		gs.conns[roomID] = make(map[uuid.UUID]*models.Player)
	}
	gs.conns[roomID][p.ID] = p
}

// unregisterConn detaches a player's connection, but only if it is still
// the registered one; a replacement connection must not be torn down by
// the old connection's cleanup.
func (gs *GameServer) unregisterConn(roomID uuid.UUID, p *models.Player) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	if cur, ok := gs.conns[roomID][p.ID]; ok && cur == p {
		delete(gs.conns[roomID], p.ID)
		if len(gs.conns[roomID]) == 0 {
			delete(gs.conns, roomID)
		}
	}
}

// roomConns returns the current connections for a room.
func (gs *GameServer) roomConns(roomID uuid.UUID) []*models.Player {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	out := make([]*models.Player, 0, len(gs.conns[roomID]))
	for _, p := range gs.conns[roomID] {
		out = append(out, p)
	}
	return out
}

// gameStateView is the client-facing projection of a game state. Each
// viewer sees their own cards; everyone else's hands are reduced to a
// count, and the draw pile to its size.
type gameStateView struct {
	Type            string              `json:"type"`
	GameID          uuid.UUID           `json:"gameId"`
	RoomID          uuid.UUID           `json:"roomId"`
	Phase           engine.GamePhase    `json:"phase"`
	PlayerOrder     []uuid.UUID         `json:"playerOrder"`
	CurrentPlayerID uuid.UUID           `json:"currentPlayerId"`
	Hands           []models.PlayerHand `json:"hands"`
	TopDiscard      *models.Card        `json:"topDiscard"`
	DiscardCount    int                 `json:"discardCount"`
	DrawCount       int                 `json:"drawCount"`
	Direction       int                 `json:"direction"`
	AttackStack     int                 `json:"attackStack"`
	TurnCount       int                 `json:"turnCount"`
	WinnerID        *uuid.UUID          `json:"winnerId,omitempty"`
}

// viewFor builds the redacted projection of snap for a single viewer.
func viewFor(snap *engine.GameState, viewerID uuid.UUID) gameStateView {
	hands := make([]models.PlayerHand, len(snap.PlayerHands))
	for i, h := range snap.PlayerHands {
		redacted := models.PlayerHand{
			PlayerID:   h.PlayerID,
			CardsCount: len(h.Cards),
		}
		if h.PlayerID == viewerID {
			redacted.Cards = h.Cards
		}
		hands[i] = redacted
	}
	return gameStateView{
		Type:            "game_state",
		GameID:          snap.ID,
		RoomID:          snap.RoomID,
		Phase:           snap.Phase,
		PlayerOrder:     snap.PlayerOrder,
		CurrentPlayerID: snap.CurrentPlayerID,
		Hands:           hands,
		TopDiscard:      snap.TopDiscard(),
		DiscardCount:    len(snap.DiscardPile),
		DrawCount:       len(snap.DrawPile),
		Direction:       snap.Direction,
		AttackStack:     snap.AttackStack,
		TurnCount:       snap.TurnCount,
		WinnerID:        snap.WinnerID,
	}
}

// BroadcastState sends each connected player their own redacted view of
// the snapshot. Writes happen off the caller's goroutine.
func (gs *GameServer) BroadcastState(snap *engine.GameState) {
	players := gs.roomConns(snap.RoomID)
	for _, p := range players {
		view := viewFor(snap, p.ID)
		go gs.writeToPlayer(p, view)
	}
}

// BroadcastEvent sends the same message to every connection in the room.
func (gs *GameServer) BroadcastEvent(roomID uuid.UUID, msg interface{}) {
	players := gs.roomConns(roomID)
	for _, p := range players {
		go gs.writeToPlayer(p, msg)
	}
}

func (gs *GameServer) writeToPlayer(p *models.Player, msg interface{}) {
	if p.Conn == nil {
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		gs.Logger.Errorf("failed to marshal message for player %s: %v", p.ID, err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := p.Conn.Write(ctx, websocket.MessageText, data); err != nil {
		gs.Logger.Warnf("failed to write to player %s: %v", p.ID, err)
	}
}
