package engine

import (
	"sync"

	"github.com/google/uuid"
)

// GameStore is the process-wide registry of active games. Many rooms run
// concurrently; the store only guards its own map, never a game's state.
type GameStore struct {
	mu    sync.Mutex
	games map[uuid.UUID]*GameState
}

func NewGameStore() *GameStore {
	return &GameStore{
		games: make(map[uuid.UUID]*GameState),
	}
}

func (s *GameStore) AddGame(g *GameState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[g.ID] = g
}

func (s *GameStore) GetGame(id uuid.UUID) (*GameState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, exists := s.games[id]
	return g, exists
}

func (s *GameStore) DeleteGame(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, id)
}

// GetGameByRoomID returns the newest game registered for a room, or nil if
// none is found. Finished games stay registered until evicted so late
// queries still see the final snapshot.
func (s *GameStore) GetGameByRoomID(roomID uuid.UUID) *GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest *GameState
	for _, g := range s.games {
		if g.RoomID != roomID {
			continue
		}
		if latest == nil || g.CreatedAt.After(latest.CreatedAt) {
			latest = g
		}
	}
	return latest
}
