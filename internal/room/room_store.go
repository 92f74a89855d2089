// internal/room/room_store.go
package room

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mtran/switchstack/internal/engine"
	"github.com/mtran/switchstack/internal/models"
)

// PersistFn is invoked after every room mutation with a copy of the room.
// Typically wired to database.UpsertRoom. A nil PersistFn disables
// write-through, which the tests rely on.
type PersistFn func(ctx context.Context, room *models.Room) error

// Store manages active rooms in memory. It provides thread-safe access
// to create, join, leave, and list rooms, and satisfies the engine's
// roster interface so the engine can look up player order and push
// status transitions back without knowing about storage.
type Store struct {
	mu      sync.Mutex
	rooms   map[uuid.UUID]*models.Room
	log     *logrus.Logger
	Persist PersistFn
}

var _ engine.Roster = (*Store)(nil)

// NewStore initializes and returns an empty Store.
func NewStore(log *logrus.Logger) *Store {
	if log == nil {
		log = logrus.New()
	}
	return &Store{
		rooms: make(map[uuid.UUID]*models.Room),
		log:   log,
	}
}

// CreateRoom registers a new room hosted by hostID. The host is seated
// immediately. minPlayers and maxPlayers of zero fall back to 2 and 7;
// seven is the most a single deck can deal a full hand to.
func (s *Store) CreateRoom(ctx context.Context, hostID uuid.UUID, name string, minPlayers, maxPlayers int, private bool) (*models.Room, error) {
	if minPlayers <= 0 {
		minPlayers = 2
	}
	if maxPlayers <= 0 || maxPlayers > 7 {
		maxPlayers = 7
	}
	if minPlayers > maxPlayers {
		return nil, engine.ErrInvalidRoomConfig
	}

	r := &models.Room{
		ID:         uuid.New(),
		Name:       name,
		HostID:     hostID,
		MinPlayers: minPlayers,
		MaxPlayers: maxPlayers,
		Status:     models.RoomStatusWaiting,
		PlayerIDs:  []uuid.UUID{hostID},
		IsPrivate:  private,
		CreatedAt:  time.Now(),
	}

	s.mu.Lock()
	s.rooms[r.ID] = r
	snap := cloneRoom(r)
	s.mu.Unlock()

	s.persist(ctx, snap)
	return snap, nil
}

// JoinRoom seats playerID in the room. Joining a room you are already
// seated in is a no-op so reconnecting clients can call it freely.
func (s *Store) JoinRoom(ctx context.Context, roomID, playerID uuid.UUID) (*models.Room, error) {
	s.mu.Lock()
	r, ok := s.rooms[roomID]
	if !ok {
		s.mu.Unlock()
		return nil, engine.ErrRoomNotFound
	}
	if r.Status != models.RoomStatusWaiting {
		s.mu.Unlock()
		return nil, engine.ErrRoomNotJoinable
	}
	for _, id := range r.PlayerIDs {
		if id == playerID {
			snap := cloneRoom(r)
			s.mu.Unlock()
			return snap, nil
		}
	}
	if len(r.PlayerIDs) >= r.MaxPlayers {
		s.mu.Unlock()
		return nil, engine.ErrRoomFull
	}
	r.PlayerIDs = append(r.PlayerIDs, playerID)
	snap := cloneRoom(r)
	s.mu.Unlock()

	s.persist(ctx, snap)
	return snap, nil
}

// LeaveRoom unseats playerID. If the host leaves a waiting room, the
// next seated player inherits the host seat; an emptied waiting room is
// cancelled and removed from the store. Rooms already in progress keep
// their seats, the game layer decides what a disconnect means there.
func (s *Store) LeaveRoom(ctx context.Context, roomID, playerID uuid.UUID) error {
	s.mu.Lock()
	r, ok := s.rooms[roomID]
	if !ok {
		s.mu.Unlock()
		return engine.ErrRoomNotFound
	}
	if r.Status != models.RoomStatusWaiting {
		s.mu.Unlock()
		return nil
	}

	idx := -1
	for i, id := range r.PlayerIDs {
		if id == playerID {
			idx = i
			break
		}
	}
	if idx == -1 {
		s.mu.Unlock()
		return nil
	}
	r.PlayerIDs = append(r.PlayerIDs[:idx], r.PlayerIDs[idx+1:]...)

	if len(r.PlayerIDs) == 0 {
		r.Status = models.RoomStatusCancelled
		delete(s.rooms, r.ID)
		snap := cloneRoom(r)
		s.mu.Unlock()
		s.log.Infof("room %s emptied, cancelled", roomID)
		s.persist(ctx, snap)
		return nil
	}
	if r.HostID == playerID {
		r.HostID = r.PlayerIDs[0]
	}
	snap := cloneRoom(r)
	s.mu.Unlock()

	s.persist(ctx, snap)
	return nil
}

// Room returns a copy of the room, or nil if it is not in the store.
func (s *Store) Room(ctx context.Context, roomID uuid.UUID) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[roomID]
	if !ok {
		return nil, nil
	}
	return cloneRoom(r), nil
}

// SetStatus transitions the room's lifecycle status. Called by the
// engine when a game starts or finishes.
func (s *Store) SetStatus(ctx context.Context, roomID uuid.UUID, status models.RoomStatus) error {
	s.mu.Lock()
	r, ok := s.rooms[roomID]
	if !ok {
		s.mu.Unlock()
		return engine.ErrRoomNotFound
	}
	r.Status = status
	snap := cloneRoom(r)
	s.mu.Unlock()

	s.persist(ctx, snap)
	return nil
}

// ListOpen returns copies of every public room still waiting for players.
func (s *Store) ListOpen(ctx context.Context) []*models.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		if r.Status == models.RoomStatusWaiting && !r.IsPrivate {
			out = append(out, cloneRoom(r))
		}
	}
	return out
}

func (s *Store) persist(ctx context.Context, r *models.Room) {
	if s.Persist == nil {
		return
	}
	if err := s.Persist(ctx, r); err != nil {
		s.log.Warnf("failed to persist room %s: %v", r.ID, err)
	}
}

func cloneRoom(r *models.Room) *models.Room {
	cp := *r
	cp.PlayerIDs = append([]uuid.UUID(nil), r.PlayerIDs...)
	return &cp
}
