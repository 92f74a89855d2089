// internal/room/room_store_test.go
package room

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtran/switchstack/internal/engine"
	"github.com/mtran/switchstack/internal/models"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestCreateRoomDefaults(t *testing.T) {
	s := NewStore(quietLogger())
	host := uuid.New()

	r, err := s.CreateRoom(context.Background(), host, "friday night", 0, 0, false)
	require.NoError(t, err)

	assert.Equal(t, host, r.HostID)
	assert.Equal(t, 2, r.MinPlayers)
	assert.Equal(t, 7, r.MaxPlayers)
	assert.Equal(t, models.RoomStatusWaiting, r.Status)
	assert.Equal(t, []uuid.UUID{host}, r.PlayerIDs)
}

func TestCreateRoomInvalidConfig(t *testing.T) {
	s := NewStore(quietLogger())
	_, err := s.CreateRoom(context.Background(), uuid.New(), "bad", 5, 3, false)
	assert.ErrorIs(t, err, engine.ErrInvalidRoomConfig)
}

func TestJoinRoom(t *testing.T) {
	s := NewStore(quietLogger())
	host := uuid.New()
	r, err := s.CreateRoom(context.Background(), host, "", 2, 4, false)
	require.NoError(t, err)

	p2 := uuid.New()
	got, err := s.JoinRoom(context.Background(), r.ID, p2)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{host, p2}, got.PlayerIDs)

	// joining twice is a no-op
	got, err = s.JoinRoom(context.Background(), r.ID, p2)
	require.NoError(t, err)
	assert.Len(t, got.PlayerIDs, 2)
}

func TestJoinRoomFull(t *testing.T) {
	s := NewStore(quietLogger())
	r, err := s.CreateRoom(context.Background(), uuid.New(), "", 2, 2, false)
	require.NoError(t, err)

	_, err = s.JoinRoom(context.Background(), r.ID, uuid.New())
	require.NoError(t, err)

	_, err = s.JoinRoom(context.Background(), r.ID, uuid.New())
	assert.ErrorIs(t, err, engine.ErrRoomFull)
}

func TestJoinRoomNotWaiting(t *testing.T) {
	s := NewStore(quietLogger())
	r, err := s.CreateRoom(context.Background(), uuid.New(), "", 2, 4, false)
	require.NoError(t, err)

	require.NoError(t, s.SetStatus(context.Background(), r.ID, models.RoomStatusInProgress))

	_, err = s.JoinRoom(context.Background(), r.ID, uuid.New())
	assert.ErrorIs(t, err, engine.ErrRoomNotJoinable)
}

func TestJoinRoomNotFound(t *testing.T) {
	s := NewStore(quietLogger())
	_, err := s.JoinRoom(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, engine.ErrRoomNotFound)
}

func TestLeaveRoomReassignsHost(t *testing.T) {
	s := NewStore(quietLogger())
	host := uuid.New()
	r, err := s.CreateRoom(context.Background(), host, "", 2, 4, false)
	require.NoError(t, err)

	p2 := uuid.New()
	_, err = s.JoinRoom(context.Background(), r.ID, p2)
	require.NoError(t, err)

	require.NoError(t, s.LeaveRoom(context.Background(), r.ID, host))

	got, err := s.Room(context.Background(), r.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, p2, got.HostID)
	assert.Equal(t, []uuid.UUID{p2}, got.PlayerIDs)
}

func TestLeaveRoomLastPlayerCancels(t *testing.T) {
	s := NewStore(quietLogger())
	host := uuid.New()
	r, err := s.CreateRoom(context.Background(), host, "", 2, 4, false)
	require.NoError(t, err)

	require.NoError(t, s.LeaveRoom(context.Background(), r.ID, host))

	got, err := s.Room(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListOpenSkipsPrivateAndStarted(t *testing.T) {
	s := NewStore(quietLogger())
	ctx := context.Background()

	open, err := s.CreateRoom(ctx, uuid.New(), "open", 2, 4, false)
	require.NoError(t, err)
	_, err = s.CreateRoom(ctx, uuid.New(), "hidden", 2, 4, true)
	require.NoError(t, err)
	started, err := s.CreateRoom(ctx, uuid.New(), "started", 2, 4, false)
	require.NoError(t, err)
	require.NoError(t, s.SetStatus(ctx, started.ID, models.RoomStatusInProgress))

	list := s.ListOpen(ctx)
	require.Len(t, list, 1)
	assert.Equal(t, open.ID, list[0].ID)
}

func TestPersistCallbackFires(t *testing.T) {
	s := NewStore(quietLogger())

	var mu sync.Mutex
	var statuses []models.RoomStatus
	s.Persist = func(ctx context.Context, r *models.Room) error {
		mu.Lock()
		defer mu.Unlock()
		statuses = append(statuses, r.Status)
		return nil
	}

	r, err := s.CreateRoom(context.Background(), uuid.New(), "", 2, 4, false)
	require.NoError(t, err)
	require.NoError(t, s.SetStatus(context.Background(), r.ID, models.RoomStatusInProgress))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, statuses, 2)
	assert.Equal(t, models.RoomStatusWaiting, statuses[0])
	assert.Equal(t, models.RoomStatusInProgress, statuses[1])
}

func TestRoomReturnsCopy(t *testing.T) {
	s := NewStore(quietLogger())
	r, err := s.CreateRoom(context.Background(), uuid.New(), "", 2, 4, false)
	require.NoError(t, err)

	got, err := s.Room(context.Background(), r.ID)
	require.NoError(t, err)
	got.PlayerIDs[0] = uuid.New()
	got.Status = models.RoomStatusFinished

	again, err := s.Room(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoomStatusWaiting, again.Status)
	assert.NotEqual(t, got.PlayerIDs[0], again.PlayerIDs[0])
}
