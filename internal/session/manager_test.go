package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vntrieu/deception/internal/games"
	"github.com/vntrieu/deception/internal/store"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	return NewManager(store.NewRoomStore(nil), games.DefaultConfig(), NopNotifier{}, Options{})
}

func TestManager_CreateAndLookup(t *testing.T) {
	m := newTestManager(t)
	room, runner, err := m.CreateRoom()
	require.NoError(t, err)
	require.NotNil(t, runner)
	t.Cleanup(runner.Close)

	got, ok := m.Runner(room.Code)
	require.True(t, ok)
	assert.Same(t, runner, got)

	// Lookup is case-insensitive, matching typed-in codes.
	_, ok = m.Runner(" " + room.Code + " ")
	assert.True(t, ok)

	_, ok = m.Runner("ZZZZZZ")
	assert.False(t, ok)
}

func TestManager_CloseRoomTearsDown(t *testing.T) {
	m := newTestManager(t)
	room, runner, err := m.CreateRoom()
	require.NoError(t, err)

	m.CloseRoom(room.Code)
	_, ok := m.Runner(room.Code)
	assert.False(t, ok)
	_, err = runner.Do(context.Background(), "p1", games.ActionJoin, map[string]interface{}{"name": "One"})
	assert.Error(t, err)
}

func TestManager_RoomClosesWhenLastPlayerLeaves(t *testing.T) {
	m := newTestManager(t)
	room, runner, err := m.CreateRoom()
	require.NoError(t, err)

	ctx := context.Background()
	_, err = runner.Do(ctx, "p1", games.ActionJoin, map[string]interface{}{"name": "One"})
	require.NoError(t, err)
	_, err = runner.Do(ctx, "p1", games.ActionLeave, nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		_, ok := m.Runner(room.Code)
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestManager_JanitorPrunesIdleRooms(t *testing.T) {
	m := newTestManager(t)
	room, _, err := m.CreateRoom()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.StartJanitor(ctx, 10*time.Millisecond, 50*time.Millisecond)

	require.Eventually(t, func() bool {
		_, ok := m.Runner(room.Code)
		return !ok
	}, time.Second, 10*time.Millisecond)
}
