package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/vntrieu/deception/internal/games"
	"github.com/vntrieu/deception/internal/store"
)

// Manager owns the room registry and one runner per live room.
type Manager struct {
	store    *store.RoomStore
	cfg      games.RulesConfig
	notifier Notifier
	opts     Options
	log      *zap.Logger

	mu      sync.Mutex
	runners map[string]*Runner
}

// NewManager wires a manager over the given registry.
func NewManager(st *store.RoomStore, cfg games.RulesConfig, notifier Notifier, opts Options) *Manager {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		store:    st,
		cfg:      cfg,
		notifier: notifier,
		opts:     opts,
		log:      log,
		runners:  make(map[string]*Runner),
	}
}

// CreateRoom allocates a room and starts its runner.
func (m *Manager) CreateRoom() (*store.Room, *Runner, error) {
	room, err := m.store.CreateRoom()
	if err != nil {
		return nil, nil, fmt.Errorf("create room: %w", err)
	}
	engine := games.NewEngine(m.cfg, nil)
	runner := NewRunner(room.Code, engine, m.notifier, m.opts, m.closeRoom, m.store.Touch)
	m.mu.Lock()
	m.runners[room.Code] = runner
	m.mu.Unlock()
	m.log.Info("room created", zap.String("room", room.Code))
	return room, runner, nil
}

// Runner returns the runner for a room code.
func (m *Manager) Runner(code string) (*Runner, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.runners[store.NormalizeCode(code)]
	return r, ok
}

// closeRoom tears a room down: runner stopped, registry entry gone.
func (m *Manager) closeRoom(code string) {
	m.mu.Lock()
	r, ok := m.runners[code]
	delete(m.runners, code)
	m.mu.Unlock()
	if !ok {
		return
	}
	r.Close()
	m.store.DeleteRoom(code)
	m.log.Info("room closed", zap.String("room", code))
}

// CloseRoom closes a room by code.
func (m *Manager) CloseRoom(code string) {
	m.closeRoom(store.NormalizeCode(code))
}

// StartJanitor prunes idle rooms until ctx is canceled.
func (m *Manager) StartJanitor(ctx context.Context, sweep, maxIdle time.Duration) {
	go func() {
		ticker := time.NewTicker(sweep)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				for _, code := range m.store.IdleCodes(maxIdle) {
					m.log.Info("pruning idle room", zap.String("room", code))
					m.closeRoom(code)
				}
			}
		}
	}()
}
