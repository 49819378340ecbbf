package store

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"
)

// Room is the registry record for one live room. Game state itself lives in
// the room's session runner; the store only tracks existence and liveness.
type Room struct {
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RoomStore is an in-memory room registry. All rooms die with the process;
// there is nothing worth keeping once the table has gone home.
type RoomStore struct {
	mu    sync.RWMutex
	rooms map[string]*Room
	rng   *rand.Rand
	now   func() time.Time
}

// NewRoomStore creates an empty registry. A nil rng gets a time-seeded one.
func NewRoomStore(rng *rand.Rand) *RoomStore {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &RoomStore{
		rooms: make(map[string]*Room),
		rng:   rng,
		now:   time.Now,
	}
}

// NormalizeCode uppercases a user-typed room code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// generateRoomCode generates a human-readable room code.
func (s *RoomStore) generateRoomCode() string {
	const charset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789" // Exclude confusing chars like 0, O, I, 1
	const codeLength = 6
	code := make([]byte, codeLength)
	for i := range code {
		code[i] = charset[s.rng.Intn(len(charset))]
	}
	return string(code)
}

// CreateRoom allocates a room under a fresh unique code.
func (s *RoomStore) CreateRoom() (*Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for attempt := 0; attempt < 100; attempt++ {
		code := s.generateRoomCode()
		if _, exists := s.rooms[code]; exists {
			continue
		}
		now := s.now()
		room := &Room{Code: code, CreatedAt: now, UpdatedAt: now}
		s.rooms[code] = room
		return room, nil
	}
	return nil, fmt.Errorf("could not allocate a unique room code")
}

// GetRoom looks up a room by code (case-insensitive).
func (s *RoomStore) GetRoom(code string) (*Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[NormalizeCode(code)]
	return room, ok
}

// Touch records activity on a room so idle pruning leaves it alone.
func (s *RoomStore) Touch(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if room, ok := s.rooms[NormalizeCode(code)]; ok {
		room.UpdatedAt = s.now()
	}
}

// DeleteRoom removes a room from the registry.
func (s *RoomStore) DeleteRoom(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, NormalizeCode(code))
}

// Count returns the number of live rooms.
func (s *RoomStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}

// IdleCodes returns rooms untouched for longer than maxIdle.
func (s *RoomStore) IdleCodes(maxIdle time.Duration) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cutoff := s.now().Add(-maxIdle)
	var codes []string
	for code, room := range s.rooms {
		if room.UpdatedAt.Before(cutoff) {
			codes = append(codes, code)
		}
	}
	return codes
}
