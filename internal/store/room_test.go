package store

import (
	"math/rand"
	"testing"
	"time"
)

func TestCreateRoom_CodeShape(t *testing.T) {
	s := NewRoomStore(rand.New(rand.NewSource(1)))
	room, err := s.CreateRoom()
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	if len(room.Code) != 6 {
		t.Errorf("code length = %d, want 6", len(room.Code))
	}
	for _, c := range room.Code {
		switch c {
		case '0', 'O', 'I', '1', 'L':
			t.Errorf("code %s contains confusing character %c", room.Code, c)
		}
	}
}

func TestCreateRoom_UniqueCodes(t *testing.T) {
	s := NewRoomStore(rand.New(rand.NewSource(2)))
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		room, err := s.CreateRoom()
		if err != nil {
			t.Fatalf("CreateRoom #%d: %v", i, err)
		}
		if seen[room.Code] {
			t.Fatalf("duplicate code %s", room.Code)
		}
		seen[room.Code] = true
	}
	if s.Count() != 200 {
		t.Errorf("count = %d, want 200", s.Count())
	}
}

func TestGetRoom_CaseInsensitive(t *testing.T) {
	s := NewRoomStore(rand.New(rand.NewSource(3)))
	room, _ := s.CreateRoom()
	lower := " " + room.Code + " "
	if _, ok := s.GetRoom(lower); !ok {
		t.Errorf("lookup with padding failed for %q", lower)
	}
	if _, ok := s.GetRoom("ZZZZZZ"); ok {
		t.Error("lookup of unknown code succeeded")
	}
}

func TestDeleteRoom(t *testing.T) {
	s := NewRoomStore(rand.New(rand.NewSource(4)))
	room, _ := s.CreateRoom()
	s.DeleteRoom(room.Code)
	if _, ok := s.GetRoom(room.Code); ok {
		t.Error("room still present after delete")
	}
}

func TestIdleCodes(t *testing.T) {
	s := NewRoomStore(rand.New(rand.NewSource(5)))
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }
	stale, _ := s.CreateRoom()

	s.now = func() time.Time { return base.Add(2 * time.Hour) }
	fresh, _ := s.CreateRoom()

	idle := s.IdleCodes(time.Hour)
	if len(idle) != 1 || idle[0] != stale.Code {
		t.Errorf("idle = %v, want [%s]", idle, stale.Code)
	}

	s.Touch(stale.Code)
	if got := s.IdleCodes(time.Hour); len(got) != 0 {
		t.Errorf("idle after touch = %v, want none", got)
	}
	_ = fresh
}
