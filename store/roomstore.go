package store

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/minaorangina/uno"
	"go.uber.org/zap"
)

var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrCodesExhausted = errors.New("could not generate a unique room code")
)

const (
	codeLength   = 6
	codeAttempts = 100
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// RoomStore keeps track of every room by its code
type RoomStore interface {
	Create(creator uno.Caller) (*uno.Room, error)
	Get(code string) (*uno.Room, error)
	Dissolve(code string) bool
	Len() int
}

// InMemoryRoomStore maps room code to room
type InMemoryRoomStore struct {
	mu       sync.RWMutex
	rooms    map[string]*uno.Room
	generate func() string
	logger   *zap.Logger
}

// NewInMemoryRoomStore constructs an InMemoryRoomStore
func NewInMemoryRoomStore(logger *zap.Logger) *InMemoryRoomStore {
	return NewTestRoomStore(nil, nil, logger)
}

// NewTestRoomStore constructs an InMemoryRoomStore holding rooms,
// using generate to make new room codes
func NewTestRoomStore(rooms map[string]*uno.Room, generate func() string, logger *zap.Logger) *InMemoryRoomStore {
	if rooms == nil {
		rooms = map[string]*uno.Room{}
	}
	if generate == nil {
		generate = RandomCode
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &InMemoryRoomStore{
		rooms:    rooms,
		generate: generate,
		logger:   logger,
	}
}

// RandomCode returns a random six character alphanumeric code
func RandomCode() string {
	b := make([]byte, codeLength)
	for i := range b {
		b[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
	}
	return string(b)
}

// Create makes a waiting room whose only member is creator,
// under a code no other room is using
func (s *InMemoryRoomStore) Create(creator uno.Caller) (*uno.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := 0; i < codeAttempts; i++ {
		code := s.generate()
		if _, exists := s.rooms[code]; exists {
			continue
		}

		room := uno.NewRoom(code, creator, s.logger)
		s.rooms[code] = room
		s.logger.Info("room created", zap.String("room", code), zap.String("creator", creator.ID))

		return room, nil
	}

	return nil, ErrCodesExhausted
}

// Get finds a room by its code
func (s *InMemoryRoomStore) Get(code string) (*uno.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[code]
	if !ok {
		return nil, ErrRoomNotFound
	}

	return room, nil
}

// Dissolve tells the room's players it is gone and forgets it.
// It reports whether there was a room to dissolve.
func (s *InMemoryRoomStore) Dissolve(code string) bool {
	s.mu.Lock()
	room, ok := s.rooms[code]
	delete(s.rooms, code)
	s.mu.Unlock()

	if !ok {
		return false
	}

	room.Dissolve()
	return true
}

// Len returns the number of rooms
func (s *InMemoryRoomStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.rooms)
}

// Prune forgets every room that ended at least ttl before now,
// returning how many were removed
func (s *InMemoryRoomStore) Prune(now time.Time, ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for code, room := range s.rooms {
		if room.Expired(now, ttl) {
			delete(s.rooms, code)
			removed++
		}
	}

	return removed
}

// Sweep prunes ended rooms every interval until ctx is done
func (s *InMemoryRoomStore) Sweep(ctx context.Context, ttl, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := s.Prune(now, ttl); n > 0 {
				s.logger.Info("pruned ended rooms", zap.Int("count", n), zap.Int("remaining", s.Len()))
			}
		}
	}
}
