package store

import (
	"errors"
	"sync"

	"github.com/minaorangina/uno/protocol"
)

var ErrDuplicateIdentity = errors.New("user already exists")

// UserStore records the users who have introduced themselves
type UserStore interface {
	Create(user protocol.UserInfo) (protocol.UserInfo, error)
}

// InMemoryUserStore keys users by their id and name run together
type InMemoryUserStore struct {
	mu    sync.Mutex
	users map[string]protocol.UserInfo
}

// NewInMemoryUserStore constructs an InMemoryUserStore
func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{users: map[string]protocol.UserInfo{}}
}

// Create stores user, rejecting an id and name that have been seen before
func (s *InMemoryUserStore) Create(user protocol.UserInfo) (protocol.UserInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := user.ID + user.Name
	if _, exists := s.users[key]; exists {
		return protocol.UserInfo{}, ErrDuplicateIdentity
	}

	s.users[key] = user
	return user, nil
}
