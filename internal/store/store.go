// Package store provides storage backends for healthbot user state.
//
// It includes an in-memory store with no durability guarantee and persistent
// PostgreSQL and SQLite stores selected by DSN.
package store

import (
	"strings"
	"sync"

	"github.com/leadfirst/healthbot/internal/models"
)

// Store is the per-user state persistence contract. GetUserState returns
// (nil, nil) when no record exists for the identifier.
type Store interface {
	GetUserState(userID string) (*models.UserState, error)
	SaveUserState(state models.UserState) error
	DeleteUserState(userID string) error
	Close() error
}

// Opts holds configuration options for store backends.
type Opts struct {
	DSN string // database connection string or SQLite file path
}

// Option defines a configuration option for store backends.
type Option func(*Opts)

// WithDSN sets the database connection string.
func WithDSN(dsn string) Option {
	return func(o *Opts) {
		o.DSN = dsn
	}
}

// NewStore selects a backend from the DSN: empty selects the volatile
// in-memory store, a postgres-looking DSN selects Postgres, anything else is
// treated as a SQLite file path.
func NewStore(dsn string) (Store, error) {
	if dsn == "" {
		return NewInMemoryStore(), nil
	}
	if strings.HasPrefix(dsn, "postgres://") || strings.Contains(dsn, "host=") {
		return NewPostgresStore(WithDSN(dsn))
	}
	return NewSQLiteStore(WithDSN(dsn))
}

// InMemoryStore keeps user state in a process-local map. Contents are lost on
// restart; it exists for development and for deployments without a database.
type InMemoryStore struct {
	mu    sync.RWMutex
	users map[string]models.UserState
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{users: make(map[string]models.UserState)}
}

func (s *InMemoryStore) GetUserState(userID string) (*models.UserState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.users[userID]
	if !ok {
		return nil, nil
	}
	return &state, nil
}

func (s *InMemoryStore) SaveUserState(state models.UserState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[state.UserID] = state
	return nil
}

func (s *InMemoryStore) DeleteUserState(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, userID)
	return nil
}

// Close is a no-op for the in-memory store.
func (s *InMemoryStore) Close() error {
	return nil
}
