package session

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Store keeps the most recently used sessions in memory.
type Store struct {
	cache *lru.Cache[string, *Session]
}

// NewStore creates a store holding at most maxSessions sessions. The least
// recently used session is evicted once the store is full.
func NewStore(maxSessions int, logger *slog.Logger) (*Store, error) {
	cache, err := lru.NewWithEvict(maxSessions, func(id string, _ *Session) {
		logger.Debug("session evicted", "session", id)
	})
	if err != nil {
		return nil, fmt.Errorf("create session cache: %w", err)
	}
	return &Store{cache: cache}, nil
}

// Get returns the session with the given id and marks it recently used.
func (s *Store) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}
	return s.cache.Get(id)
}

// New creates and stores a session with a fresh random id.
func (s *Store) New() *Session {
	sess := &Session{ID: uuid.NewString()}
	s.cache.Add(sess.ID, sess)
	return sess
}

// GetOrNew returns the session for id, creating one when it is unknown or
// was evicted. The second result is true when a session was created.
func (s *Store) GetOrNew(id string) (*Session, bool) {
	if sess, ok := s.Get(id); ok {
		return sess, false
	}
	return s.New(), true
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	return s.cache.Len()
}
