package preference

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// VisitorCookie identifies a visitor to a Repository.
const VisitorCookie = "visitor_id"

const visitorMaxAge = 365 * 24 * time.Hour

// RepositoryBinder keeps zipcodes in a Repository keyed by a visitor id
// cookie, issuing a new id to first-time visitors.
type RepositoryBinder struct {
	repo   Repository
	logger *slog.Logger
	secure bool
}

// NewRepositoryBinder creates a Binder over repo.
func NewRepositoryBinder(repo Repository, secure bool, logger *slog.Logger) *RepositoryBinder {
	return &RepositoryBinder{repo: repo, logger: logger, secure: secure}
}

// Bind implements Binder.
func (b *RepositoryBinder) Bind(w http.ResponseWriter, r *http.Request) Store {
	id := ""
	if c, err := r.Cookie(VisitorCookie); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			id = c.Value
		}
	}
	if id == "" {
		id = uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     VisitorCookie,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			Secure:   b.secure,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   int(visitorMaxAge / time.Second),
		})
	}
	return &RepositoryStore{repo: b.repo, visitorID: id, logger: b.logger}
}

// RepositoryStore is a Store for one visitor backed by a Repository.
type RepositoryStore struct {
	repo      Repository
	visitorID string
	logger    *slog.Logger
}

func (s *RepositoryStore) Get(ctx context.Context) (string, bool) {
	zip, ok, err := s.repo.Load(ctx, s.visitorID)
	if err != nil {
		s.logger.Warn("preference read failed, treating as unset", "visitor", s.visitorID, "error", err)
		return "", false
	}
	return zip, ok && zip != ""
}

func (s *RepositoryStore) Set(ctx context.Context, value string) error {
	if value == "" {
		if err := s.repo.Delete(ctx, s.visitorID); err != nil {
			return fmt.Errorf("delete preference: %w", err)
		}
		return nil
	}
	if err := s.repo.Save(ctx, s.visitorID, value); err != nil {
		return fmt.Errorf("save preference: %w", err)
	}
	return nil
}

// MemoryRepository is a process-local Repository.
type MemoryRepository struct {
	mu    sync.RWMutex
	prefs map[string]string
}

// NewMemoryRepository creates an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{prefs: make(map[string]string)}
}

func (m *MemoryRepository) Load(_ context.Context, visitorID string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	zip, ok := m.prefs[visitorID]
	return zip, ok, nil
}

func (m *MemoryRepository) Save(_ context.Context, visitorID, zipcode string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefs[visitorID] = zipcode
	return nil
}

func (m *MemoryRepository) Delete(_ context.Context, visitorID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.prefs, visitorID)
	return nil
}
