// Package memory provides in-memory implementations of driven port
// interfaces, used for tests and for sessions that are never saved.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/spindraft-labs/spindraft-cli/internal/core/domain"
	"github.com/spindraft-labs/spindraft-cli/internal/core/ports/driven"
)

// Ensure SessionStore implements the interface.
var _ driven.SessionStore = (*SessionStore)(nil)

// SessionStore is an in-memory implementation of driven.SessionStore.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]driven.SessionRecord
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]driven.SessionRecord)}
}

// Save stores or updates a session record.
func (s *SessionStore) Save(_ context.Context, rec *driven.SessionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	stored := *rec
	stored.Document = rec.Document.Clone()
	s.sessions[rec.ID] = stored
	return nil
}

// Get retrieves a session by ID.
func (s *SessionStore) Get(_ context.Context, id string) (*driven.SessionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := rec
	out.Document = rec.Document.Clone()
	return &out, nil
}

// List returns all sessions ordered by last update, newest first.
func (s *SessionStore) List(_ context.Context) ([]driven.SessionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]driven.SessionRecord, 0, len(s.sessions))
	for _, rec := range s.sessions {
		copied := rec
		copied.Document = rec.Document.Clone()
		out = append(out, copied)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

// Delete removes a session. Deleting an absent ID is not an error.
func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}
