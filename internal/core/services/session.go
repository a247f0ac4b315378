package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spindraft-labs/spindraft-cli/internal/core/domain"
	"github.com/spindraft-labs/spindraft-cli/internal/core/ports/driven"
	"github.com/spindraft-labs/spindraft-cli/internal/core/ports/driving"
	"github.com/spindraft-labs/spindraft-cli/internal/logger"
)

// Ensure Session implements the interface.
var _ driving.SessionService = (*Session)(nil)

// Session is the single-writer owner of the shared document. Dispatch is
// serialized: the router reads the previous document, computes a new
// one, and the session publishes it atomically. Snapshots handed out are
// deep copies, so no caller can tear a mutation in progress.
type Session struct {
	mu     sync.Mutex
	router *Router
	store  driven.SessionStore

	doc   *domain.Document
	delta domain.MutationDelta

	// id names the persisted record once the session has been saved.
	id   string
	name string
}

// NewSession creates a session service. Store may be nil; the session
// then lives in memory only.
func NewSession(router *Router, store driven.SessionStore) *Session {
	return &Session{
		router: router,
		store:  store,
		delta:  domain.NewDelta(),
	}
}

// Dispatch routes one event and publishes its result.
func (s *Session) Dispatch(ctx context.Context, ev domain.Event) (domain.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	outcome, err := s.router.Reduce(ctx, ev, s.doc)
	if err != nil {
		if domain.IsSkip(err) {
			return domain.NoOp(), nil
		}
		return domain.NoOp(), err
	}

	next, ok := outcome.Doc.Get()
	if !ok {
		return outcome, nil
	}
	s.doc = next
	if delta, ok := outcome.Delta.Get(); ok {
		s.delta = delta
	}

	if s.store != nil && s.id != "" {
		if err := s.persistLocked(ctx); err != nil {
			// Persistence is best effort per event; the in-memory
			// document is already published.
			logger.Warn("session autosave failed: %v", err)
		}
	}

	// Callers get their own copy of the new document.
	outcome.Doc = domain.Update(next.Clone())
	return outcome, nil
}

// Document returns a deep-copy snapshot of the current document.
func (s *Session) Document() *domain.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// Delta returns the delta of the last mutation.
func (s *Session) Delta() domain.MutationDelta {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.delta
}

// Views recomputes every derived view from the current document.
func (s *Session) Views() domain.DerivedViews {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return domain.DerivedViews{}
	}
	return AllViews(s.doc)
}

// Export serialises the current document to its external JSON form.
// Exporting then re-importing reproduces the same document.
func (s *Session) Export() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return nil, domain.ErrNoDocument
	}
	out, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export session: %w", err)
	}
	return out, nil
}

// SaveAs persists the current document under the given name.
func (s *Session) SaveAs(ctx context.Context, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return "", domain.ErrNoDocument
	}
	if s.store == nil {
		return "", fmt.Errorf("save session: no store configured")
	}
	if s.id == "" {
		s.id = uuid.NewString()
	}
	s.name = name
	if err := s.persistLocked(ctx); err != nil {
		return "", err
	}
	return s.id, nil
}

// LoadSession replaces the document with a stored session.
func (s *Session) LoadSession(ctx context.Context, id string) (domain.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store == nil {
		return domain.NoOp(), fmt.Errorf("load session: no store configured")
	}
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return domain.NoOp(), fmt.Errorf("load session %s: %w", id, err)
	}

	s.doc = rec.Document.Clone()
	s.delta = domain.AssembledDelta()
	s.id = rec.ID
	s.name = rec.Name

	outcome := Replace(s.doc)
	outcome.Doc = domain.Update(s.doc.Clone())
	return outcome, nil
}

// Sessions lists stored sessions, newest first.
func (s *Session) Sessions(ctx context.Context) ([]driving.SessionSummary, error) {
	if s.store == nil {
		return nil, nil
	}
	recs, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	out := make([]driving.SessionSummary, 0, len(recs))
	for _, rec := range recs {
		summary := driving.SessionSummary{ID: rec.ID, Name: rec.Name}
		if rec.Document != nil {
			summary.SystemCount = len(rec.Document.SpinSystems)
			summary.MethodCount = len(rec.Document.Methods)
		}
		out = append(out, summary)
	}
	return out, nil
}

// persistLocked writes the current record. Caller holds the lock.
func (s *Session) persistLocked(ctx context.Context) error {
	rec := &driven.SessionRecord{
		ID:        s.id,
		Name:      s.name,
		Document:  s.doc,
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.store.Save(ctx, rec); err != nil {
		return fmt.Errorf("save session %s: %w", s.id, err)
	}
	return nil
}
