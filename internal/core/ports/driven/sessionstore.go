package driven

import (
	"context"
	"time"

	"github.com/spindraft-labs/spindraft-cli/internal/core/domain"
)

// SessionRecord is one persisted session: a named document snapshot.
type SessionRecord struct {
	ID        string
	Name      string
	Document  *domain.Document
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SessionStore persists sessions. The session service saves after every
// successful mutation; loading replaces the live document wholesale.
type SessionStore interface {
	// Save stores or updates a session record.
	Save(ctx context.Context, rec *SessionRecord) error

	// Get returns the session with the given ID, or domain.ErrNotFound.
	Get(ctx context.Context, id string) (*SessionRecord, error)

	// List returns all sessions ordered by last update, newest first.
	List(ctx context.Context) ([]SessionRecord, error)

	// Delete removes a session. Deleting an absent ID is not an error.
	Delete(ctx context.Context, id string) error
}
