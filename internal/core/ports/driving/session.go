package driving

import (
	"context"

	"github.com/spindraft-labs/spindraft-cli/internal/core/domain"
)

// SessionService owns the shared session document. Dispatch is the only
// way to change it: one event in, one atomically published outcome out.
type SessionService interface {
	// Dispatch routes one event. Events that deliberately change nothing
	// return a no-op outcome and a nil error; caught import failures
	// return an outcome with a user-visible Message and an unchanged
	// document.
	Dispatch(ctx context.Context, ev domain.Event) (domain.Outcome, error)

	// Document returns a deep-copy snapshot of the current document, or
	// nil when none is loaded.
	Document() *domain.Document

	// Delta returns the delta of the last mutation.
	Delta() domain.MutationDelta

	// Views returns the current rendering of every derived view,
	// recomputed in full.
	Views() domain.DerivedViews

	// Export serialises the current document to its external JSON form.
	Export() ([]byte, error)

	// SaveAs persists the current document under the given session name
	// and returns the session ID.
	SaveAs(ctx context.Context, name string) (string, error)

	// LoadSession replaces the document with a stored session.
	LoadSession(ctx context.Context, id string) (domain.Outcome, error)

	// Sessions lists stored sessions, newest first.
	Sessions(ctx context.Context) ([]SessionSummary, error)
}

// SessionSummary is one stored session in a listing.
type SessionSummary struct {
	ID          string
	Name        string
	SystemCount int
	MethodCount int
}
