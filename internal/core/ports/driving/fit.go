package driving

import (
	"context"

	"github.com/spindraft-labs/spindraft-cli/internal/core/domain"
)

// FitService manages the fit-parameter table derived from the current
// document: a parallel, independently keyed session the user edits
// per-row before handing the whole set to the external fitter.
type FitService interface {
	// Rebuild derives a fresh parameter set from the current document,
	// discarding row edits.
	Rebuild(ctx context.Context) (*domain.FitParameterSet, error)

	// Current returns the active set, building it first if needed.
	Current(ctx context.Context) (*domain.FitParameterSet, error)

	// Rows returns the display rows of the active set.
	Rows(ctx context.Context) ([]domain.ParamRow, error)

	// Groups partitions the active set for display.
	Groups(ctx context.Context) (sys, mth []domain.ParamGroup, err error)

	// SetRow replaces one parameter's editable values.
	SetRow(name string, p domain.Parameter) error

	// Remove deletes one parameter from the active set.
	Remove(name string) error

	// Serialize renders the active set in the fitter wire form.
	Serialize(ctx context.Context) ([]byte, error)

	// Fit runs the external fitter and replaces the active set with the
	// fitted result, returning the fit report.
	Fit(ctx context.Context) (string, error)
}
