package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/spindraft-labs/spindraft-cli/internal/core/domain"
	"github.com/spindraft-labs/spindraft-cli/internal/core/ports/driven"
	"github.com/spindraft-labs/spindraft-cli/internal/core/ports/driving"
	"github.com/spindraft-labs/spindraft-cli/internal/logger"
)

var _ driving.FitService = (*FitSession)(nil)

// defaultInclude selects the optional attribute families seeded into
// every derived parameter set.
var defaultInclude = map[string]bool{"rotor_frequency": true}

// FitSession manages the fit-parameter table. The set is derived from
// the document on demand and then edited independently; the document is
// never touched until the fitter result comes back.
type FitSession struct {
	mu      sync.Mutex
	session driving.SessionService
	builder driven.ParamBuilder
	runner  driven.FitRunner

	current *domain.FitParameterSet
}

// NewFitSession creates the service. Runner may be nil when no external
// fitter is configured; Fit then reports ErrFitterUnavailable.
func NewFitSession(session driving.SessionService, builder driven.ParamBuilder, runner driven.FitRunner) *FitSession {
	return &FitSession{session: session, builder: builder, runner: runner}
}

// Rebuild derives a fresh set from the current document, discarding any
// row edits.
func (f *FitSession) Rebuild(ctx context.Context) (*domain.FitParameterSet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rebuildLocked(ctx)
}

// Current returns the active set, building it first if needed.
func (f *FitSession) Current(ctx context.Context) (*domain.FitParameterSet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.current != nil {
		return f.current, nil
	}
	return f.rebuildLocked(ctx)
}

// Rows returns the display rows of the active set.
func (f *FitSession) Rows(ctx context.Context) ([]domain.ParamRow, error) {
	set, err := f.Current(ctx)
	if err != nil {
		return nil, err
	}
	return set.FlatRows(), nil
}

// Groups partitions the active set for display.
func (f *FitSession) Groups(ctx context.Context) (sys, mth []domain.ParamGroup, err error) {
	set, err := f.Current(ctx)
	if err != nil {
		return nil, nil, err
	}
	sys, mth = set.Group()
	return sys, mth, nil
}

// SetRow replaces one parameter's editable values.
func (f *FitSession) SetRow(name string, p domain.Parameter) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.current == nil {
		return domain.ErrNotFound
	}
	if _, ok := f.current.Get(name); !ok {
		return fmt.Errorf("parameter %q: %w", name, domain.ErrNotFound)
	}
	f.current.Set(name, p)
	return nil
}

// Remove deletes one parameter from the active set.
func (f *FitSession) Remove(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.current == nil {
		return fmt.Errorf("parameter %q: %w", name, domain.ErrNotFound)
	}
	return f.current.Remove(name)
}

// Serialize renders the active set in the fitter wire form.
func (f *FitSession) Serialize(ctx context.Context) ([]byte, error) {
	set, err := f.Current(ctx)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out, err := json.Marshal(set)
	if err != nil {
		return nil, fmt.Errorf("serialize parameters: %w", err)
	}
	return out, nil
}

// Fit runs the external fitter and replaces the active set with the
// fitted result.
func (f *FitSession) Fit(ctx context.Context) (string, error) {
	if f.runner == nil {
		return "", domain.ErrFitterUnavailable
	}
	set, err := f.Current(ctx)
	if err != nil {
		return "", err
	}
	doc := f.session.Document()
	if doc == nil {
		return "", domain.ErrNoDocument
	}

	fitted, report, err := f.runner.Run(ctx, doc, set)
	if err != nil {
		return "", fmt.Errorf("run fit: %w", err)
	}
	logger.Debug("fit finished with %d parameters", fitted.Len())

	f.mu.Lock()
	f.current = fitted
	f.mu.Unlock()
	return report, nil
}

// rebuildLocked derives the set from the current document. Caller holds
// the lock.
func (f *FitSession) rebuildLocked(_ context.Context) (*domain.FitParameterSet, error) {
	doc := f.session.Document()
	if doc == nil {
		return nil, domain.ErrNoDocument
	}
	if f.builder == nil {
		return nil, domain.ErrFitterUnavailable
	}
	set, err := f.builder.Build(doc, defaultInclude)
	if err != nil {
		return nil, fmt.Errorf("build parameters: %w", err)
	}
	f.current = set
	return set, nil
}
