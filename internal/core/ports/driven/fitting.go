package driven

import (
	"context"

	"github.com/spindraft-labs/spindraft-cli/internal/core/domain"
)

// ParamBuilder seeds a fit-parameter set from a document. It is the
// boundary to the spin-physics library's parameter enumeration; the core
// treats it as a black box. Include selects optional attribute families
// by name, e.g. "rotor_frequency".
type ParamBuilder interface {
	Build(doc *domain.Document, include map[string]bool) (*domain.FitParameterSet, error)
}

// FitRunner executes one nonlinear least-squares fit against the
// document's attached experiments. It consumes and produces the
// parameter set's serialized form and returns a human-readable report.
type FitRunner interface {
	Run(ctx context.Context, doc *domain.Document, params *domain.FitParameterSet) (*domain.FitParameterSet, string, error)
}
