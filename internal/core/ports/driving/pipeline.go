package driving

import "github.com/spindraft-labs/spindraft-cli/internal/core/domain"

// PipelineAssembler builds a method's signal processor from the
// operation widgets currently on screen.
type PipelineAssembler interface {
	// Assemble wraps the widget operations with the transform-in /
	// transform-out pair spanning every spectral dimension of the method
	// at methodIndex.
	Assemble(methodIndex int, widgets []domain.OperationWidget) (domain.SignalProcessor, error)
}
