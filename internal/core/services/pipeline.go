package services

import (
	"fmt"

	"github.com/spindraft-labs/spindraft-cli/internal/core/domain"
	"github.com/spindraft-labs/spindraft-cli/internal/core/ports/driving"
)

// AssembleProcessor builds a signal processor from the operation widgets
// currently on screen. User operations are always bracketed by a
// transform-in (IFFT) and transform-out (FFT) spanning every spectral
// dimension. Widgets sharing a (function, index) key are read once,
// first occurrence wins; relative order of distinct keys is preserved.
func AssembleProcessor(nDims int, widgets []domain.OperationWidget) domain.SignalProcessor {
	dims := make([]int, nDims)
	for i := range dims {
		dims[i] = i
	}

	ops := []domain.Operation{{Function: domain.FnIFFT, DimIndex: dims}}

	type widgetKey struct {
		function string
		index    int
	}
	seen := make(map[widgetKey]bool, len(widgets))
	for _, w := range widgets {
		key := widgetKey{function: w.Function, index: w.Index}
		if seen[key] {
			continue
		}
		seen[key] = true
		op := w.Op
		if op.Function == "" {
			op.Function = w.Function
		}
		ops = append(ops, op)
	}

	ops = append(ops, domain.Operation{Function: domain.FnFFT, DimIndex: dims})
	return domain.SignalProcessor{Operations: ops}
}

// Ensure Pipeline implements the interface.
var _ driving.PipelineAssembler = (*Pipeline)(nil)

// Pipeline assembles signal processors against the live document.
type Pipeline struct {
	session driving.SessionService
}

// NewPipeline creates a pipeline assembler bound to a session.
func NewPipeline(session driving.SessionService) *Pipeline {
	return &Pipeline{session: session}
}

// Assemble reads the method's dimension count from the current document
// snapshot, taken once at the start of the operation.
func (p *Pipeline) Assemble(methodIndex int, widgets []domain.OperationWidget) (domain.SignalProcessor, error) {
	doc := p.session.Document()
	if doc == nil {
		return domain.SignalProcessor{}, domain.ErrNoDocument
	}
	if methodIndex < 0 || methodIndex >= len(doc.Methods) {
		return domain.SignalProcessor{}, fmt.Errorf("method %d: %w", methodIndex, domain.ErrIndexOutOfRange)
	}
	nDims := len(doc.Methods[methodIndex].SpectralDimensions)
	return AssembleProcessor(nDims, widgets), nil
}
