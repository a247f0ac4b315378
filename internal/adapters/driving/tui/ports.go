// Package tui provides an interactive terminal user interface for
// spindraft. It implements a driving adapter following hexagonal
// architecture principles.
package tui

import (
	"github.com/spindraft-labs/spindraft-cli/internal/core/ports/driven"
	"github.com/spindraft-labs/spindraft-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Session owns the shared document and routes every mutation.
	Session driving.SessionService

	// FieldSync backs the spin-system field editor.
	FieldSync driving.FieldSyncService

	// Fit manages the fit-parameter table. Optional; the fit view shows
	// a notice when absent.
	Fit driving.FitService

	// Pipeline assembles signal processors from operation widgets.
	Pipeline driving.PipelineAssembler

	// Examples lists the bundled example sessions. Optional.
	Examples driven.ExampleLibrary
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(session driving.SessionService, fieldSync driving.FieldSyncService) *Ports {
	return &Ports{
		Session:   session,
		FieldSync: fieldSync,
	}
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Session == nil {
		return ErrMissingSessionService
	}
	if p.FieldSync == nil {
		return ErrMissingFieldSyncService
	}
	return nil
}
