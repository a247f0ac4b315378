package mcp

import (
	"github.com/spindraft-labs/spindraft-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP
// server. This provides a single injection point for dependency
// injection.
type Ports struct {
	// Session owns the live document.
	Session driving.SessionService

	// Fit exposes the fit-parameter table. Optional.
	Fit driving.FitService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Session == nil {
		return ErrMissingSessionService
	}
	return nil
}
