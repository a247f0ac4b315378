package cli

import (
	"github.com/spindraft-labs/spindraft-cli/internal/core/ports/driven"
	"github.com/spindraft-labs/spindraft-cli/internal/core/ports/driving"
)

// Package-level services injected by the composition root. Commands
// guard against nil so partial wiring degrades to a clear error instead
// of a panic.
var (
	sessionService   driving.SessionService
	fieldSyncService driving.FieldSyncService
	fitService       driving.FitService
	pipelineService  driving.PipelineAssembler
	exampleLibrary   driven.ExampleLibrary
	sessionStore     driven.SessionStore
)

// Services bundles everything the commands need.
type Services struct {
	Session   driving.SessionService
	FieldSync driving.FieldSyncService
	Fit       driving.FitService
	Pipeline  driving.PipelineAssembler
	Examples  driven.ExampleLibrary
	Store     driven.SessionStore
}

// SetServices injects the core services into the command tree.
func SetServices(s *Services) {
	if s == nil {
		return
	}
	sessionService = s.Session
	fieldSyncService = s.FieldSync
	fitService = s.Fit
	pipelineService = s.Pipeline
	exampleLibrary = s.Examples
	sessionStore = s.Store
}
