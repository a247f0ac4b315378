// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/spindraft-labs/spindraft-cli/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewOverview shows the session summary tables.
	ViewOverview
	// ViewSystems is the spin-system list.
	ViewSystems
	// ViewSystemEditor is the per-system field editor.
	ViewSystemEditor
	// ViewMethods is the method list.
	ViewMethods
	// ViewMethodDetail is the per-method detail and processing editor.
	ViewMethodDetail
	// ViewFit is the fit-parameter table.
	ViewFit
	// ViewExamples lists the bundled example sessions.
	ViewExamples
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewOverview:
		return "overview"
	case ViewSystems:
		return "systems"
	case ViewSystemEditor:
		return "system_editor"
	case ViewMethods:
		return "methods"
	case ViewMethodDetail:
		return "method_detail"
	case ViewFit:
		return "fit"
	case ViewExamples:
		return "examples"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// SessionUpdated is sent after an event was dispatched; every view
// showing derived data refreshes from the included views.
type SessionUpdated struct {
	Outcome domain.Outcome
	Views   domain.DerivedViews
	Err     error
}

// SystemSelected is sent when a spin system is chosen for editing.
type SystemSelected struct {
	Index int
}

// MethodSelected is sent when a method is chosen for detail editing.
type MethodSelected struct {
	Index int
}

// FieldsLoaded carries the flattened form fields of the selected system.
type FieldsLoaded struct {
	Fields []FieldEntry
	Err    error
}

// FieldEntry is one editor row: the structured key and its rendering.
type FieldEntry struct {
	Key   domain.FieldKey
	Value any
}

// FitLoaded carries the grouped fit parameters.
type FitLoaded struct {
	Sys []domain.ParamGroup
	Mth []domain.ParamGroup
	Set *domain.FitParameterSet
	Err error
}

// FitCompleted carries the external fitter's report.
type FitCompleted struct {
	Report string
	Err    error
}

// ExamplesLoaded carries the bundled example listing.
type ExamplesLoaded struct {
	Labels       []string
	Descriptions []string
	Err          error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
