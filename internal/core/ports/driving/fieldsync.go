package driving

import "github.com/spindraft-labs/spindraft-cli/internal/core/domain"

// EditorMode selects how the active spin system is edited.
type EditorMode int

const (
	// ModeForm shows the structured field editor.
	ModeForm EditorMode = iota
	// ModeRawJSON shows the raw JSON text editor; form fields are hidden
	// and must not be refreshed.
	ModeRawJSON
)

// FieldValue is one form field: its structured key and current value.
// Value is nil when the underlying document key is absent.
type FieldValue struct {
	Key   domain.FieldKey
	Value any
}

// FieldSyncService maps between the flat form-field values and the
// nested subtree of the selected spin system, in both directions, with
// change suppression in each.
type FieldSyncService interface {
	// Select sets the active spin-system index; a negative index clears
	// the selection.
	Select(index int)

	// Selected returns the active index, or domain.NoIndex.
	Selected() int

	// SetMode switches between form and raw-JSON editing.
	SetMode(mode EditorMode)

	// Mode returns the active editor mode.
	Mode() EditorMode

	// FieldValues flattens the selected system's first site into the
	// fixed ordered field list. Returns domain.ErrSkipUpdate when the
	// fields are hidden (raw-JSON mode) or nothing is selected.
	FieldValues() ([]FieldValue, error)

	// Apply writes one changed field back into the document via the
	// session, reading sibling values from the supplied form snapshot.
	// Returns domain.ErrSkipUpdate when the write is suppressed: value
	// unchanged, absent key with empty value, or a partially specified
	// tensor group.
	Apply(key domain.FieldKey, value any, form map[domain.FieldKey]any) (domain.Outcome, error)

	// EditorJSON renders the selected system for the raw editor.
	EditorJSON() (string, error)
}
