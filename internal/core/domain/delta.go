package domain

// NoIndex marks a delta that did not touch a specific entity.
const NoIndex = -1

// MutationDelta describes what the last mutation changed. It is rebuilt
// on every mutation, consumed once by the UI to decide which outputs to
// refresh, then discarded. It is never persisted with the document.
type MutationDelta struct {
	// IsNewData is set when the whole document was replaced (imports,
	// clears).
	IsNewData bool `json:"is_new_data"`

	// LengthChanged is set when an entity list grew or shrank.
	LengthChanged bool `json:"length_changed"`

	// IndexLastModified is the position of the touched entity, or
	// NoIndex.
	IndexLastModified int `json:"index_last_modified"`

	// Added holds the site isotopes introduced by an add or duplicate.
	Added []Isotope `json:"added,omitempty"`

	// Removed holds the site isotopes of a deleted entity.
	Removed []Isotope `json:"removed,omitempty"`
}

// NewDelta returns a delta with no entity touched.
func NewDelta() MutationDelta {
	return MutationDelta{IndexLastModified: NoIndex}
}

// AssembledDelta is the delta published after a whole-document replace.
func AssembledDelta() MutationDelta {
	return MutationDelta{IsNewData: true, IndexLastModified: 0}
}
