package driven

// Example identifies one bundled example session.
type Example struct {
	// Label is the user-facing selector, unique within the library.
	Label string

	// Description is a one-line summary.
	Description string
}

// ExampleLibrary resolves bundled example sessions by label.
type ExampleLibrary interface {
	// List returns every bundled example in display order.
	List() []Example

	// Load returns the raw JSON bytes of the example with the given
	// label, or domain.ErrNotFound.
	Load(label string) ([]byte, error)
}
