package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrParse indicates the imported bytes are not valid JSON.
	ErrParse = errors.New("malformed document")

	// ErrSchema indicates required structure is missing beyond what
	// normalisation can default.
	ErrSchema = errors.New("document schema mismatch")

	// ErrNetwork indicates a remote fetch failed.
	ErrNetwork = errors.New("network fetch failed")

	// ErrSkipUpdate is not a failure. It is the sentinel a handler returns
	// when it deliberately leaves every output untouched: an unchanged
	// field value, an incomplete tensor group, a hidden editor.
	ErrSkipUpdate = errors.New("no update")

	// ErrNoDocument indicates an event requires a loaded document and
	// none is present.
	ErrNoDocument = errors.New("no document loaded")

	// ErrIndexOutOfRange indicates an entity index does not exist in the
	// document.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnknownEvent indicates an event kind outside the closed set.
	ErrUnknownEvent = errors.New("unknown event")

	// ErrFitterUnavailable indicates no fit runner is configured.
	ErrFitterUnavailable = errors.New("fitter unavailable")
)

// IsSkip reports whether err is the deliberate no-op sentinel.
func IsSkip(err error) bool {
	return errors.Is(err, ErrSkipUpdate)
}
