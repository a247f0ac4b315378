package driven

import "context"

// Fetcher retrieves raw bytes from a remote URL. Implementations block
// for the duration of the fetch; the event model guarantees no other
// document mutation is interleaved while one runs. Failures map to
// domain.ErrNetwork.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}
