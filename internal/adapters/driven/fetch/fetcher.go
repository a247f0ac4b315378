// Package fetch provides the HTTP fetcher used for importing session
// documents by URL, with token-bucket rate limiting so repeated imports
// cannot hammer a remote host.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/spindraft-labs/spindraft-cli/internal/core/ports/driven"
	"github.com/spindraft-labs/spindraft-cli/internal/logger"
)

// maxBodySize caps a fetched document at 32 MiB. Session files are
// small; anything larger is not one.
const maxBodySize = 32 << 20

// RateLimitConfig holds rate limiting configuration for the fetcher.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate limit.
	RequestsPerSecond float64
	// BurstSize is the maximum burst size.
	BurstSize int
}

// DefaultRateLimit is a conservative default for ad-hoc downloads.
var DefaultRateLimit = RateLimitConfig{RequestsPerSecond: 2.0, BurstSize: 5}

// Ensure Fetcher implements the interface.
var _ driven.Fetcher = (*Fetcher)(nil)

// Fetcher downloads session documents over HTTP. It uses a token bucket
// with backoff on 429 responses.
type Fetcher struct {
	client  *http.Client
	limiter *rate.Limiter

	mu      sync.Mutex
	retryAt time.Time
}

// NewFetcher creates a fetcher with the default rate limit and a
// 30-second request timeout.
func NewFetcher() *Fetcher {
	return NewFetcherWithConfig(DefaultRateLimit, &http.Client{Timeout: 30 * time.Second})
}

// NewFetcherWithConfig creates a fetcher with custom configuration.
func NewFetcherWithConfig(cfg RateLimitConfig, client *http.Client) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize),
	}
}

// Fetch downloads one document, honouring the rate limit and any backoff
// period recorded from a previous 429 response.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", url, err)
	}
	req.Header.Set("Accept", "application/json")

	logger.Debug("fetching %s", url)
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		f.recordRateLimit(resp.Header.Get("Retry-After"))
		return nil, fmt.Errorf("fetching %s: rate limited by server", url)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}
	return body, nil
}

// wait blocks until a request can be made without exceeding the rate
// limit.
func (f *Fetcher) wait(ctx context.Context) error {
	f.mu.Lock()
	retryAt := f.retryAt
	f.mu.Unlock()

	if time.Now().Before(retryAt) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Until(retryAt)):
		}
	}

	return f.limiter.Wait(ctx)
}

// recordRateLimit sets a backoff period from a Retry-After header.
func (f *Fetcher) recordRateLimit(retryAfter string) {
	seconds, err := strconv.Atoi(retryAfter)
	if err != nil || seconds <= 0 {
		seconds = 60
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.retryAt = time.Now().Add(time.Duration(seconds) * time.Second)
}
