package jwks

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/signin-tools/go-idtoken/core"
)

// FetcherOption is how options for the HTTPFetcher are set up.
type FetcherOption func(*HTTPFetcher) error

// WithURL overrides the certificate endpoint. Mostly useful for tests.
func WithURL(rawURL string) FetcherOption {
	return func(f *HTTPFetcher) error {
		u, err := url.Parse(rawURL)
		if err != nil {
			return fmt.Errorf("invalid certificate URL: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("certificate URL must have http:// or https:// scheme, got: %s", rawURL)
		}
		f.url = rawURL
		return nil
	}
}

// WithHTTPClient sets a custom HTTP client for the HTTPFetcher.
// If not specified, a default client with 30s timeout is used.
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *HTTPFetcher) error {
		if c == nil {
			return errors.New("HTTP client cannot be nil")
		}
		f.client = c
		return nil
	}
}

// WithFetcherClock sets the clock used to turn max-age into an expiry instant.
func WithFetcherClock(now func() time.Time) FetcherOption {
	return func(f *HTTPFetcher) error {
		if now == nil {
			return errors.New("clock cannot be nil")
		}
		f.now = now
		return nil
	}
}

// CacheOption is how options for the Cache are set up.
type CacheOption func(*Cache) error

// WithClock sets the clock used to decide whether the cached set expired.
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) error {
		if now == nil {
			return errors.New("clock cannot be nil")
		}
		c.now = now
		return nil
	}
}

// WithLogger sets the logger used to report refreshes.
func WithLogger(logger core.Logger) CacheOption {
	return func(c *Cache) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		c.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics sink for fetch counts, durations and cache hits.
func WithMetrics(metrics core.Metrics) CacheOption {
	return func(c *Cache) error {
		if metrics == nil {
			return errors.New("metrics cannot be nil")
		}
		c.metrics = metrics
		return nil
	}
}

// WithFetchTimeout bounds a single refresh. The refresh is owned by the cache
// and does not end when the caller that started it gives up waiting.
// Default: 30 seconds.
func WithFetchTimeout(timeout time.Duration) CacheOption {
	return func(c *Cache) error {
		if timeout <= 0 {
			return errors.New("fetch timeout must be positive")
		}
		c.fetchTimeout = timeout
		return nil
	}
}

// WithStaleIfError lets the cache keep serving the last known key set for up
// to d past its expiry when a refresh fails. Disabled by default.
func WithStaleIfError(d time.Duration) CacheOption {
	return func(c *Cache) error {
		if d < 0 {
			return errors.New("stale-if-error window cannot be negative")
		}
		c.staleIfError = d
		return nil
	}
}
