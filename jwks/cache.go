package jwks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/signin-tools/go-idtoken/core"
)

// State is the lifecycle state of a Cache.
type State int

const (
	// StateUninitialized means no key set has been fetched successfully yet.
	StateUninitialized State = iota
	// StateRefreshing means a fetch is in flight.
	StateRefreshing
	// StateReady means a key set is held; it may have expired.
	StateReady
)

// String returns a readable name for the state.
func (s State) String() string {
	switch s {
	case StateRefreshing:
		return "refreshing"
	case StateReady:
		return "ready"
	default:
		return "uninitialized"
	}
}

const refreshKey = "keyset"

// Cache holds the current key set and refreshes it when it expires.
//
// Concurrent callers that find the set expired share one fetch: the first
// starts it, the others join it, and all of them observe the same key set or
// the same error. The mutex is never held while fetching. A failed refresh
// leaves the cache ready to try again on the next call.
type Cache struct {
	fetcher      Fetcher
	now          func() time.Time
	logger       core.Logger
	metrics      core.Metrics
	fetchTimeout time.Duration
	staleIfError time.Duration

	group singleflight.Group

	mu     sync.Mutex
	state  State
	keys   *KeySet
	expiry time.Time
}

// NewCache builds a Cache around fetcher. The cache starts uninitialized and
// fetches on first use.
//
// Example:
//
//	fetcher, _ := jwks.NewHTTPFetcher()
//	cache, err := jwks.NewCache(
//	    fetcher,
//	    jwks.WithLogger(slog.Default()),
//	    jwks.WithFetchTimeout(10*time.Second),
//	)
func NewCache(fetcher Fetcher, opts ...CacheOption) (*Cache, error) {
	if fetcher == nil {
		return nil, errors.New("fetcher is required but was nil")
	}

	c := &Cache{
		fetcher:      fetcher,
		now:          time.Now,
		logger:       core.NopLogger{},
		metrics:      core.NopMetrics{},
		fetchTimeout: 30 * time.Second,
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	return c, nil
}

// Get returns a key set that has not expired, fetching a new one if needed.
//
// If ctx ends while waiting for a refresh, Get returns a core.ErrConnection
// wrapping ctx.Err(), but the refresh keeps running for the other callers and for the cache itself.
func (c *Cache) Get(ctx context.Context) (*KeySet, error) {
	c.mu.Lock()
	if c.state == StateReady && c.now().Before(c.expiry) {
		keys := c.keys
		c.mu.Unlock()
		c.metrics.IncCounter(core.MetricKeySetCacheHits, nil)
		return keys, nil
	}

	refreshCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(refreshKey, func() (any, error) {
		return c.refresh(refreshCtx)
	})
	c.mu.Unlock()

	select {
	case <-ctx.Done():
		return nil, core.NewError(core.ErrorCodeConnection, "gave up waiting for the key set refresh", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*KeySet), nil
	}
}

// refresh runs at most once at a time, on behalf of every waiting caller.
func (c *Cache) refresh(ctx context.Context) (*KeySet, error) {
	c.mu.Lock()
	c.state = StateRefreshing
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()

	c.logger.Debug("Refreshing key set")

	start := time.Now()
	keys, expiry, err := c.fetcher.Fetch(ctx)
	duration := time.Since(start)
	c.metrics.ObserveHistogram(core.MetricKeySetFetchDuration, duration.Seconds(), nil)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.metrics.IncCounter(core.MetricKeySetFetches, map[string]string{"result": "error"})

		if c.keys == nil {
			c.state = StateUninitialized
		} else {
			c.state = StateReady
		}

		if c.keys != nil && c.staleIfError > 0 && c.now().Before(c.expiry.Add(c.staleIfError)) {
			c.logger.Warn("Key set refresh failed, serving stale key set",
				"error", err, "expired_at", c.expiry, "duration", duration)
			return c.keys, nil
		}

		c.logger.Error("Key set refresh failed", "error", err, "duration", duration)
		return nil, err
	}

	c.keys = keys
	c.expiry = expiry
	c.state = StateReady

	c.metrics.IncCounter(core.MetricKeySetFetches, map[string]string{"result": "success"})
	c.metrics.SetGauge(core.MetricKeySetKeys, float64(keys.Len()), nil)
	c.logger.Info("Key set refreshed",
		"keys", keys.Len(), "expires_at", expiry, "duration", duration)

	return keys, nil
}

// State returns the current lifecycle state.
func (c *Cache) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Expiry returns the expiry of the held key set; the zero time if none is held
// or the endpoint did not allow caching.
func (c *Cache) Expiry() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.expiry
}

// Invalidate marks the held key set as expired so the next Get refreshes it.
// The set itself is kept for WithStaleIfError.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateReady {
		c.expiry = c.now()
	}
}
