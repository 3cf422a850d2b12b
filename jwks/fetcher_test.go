package jwks

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signin-tools/go-idtoken/core"
	"github.com/signin-tools/go-idtoken/internal/testkeys"
)

func setupCertsServer(t *testing.T, status int, cacheControl string, body []byte, requestCount *int32) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requestCount != nil {
			atomic.AddInt32(requestCount, 1)
		}
		if cacheControl != "" {
			w.Header().Set("Cache-Control", cacheControl)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write(body)
	}))
	t.Cleanup(server.Close)

	return server
}

func TestHTTPFetcher_Fetch(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	k1 := testkeys.New(t, "k1")
	k2 := testkeys.New(t, "k2")
	body := testkeys.CertsBody(t, k2, k1)

	t.Run("it fetches the key set and derives expiry from max-age", func(t *testing.T) {
		server := setupCertsServer(t, http.StatusOK, "public, max-age=19868, must-revalidate, no-transform", body, nil)

		fetcher, err := NewHTTPFetcher(WithURL(server.URL), WithFetcherClock(clock))
		require.NoError(t, err)

		keys, expiry, err := fetcher.Fetch(context.Background())
		require.NoError(t, err)

		assert.Equal(t, []string{"k1", "k2"}, keys.IDs())
		assert.Equal(t, now.Add(19868*time.Second), expiry)

		key, ok := keys.Lookup("k1")
		require.True(t, ok)
		assert.Equal(t, k1.N(), key.N)
		assert.Equal(t, k1.E(), key.E)
		assert.Equal(t, "RSA", key.Kty)
		assert.Equal(t, "RS256", key.Alg)
		assert.Equal(t, "sig", key.Use)
	})

	expiredCases := []struct {
		name         string
		cacheControl string
	}{
		{name: "no cache-control header", cacheControl: ""},
		{name: "no max-age directive", cacheControl: "public, must-revalidate"},
		{name: "malformed header", cacheControl: "public, max-age="},
		{name: "negative max-age", cacheControl: "max-age=-60"},
		{name: "zero max-age", cacheControl: "max-age=0"},
	}
	for _, testCase := range expiredCases {
		t.Run("it treats the set as already expired with "+testCase.name, func(t *testing.T) {
			server := setupCertsServer(t, http.StatusOK, testCase.cacheControl, body, nil)

			fetcher, err := NewHTTPFetcher(WithURL(server.URL), WithFetcherClock(clock))
			require.NoError(t, err)

			keys, expiry, err := fetcher.Fetch(context.Background())
			require.NoError(t, err)
			assert.Equal(t, 2, keys.Len())
			assert.False(t, now.Before(expiry), "expiry %v must not be after now", expiry)
		})
	}

	t.Run("it rejects non 2xx responses", func(t *testing.T) {
		server := setupCertsServer(t, http.StatusServiceUnavailable, "max-age=300", []byte("unavailable"), nil)

		fetcher, err := NewHTTPFetcher(WithURL(server.URL))
		require.NoError(t, err)

		_, _, err = fetcher.Fetch(context.Background())
		assert.ErrorIs(t, err, core.ErrServerRejected)
		assert.Contains(t, err.Error(), "status 503")
		assert.True(t, core.IsKeySetError(err))
	})

	t.Run("it reports malformed JSON as a decode error", func(t *testing.T) {
		server := setupCertsServer(t, http.StatusOK, "max-age=300", []byte(`{"keys": [`), nil)

		fetcher, err := NewHTTPFetcher(WithURL(server.URL))
		require.NoError(t, err)

		_, _, err = fetcher.Fetch(context.Background())
		assert.ErrorIs(t, err, core.ErrDecode)
	})

	t.Run("it reports an unreachable endpoint as a connection error", func(t *testing.T) {
		server := setupCertsServer(t, http.StatusOK, "", body, nil)
		serverURL := server.URL
		server.Close()

		fetcher, err := NewHTTPFetcher(WithURL(serverURL))
		require.NoError(t, err)

		_, _, err = fetcher.Fetch(context.Background())
		assert.ErrorIs(t, err, core.ErrConnection)
	})

	t.Run("it honours the request context", func(t *testing.T) {
		server := setupCertsServer(t, http.StatusOK, "", body, nil)

		fetcher, err := NewHTTPFetcher(WithURL(server.URL))
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, _, err = fetcher.Fetch(ctx)
		assert.ErrorIs(t, err, core.ErrConnection)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("a duplicated key ID keeps the last entry", func(t *testing.T) {
		dup := []byte(`{"keys":[{"kid":"k1","n":"first","e":"AQAB"},{"kid":"k1","n":"second","e":"AQAB"}]}`)
		server := setupCertsServer(t, http.StatusOK, "", dup, nil)

		fetcher, err := NewHTTPFetcher(WithURL(server.URL))
		require.NoError(t, err)

		keys, _, err := fetcher.Fetch(context.Background())
		require.NoError(t, err)
		key, ok := keys.Lookup("k1")
		require.True(t, ok)
		assert.Equal(t, "second", key.N)
	})
}

func TestNewHTTPFetcher(t *testing.T) {
	t.Run("defaults to Google's endpoint", func(t *testing.T) {
		fetcher, err := NewHTTPFetcher()
		require.NoError(t, err)
		assert.Equal(t, GoogleCertsURL, fetcher.URL())
	})

	t.Run("uses the specified custom client", func(t *testing.T) {
		client := &http.Client{Timeout: time.Hour}
		fetcher, err := NewHTTPFetcher(WithHTTPClient(client))
		require.NoError(t, err)
		assert.Equal(t, client, fetcher.client)
	})

	t.Run("rejects bad options", func(t *testing.T) {
		_, err := NewHTTPFetcher(WithURL("ftp://example.com/certs"))
		assert.ErrorContains(t, err, "http:// or https://")

		_, err = NewHTTPFetcher(WithHTTPClient(nil))
		assert.ErrorContains(t, err, "HTTP client cannot be nil")

		_, err = NewHTTPFetcher(WithFetcherClock(nil))
		assert.ErrorContains(t, err, "clock cannot be nil")
	})
}
