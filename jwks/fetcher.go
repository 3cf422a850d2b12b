package jwks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/signin-tools/go-idtoken/cachecontrol"
	"github.com/signin-tools/go-idtoken/core"
)

// GoogleCertsURL is the endpoint publishing Google's ID token signing keys.
const GoogleCertsURL = "https://www.googleapis.com/oauth2/v3/certs"

// maxBodySize bounds the certificate response; real key sets are a few KB.
const maxBodySize = 1 << 20

// Fetcher downloads a key set. The returned expiry is the instant after
// which the set must be fetched again; the zero time means already expired.
type Fetcher interface {
	Fetch(ctx context.Context) (*KeySet, time.Time, error)
}

// HTTPFetcher fetches the key set from a certificate endpoint over HTTP and
// derives its expiry from the response's Cache-Control max-age.
type HTTPFetcher struct {
	url    string
	client *http.Client
	now    func() time.Time
}

type certsResponse struct {
	Keys []Key `json:"keys"`
}

// NewHTTPFetcher builds an HTTPFetcher for GoogleCertsURL unless WithURL
// says otherwise.
func NewHTTPFetcher(opts ...FetcherOption) (*HTTPFetcher, error) {
	f := &HTTPFetcher{
		url:    GoogleCertsURL,
		client: &http.Client{Timeout: 30 * time.Second},
		now:    time.Now,
	}

	for _, opt := range opts {
		if err := opt(f); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	return f, nil
}

// URL returns the certificate endpoint.
func (f *HTTPFetcher) URL() string {
	return f.url
}

// Fetch performs exactly one GET against the certificate endpoint.
func (f *HTTPFetcher) Fetch(ctx context.Context) (*KeySet, time.Time, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, time.Time{}, core.NewError(core.ErrorCodeConnection, "could not build request to get certificates", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, time.Time{}, core.NewError(core.ErrorCodeConnection, "could not get certificates", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, time.Time{}, core.NewError(
			core.ErrorCodeServerRejected,
			"certificate endpoint rejected the request",
			fmt.Errorf("status %d", resp.StatusCode),
		)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, time.Time{}, core.NewError(core.ErrorCodeConnection, "could not read certificates", err)
	}

	var certs certsResponse
	if err := json.Unmarshal(body, &certs); err != nil {
		return nil, time.Time{}, core.NewError(core.ErrorCodeDecode, "could not decode certificates", err)
	}

	return NewKeySet(certs.Keys), f.expiry(resp.Header.Get("Cache-Control")), nil
}

// expiry returns now plus max-age, or the zero time when the header does not
// parse or carries no max-age.
func (f *HTTPFetcher) expiry(header string) time.Time {
	if header == "" {
		return time.Time{}
	}
	directives, ok := cachecontrol.Parse(header)
	if !ok || directives.MaxAge == nil {
		return time.Time{}
	}
	return f.now().Add(*directives.MaxAge)
}
