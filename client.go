package idtoken

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/signin-tools/go-idtoken/core"
	"github.com/signin-tools/go-idtoken/internal/tokeninfo"
	"github.com/signin-tools/go-idtoken/jwks"
	"github.com/signin-tools/go-idtoken/validator"
)

// Claims are the verified claims of a Google ID token.
type Claims = validator.IdentityClaims

// Client verifies Google ID tokens. It owns a key set cache, so create one
// Client per process and share it; it is safe for concurrent use.
type Client struct {
	cache        *jwks.Cache
	verifier     *validator.Verifier
	httpClient   *http.Client
	tokenInfoURL string
	logger       core.Logger
	metrics      core.Metrics
	tracer       trace.Tracer

	// Construction-only configuration.
	audiences      []string
	hostedDomains  []string
	certsURL       string
	now            func() time.Time
	clockSkew      time.Duration
	staleIfError   time.Duration
	fetchTimeout   time.Duration
	tracerProvider trace.TracerProvider
}

// New constructs a Client with the supplied options.
//
// Example:
//
//	client, err := idtoken.New(
//	    idtoken.WithAudiences("1234.apps.googleusercontent.com"),
//	    idtoken.WithHostedDomains("example.com"),
//	)
//	if err != nil {
//	    log.Fatalf("failed to create client: %v", err)
//	}
func New(opts ...Option) (*Client, error) {
	c := &Client{
		httpClient:     &http.Client{Timeout: 30 * time.Second},
		tokenInfoURL:   tokeninfo.URL,
		logger:         core.NopLogger{},
		metrics:        core.NopMetrics{},
		certsURL:       jwks.GoogleCertsURL,
		now:            time.Now,
		fetchTimeout:   30 * time.Second,
		tracerProvider: otel.GetTracerProvider(),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	if err := c.build(); err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return c, nil
}

func (c *Client) build() error {
	fetcher, err := jwks.NewHTTPFetcher(
		jwks.WithURL(c.certsURL),
		jwks.WithHTTPClient(c.httpClient),
		jwks.WithFetcherClock(c.now),
	)
	if err != nil {
		return err
	}

	c.cache, err = jwks.NewCache(fetcher,
		jwks.WithClock(c.now),
		jwks.WithLogger(c.logger),
		jwks.WithMetrics(c.metrics),
		jwks.WithFetchTimeout(c.fetchTimeout),
		jwks.WithStaleIfError(c.staleIfError),
	)
	if err != nil {
		return err
	}

	c.verifier, err = validator.New(
		validator.WithAudiences(c.audiences...),
		validator.WithHostedDomains(c.hostedDomains...),
		validator.WithAllowedClockSkew(c.clockSkew),
		validator.WithClock(c.now),
	)
	if err != nil {
		return err
	}

	c.tracer = c.tracerProvider.Tracer(instrumentationName)
	return nil
}

// Verify checks token against Google's current signing keys, fetching them
// first if the cached set is missing or expired, and returns its claims.
//
// Concurrent calls that find the cache expired share one fetch. Errors match
// one of the package's Err values; use IsKeySetError to tell an unreachable
// key endpoint from a bad token.
func (c *Client) Verify(ctx context.Context, token string) (*Claims, error) {
	ctx, span := c.startSpan(ctx, "idtoken.Verify")

	keys, err := c.cache.Get(ctx)
	if err != nil {
		c.finish(span, methodKeySet, err)
		return nil, err
	}

	claims, err := c.verifier.Verify(token, keys)
	c.finish(span, methodKeySet, err)
	if err != nil {
		return nil, err
	}

	return claims, nil
}

// VerifyWith checks token against keys without touching the cache, for
// callers that manage key lifetime themselves. See KeySet.
func (c *Client) VerifyWith(ctx context.Context, token string, keys *jwks.KeySet) (*Claims, error) {
	_, span := c.startSpan(ctx, "idtoken.VerifyWith")

	claims, err := c.verifier.Verify(token, keys)
	c.finish(span, methodKeySet, err)
	if err != nil {
		return nil, err
	}

	return claims, nil
}

// KeySet returns the current key set, refreshing it if needed.
func (c *Client) KeySet(ctx context.Context) (*jwks.KeySet, error) {
	return c.cache.Get(ctx)
}

// VerifyWithTokenInfo asks Google's tokeninfo endpoint to validate token and
// applies only the issuer, audience and hosted domain checks to the claims it
// returns.
//
// This path trusts Google's HTTP answer instead of checking the signature
// locally and costs a round trip per call. Prefer Verify.
func (c *Client) VerifyWithTokenInfo(ctx context.Context, token string) (*Claims, error) {
	ctx, span := c.startSpan(ctx, "idtoken.VerifyWithTokenInfo")

	claims, err := tokeninfo.Lookup(ctx, c.httpClient, c.tokenInfoURL, token)
	if err == nil {
		err = c.verifier.CheckClaims(claims)
	}
	c.finish(span, methodTokenInfo, err)
	if err != nil {
		return nil, err
	}

	return claims, nil
}

// VerifyToken implements core.TokenVerifier so a Client can back the HTTP
// middleware and the framework adapters. The claims are a *Claims.
func (c *Client) VerifyToken(ctx context.Context, token string) (any, error) {
	claims, err := c.Verify(ctx, token)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// CacheState reports whether the key set cache is empty, refreshing or ready.
func (c *Client) CacheState() jwks.State {
	return c.cache.State()
}
