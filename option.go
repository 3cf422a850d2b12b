package idtoken

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/signin-tools/go-idtoken/core"
)

// Option configures the Client.
// Returns error for validation failures.
type Option func(*Client) error

// WithAudiences sets the OAuth client IDs a token may be issued to. Without
// it any audience is accepted, which is rarely what a server wants.
func WithAudiences(audiences ...string) Option {
	return func(c *Client) error {
		if len(audiences) == 0 {
			return errors.New("at least one audience is required")
		}
		c.audiences = append(c.audiences, audiences...)
		return nil
	}
}

// WithHostedDomains restricts tokens to users of the given Google Workspace
// domains. Consumer accounts carry no hosted domain and are then rejected.
func WithHostedDomains(domains ...string) Option {
	return func(c *Client) error {
		if len(domains) == 0 {
			return errors.New("at least one hosted domain is required")
		}
		c.hostedDomains = append(c.hostedDomains, domains...)
		return nil
	}
}

// WithHTTPClient sets the HTTP client used for the certificate and tokeninfo
// endpoints.
//
// Default: a client with a 30 second timeout.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) error {
		if client == nil {
			return errors.New("HTTP client cannot be nil")
		}
		c.httpClient = client
		return nil
	}
}

// WithCertsURL overrides Google's certificate endpoint.
func WithCertsURL(rawURL string) Option {
	return func(c *Client) error {
		c.certsURL = rawURL
		return nil
	}
}

// WithTokenInfoURL overrides Google's tokeninfo endpoint.
func WithTokenInfoURL(rawURL string) Option {
	return func(c *Client) error {
		u, err := url.Parse(rawURL)
		if err != nil {
			return fmt.Errorf("invalid tokeninfo URL: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("tokeninfo URL must have http:// or https:// scheme, got: %s", rawURL)
		}
		c.tokenInfoURL = rawURL
		return nil
	}
}

// WithClock sets the clock used for key set expiry and token expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Client) error {
		if now == nil {
			return errors.New("clock cannot be nil")
		}
		c.now = now
		return nil
	}
}

// WithLogger sets the logger for key set refreshes and verification failures.
// The interface is satisfied by *slog.Logger; see NewLogrusLogger,
// NewZerologLogger and NewZapLogger for other loggers.
func WithLogger(logger core.Logger) Option {
	return func(c *Client) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		c.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics sink, for example NewPrometheusMetrics.
func WithMetrics(metrics core.Metrics) Option {
	return func(c *Client) error {
		if metrics == nil {
			return errors.New("metrics cannot be nil")
		}
		c.metrics = metrics
		return nil
	}
}

// WithTracerProvider sets the OpenTelemetry tracer provider.
//
// Default: the global provider.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(c *Client) error {
		if provider == nil {
			return errors.New("tracer provider cannot be nil")
		}
		c.tracerProvider = provider
		return nil
	}
}

// WithAllowedClockSkew tolerates tokens that expired at most skew ago.
func WithAllowedClockSkew(skew time.Duration) Option {
	return func(c *Client) error {
		if skew < 0 {
			return errors.New("clock skew cannot be negative")
		}
		c.clockSkew = skew
		return nil
	}
}

// WithStaleIfError keeps serving an expired key set for up to d when Google
// cannot be reached. Disabled by default.
func WithStaleIfError(d time.Duration) Option {
	return func(c *Client) error {
		if d < 0 {
			return errors.New("stale-if-error window cannot be negative")
		}
		c.staleIfError = d
		return nil
	}
}

// WithFetchTimeout bounds a single key set refresh.
//
// Default: 30 seconds.
func WithFetchTimeout(timeout time.Duration) Option {
	return func(c *Client) error {
		if timeout <= 0 {
			return errors.New("fetch timeout must be positive")
		}
		c.fetchTimeout = timeout
		return nil
	}
}
