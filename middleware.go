package idtoken

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/signin-tools/go-idtoken/core"
)

// ErrTokenExtraction wraps errors returned by a TokenExtractor, such as a
// malformed Authorization header.
var ErrTokenExtraction = errors.New("error extracting token")

// Middleware authenticates net/http requests with a Google ID token and puts
// the verified claims in the request context.
type Middleware struct {
	core              *core.Core
	errorHandler      ErrorHandler
	tokenExtractor    TokenExtractor
	validateOnOptions bool
	logger            core.Logger

	// Construction-only configuration.
	credentialsOptional bool
}

// MiddlewareOption configures the Middleware.
type MiddlewareOption func(*Middleware) error

// NewMiddleware constructs a Middleware that verifies tokens with verifier,
// usually a *Client.
//
// Example:
//
//	client, err := idtoken.New(idtoken.WithAudiences("1234.apps.googleusercontent.com"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	middleware, err := idtoken.NewMiddleware(client)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	http.Handle("/api/", middleware.Handler(apiHandler))
func NewMiddleware(verifier core.TokenVerifier, opts ...MiddlewareOption) (*Middleware, error) {
	m := &Middleware{
		errorHandler:      DefaultErrorHandler,
		tokenExtractor:    AuthHeaderTokenExtractor,
		validateOnOptions: true,
		logger:            core.NopLogger{},
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	c, err := core.New(
		core.WithVerifier(verifier),
		core.WithCredentialsOptional(m.credentialsOptional),
		core.WithLogger(m.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create core: %w", err)
	}
	m.core = c

	return m, nil
}

// Handler wraps next. Requests with a valid token reach next with the claims
// in their context; see ClaimsFromContext.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.validateOnOptions && r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		token, err := m.tokenExtractor(r)
		if err != nil {
			m.logger.Warn("Failed to extract token from request",
				"error", err,
				"method", r.Method,
				"path", r.URL.Path)
			m.errorHandler(w, r, fmt.Errorf("%w: %w", ErrTokenExtraction, err))
			return
		}

		claims, err := m.core.CheckToken(r.Context(), token)
		if err != nil {
			m.errorHandler(w, r, err)
			return
		}

		if claims == nil {
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(core.SetClaims(r.Context(), claims)))
	})
}

// ClaimsFromContext returns the claims the Middleware stored for a request
// verified by a *Client.
func ClaimsFromContext(ctx context.Context) (*Claims, error) {
	return core.GetClaims[*Claims](ctx)
}

// HasClaims reports whether ctx carries verified claims.
func HasClaims(ctx context.Context) bool {
	return core.HasClaims(ctx)
}

// WithCredentialsOptional lets requests without a token through, without
// claims. Requests with an invalid token are still rejected.
//
// Default: false
func WithCredentialsOptional(value bool) MiddlewareOption {
	return func(m *Middleware) error {
		m.credentialsOptional = value
		return nil
	}
}

// WithValidateOnOptions sets whether OPTIONS requests need a token.
//
// Default: true
func WithValidateOnOptions(value bool) MiddlewareOption {
	return func(m *Middleware) error {
		m.validateOnOptions = value
		return nil
	}
}

// WithErrorHandler sets the handler called when a request is rejected.
//
// Default: DefaultErrorHandler
func WithErrorHandler(h ErrorHandler) MiddlewareOption {
	return func(m *Middleware) error {
		if h == nil {
			return errors.New("error handler cannot be nil")
		}
		m.errorHandler = h
		return nil
	}
}

// WithTokenExtractor sets the function that finds the token in a request.
//
// Default: AuthHeaderTokenExtractor
func WithTokenExtractor(e TokenExtractor) MiddlewareOption {
	return func(m *Middleware) error {
		if e == nil {
			return errors.New("token extractor cannot be nil")
		}
		m.tokenExtractor = e
		return nil
	}
}

// WithMiddlewareLogger sets the logger for rejected requests.
func WithMiddlewareLogger(logger core.Logger) MiddlewareOption {
	return func(m *Middleware) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		m.logger = logger
		return nil
	}
}
