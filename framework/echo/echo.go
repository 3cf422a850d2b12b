// Package idtokenecho authenticates Echo requests with a Google ID token.
package idtokenecho

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/signin-tools/go-idtoken"
	"github.com/signin-tools/go-idtoken/core"
)

// DefaultClaimsKey is the echo.Context key the claims are stored under.
const DefaultClaimsKey = "idtoken"

// echoMiddlewareConfig holds all configuration for the middleware
type echoMiddlewareConfig struct {
	errorHandler        func(echo.Context, error) error
	contextKey          string
	tokenExtractor      idtoken.TokenExtractor
	credentialsOptional bool
	logger              core.Logger
}

// New creates an Echo middleware that verifies tokens with verifier, usually
// an *idtoken.Client.
func New(verifier core.TokenVerifier, opts ...Option) (echo.MiddlewareFunc, error) {
	config := &echoMiddlewareConfig{
		errorHandler:   defaultErrorHandler,
		contextKey:     DefaultClaimsKey,
		tokenExtractor: idtoken.AuthHeaderTokenExtractor,
		logger:         core.NopLogger{},
	}

	for _, opt := range opts {
		opt(config)
	}

	checker, err := core.New(
		core.WithVerifier(verifier),
		core.WithCredentialsOptional(config.credentialsOptional),
		core.WithLogger(config.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create core: %w", err)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			token, err := config.tokenExtractor(req)
			if err != nil {
				return config.errorHandler(c, fmt.Errorf("%w: %w", idtoken.ErrTokenExtraction, err))
			}

			claims, err := checker.CheckToken(req.Context(), token)
			if err != nil {
				return config.errorHandler(c, err)
			}

			if claims != nil {
				c.Set(config.contextKey, claims)
				c.SetRequest(req.WithContext(core.SetClaims(req.Context(), claims)))
			}

			return next(c)
		}
	}, nil
}

func defaultErrorHandler(c echo.Context, err error) error {
	status, body := idtoken.ErrorStatus(err)
	if status == http.StatusUnauthorized {
		c.Response().Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
	}
	return c.JSON(status, body)
}

// GetClaims extracts the ID token claims from the Echo context.
func GetClaims(c echo.Context, contextKey string) (*idtoken.Claims, bool) {
	if contextKey == "" {
		contextKey = DefaultClaimsKey
	}
	claims, ok := c.Get(contextKey).(*idtoken.Claims)
	return claims, ok
}
