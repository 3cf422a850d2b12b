package idtokenecho

import (
	"github.com/labstack/echo/v4"

	"github.com/signin-tools/go-idtoken"
	"github.com/signin-tools/go-idtoken/core"
)

// Option is a function that configures the middleware
type Option func(*echoMiddlewareConfig)

// WithErrorHandler sets a custom error handler. Its return value is returned
// from the middleware.
func WithErrorHandler(handler func(echo.Context, error) error) Option {
	return func(config *echoMiddlewareConfig) {
		if handler != nil {
			config.errorHandler = handler
		}
	}
}

// WithContextKey sets a custom context key to store claims
func WithContextKey(key string) Option {
	return func(config *echoMiddlewareConfig) {
		if key != "" {
			config.contextKey = key
		}
	}
}

// WithTokenExtractor sets a custom token extractor
func WithTokenExtractor(extractor idtoken.TokenExtractor) Option {
	return func(config *echoMiddlewareConfig) {
		if extractor != nil {
			config.tokenExtractor = extractor
		}
	}
}

// WithCredentialsOptional lets requests without a token through, without claims.
func WithCredentialsOptional(optional bool) Option {
	return func(config *echoMiddlewareConfig) {
		config.credentialsOptional = optional
	}
}

// WithLogger sets the logger used when verification fails.
func WithLogger(logger core.Logger) Option {
	return func(config *echoMiddlewareConfig) {
		if logger != nil {
			config.logger = logger
		}
	}
}
