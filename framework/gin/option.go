package idtokengin

import (
	"github.com/gin-gonic/gin"

	"github.com/signin-tools/go-idtoken"
	"github.com/signin-tools/go-idtoken/core"
)

// Option defines a functional option for configuring the middleware
type Option func(*middlewareConfig)

// WithErrorHandler sets a custom error handler for the middleware. The
// request is aborted after it returns.
func WithErrorHandler(handler func(*gin.Context, error)) Option {
	return func(config *middlewareConfig) {
		if handler != nil {
			config.errorHandler = handler
		}
	}
}

// WithContextKey sets the gin.Context key the claims are stored under.
func WithContextKey(key string) Option {
	return func(config *middlewareConfig) {
		if key != "" {
			config.contextKey = key
		}
	}
}

// WithTokenExtractor sets a custom token extractor.
func WithTokenExtractor(extractor idtoken.TokenExtractor) Option {
	return func(config *middlewareConfig) {
		if extractor != nil {
			config.tokenExtractor = extractor
		}
	}
}

// WithCredentialsOptional lets requests without a token through, without claims.
func WithCredentialsOptional(optional bool) Option {
	return func(config *middlewareConfig) {
		config.credentialsOptional = optional
	}
}

// WithLogger sets the logger used when verification fails.
func WithLogger(logger core.Logger) Option {
	return func(config *middlewareConfig) {
		if logger != nil {
			config.logger = logger
		}
	}
}
