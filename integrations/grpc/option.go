package grpc

import (
	"errors"

	"github.com/signin-tools/go-idtoken/core"
)

// Option configures the Interceptor.
type Option func(*Interceptor) error

// coreBuilder accumulates core options until New runs.
type coreBuilder struct {
	verifier            core.TokenVerifier
	credentialsOptional bool
}

func (b *coreBuilder) build(logger core.Logger) (*core.Core, error) {
	return core.New(
		core.WithVerifier(b.verifier),
		core.WithCredentialsOptional(b.credentialsOptional),
		core.WithLogger(logger),
	)
}

// WithVerifier sets the token verifier (REQUIRED), usually an *idtoken.Client.
//
// Example:
//
//	client, _ := idtoken.New(idtoken.WithAudiences("1234.apps.googleusercontent.com"))
//	interceptor, _ := grpc.New(grpc.WithVerifier(client))
func WithVerifier(v core.TokenVerifier) Option {
	return func(i *Interceptor) error {
		if v == nil {
			return errors.New("verifier cannot be nil")
		}
		i.coreBuilder.verifier = v
		return nil
	}
}

// WithCredentialsOptional lets calls without a token through, without claims.
//
// Default: false (credentials required)
func WithCredentialsOptional(optional bool) Option {
	return func(i *Interceptor) error {
		i.coreBuilder.credentialsOptional = optional
		return nil
	}
}

// WithLogger sets an optional logger for the interceptor and its core.
func WithLogger(logger core.Logger) Option {
	return func(i *Interceptor) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		i.logger = logger
		return nil
	}
}

// WithTokenExtractor sets a custom token extractor function.
// Default is MetadataTokenExtractor.
func WithTokenExtractor(extractor TokenExtractor) Option {
	return func(i *Interceptor) error {
		if extractor == nil {
			return errors.New("token extractor cannot be nil")
		}
		i.tokenExtractor = extractor
		return nil
	}
}

// WithErrorHandler sets a custom error handler function.
// Default is DefaultErrorHandler.
func WithErrorHandler(handler ErrorHandler) Option {
	return func(i *Interceptor) error {
		if handler == nil {
			return errors.New("error handler cannot be nil")
		}
		i.errorHandler = handler
		return nil
	}
}

// WithExcludedMethods skips verification for the given full method names,
// such as "/grpc.health.v1.Health/Check".
func WithExcludedMethods(methods ...string) Option {
	return func(i *Interceptor) error {
		for _, method := range methods {
			i.excludedMethods[method] = true
		}
		return nil
	}
}
