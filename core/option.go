package core

import (
	"errors"
)

// Option is a function that configures the Core.
type Option func(*Core) error

// New creates a new Core instance with the provided options.
//
// The Core must be configured with a TokenVerifier using WithVerifier.
//
// Example:
//
//	c, err := core.New(
//	    core.WithVerifier(verifier),
//	    core.WithCredentialsOptional(true),
//	    core.WithLogger(slog.Default()),
//	)
func New(opts ...Option) (*Core, error) {
	c := &Core{
		logger: NopLogger{},
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.verifier == nil {
		return nil, errors.New("verifier is required but not set (use WithVerifier option)")
	}

	return c, nil
}

// WithVerifier sets the verifier for the Core. This is a required option.
func WithVerifier(verifier TokenVerifier) Option {
	return func(c *Core) error {
		if verifier == nil {
			return errors.New("verifier cannot be nil")
		}
		c.verifier = verifier
		return nil
	}
}

// WithCredentialsOptional configures whether credentials are optional.
//
// When set to true, requests without tokens proceed without claims.
// When set to false (default), requests without tokens fail with ErrTokenMissing.
func WithCredentialsOptional(optional bool) Option {
	return func(c *Core) error {
		c.credentialsOptional = optional
		return nil
	}
}

// WithLogger sets an optional logger for the Core.
func WithLogger(logger Logger) Option {
	return func(c *Core) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		c.logger = logger
		return nil
	}
}
