// Package core provides transport-agnostic ID token checking that is shared by
// the net/http, Gin, Echo and gRPC adapters, together with the error taxonomy,
// logging and metrics interfaces used across the module.
package core

import (
	"context"
	"time"
)

// TokenVerifier verifies a raw ID token and returns its claims.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (any, error)
}

// Core is the transport-agnostic token checking engine.
type Core struct {
	verifier            TokenVerifier
	credentialsOptional bool
	logger              Logger
}

// CheckToken verifies a token string and returns the verified claims.
//
//   - If token is empty and credentialsOptional is true, returns (nil, nil)
//   - If token is empty and credentialsOptional is false, returns ErrTokenMissing
//   - Otherwise, verifies the token using the configured verifier
func (c *Core) CheckToken(ctx context.Context, token string) (any, error) {
	if token == "" {
		if c.credentialsOptional {
			c.logger.Debug("No token provided, but credentials are optional")
			return nil, nil
		}

		c.logger.Warn("No token provided and credentials are required")
		return nil, NewError(ErrorCodeTokenMissing, "token is missing", nil)
	}

	start := time.Now()
	claims, err := c.verifier.VerifyToken(ctx, token)
	duration := time.Since(start)

	if err != nil {
		c.logger.Error("Token verification failed", "error", err, "code", Code(err), "duration", duration)
		return nil, err
	}

	c.logger.Debug("Token verified successfully", "duration", duration)

	return claims, nil
}
