package grpc

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/signin-tools/go-idtoken/core"
)

// ErrorHandler converts verification errors to gRPC status errors.
type ErrorHandler func(error) error

// DefaultErrorHandler maps verification errors to gRPC status codes:
//
//   - missing, invalid or expired tokens: Unauthenticated
//   - a token for another issuer, audience or hosted domain: PermissionDenied
//   - Google's keys unavailable: Unavailable
//   - malformed authorization metadata: InvalidArgument
func DefaultErrorHandler(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrMultipleAuthHeaders) ||
		errors.Is(err, ErrInvalidAuthFormat) ||
		errors.Is(err, ErrUnsupportedScheme) {
		return status.Error(codes.InvalidArgument, err.Error())
	}

	if core.IsKeySetError(err) {
		return status.Error(codes.Unavailable, "unable to verify token")
	}

	switch core.Code(err) {
	case core.ErrorCodeTokenMissing:
		return status.Error(codes.Unauthenticated, "missing credentials")
	case core.ErrorCodeInvalidIssuer:
		return status.Error(codes.PermissionDenied, "invalid issuer")
	case core.ErrorCodeInvalidAudience:
		return status.Error(codes.PermissionDenied, "invalid audience")
	case core.ErrorCodeInvalidHostedDomain:
		return status.Error(codes.PermissionDenied, "invalid hosted domain")
	}

	if errors.Is(err, core.ErrTokenExpired) {
		return status.Error(codes.Unauthenticated, "token expired")
	}

	// Everything else, including errors from custom verifiers, is treated as
	// an invalid token.
	return status.Error(codes.Unauthenticated, "invalid token")
}
