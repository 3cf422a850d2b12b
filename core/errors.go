package core

import (
	"errors"
)

// Sentinel errors identifying each kind of verification failure. A *Error
// matches exactly one of them with errors.Is.
var (
	// ErrConnection is returned when Google could not be reached.
	ErrConnection = errors.New("connection error")

	// ErrServerRejected is returned when the certificate endpoint answers
	// with a non-2xx status.
	ErrServerRejected = errors.New("server rejected request")

	// ErrDecode is returned when a response body is not the expected JSON.
	ErrDecode = errors.New("decode error")

	// ErrInvalidKey is returned when the token names a key ID that is not in
	// the current key set.
	ErrInvalidKey = errors.New("invalid key")

	// ErrInvalidToken is returned when the token is malformed, expired, or
	// its signature does not verify.
	ErrInvalidToken = errors.New("invalid token")

	// ErrInvalidIssuer is returned when the iss claim is not Google.
	ErrInvalidIssuer = errors.New("invalid issuer")

	// ErrInvalidAudience is returned when the aud claim is not allowed.
	ErrInvalidAudience = errors.New("invalid audience")

	// ErrInvalidHostedDomain is returned when the hd claim is missing or not allowed.
	ErrInvalidHostedDomain = errors.New("invalid hosted domain")

	// ErrTokenExpired is wrapped by ErrInvalidToken failures caused by exp.
	ErrTokenExpired = errors.New("token is expired")

	// ErrTokenMissing is returned when the request carries no token.
	ErrTokenMissing = errors.New("token missing")

	// ErrClaimsNotFound is returned when claims cannot be retrieved from context.
	ErrClaimsNotFound = errors.New("claims not found in context")
)

// Error codes, one per sentinel.
const (
	ErrorCodeConnection          = "connection_error"
	ErrorCodeServerRejected      = "server_rejected"
	ErrorCodeDecode              = "decode_error"
	ErrorCodeInvalidKey          = "invalid_key"
	ErrorCodeInvalidToken        = "invalid_token"
	ErrorCodeInvalidIssuer       = "invalid_issuer"
	ErrorCodeInvalidAudience     = "invalid_audience"
	ErrorCodeInvalidHostedDomain = "invalid_hosted_domain"
	ErrorCodeTokenMissing        = "token_missing"
	ErrorCodeClaimsNotFound      = "claims_not_found"
)

var kinds = map[string]error{
	ErrorCodeConnection:          ErrConnection,
	ErrorCodeServerRejected:      ErrServerRejected,
	ErrorCodeDecode:              ErrDecode,
	ErrorCodeInvalidKey:          ErrInvalidKey,
	ErrorCodeInvalidToken:        ErrInvalidToken,
	ErrorCodeInvalidIssuer:       ErrInvalidIssuer,
	ErrorCodeInvalidAudience:     ErrInvalidAudience,
	ErrorCodeInvalidHostedDomain: ErrInvalidHostedDomain,
	ErrorCodeTokenMissing:        ErrTokenMissing,
	ErrorCodeClaimsNotFound:      ErrClaimsNotFound,
}

// Error is a typed verification failure. It provides structured error
// information that can be used for logging, metrics, and returning
// appropriate error responses.
type Error struct {
	// Code is a machine-readable error code (e.g., "invalid_key").
	Code string

	// Message is a human-readable error message.
	Message string

	// Details contains the underlying error, if any.
	Details error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Details != nil {
		return e.Message + ": " + e.Details.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error for error unwrapping.
func (e *Error) Unwrap() error {
	return e.Details
}

// Is reports whether target is the sentinel for this error's code.
func (e *Error) Is(target error) bool {
	kind, ok := kinds[e.Code]
	return ok && kind == target
}

// NewError creates a new Error with the given code and message.
func NewError(code, message string, details error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// Code returns the error code carried by err, or "" if err is not a *Error.
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsKeySetError reports whether err means the key set is stale or
// unreachable, as opposed to the token itself being invalid.
func IsKeySetError(err error) bool {
	return errors.Is(err, ErrConnection) ||
		errors.Is(err, ErrServerRejected) ||
		errors.Is(err, ErrDecode)
}
