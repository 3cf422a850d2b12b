package idtoken

import "github.com/signin-tools/go-idtoken/core"

// Errors returned by Client and Middleware. Every failure is a *core.Error
// that matches exactly one of these with errors.Is.
var (
	ErrConnection          = core.ErrConnection
	ErrServerRejected      = core.ErrServerRejected
	ErrDecode              = core.ErrDecode
	ErrInvalidKey          = core.ErrInvalidKey
	ErrInvalidToken        = core.ErrInvalidToken
	ErrInvalidIssuer       = core.ErrInvalidIssuer
	ErrInvalidAudience     = core.ErrInvalidAudience
	ErrInvalidHostedDomain = core.ErrInvalidHostedDomain
	ErrTokenExpired        = core.ErrTokenExpired
	ErrTokenMissing        = core.ErrTokenMissing
	ErrClaimsNotFound      = core.ErrClaimsNotFound
)

// IsKeySetError reports whether err means Google's keys could not be
// obtained, rather than the token being bad. Such failures are usually worth
// retrying later.
func IsKeySetError(err error) bool {
	return core.IsKeySetError(err)
}
