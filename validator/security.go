package validator

import (
	"errors"
	"strings"
)

var (
	// ErrMalformedToken is returned when a token is not a compact JWS
	// (header.payload.signature).
	ErrMalformedToken = errors.New("token is not a compact JWS")
)

const (
	// maxTokenSize bounds the token length; Google ID tokens are around 1KB.
	maxTokenSize = 1024 * 1024
)

// checkTokenFormat rejects obviously malformed input before it reaches the
// JOSE parser.
func checkTokenFormat(token string) error {
	if len(token) == 0 {
		return errors.New("token is empty")
	}

	if len(token) > maxTokenSize {
		return errors.New("token exceeds maximum size (1MB)")
	}

	if strings.Count(token, ".") != 2 {
		return ErrMalformedToken
	}

	return nil
}
