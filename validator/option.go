package validator

import (
	"errors"
	"fmt"
	"time"
)

// Option is how options for the Verifier are set up.
// Options return errors to enable validation during construction.
type Option func(*Verifier) error

// WithAudiences restricts the accepted aud claim to the given client IDs.
// Tokens whose audience is not in the list fail with core.ErrInvalidAudience.
func WithAudiences(audiences ...string) Option {
	return func(v *Verifier) error {
		for i, aud := range audiences {
			if aud == "" {
				return fmt.Errorf("audience at index %d cannot be empty", i)
			}
			v.audiences[aud] = struct{}{}
		}
		return nil
	}
}

// WithHostedDomains restricts accepted tokens to users of the given Google
// Workspace domains. Tokens without an hd claim, or with one not in the list,
// fail with core.ErrInvalidHostedDomain.
func WithHostedDomains(domains ...string) Option {
	return func(v *Verifier) error {
		for i, domain := range domains {
			if domain == "" {
				return fmt.Errorf("hosted domain at index %d cannot be empty", i)
			}
			v.hostedDomains[domain] = struct{}{}
		}
		return nil
	}
}

// WithAllowedClockSkew sets the tolerance applied to the exp claim to account
// for clock differences between systems. Default: 0.
func WithAllowedClockSkew(skew time.Duration) Option {
	return func(v *Verifier) error {
		if skew < 0 {
			return errors.New("clock skew cannot be negative")
		}
		v.allowedClockSkew = skew
		return nil
	}
}

// WithClock sets the clock used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(v *Verifier) error {
		if now == nil {
			return errors.New("clock cannot be nil")
		}
		v.now = now
		return nil
	}
}
