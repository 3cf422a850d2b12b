package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jws"

	"github.com/signin-tools/go-idtoken/core"
	"github.com/signin-tools/go-idtoken/jwks"
)

// Google issues ID tokens under either of these iss values.
const (
	Issuer      = "accounts.google.com"
	IssuerHTTPS = "https://accounts.google.com"
)

// Verifier checks the signature of Google ID tokens against a key set and
// applies the issuer, audience and hosted domain policy to their claims.
// It is safe for concurrent use; its configuration is fixed by New.
type Verifier struct {
	audiences        map[string]struct{}
	hostedDomains    map[string]struct{}
	allowedClockSkew time.Duration
	now              func() time.Time
}

// New sets up a new Verifier.
//
// Without WithAudiences any audience is accepted; without WithHostedDomains
// any (or no) hosted domain is accepted.
func New(opts ...Option) (*Verifier, error) {
	v := &Verifier{
		audiences:     map[string]struct{}{},
		hostedDomains: map[string]struct{}{},
		now:           time.Now,
	}

	for _, opt := range opts {
		if err := opt(v); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	return v, nil
}

// Verify checks token against keys and returns its claims.
//
// If the token header names a kid, only that key is tried and a kid missing
// from keys fails with core.ErrInvalidKey. Without a kid every key is tried in
// ascending kid order and the first one that verifies wins. The kid is
// resolved before the algorithm is checked. Signature, algorithm, format,
// missing claim and expiry failures are core.ErrInvalidToken. The claim
// policy is applied last, see CheckClaims.
func (v *Verifier) Verify(token string, keys *jwks.KeySet) (*IdentityClaims, error) {
	if err := checkTokenFormat(token); err != nil {
		return nil, core.NewError(core.ErrorCodeInvalidToken, "could not parse the token", err)
	}

	msg, err := jws.Parse([]byte(token))
	if err != nil {
		return nil, core.NewError(core.ErrorCodeInvalidToken, "could not parse the token", err)
	}

	signatures := msg.Signatures()
	if len(signatures) != 1 {
		return nil, core.NewError(core.ErrorCodeInvalidToken, "could not parse the token", ErrMalformedToken)
	}
	headers := signatures[0].ProtectedHeaders()

	candidates, err := selectKeys(headers.KeyID(), keys)
	if err != nil {
		return nil, err
	}

	if alg := headers.Algorithm(); alg != jwa.RS256 {
		return nil, core.NewError(
			core.ErrorCodeInvalidToken,
			"signing method is invalid",
			fmt.Errorf("expected %q signing algorithm but token specified %q", jwa.RS256, alg),
		)
	}

	payload, err := verifySignature(token, keys, candidates)
	if err != nil {
		return nil, err
	}

	var claims IdentityClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, core.NewError(core.ErrorCodeInvalidToken, "could not decode token claims", err)
	}

	if err := claims.CheckRequired(); err != nil {
		return nil, core.NewError(core.ErrorCodeInvalidToken, "token is missing required claims", err)
	}

	if err := v.checkExpiry(&claims); err != nil {
		return nil, err
	}

	if err := v.CheckClaims(&claims); err != nil {
		return nil, err
	}

	return &claims, nil
}

// CheckClaims applies the claim policy: the issuer must be Google, the
// audience must be allowed, and the hosted domain must be allowed. The first
// failing check is returned.
func (v *Verifier) CheckClaims(claims *IdentityClaims) error {
	if claims.Issuer != Issuer && claims.Issuer != IssuerHTTPS {
		return core.NewError(
			core.ErrorCodeInvalidIssuer,
			"issuer is not Google",
			fmt.Errorf("unexpected issuer %q", claims.Issuer),
		)
	}

	if len(v.audiences) > 0 {
		if _, ok := v.audiences[claims.Audience]; !ok {
			return core.NewError(
				core.ErrorCodeInvalidAudience,
				"audience is not allowed",
				fmt.Errorf("unexpected audience %q", claims.Audience),
			)
		}
	}

	if len(v.hostedDomains) > 0 {
		if claims.HostedDomain == "" {
			return core.NewError(core.ErrorCodeInvalidHostedDomain, "token has no hosted domain", nil)
		}
		if _, ok := v.hostedDomains[claims.HostedDomain]; !ok {
			return core.NewError(
				core.ErrorCodeInvalidHostedDomain,
				"hosted domain is not allowed",
				fmt.Errorf("unexpected hosted domain %q", claims.HostedDomain),
			)
		}
	}

	return nil
}

func (v *Verifier) checkExpiry(claims *IdentityClaims) error {
	if claims.Expiry.Time().Before(v.now().Add(-v.allowedClockSkew)) {
		return core.NewError(core.ErrorCodeInvalidToken, "token is expired", core.ErrTokenExpired)
	}

	return nil
}

func selectKeys(kid string, keys *jwks.KeySet) ([]jwks.Key, error) {
	if kid == "" {
		return keys.Keys(), nil
	}

	key, ok := keys.Lookup(kid)
	if !ok {
		return nil, core.NewError(
			core.ErrorCodeInvalidKey,
			"token key is not in the key set",
			fmt.Errorf("unknown kid %q", kid),
		)
	}

	return []jwks.Key{key}, nil
}

func verifySignature(token string, keys *jwks.KeySet, candidates []jwks.Key) ([]byte, error) {
	lastErr := errors.New("no keys to verify against")

	for _, key := range candidates {
		pub, err := keys.PublicKey(key.ID)
		if err != nil {
			lastErr = err
			continue
		}

		payload, err := jws.Verify([]byte(token), jws.WithKey(jwa.RS256, pub))
		if err == nil {
			return payload, nil
		}
		lastErr = err
	}

	return nil, core.NewError(core.ErrorCodeInvalidToken, "could not verify the token signature", lastErr)
}
