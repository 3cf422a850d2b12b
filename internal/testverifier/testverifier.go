// Package testverifier provides a core.TokenVerifier over a fixed key set for
// adapter tests.
package testverifier

import (
	"context"
	"testing"

	"github.com/signin-tools/go-idtoken/internal/testkeys"
	"github.com/signin-tools/go-idtoken/jwks"
	"github.com/signin-tools/go-idtoken/validator"
)

// Verifier verifies tokens against the keys it was built with.
type Verifier struct {
	verifier *validator.Verifier
	keys     *jwks.KeySet
}

// New returns a Verifier that accepts tokens signed by pairs.
func New(t testing.TB, pairs []*testkeys.Pair, opts ...validator.Option) *Verifier {
	t.Helper()

	v, err := validator.New(opts...)
	if err != nil {
		t.Fatalf("could not create verifier: %v", err)
	}

	keys := make([]jwks.Key, 0, len(pairs))
	for _, p := range pairs {
		keys = append(keys, jwks.Key{ID: p.KID, N: p.N(), E: p.E(), Kty: "RSA", Alg: "RS256", Use: "sig"})
	}

	return &Verifier{verifier: v, keys: jwks.NewKeySet(keys)}
}

// VerifyToken implements core.TokenVerifier.
func (v *Verifier) VerifyToken(_ context.Context, token string) (any, error) {
	claims, err := v.verifier.Verify(token, v.keys)
	if err != nil {
		return nil, err
	}
	return claims, nil
}
