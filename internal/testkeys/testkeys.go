// Package testkeys generates RSA signing keys and signed ID tokens for tests.
package testkeys

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jws"
)

// Pair is an RSA key pair published under KID.
type Pair struct {
	KID     string
	Private *rsa.PrivateKey
}

var (
	mu        sync.Mutex
	generated = map[string]*rsa.PrivateKey{}
)

// New returns a key pair for kid. Keys are generated once per kid and reused
// across tests in the same binary.
func New(t testing.TB, kid string) *Pair {
	t.Helper()

	mu.Lock()
	defer mu.Unlock()

	key, ok := generated[kid]
	if !ok {
		var err error
		key, err = rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			t.Fatalf("could not generate RSA key: %v", err)
		}
		generated[kid] = key
	}

	return &Pair{KID: kid, Private: key}
}

// N returns the base64url encoded modulus.
func (p *Pair) N() string {
	return base64.RawURLEncoding.EncodeToString(p.Private.N.Bytes())
}

// E returns the base64url encoded public exponent.
func (p *Pair) E() string {
	return base64.RawURLEncoding.EncodeToString(big.NewInt(int64(p.Private.E)).Bytes())
}

// Cert returns the key the way Google's certificate endpoint publishes it.
func (p *Pair) Cert() map[string]string {
	return map[string]string{
		"kid": p.KID,
		"n":   p.N(),
		"e":   p.E(),
		"kty": "RSA",
		"alg": "RS256",
		"use": "sig",
	}
}

// CertsBody renders a certificate endpoint response for pairs.
func CertsBody(t testing.TB, pairs ...*Pair) []byte {
	t.Helper()

	certs := make([]map[string]string, 0, len(pairs))
	for _, p := range pairs {
		certs = append(certs, p.Cert())
	}
	body, err := json.Marshal(map[string]any{"keys": certs})
	if err != nil {
		t.Fatalf("could not marshal certs: %v", err)
	}
	return body
}

// Claims returns a valid Google claim set for audience, expiring in an hour.
func Claims(audience string) map[string]any {
	now := time.Now()
	return map[string]any{
		"iss":            "https://accounts.google.com",
		"sub":            "110169484474386276334",
		"azp":            audience,
		"aud":            audience,
		"iat":            now.Unix(),
		"exp":            now.Add(time.Hour).Unix(),
		"email":          "jane@example.com",
		"email_verified": true,
		"name":           "Jane Doe",
	}
}

// Sign signs claims with RS256, naming the pair's KID in the header.
func (p *Pair) Sign(t testing.TB, claims map[string]any) string {
	t.Helper()
	return sign(t, jwa.RS256, p.Private, p.KID, claims)
}

// SignWithoutKID signs claims with RS256 and no kid header.
func (p *Pair) SignWithoutKID(t testing.TB, claims map[string]any) string {
	t.Helper()
	return sign(t, jwa.RS256, p.Private, "", claims)
}

// SignWith signs claims with an arbitrary algorithm and key.
func SignWith(t testing.TB, alg jwa.SignatureAlgorithm, key any, kid string, claims map[string]any) string {
	t.Helper()
	return sign(t, alg, key, kid, claims)
}

func sign(t testing.TB, alg jwa.SignatureAlgorithm, key any, kid string, claims map[string]any) string {
	t.Helper()

	payload, err := json.Marshal(claims)
	if err != nil {
		t.Fatalf("could not marshal claims: %v", err)
	}

	headers := jws.NewHeaders()
	if err := headers.Set(jws.TypeKey, "JWT"); err != nil {
		t.Fatalf("could not set typ header: %v", err)
	}
	if kid != "" {
		if err := headers.Set(jws.KeyIDKey, kid); err != nil {
			t.Fatalf("could not set kid header: %v", err)
		}
	}

	signed, err := jws.Sign(payload, jws.WithKey(alg, key, jws.WithProtectedHeaders(headers)))
	if err != nil {
		t.Fatalf("could not sign token: %v", err)
	}
	return string(signed)
}
