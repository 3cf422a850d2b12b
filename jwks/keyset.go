package jwks

import (
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/lestrrat-go/jwx/v2/jwk"
)

// Key is one public signing key as published on Google's certificate
// endpoint. N and E are the base64url encoded RSA modulus and exponent.
type Key struct {
	ID  string `json:"kid"`
	E   string `json:"e"`
	N   string `json:"n"`
	Kty string `json:"kty"`
	Alg string `json:"alg"`
	Use string `json:"use"`
}

// KeySet is an immutable set of keys ordered by ascending key ID.
//
// The order is part of the contract: tokens without a kid header are checked
// against the keys in this order and the first key that verifies wins.
type KeySet struct {
	keys []Key
	pubs map[string]publicKey
}

type publicKey struct {
	key *rsa.PublicKey
	err error
}

// NewKeySet builds a KeySet. When several keys share an ID the last one wins.
func NewKeySet(keys []Key) *KeySet {
	byID := make(map[string]Key, len(keys))
	for _, k := range keys {
		byID[k.ID] = k
	}

	sorted := make([]Key, 0, len(byID))
	for _, k := range byID {
		sorted = append(sorted, k)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ID < sorted[j].ID
	})

	pubs := make(map[string]publicKey, len(sorted))
	for _, k := range sorted {
		pub, err := rsaPublicKey(k)
		pubs[k.ID] = publicKey{key: pub, err: err}
	}

	return &KeySet{keys: sorted, pubs: pubs}
}

// PublicKey returns the RSA public key for kid. Keys are decoded once, when
// the set is built; a key that could not be decoded keeps returning its error.
func (s *KeySet) PublicKey(kid string) (*rsa.PublicKey, error) {
	if s == nil {
		return nil, fmt.Errorf("unknown kid %q", kid)
	}
	pub, ok := s.pubs[kid]
	if !ok {
		return nil, fmt.Errorf("unknown kid %q", kid)
	}
	return pub.key, pub.err
}

// Len returns the number of keys in the set.
func (s *KeySet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

// Lookup returns the key with the given ID.
func (s *KeySet) Lookup(kid string) (Key, bool) {
	if s == nil {
		return Key{}, false
	}
	i := sort.Search(len(s.keys), func(i int) bool {
		return s.keys[i].ID >= kid
	})
	if i < len(s.keys) && s.keys[i].ID == kid {
		return s.keys[i], true
	}
	return Key{}, false
}

// Keys returns a copy of the keys in ascending key ID order.
func (s *KeySet) Keys() []Key {
	if s == nil {
		return nil
	}
	out := make([]Key, len(s.keys))
	copy(out, s.keys)
	return out
}

// IDs returns the key IDs in ascending order.
func (s *KeySet) IDs() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, len(s.keys))
	for i, k := range s.keys {
		ids[i] = k.ID
	}
	return ids
}

// rsaPublicKey turns the published modulus and exponent into an RSA key.
func rsaPublicKey(key Key) (*rsa.PublicKey, error) {
	if key.Kty != "" && key.Kty != "RSA" {
		return nil, fmt.Errorf("key %q has unsupported type %q", key.ID, key.Kty)
	}

	raw, err := json.Marshal(map[string]string{"kty": "RSA", "n": key.N, "e": key.E})
	if err != nil {
		return nil, err
	}

	parsed, err := jwk.ParseKey(raw)
	if err != nil {
		return nil, fmt.Errorf("key %q is not a valid RSA key: %w", key.ID, err)
	}

	var pub rsa.PublicKey
	if err := parsed.Raw(&pub); err != nil {
		return nil, fmt.Errorf("key %q is not a valid RSA key: %w", key.ID, err)
	}

	return &pub, nil
}
