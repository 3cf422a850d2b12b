package jwks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signin-tools/go-idtoken/internal/testkeys"
)

func TestNewKeySet(t *testing.T) {
	t.Run("keys are ordered by ascending key ID", func(t *testing.T) {
		set := NewKeySet([]Key{{ID: "c"}, {ID: "a"}, {ID: "b"}})
		assert.Equal(t, []string{"a", "b", "c"}, set.IDs())
		assert.Equal(t, 3, set.Len())
	})

	t.Run("the last key with a duplicated ID wins", func(t *testing.T) {
		set := NewKeySet([]Key{{ID: "k1", N: "first"}, {ID: "k2"}, {ID: "k1", N: "second"}})
		assert.Equal(t, 2, set.Len())

		key, ok := set.Lookup("k1")
		assert.True(t, ok)
		assert.Equal(t, "second", key.N)
	})

	t.Run("lookup of a missing key", func(t *testing.T) {
		set := NewKeySet([]Key{{ID: "k2"}})
		_, ok := set.Lookup("k1")
		assert.False(t, ok)
		_, ok = set.Lookup("k3")
		assert.False(t, ok)
	})

	t.Run("keys returns a copy", func(t *testing.T) {
		set := NewKeySet([]Key{{ID: "k1", N: "n"}})
		keys := set.Keys()
		keys[0].N = "changed"

		key, _ := set.Lookup("k1")
		assert.Equal(t, "n", key.N)
	})

	t.Run("nil and empty sets", func(t *testing.T) {
		var set *KeySet
		assert.Equal(t, 0, set.Len())
		assert.Nil(t, set.Keys())
		_, ok := set.Lookup("k1")
		assert.False(t, ok)

		empty := NewKeySet(nil)
		assert.Equal(t, 0, empty.Len())
		assert.Empty(t, empty.IDs())
	})

	t.Run("public keys are decoded once when the set is built", func(t *testing.T) {
		pair := testkeys.New(t, "k1")
		set := NewKeySet([]Key{{ID: "k1", N: pair.N(), E: pair.E(), Kty: "RSA"}})

		first, err := set.PublicKey("k1")
		require.NoError(t, err)
		assert.Zero(t, pair.Private.PublicKey.N.Cmp(first.N))
		assert.Equal(t, pair.Private.PublicKey.E, first.E)

		second, err := set.PublicKey("k1")
		require.NoError(t, err)
		assert.Same(t, first, second)
	})

	t.Run("an undecodable key keeps its error", func(t *testing.T) {
		set := NewKeySet([]Key{{ID: "bad", N: "!!", E: "AQAB"}, {ID: "ec", Kty: "EC"}})

		_, err := set.PublicKey("bad")
		assert.ErrorContains(t, err, `key "bad" is not a valid RSA key`)

		_, err = set.PublicKey("ec")
		assert.ErrorContains(t, err, `unsupported type "EC"`)

		_, err = set.PublicKey("missing")
		assert.ErrorContains(t, err, `unknown kid "missing"`)
	})
}
