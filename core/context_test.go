package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetAndGetClaims(t *testing.T) {
	t.Run("set and get claims successfully", func(t *testing.T) {
		expectedClaims := map[string]any{"sub": "user123", "email": "user@example.com"}

		ctx := SetClaims(context.Background(), expectedClaims)
		claims, err := GetClaims[map[string]any](ctx)

		assert.NoError(t, err)
		assert.Equal(t, expectedClaims, claims)
	})

	t.Run("get claims with wrong type returns error", func(t *testing.T) {
		ctx := SetClaims(context.Background(), map[string]any{"sub": "user123"})

		_, err := GetClaims[string](ctx)

		assert.ErrorIs(t, err, ErrClaimsNotFound)
		assert.Contains(t, err.Error(), "claims type assertion failed")
	})

	t.Run("get claims from empty context returns error", func(t *testing.T) {
		_, err := GetClaims[map[string]any](context.Background())

		assert.ErrorIs(t, err, ErrClaimsNotFound)
	})

	t.Run("has claims", func(t *testing.T) {
		assert.False(t, HasClaims(context.Background()))
		assert.True(t, HasClaims(SetClaims(context.Background(), "claims")))
	})
}
