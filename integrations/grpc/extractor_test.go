package grpc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/metadata"
)

func TestMetadataTokenExtractor(t *testing.T) {
	testCases := []struct {
		name      string
		ctx       context.Context
		wantToken string
		wantError error
	}{
		{
			name:      "bearer token",
			ctx:       incoming("Bearer token-123"),
			wantToken: "token-123",
		},
		{
			name:      "case insensitive scheme",
			ctx:       incoming("BEARER token-123"),
			wantToken: "token-123",
		},
		{
			name:      "surrounding whitespace",
			ctx:       incoming("  Bearer   token-123  "),
			wantToken: "token-123",
		},
		{
			name: "no metadata",
			ctx:  context.Background(),
		},
		{
			name: "no authorization key",
			ctx:  metadata.NewIncomingContext(context.Background(), metadata.Pairs("x-request-id", "1")),
		},
		{
			name:      "multiple entries",
			ctx:       incoming("Bearer a", "Bearer b"),
			wantError: ErrMultipleAuthHeaders,
		},
		{
			name:      "scheme only",
			ctx:       incoming("Bearer"),
			wantError: ErrInvalidAuthFormat,
		},
		{
			name:      "too many parts",
			ctx:       incoming("Bearer a b"),
			wantError: ErrInvalidAuthFormat,
		},
		{
			name:      "other scheme",
			ctx:       incoming("Basic abc"),
			wantError: ErrUnsupportedScheme,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			token, err := MetadataTokenExtractor(testCase.ctx)
			if testCase.wantError != nil {
				assert.ErrorIs(t, err, testCase.wantError)
				assert.Empty(t, token)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, testCase.wantToken, token)
		})
	}
}
