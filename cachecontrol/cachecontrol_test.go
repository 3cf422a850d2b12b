package cachecontrol

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seconds(n int) *time.Duration {
	d := time.Duration(n) * time.Second
	return &d
}

func TestParse(t *testing.T) {
	testCases := []struct {
		name     string
		raw      string
		expected *Directives
	}{
		{
			name: "public with max-age",
			raw:  "public, max-age=300",
			expected: &Directives{
				Cachability: Public,
				MaxAge:      seconds(300),
			},
		},
		{
			name: "google certs header",
			raw:  "public, max-age=19868, must-revalidate, no-transform",
			expected: &Directives{
				Cachability:    Public,
				MaxAge:         seconds(19868),
				MustRevalidate: true,
				NoTransform:    true,
			},
		},
		{
			name: "every flag",
			raw:  "private,proxy-revalidate,immutable,no-store",
			expected: &Directives{
				Cachability:     Private,
				ProxyRevalidate: true,
				Immutable:       true,
				NoStore:         true,
			},
		},
		{
			name: "valued directives",
			raw:  "no-cache, s-maxage=10, max-stale=20, min-fresh=30",
			expected: &Directives{
				Cachability: NoCache,
				SMaxAge:     seconds(10),
				MaxStale:    seconds(20),
				MinFresh:    seconds(30),
			},
		},
		{
			name: "last cachability wins",
			raw:  "public, only-if-cached",
			expected: &Directives{
				Cachability: OnlyIfCached,
			},
		},
		{
			name: "unknown directives are ignored",
			raw:  "stale-while-revalidate=60, max-age=0, x-custom",
			expected: &Directives{
				MaxAge: seconds(0),
			},
		},
		{
			name: "a bad s-maxage is ignored",
			raw:  "public, s-maxage=abc, max-age=300",
			expected: &Directives{
				Cachability: Public,
				MaxAge:      seconds(300),
			},
		},
		{
			name: "s-maxage without a value is ignored",
			raw:  "s-maxage, max-age=60",
			expected: &Directives{
				MaxAge: seconds(60),
			},
		},
		{
			name: "whitespace and case are tolerated",
			raw:  "  PUBLIC ,  max-age = 60 ",
			expected: &Directives{
				Cachability: Public,
				MaxAge:      seconds(60),
			},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			actual, ok := Parse(testCase.raw)
			require.True(t, ok)
			if diff := cmp.Diff(testCase.expected, actual); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", testCase.raw, diff)
			}
		})
	}
}

func TestParseFailsAsAWhole(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
	}{
		{name: "missing value after a valid directive", raw: "public, max-age="},
		{name: "valued directive without equals sign", raw: "max-age"},
		{name: "negative value", raw: "public, max-age=-1"},
		{name: "non numeric value", raw: "max-age=soon, public"},
		{name: "fractional value", raw: "min-fresh=1.5"},
		{name: "missing key", raw: "public, =300"},
		{name: "empty directive", raw: "public,,max-age=300"},
		{name: "empty header", raw: ""},
		{name: "overflowing value", raw: "max-age=99999999999999999999"},
		{name: "value too large for a duration", raw: "max-stale=9223372036854775807"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			actual, ok := Parse(testCase.raw)
			assert.False(t, ok)
			assert.Nil(t, actual, "no partially applied directives may leak")
		})
	}
}

func TestCachabilityString(t *testing.T) {
	assert.Equal(t, "public", Public.String())
	assert.Equal(t, "private", Private.String())
	assert.Equal(t, "no-cache", NoCache.String())
	assert.Equal(t, "only-if-cached", OnlyIfCached.String())
	assert.Equal(t, "unset", Unset.String())
}
