// Package cachecontrol parses HTTP Cache-Control header values into a
// structured freshness policy.
//
// Parsing is all-or-nothing: a malformed directive discards every directive
// already read from the same header value.
package cachecontrol

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Cachability describes who may cache a response.
type Cachability int

const (
	// Unset means the header carried no cachability directive.
	Unset Cachability = iota
	// Public means any cache may store the response.
	Public
	// Private means shared caches must not store the response.
	Private
	// NoCache means the response must be revalidated before every use.
	NoCache
	// OnlyIfCached means the response should only be served from a cache.
	OnlyIfCached
)

// String returns the directive name of the cachability.
func (c Cachability) String() string {
	switch c {
	case Public:
		return "public"
	case Private:
		return "private"
	case NoCache:
		return "no-cache"
	case OnlyIfCached:
		return "only-if-cached"
	default:
		return "unset"
	}
}

// Directives is the parsed form of a Cache-Control header value.
// Duration fields are nil when the directive was not present.
type Directives struct {
	Cachability     Cachability
	MaxAge          *time.Duration
	SMaxAge         *time.Duration
	MaxStale        *time.Duration
	MinFresh        *time.Duration
	MustRevalidate  bool
	ProxyRevalidate bool
	Immutable       bool
	NoStore         bool
	NoTransform     bool
}

// maxSeconds is the largest number of seconds representable as a time.Duration.
const maxSeconds = uint64(math.MaxInt64 / int64(time.Second))

// Parse parses the value of a Cache-Control header (everything after
// "Cache-Control:"). It returns false when any directive is malformed: an
// empty directive name, or a max-age, max-stale or min-fresh directive whose
// value is missing or is not a non-negative integer number of seconds.
// Unknown directives are ignored, and so is an s-maxage with a bad value.
func Parse(raw string) (*Directives, bool) {
	d := &Directives{}

	for _, token := range strings.Split(raw, ",") {
		name, value, hasValue := strings.Cut(token, "=")
		name = strings.ToLower(strings.TrimSpace(name))
		value = strings.TrimSpace(value)

		if name == "" {
			return nil, false
		}

		switch name {
		case "public":
			d.Cachability = Public
		case "private":
			d.Cachability = Private
		case "no-cache":
			d.Cachability = NoCache
		case "only-if-cached":
			d.Cachability = OnlyIfCached
		case "must-revalidate":
			d.MustRevalidate = true
		case "proxy-revalidate":
			d.ProxyRevalidate = true
		case "immutable":
			d.Immutable = true
		case "no-store":
			d.NoStore = true
		case "no-transform":
			d.NoTransform = true
		case "s-maxage":
			if dur, ok := parseSeconds(value); ok && hasValue {
				d.SMaxAge = &dur
			}
		case "max-age", "max-stale", "min-fresh":
			if !hasValue {
				return nil, false
			}
			dur, ok := parseSeconds(value)
			if !ok {
				return nil, false
			}
			switch name {
			case "max-age":
				d.MaxAge = &dur
			case "max-stale":
				d.MaxStale = &dur
			case "min-fresh":
				d.MinFresh = &dur
			}
		}
	}

	return d, true
}

func parseSeconds(value string) (time.Duration, bool) {
	seconds, err := strconv.ParseUint(value, 10, 64)
	if err != nil || seconds > maxSeconds {
		return 0, false
	}
	return time.Duration(seconds) * time.Second, true
}
