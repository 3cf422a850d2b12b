package validator

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrMissingClaims is returned by CheckRequired.
var ErrMissingClaims = errors.New("missing required claims")

// IdentityClaims are the claims of a Google ID token.
//
// The first six fields are present in every Google ID token. The profile and
// email fields are only present when the user granted the matching scopes.
type IdentityClaims struct {
	Issuer          string      `json:"iss"`
	Subject         string      `json:"sub"`
	AuthorizedParty string      `json:"azp"`
	Audience        string      `json:"aud"`
	IssuedAt        NumericTime `json:"iat"`
	Expiry          NumericTime `json:"exp"`

	// HostedDomain is set when the user belongs to a Google Workspace domain.
	HostedDomain string `json:"hd,omitempty"`

	Email         string   `json:"email,omitempty"`
	EmailVerified FlexBool `json:"email_verified,omitempty"`
	Name          string   `json:"name,omitempty"`
	Picture       string   `json:"picture,omitempty"`
	GivenName     string   `json:"given_name,omitempty"`
	FamilyName    string   `json:"family_name,omitempty"`
	Locale        string   `json:"locale,omitempty"`
}

// CheckRequired reports the claims every Google ID token carries that are
// absent or empty in c.
func (c *IdentityClaims) CheckRequired() error {
	var missing []string
	for _, claim := range []struct {
		name    string
		present bool
	}{
		{"iss", c.Issuer != ""},
		{"sub", c.Subject != ""},
		{"azp", c.AuthorizedParty != ""},
		{"aud", c.Audience != ""},
		{"iat", c.IssuedAt != 0},
		{"exp", c.Expiry != 0},
	} {
		if !claim.present {
			missing = append(missing, claim.name)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingClaims, strings.Join(missing, ", "))
	}
	return nil
}

// NumericTime is a Unix timestamp in seconds. It decodes from a JSON number
// or from a string holding a number, since the tokeninfo endpoint sends
// timestamps as strings.
type NumericTime int64

// UnmarshalJSON implements json.Unmarshaler.
func (t *NumericTime) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	}

	if seconds, err := strconv.ParseInt(raw, 10, 64); err == nil {
		*t = NumericTime(seconds)
		return nil
	}

	seconds, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("invalid numeric date %s", data)
	}
	*t = NumericTime(seconds)
	return nil
}

// Time returns the timestamp as a time.Time; the zero time if unset.
func (t NumericTime) Time() time.Time {
	if t == 0 {
		return time.Time{}
	}
	return time.Unix(int64(t), 0)
}

// FlexBool decodes from a JSON boolean or from the strings "true" and "false".
type FlexBool bool

// UnmarshalJSON implements json.Unmarshaler.
func (b *FlexBool) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "true", `"true"`:
		*b = true
	case "false", `"false"`, "null":
		*b = false
	default:
		return fmt.Errorf("invalid boolean %s", data)
	}
	return nil
}
