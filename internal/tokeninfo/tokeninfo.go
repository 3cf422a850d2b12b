// Package tokeninfo asks Google's tokeninfo endpoint to validate an ID token.
//
// The endpoint performs signature and expiry checks on Google's side and
// answers with the decoded claims, so no key set is needed. It is meant for
// debugging and low volume use; every call is a network round trip.
package tokeninfo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/signin-tools/go-idtoken/core"
	"github.com/signin-tools/go-idtoken/validator"
)

// URL is Google's tokeninfo endpoint.
const URL = "https://www.googleapis.com/oauth2/v3/tokeninfo"

const maxBodySize = 1 << 20

// Lookup sends token to the tokeninfo endpoint and decodes the claims it
// returns. Transport failures are core.ErrConnection, any non-2xx answer
// means Google rejected the token (core.ErrInvalidToken), and a body that is
// not a complete claim set is core.ErrDecode.
func Lookup(ctx context.Context, client *http.Client, endpoint, token string) (*validator.IdentityClaims, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, core.NewError(core.ErrorCodeConnection, "invalid tokeninfo URL", err)
	}
	query := u.Query()
	query.Set("id_token", token)
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, core.NewError(core.ErrorCodeConnection, "could not build tokeninfo request", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, core.NewError(core.ErrorCodeConnection, "could not reach the tokeninfo endpoint", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, core.NewError(core.ErrorCodeConnection, "could not read the tokeninfo response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, core.NewError(
			core.ErrorCodeInvalidToken,
			"tokeninfo endpoint rejected the token",
			fmt.Errorf("status %d", resp.StatusCode),
		)
	}

	var claims validator.IdentityClaims
	if err := json.Unmarshal(body, &claims); err != nil {
		return nil, core.NewError(core.ErrorCodeDecode, "could not decode the tokeninfo response", err)
	}

	if err := claims.CheckRequired(); err != nil {
		return nil, core.NewError(core.ErrorCodeDecode, "tokeninfo response is not a complete claim set", err)
	}

	return &claims, nil
}
