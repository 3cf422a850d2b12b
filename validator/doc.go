/*
Package validator verifies Google ID tokens against a jwks.KeySet.

Verification happens in a fixed order and stops at the first failure:

 1. The token must be a compact JWS signed with RS256.
 2. If the header names a kid, that key must be in the key set
    (core.ErrInvalidKey) and must verify the signature (core.ErrInvalidToken).
    Without a kid, keys are tried in ascending kid order and the first that
    verifies wins; if none does, core.ErrInvalidToken.
 3. The exp claim must be present and not in the past.
 4. iss must be accounts.google.com or https://accounts.google.com
    (core.ErrInvalidIssuer).
 5. If audiences were configured, aud must be one of them (core.ErrInvalidAudience).
 6. If hosted domains were configured, hd must be present and one of them
    (core.ErrInvalidHostedDomain).

Signature checking is done with github.com/lestrrat-go/jwx/v2.

Example:

	v, err := validator.New(
	    validator.WithAudiences("1234.apps.googleusercontent.com"),
	    validator.WithHostedDomains("example.com"),
	)
	if err != nil {
	    log.Fatal(err)
	}

	claims, err := v.Verify(token, keys)
*/
package validator
