/*
Package idtoken verifies Google ID tokens.

A Client fetches Google's signing keys, caches them for as long as the
certificate endpoint's Cache-Control max-age allows, and checks tokens
against them locally. Concurrent requests that find the cache expired share
a single fetch.

# Quick Start

	client, err := idtoken.New(
	    idtoken.WithAudiences("1234.apps.googleusercontent.com"),
	)
	if err != nil {
	    log.Fatal(err)
	}

	claims, err := client.Verify(ctx, rawToken)
	if err != nil {
	    // errors.Is(err, idtoken.ErrInvalidAudience), ...
	}
	fmt.Println(claims.Subject, claims.Email)

# Checks

A token is accepted when:

  - it is a compact JWS signed with RS256
  - its signature verifies with the key named by its kid header, or, without
    a kid, with any key of the current set
  - it has not expired
  - iss is accounts.google.com or https://accounts.google.com
  - aud is one of the configured audiences, if any are configured
  - hd is one of the configured hosted domains, if any are configured

# Errors

Every error matches exactly one of ErrConnection, ErrServerRejected,
ErrDecode, ErrInvalidKey, ErrInvalidToken, ErrInvalidIssuer,
ErrInvalidAudience, ErrInvalidHostedDomain or ErrTokenMissing with
errors.Is. IsKeySetError separates the first three, which mean Google's keys
could not be obtained, from a bad token.

# HTTP Middleware

	middleware, err := idtoken.NewMiddleware(client)
	if err != nil {
	    log.Fatal(err)
	}
	http.Handle("/api/", middleware.Handler(apiHandler))

	func apiHandler(w http.ResponseWriter, r *http.Request) {
	    claims, err := idtoken.ClaimsFromContext(r.Context())
	    ...
	}

Adapters for Gin, Echo and gRPC live in framework/gin, framework/echo and
integrations/grpc.

# Observability

WithLogger accepts a *slog.Logger or one of the adapters NewLogrusLogger,
NewZerologLogger and NewZapLogger. WithMetrics accepts NewPrometheusMetrics.
WithTracerProvider sets the OpenTelemetry provider used for the
idtoken.Verify, idtoken.VerifyWith and idtoken.VerifyWithTokenInfo spans.
*/
package idtoken
