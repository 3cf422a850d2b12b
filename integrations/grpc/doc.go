/*
Package grpc provides gRPC server interceptors that authenticate calls with a
Google ID token.

Clients send the token as "authorization: Bearer <token>" metadata. The
interceptors verify it and store the claims in the handler's context.

# Usage

	client, err := idtoken.New(
	    idtoken.WithAudiences("1234.apps.googleusercontent.com"),
	)
	if err != nil {
	    log.Fatal(err)
	}

	interceptor, err := idtokengrpc.New(
	    idtokengrpc.WithVerifier(client),
	    idtokengrpc.WithExcludedMethods("/grpc.health.v1.Health/Check"),
	)
	if err != nil {
	    log.Fatal(err)
	}

	server := grpc.NewServer(
	    grpc.UnaryInterceptor(interceptor.UnaryServerInterceptor()),
	    grpc.StreamInterceptor(interceptor.StreamServerInterceptor()),
	)

In a handler:

	claims, err := idtokengrpc.ClaimsFromContext(ctx)

# Status Codes

DefaultErrorHandler answers Unauthenticated for missing, malformed or expired
tokens, PermissionDenied when the issuer, audience or hosted domain is not
allowed, Unavailable when Google's signing keys cannot be fetched, and
InvalidArgument for malformed authorization metadata.
*/
package grpc
