package grpc

import (
	"context"

	"github.com/signin-tools/go-idtoken/core"
	"github.com/signin-tools/go-idtoken/validator"
)

// ClaimsFromContext returns the claims the Interceptor stored for a call
// verified by an *idtoken.Client.
//
// Example:
//
//	claims, err := grpc.ClaimsFromContext(ctx)
//	if err != nil {
//	    return nil, status.Error(codes.Internal, "failed to get claims")
//	}
//	fmt.Println(claims.Subject)
func ClaimsFromContext(ctx context.Context) (*validator.IdentityClaims, error) {
	return core.GetClaims[*validator.IdentityClaims](ctx)
}

// HasClaims checks if claims exist in the context.
func HasClaims(ctx context.Context) bool {
	return core.HasClaims(ctx)
}
