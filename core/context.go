package core

import "context"

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey int

const (
	claimsKey contextKey = iota
)

// GetClaims retrieves claims from the context with type safety using generics.
//
// Example usage:
//
//	claims, err := core.GetClaims[*validator.IdentityClaims](ctx)
//	if err != nil {
//	    return err
//	}
func GetClaims[T any](ctx context.Context) (T, error) {
	var zero T

	val := ctx.Value(claimsKey)
	if val == nil {
		return zero, NewError(ErrorCodeClaimsNotFound, "claims not found in context", nil)
	}

	claims, ok := val.(T)
	if !ok {
		return zero, NewError(ErrorCodeClaimsNotFound, "claims type assertion failed", nil)
	}

	return claims, nil
}

// SetClaims stores claims in the context.
func SetClaims(ctx context.Context, claims any) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// HasClaims checks if claims exist in the context without retrieving them.
func HasClaims(ctx context.Context) bool {
	return ctx.Value(claimsKey) != nil
}
