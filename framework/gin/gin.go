// Package idtokengin authenticates Gin requests with a Google ID token.
package idtokengin

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/signin-tools/go-idtoken"
	"github.com/signin-tools/go-idtoken/core"
)

// DefaultClaimsKey is the gin.Context key the claims are stored under.
const DefaultClaimsKey = "idtoken"

var (
	ErrMissingClaims = errors.New("no ID token claims found in context")
	ErrInvalidClaims = errors.New("invalid ID token claims type")
)

type middlewareConfig struct {
	errorHandler        func(*gin.Context, error)
	contextKey          string
	tokenExtractor      idtoken.TokenExtractor
	credentialsOptional bool
	logger              core.Logger
}

// New creates a Gin middleware that verifies tokens with verifier, usually
// an *idtoken.Client. Verified claims are stored in the gin.Context under
// the claims key and in the request context.
func New(verifier core.TokenVerifier, opts ...Option) (gin.HandlerFunc, error) {
	config := &middlewareConfig{
		errorHandler:   defaultErrorHandler,
		contextKey:     DefaultClaimsKey,
		tokenExtractor: idtoken.AuthHeaderTokenExtractor,
		logger:         core.NopLogger{},
	}

	for _, opt := range opts {
		opt(config)
	}

	checker, err := core.New(
		core.WithVerifier(verifier),
		core.WithCredentialsOptional(config.credentialsOptional),
		core.WithLogger(config.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create core: %w", err)
	}

	return func(c *gin.Context) {
		token, err := config.tokenExtractor(c.Request)
		if err != nil {
			config.errorHandler(c, fmt.Errorf("%w: %w", idtoken.ErrTokenExtraction, err))
			c.Abort()
			return
		}

		claims, err := checker.CheckToken(c.Request.Context(), token)
		if err != nil {
			config.errorHandler(c, err)
			c.Abort()
			return
		}

		if claims != nil {
			c.Set(config.contextKey, claims)
			c.Request = c.Request.WithContext(core.SetClaims(c.Request.Context(), claims))
		}

		c.Next()
	}, nil
}

func defaultErrorHandler(c *gin.Context, err error) {
	status, body := idtoken.ErrorStatus(err)
	if status == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", `Bearer error="invalid_token"`)
	}
	c.AbortWithStatusJSON(status, body)
}

// GetClaims returns the claims stored by the middleware under contextKey, or
// under DefaultClaimsKey if contextKey is empty.
func GetClaims(c *gin.Context, contextKey string) (*idtoken.Claims, error) {
	if contextKey == "" {
		contextKey = DefaultClaimsKey
	}
	claims, exists := c.Get(contextKey)
	if !exists {
		return nil, ErrMissingClaims
	}

	identityClaims, ok := claims.(*idtoken.Claims)
	if !ok {
		return nil, ErrInvalidClaims
	}

	return identityClaims, nil
}
