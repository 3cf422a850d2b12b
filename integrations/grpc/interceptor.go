package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc"

	"github.com/signin-tools/go-idtoken/core"
)

// Interceptor authenticates gRPC calls with a Google ID token sent in the
// "authorization" metadata.
type Interceptor struct {
	core            *core.Core
	tokenExtractor  TokenExtractor
	errorHandler    ErrorHandler
	excludedMethods map[string]bool
	logger          core.Logger

	// Internal builder for accumulating core options
	coreBuilder *coreBuilder
}

// New creates a new gRPC interceptor with the provided options.
// WithVerifier option is required.
func New(opts ...Option) (*Interceptor, error) {
	interceptor := &Interceptor{
		tokenExtractor:  MetadataTokenExtractor,
		errorHandler:    DefaultErrorHandler,
		excludedMethods: make(map[string]bool),
		logger:          core.NopLogger{},
		coreBuilder:     &coreBuilder{},
	}

	for _, opt := range opts {
		if err := opt(interceptor); err != nil {
			return nil, err
		}
	}

	if interceptor.coreBuilder.verifier == nil {
		return nil, errors.New("verifier is required, use WithVerifier option")
	}

	c, err := interceptor.coreBuilder.build(interceptor.logger)
	if err != nil {
		return nil, err
	}
	interceptor.core = c

	return interceptor, nil
}

// UnaryServerInterceptor returns a grpc.UnaryServerInterceptor that verifies
// the caller's ID token and puts its claims in the handler's context.
func (i *Interceptor) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		if i.excludedMethods[info.FullMethod] {
			return handler(ctx, req)
		}

		verifiedCtx, err := i.verifyRequest(ctx, info.FullMethod)
		if err != nil {
			return nil, err
		}

		return handler(verifiedCtx, req)
	}
}

// StreamServerInterceptor returns a grpc.StreamServerInterceptor that
// verifies the caller's ID token once, when the stream opens.
func (i *Interceptor) StreamServerInterceptor() grpc.StreamServerInterceptor {
	return func(
		srv any,
		ss grpc.ServerStream,
		info *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		if i.excludedMethods[info.FullMethod] {
			return handler(srv, ss)
		}

		verifiedCtx, err := i.verifyRequest(ss.Context(), info.FullMethod)
		if err != nil {
			return err
		}

		return handler(srv, &wrappedServerStream{
			ServerStream: ss,
			ctx:          verifiedCtx,
		})
	}
}

func (i *Interceptor) verifyRequest(ctx context.Context, method string) (context.Context, error) {
	token, err := i.tokenExtractor(ctx)
	if err != nil {
		i.logger.Warn("Failed to extract token from gRPC metadata", "error", err, "method", method)
		return ctx, i.errorHandler(err)
	}

	claims, err := i.core.CheckToken(ctx, token)
	if err != nil {
		return ctx, i.errorHandler(err)
	}

	if claims != nil {
		ctx = core.SetClaims(ctx, claims)
	}

	return ctx, nil
}

// wrappedServerStream wraps grpc.ServerStream with a custom context.
type wrappedServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

// Context returns the wrapped context with the verified claims.
func (w *wrappedServerStream) Context() context.Context {
	return w.ctx
}
