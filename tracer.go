package idtoken

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/signin-tools/go-idtoken/core"
)

const instrumentationName = "github.com/signin-tools/go-idtoken"

// Verification methods, used as the "method" metric label and span attribute.
const (
	methodKeySet    = "key_set"
	methodTokenInfo = "tokeninfo"
)

func (c *Client) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return c.tracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindInternal))
}

// finish records the outcome of a verification and ends span.
func (c *Client) finish(span trace.Span, method string, err error) {
	defer span.End()

	result := "success"
	if err != nil {
		result = core.Code(err)
		if result == "" {
			result = "error"
		}
	}

	c.metrics.IncCounter(core.MetricVerifications, map[string]string{
		"method": method,
		"result": result,
	})

	span.SetAttributes(
		attribute.String("idtoken.method", method),
		attribute.String("idtoken.result", result),
	)

	if err != nil {
		c.logger.Debug("ID token rejected", "method", method, "code", result, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, result)
	}
}
