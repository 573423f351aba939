package middleware

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/r-bar/hookchain/chain"
)

// tracerName is the instrumentation scope name for hookchain tracing.
const tracerName = "github.com/r-bar/hookchain"

// Tracing returns middleware that wraps the callback in an OpenTelemetry
// span. If no TracerProvider is configured globally, the default noop
// tracer is used and this middleware becomes a pass-through with zero
// overhead.
//
// Span attributes include: hookchain.chain.id, hookchain.chain.name,
// hookchain.chain.stages, hookchain.args. On error, the span status is
// set to codes.Error with the error message.
func Tracing() Middleware {
	tracer := otel.Tracer(tracerName)
	return TracingWithTracer(tracer)
}

// TracingWithTracer returns tracing middleware using the provided tracer.
// This variant allows injecting a specific TracerProvider for testing or
// when multiple providers are in use.
func TracingWithTracer(tracer trace.Tracer) Middleware {
	return func(ctx context.Context, c *chain.Chain, args *chain.Args, next chain.Callback) error {
		ctx, span := tracer.Start(ctx, "hookchain.chain.complete",
			trace.WithAttributes(
				attribute.String("hookchain.chain.id", c.ID().String()),
				attribute.String("hookchain.chain.name", c.Name()),
				attribute.Int("hookchain.chain.stages", c.Stages()),
				attribute.Int("hookchain.args", args.Len()),
			),
			trace.WithSpanKind(trace.SpanKindInternal),
		)
		defer span.End()

		err := next(ctx, args)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}

		return err
	}
}
