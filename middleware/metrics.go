package middleware

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/r-bar/hookchain/chain"
)

// meterName is the instrumentation scope name for hookchain metrics.
const meterName = "github.com/r-bar/hookchain"

// Metrics returns middleware that records per-callback execution metrics
// using the global OTel MeterProvider. If no MeterProvider is configured,
// noop instruments are used and this middleware becomes a pass-through.
//
// Instruments:
//   - hookchain.chain.duration (Float64Histogram): callback time in
//     seconds, with attributes: chain_name, status ("ok" or "error")
//   - hookchain.chain.completions (Int64Counter): total callback runs,
//     with attributes: chain_name, status ("ok" or "error")
func Metrics() Middleware {
	meter := otel.Meter(meterName)
	return MetricsWithMeter(meter)
}

// MetricsWithMeter returns metrics middleware using the provided meter.
// This variant allows injecting a specific MeterProvider for testing.
func MetricsWithMeter(meter metric.Meter) Middleware {
	// Create instruments once at middleware construction time. OTel
	// instruments are safe for concurrent use. On error, the API returns
	// noop instruments so the middleware degrades gracefully.
	duration, dErr := meter.Float64Histogram(
		"hookchain.chain.duration",
		metric.WithDescription("Duration of chain callback execution in seconds"),
		metric.WithUnit("s"),
	)
	_ = dErr // noop fallback guaranteed by OTel API contract

	completions, cErr := meter.Int64Counter(
		"hookchain.chain.completions",
		metric.WithDescription("Total number of chain callback runs"),
		metric.WithUnit("{run}"),
	)
	_ = cErr // noop fallback guaranteed by OTel API contract

	return func(ctx context.Context, c *chain.Chain, args *chain.Args, next chain.Callback) error {
		start := time.Now()
		err := next(ctx, args)
		elapsed := time.Since(start).Seconds()

		status := "ok"
		if err != nil {
			status = "error"
		}

		attrs := metric.WithAttributes(
			attribute.String("chain_name", c.Name()),
			attribute.String("status", status),
		)

		duration.Record(ctx, elapsed, attrs)
		completions.Add(ctx, 1, attrs)

		return err
	}
}
