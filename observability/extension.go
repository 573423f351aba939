package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/r-bar/hookchain/ext"
)

// meterName is the instrumentation scope name for hookchain metrics.
const meterName = "github.com/r-bar/hookchain/observability"

// Compile-time interface checks.
var (
	_ ext.Extension         = (*MetricsExtension)(nil)
	_ ext.ChainRegistered   = (*MetricsExtension)(nil)
	_ ext.StageBound        = (*MetricsExtension)(nil)
	_ ext.ChainAborted      = (*MetricsExtension)(nil)
	_ ext.ChainCompleted    = (*MetricsExtension)(nil)
	_ ext.ChainRemoved      = (*MetricsExtension)(nil)
	_ ext.CompositeExpanded = (*MetricsExtension)(nil)
)

// MetricsExtension records chain lifecycle counters through the OTel
// metric API. Register it as an engine extension to automatically track
// registration rates, stage bindings, abandoned attempts, completions,
// removals, and composite expansions.
type MetricsExtension struct {
	chainsRegistered   metric.Int64Counter
	stagesBound        metric.Int64Counter
	attemptsAbandoned  metric.Int64Counter
	chainsCompleted    metric.Int64Counter
	chainsRemoved      metric.Int64Counter
	compositesExpanded metric.Int64Counter
}

// NewMetricsExtension creates a MetricsExtension using the global OTel
// MeterProvider. If none is configured, counters are noop instruments.
func NewMetricsExtension() *MetricsExtension {
	return NewMetricsExtensionWithMeter(otel.Meter(meterName))
}

// NewMetricsExtensionWithMeter creates a MetricsExtension with the
// provided meter, allowing a specific MeterProvider to be injected for
// testing. Instrument creation errors fall back to noop instruments per
// the OTel API contract, so construction never fails.
func NewMetricsExtensionWithMeter(meter metric.Meter) *MetricsExtension {
	counter := func(name, desc string) metric.Int64Counter {
		c, _ := meter.Int64Counter(name, metric.WithDescription(desc))
		return c
	}
	return &MetricsExtension{
		chainsRegistered:   counter("hookchain.chain.registered", "Total chains registered"),
		stagesBound:        counter("hookchain.stage.bound", "Total stage subscriptions installed"),
		attemptsAbandoned:  counter("hookchain.attempt.abandoned", "Total chain attempts abandoned by a condition"),
		chainsCompleted:    counter("hookchain.chain.completed", "Total chain completions"),
		chainsRemoved:      counter("hookchain.chain.removed", "Total chains removed"),
		compositesExpanded: counter("hookchain.composite.expanded", "Total composite event expansions"),
	}
}

// Name implements ext.Extension.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnChainRegistered implements ext.ChainRegistered.
func (m *MetricsExtension) OnChainRegistered(info ext.ChainInfo) error {
	m.chainsRegistered.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("chain_name", info.Name)))
	return nil
}

// OnStageBound implements ext.StageBound.
func (m *MetricsExtension) OnStageBound(ctx context.Context, info ext.StageInfo) error {
	m.stagesBound.Add(ctx, 1, metric.WithAttributes(
		attribute.String("chain_name", info.Chain.Name),
		attribute.String("event", info.Event),
	))
	return nil
}

// OnChainAborted implements ext.ChainAborted.
func (m *MetricsExtension) OnChainAborted(ctx context.Context, info ext.StageInfo) error {
	m.attemptsAbandoned.Add(ctx, 1, metric.WithAttributes(
		attribute.String("chain_name", info.Chain.Name),
		attribute.String("event", info.Event),
	))
	return nil
}

// OnChainCompleted implements ext.ChainCompleted.
func (m *MetricsExtension) OnChainCompleted(ctx context.Context, info ext.ChainInfo, _ []any) error {
	m.chainsCompleted.Add(ctx, 1,
		metric.WithAttributes(attribute.String("chain_name", info.Name)))
	return nil
}

// OnChainRemoved implements ext.ChainRemoved.
func (m *MetricsExtension) OnChainRemoved(info ext.ChainInfo) error {
	m.chainsRemoved.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("chain_name", info.Name)))
	return nil
}

// OnCompositeExpanded implements ext.CompositeExpanded.
func (m *MetricsExtension) OnCompositeExpanded(event string, primitives []string) error {
	m.compositesExpanded.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("event", event),
		attribute.Int("primitives", len(primitives)),
	))
	return nil
}
