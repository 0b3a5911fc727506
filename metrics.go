package rendezvous

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "github.com/skovsen/D2D_Rendezvous"

// metrics holds the instruments shared by one strategy. They are created once
// and recorded against a background context since planning never blocks.
type metrics struct {
	pathQueries    metric.Int64Counter
	fallbacks      metric.Int64Counter
	handoffs       metric.Int64Counter
	recomputations metric.Int64Counter
	attrs          metric.MeasurementOption
}

func newMetrics(meter metric.Meter, agent AgentID) (*metrics, error) {
	if meter == nil {
		meter = noop.NewMeterProvider().Meter(meterName)
	}
	m := &metrics{attrs: metric.WithAttributes(attribute.String("agent", string(agent)))}
	var err error

	if m.pathQueries, err = meter.Int64Counter(
		"rendezvous.path_queries",
		metric.WithDescription("Travel-cost queries issued to the path planner"),
		metric.WithUnit("1"),
	); err != nil {
		return nil, err
	}
	if m.fallbacks, err = meter.Int64Counter(
		"rendezvous.fallbacks",
		metric.WithDescription("Plans that degraded to a conservative default"),
		metric.WithUnit("1"),
	); err != nil {
		return nil, err
	}
	if m.handoffs, err = meter.Int64Counter(
		"rendezvous.handoffs",
		metric.WithDescription("Relay responsibility handoffs on contact"),
		metric.WithUnit("1"),
	); err != nil {
		return nil, err
	}
	if m.recomputations, err = meter.Int64Counter(
		"rendezvous.recomputations",
		metric.WithDescription("Full rendezvous recomputations"),
		metric.WithUnit("1"),
	); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *metrics) pathQuery() {
	if m == nil {
		return
	}
	m.pathQueries.Add(context.Background(), 1, m.attrs)
}

func (m *metrics) fallback(reason string) {
	if m == nil {
		return
	}
	m.fallbacks.Add(context.Background(), 1, m.attrs, metric.WithAttributes(attribute.String("reason", reason)))
}

func (m *metrics) handoff() {
	if m == nil {
		return
	}
	m.handoffs.Add(context.Background(), 1, m.attrs)
}

func (m *metrics) recomputation(policy PolicyKind) {
	if m == nil {
		return
	}
	m.recomputations.Add(context.Background(), 1, m.attrs, metric.WithAttributes(attribute.String("policy", string(policy))))
}
