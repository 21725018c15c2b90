// Package obslog is chronograph's OpenTelemetry wiring: a tracer/meter
// pair shared across internal/engine and internal/facade, plus the SDK
// bootstrap that backs them. Instruments are registered against the
// global providers at package-init time (following the teacher's own
// internal/storage/dolt/store.go pattern), so they work as no-ops until
// Init installs real providers and start forwarding to them immediately
// afterward.
package obslog

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/chronograph-db/chronograph"

var tracer = otel.Tracer(instrumentationName)

// Tracer returns chronograph's shared tracer.
func Tracer() trace.Tracer { return tracer }

// Metrics holds the instrument set shared across the integrity engine
// and the facade layer.
var Metrics struct {
	CascadeSize     metric.Int64Histogram
	OperationMs     metric.Float64Histogram
	CycleRejections metric.Int64Counter
}

func init() {
	refreshMetricInstruments()
}

// refreshMetricInstruments re-registers Metrics against the current
// global meter provider. It runs once at package init (against the
// no-op provider) and again from Init after a real provider is
// installed, so instrument handles obtained before Init still forward
// correctly afterward.
func refreshMetricInstruments() {
	m := otel.Meter(instrumentationName)
	Metrics.CascadeSize, _ = m.Int64Histogram("chronograph.engine.cascade_size",
		metric.WithDescription("Number of edges and nodes recreated by one cascading update"),
		metric.WithUnit("{entity}"),
	)
	Metrics.OperationMs, _ = m.Float64Histogram("chronograph.facade.operation_duration",
		metric.WithDescription("Wall-clock duration of one facade call"),
		metric.WithUnit("ms"),
	)
	Metrics.CycleRejections, _ = m.Int64Counter("chronograph.engine.cycle_rejections",
		metric.WithDescription("Edge.add calls rejected for closing a component cycle"),
		metric.WithUnit("{rejection}"),
	)
}
