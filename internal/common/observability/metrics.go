package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Observability records run-level instruments through OpenTelemetry. The
// exporter feeds the Prometheus registry, so pushed metrics include them.
type Observability struct {
	meterProvider *metric.MeterProvider
	runCounter    otelmetric.Int64Counter
	runDuration   otelmetric.Float64Histogram
	statsCounter  otelmetric.Int64Counter
}

// New returns a usable Observability even when the exporter cannot be
// created; its recorders then do nothing.
func New(serviceName string, opts ...prometheus.Option) (*Observability, error) {
	exporter, err := prometheus.New(opts...)
	if err != nil {
		return &Observability{}, err
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	runCounter, _ := meter.Int64Counter(
		"runs.completed",
		otelmetric.WithDescription("Number of orchestration runs by status"),
	)

	runDuration, _ := meter.Float64Histogram(
		"runs.duration",
		otelmetric.WithDescription("Orchestration run duration"),
		otelmetric.WithUnit("ms"),
	)

	statsCounter, _ := meter.Int64Counter(
		"stats.published",
		otelmetric.WithDescription("Team stats published after merge"),
	)

	return &Observability{
		meterProvider: provider,
		runCounter:    runCounter,
		runDuration:   runDuration,
		statsCounter:  statsCounter,
	}, nil
}

func (o *Observability) RecordRun(ctx context.Context, status string, duration time.Duration, published int) {
	attrs := otelmetric.WithAttributes(attribute.String("status", status))
	if o.runCounter != nil {
		o.runCounter.Add(ctx, 1, attrs)
	}
	if o.runDuration != nil {
		o.runDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	}
	if o.statsCounter != nil && published > 0 {
		o.statsCounter.Add(ctx, int64(published))
	}
}

func (o *Observability) Shutdown() {
	if o.meterProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = o.meterProvider.Shutdown(ctx)
	}
}
