package observability

import (
	"context"
	"fmt"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

type Observability struct {
	meterProvider   *metric.MeterProvider
	requestCounter  otelmetric.Int64Counter
	requestDuration otelmetric.Float64Histogram
	upstreamCounter otelmetric.Int64Counter
}

// New registers the OTel exporter with the default Prometheus registry so
// its instruments share the /metrics endpoint. On failure it returns a
// no-op Observability and the error.
func New(serviceName string) (*Observability, error) {
	return NewWithRegisterer(serviceName, promclient.DefaultRegisterer)
}

func NewWithRegisterer(serviceName string, reg promclient.Registerer) (*Observability, error) {
	exporter, err := prometheus.New(prometheus.WithRegisterer(reg))
	if err != nil {
		return &Observability{}, fmt.Errorf("create prometheus exporter: %w", err)
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	requestCounter, _ := meter.Int64Counter(
		"api.requests",
		otelmetric.WithDescription("Number of API requests processed"),
	)

	requestDuration, _ := meter.Float64Histogram(
		"api.request.duration",
		otelmetric.WithDescription("API request processing duration"),
		otelmetric.WithUnit("ms"),
	)

	upstreamCounter, _ := meter.Int64Counter(
		"upstream.calls",
		otelmetric.WithDescription("Number of upstream places API calls"),
	)

	return &Observability{
		meterProvider:   provider,
		requestCounter:  requestCounter,
		requestDuration: requestDuration,
		upstreamCounter: upstreamCounter,
	}, nil
}

func (o *Observability) RecordRequest(ctx context.Context, route string, status int, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := otelmetric.WithAttributes(
		attribute.String("route", route),
		attribute.Int("status", status),
	)
	if o.requestCounter != nil {
		o.requestCounter.Add(ctx, 1, attrs)
	}
	if o.requestDuration != nil {
		o.requestDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	}
}

func (o *Observability) RecordUpstreamCall(ctx context.Context, endpoint, outcome string) {
	if o == nil || o.upstreamCounter == nil {
		return
	}
	o.upstreamCounter.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("endpoint", endpoint),
		attribute.String("outcome", outcome),
	))
}

func (o *Observability) Shutdown() {
	if o == nil || o.meterProvider == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = o.meterProvider.Shutdown(ctx)
}
