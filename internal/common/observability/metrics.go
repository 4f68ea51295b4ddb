package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

type Observability struct {
	meterProvider *metric.MeterProvider
	meter         otelmetric.Meter
	eventCounter  otelmetric.Int64Counter
	eventDuration otelmetric.Float64Histogram
}

func New(serviceName string) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	eventCounter, _ := meter.Int64Counter(
		"webhook.events.processed",
		otelmetric.WithDescription("Number of webhook events processed"),
	)

	eventDuration, _ := meter.Float64Histogram(
		"webhook.events.duration",
		otelmetric.WithDescription("Webhook event processing duration"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider: provider,
		meter:         meter,
		eventCounter:  eventCounter,
		eventDuration: eventDuration,
	}
}

func (o *Observability) RecordEventProcessed(ctx context.Context, outcome string) {
	if o.eventCounter != nil {
		o.eventCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("outcome", outcome),
		))
	}
}

func (o *Observability) RecordEventDuration(ctx context.Context, d time.Duration) {
	if o.eventDuration != nil {
		o.eventDuration.Record(ctx, float64(d.Milliseconds()))
	}
}

func (o *Observability) Shutdown() {
	if o.meterProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := o.meterProvider.Shutdown(ctx); err != nil {
			log.Printf("Failed to shut down meter provider: %v", err)
		}
	}
}
