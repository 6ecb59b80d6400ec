// Package observability exposes OpenTelemetry job metrics through the
// Prometheus exporter registered on the default registry.
package observability

import (
	"context"
	"time"

	"loan-origination/internal/common/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

type Observability struct {
	meterProvider *metric.MeterProvider
	jobCounter    otelmetric.Int64Counter
	jobDuration   otelmetric.Float64Histogram
	log           logger.Logger
}

// New builds the meter provider. On exporter failure it returns an instance
// whose Record methods are no-ops, so workers keep running without metrics.
func New(serviceName string, log logger.Logger) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Warn("prometheus exporter unavailable, job metrics disabled", map[string]interface{}{
			"error": err.Error(),
		})
		return &Observability{log: log}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	jobCounter, err := meter.Int64Counter(
		"loan.jobs.processed",
		otelmetric.WithDescription("Number of loan jobs processed"),
	)
	if err != nil {
		log.Warn("job counter unavailable", map[string]interface{}{"error": err.Error()})
	}

	jobDuration, err := meter.Float64Histogram(
		"loan.jobs.duration",
		otelmetric.WithDescription("Loan job processing duration"),
		otelmetric.WithUnit("ms"),
	)
	if err != nil {
		log.Warn("job duration histogram unavailable", map[string]interface{}{"error": err.Error()})
	}

	return &Observability{
		meterProvider: provider,
		jobCounter:    jobCounter,
		jobDuration:   jobDuration,
		log:           log,
	}
}

func (o *Observability) RecordJobProcessed(ctx context.Context, jobType, status string) {
	if o.jobCounter != nil {
		o.jobCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("job_type", jobType),
			attribute.String("status", status),
		))
	}
}

func (o *Observability) RecordJobDuration(ctx context.Context, jobType string, duration time.Duration, status string) {
	if o.jobDuration != nil {
		o.jobDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("job_type", jobType),
			attribute.String("status", status),
		))
	}
}

// Track wraps a job handler so every call is counted and timed.
func (o *Observability) Track(jobType string, fn func() error) error {
	start := time.Now()
	err := fn()
	status := "completed"
	if err != nil {
		status = "failed"
	}
	ctx := context.Background()
	o.RecordJobProcessed(ctx, jobType, status)
	o.RecordJobDuration(ctx, jobType, time.Since(start), status)
	return err
}

func (o *Observability) Shutdown() {
	if o.meterProvider == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := o.meterProvider.Shutdown(ctx); err != nil {
		o.log.Warn("meter provider shutdown failed", map[string]interface{}{"error": err.Error()})
	}
}
