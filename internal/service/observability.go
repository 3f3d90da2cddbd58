package service

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "feedmock"
	meterName  = "feedmock"
)

// metrics holds the OpenTelemetry instruments for the operation surface.
type metrics struct {
	opCount    metric.Int64Counter
	opDuration metric.Float64Histogram
	opErrors   metric.Int64Counter
}

type observability struct {
	logger  *slog.Logger
	tracer  trace.Tracer
	meter   metric.Meter
	metrics *metrics
}

// Option configures an API.
type Option func(*API)

// WithLogger sets a logger for operation outcomes. The API is silent without
// one.
func WithLogger(logger *slog.Logger) Option {
	return func(a *API) {
		a.obs.logger = logger
	}
}

// WithTracer sets the tracer used to span each operation.
func WithTracer(tracer trace.Tracer) Option {
	return func(a *API) {
		a.obs.tracer = tracer
	}
}

// WithDefaultTracer uses the global OpenTelemetry tracer.
func WithDefaultTracer() Option {
	return func(a *API) {
		a.obs.tracer = otel.Tracer(tracerName)
	}
}

// WithMeter sets the meter for operation metrics.
func WithMeter(meter metric.Meter) Option {
	return func(a *API) {
		a.obs.meter = meter
		a.obs.metrics = initMetrics(meter)
	}
}

// WithDefaultMeter uses the global OpenTelemetry meter.
func WithDefaultMeter() Option {
	return func(a *API) {
		meter := otel.Meter(meterName)
		a.obs.meter = meter
		a.obs.metrics = initMetrics(meter)
	}
}

func initMetrics(meter metric.Meter) *metrics {
	opCount, _ := meter.Int64Counter("feedmock.op.count",
		metric.WithDescription("Total number of mock operations served"),
		metric.WithUnit("{operation}"),
	)
	opDuration, _ := meter.Float64Histogram("feedmock.op.duration",
		metric.WithDescription("Operation duration including simulated latency, in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(1, 5, 10, 25, 50, 100, 250, 500, 1000),
	)
	opErrors, _ := meter.Int64Counter("feedmock.op.errors",
		metric.WithDescription("Total number of failed mock operations"),
		metric.WithUnit("{error}"),
	)
	return &metrics{opCount: opCount, opDuration: opDuration, opErrors: opErrors}
}

// do wraps one public operation: span, simulated latency, execution, then
// metrics and logging.
func (a *API) do(ctx context.Context, op string, fn func(context.Context) error) error {
	var span trace.Span
	if a.obs.tracer != nil {
		ctx, span = a.obs.tracer.Start(ctx, op,
			trace.WithAttributes(attribute.String("feedmock.op", op)))
		defer span.End()
	}

	start := time.Now()
	a.delay.Wait()
	err := fn(ctx)
	elapsed := time.Since(start)

	if a.obs.metrics != nil {
		attrs := metric.WithAttributes(attribute.String("feedmock.op", op))
		a.obs.metrics.opCount.Add(ctx, 1, attrs)
		a.obs.metrics.opDuration.Record(ctx, float64(elapsed.Milliseconds()), attrs)
		if err != nil {
			a.obs.metrics.opErrors.Add(ctx, 1, attrs)
		}
	}

	if span != nil && err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	if a.obs.logger != nil {
		if err != nil {
			a.obs.logger.ErrorContext(ctx, "operation failed", "op", op, "elapsed", elapsed, "err", err)
		} else {
			a.obs.logger.DebugContext(ctx, "operation served", "op", op, "elapsed", elapsed)
		}
	}
	return err
}
