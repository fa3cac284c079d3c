// Package telemetry exports watched-run timings as OpenTelemetry spans.
package telemetry

import (
	"context"
	"os"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	oteltrace "go.opentelemetry.io/otel/trace"

	"trainwatch/internal/progress"
)

// Exporter sends one root span per watched run, with a child span per
// metric update, to an OTLP endpoint. A nil *Exporter is a valid no-op,
// so callers never need to branch on whether telemetry is configured.
type Exporter struct {
	provider *sdktrace.TracerProvider
	tracer   oteltrace.Tracer

	runCtx  context.Context
	runSpan oteltrace.Span
	lastUpd time.Time
}

// NewExporter creates an OTLP exporter if OTEL_EXPORTER_OTLP_ENDPOINT
// is set. Returns nil (disabled) if the endpoint is not configured.
func NewExporter(ctx context.Context) (*Exporter, error) {
	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if endpoint == "" {
		return nil, nil // Disabled
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(), // For local dev; make configurable
	)
	if err != nil {
		return nil, err
	}

	serviceName := os.Getenv("OTEL_SERVICE_NAME")
	if serviceName == "" {
		serviceName = "trainwatch"
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(serviceName),
	)

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	return &Exporter{
		provider: provider,
		tracer:   provider.Tracer("trainwatch/watch"),
	}, nil
}

// StartRun opens the root span for a watched run.
func (e *Exporter) StartRun(ctx context.Context, command, metric string) {
	if e == nil {
		return
	}
	e.runCtx, e.runSpan = e.tracer.Start(ctx, "watch.run",
		oteltrace.WithAttributes(
			attribute.String("trainwatch.command", command),
			attribute.String("trainwatch.metric", metric),
		),
	)
	e.lastUpd = time.Now()
}

// RecordUpdate emits a child span covering the interval since the
// previous update, annotated with the update's score and streak state.
func (e *Exporter) RecordUpdate(ev progress.Event) {
	if e == nil || e.runSpan == nil {
		return
	}
	now := time.Now()
	_, span := e.tracer.Start(e.runCtx, "watch.update",
		oteltrace.WithTimestamp(e.lastUpd),
		oteltrace.WithAttributes(
			attribute.String("trainwatch.metric", ev.Metric),
			attribute.Float64("trainwatch.score", ev.Score),
			attribute.Float64("trainwatch.best", ev.Best),
			attribute.Int("trainwatch.bad_streak", ev.BadStreak),
			attribute.String("trainwatch.outcome", ev.Outcome.String()),
		),
	)
	span.End(oteltrace.WithTimestamp(now))
	e.lastUpd = now
}

// EndRun closes the root span with the run's stop reason.
func (e *Exporter) EndRun(stopReason string) {
	if e == nil || e.runSpan == nil {
		return
	}
	e.runSpan.SetAttributes(attribute.String("trainwatch.stop_reason", stopReason))
	e.runSpan.End()
	e.runSpan = nil
}

// Shutdown flushes and closes the exporter.
func (e *Exporter) Shutdown(ctx context.Context) error {
	if e == nil {
		return nil
	}
	return e.provider.Shutdown(ctx)
}
