// Package telemetry exports generation lifecycles as OpenTelemetry spans.
package telemetry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/csheth/imoji/internal/config"
	"github.com/csheth/imoji/internal/generation"
)

const instrumentationName = "imoji/generation"

// Tracer records one span per generation. A nil *Tracer is a valid no-op.
type Tracer struct {
	provider *sdktrace.TracerProvider
	tracer   oteltrace.Tracer

	mu    sync.Mutex
	spans map[string]oteltrace.Span
}

// NewOTLP creates a tracer exporting over OTLP/HTTP. It returns nil when no
// endpoint is configured.
func NewOTLP(ctx context.Context, cfg config.TelemetryConfig) (*Tracer, error) {
	if cfg.Endpoint == "" {
		return nil, nil
	}
	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create otlp exporter: %w", err)
	}

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "imoji"
	}
	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(serviceName),
	)
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	return NewWithProvider(provider), nil
}

// NewWithProvider wraps an existing provider.
func NewWithProvider(provider *sdktrace.TracerProvider) *Tracer {
	return &Tracer{
		provider: provider,
		tracer:   provider.Tracer(instrumentationName),
		spans:    map[string]oteltrace.Span{},
	}
}

var _ generation.Observer = (*Tracer)(nil)

// GenerationStarted opens the span for t.
func (t *Tracer) GenerationStarted(ticket generation.Ticket) {
	if t == nil {
		return
	}
	_, span := t.tracer.Start(
		context.Background(),
		"generation",
		oteltrace.WithTimestamp(ticket.StartedAt),
		oteltrace.WithAttributes(
			attribute.String("imoji.generation.id", ticket.ID),
			attribute.Int64("imoji.generation.epoch", int64(ticket.Epoch)),
			attribute.Int("imoji.prompt.length", len([]rune(ticket.Prompt))),
			attribute.Int64("imoji.delay_ms", ticket.Deadline.Sub(ticket.StartedAt).Milliseconds()),
		),
	)
	t.mu.Lock()
	t.spans[ticket.ID] = span
	t.mu.Unlock()
}

// GenerationFinished closes the span for t at the given time.
func (t *Tracer) GenerationFinished(ticket generation.Ticket, outcome generation.Outcome, at time.Time) {
	if t == nil {
		return
	}
	t.mu.Lock()
	span, ok := t.spans[ticket.ID]
	delete(t.spans, ticket.ID)
	t.mu.Unlock()
	if !ok {
		return
	}
	span.SetAttributes(attribute.String("imoji.outcome", string(outcome)))
	if outcome == generation.OutcomeCancelled {
		span.SetStatus(codes.Error, "generation reset before completion")
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End(oteltrace.WithTimestamp(at))
}

// Shutdown ends any open spans and flushes the provider.
func (t *Tracer) Shutdown(ctx context.Context) error {
	if t == nil {
		return nil
	}
	t.mu.Lock()
	for id, span := range t.spans {
		span.SetAttributes(attribute.String("imoji.outcome", "abandoned"))
		span.End()
		delete(t.spans, id)
	}
	t.mu.Unlock()
	return t.provider.Shutdown(ctx)
}
