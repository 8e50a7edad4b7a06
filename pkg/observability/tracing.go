// Package observability provides OpenTelemetry tracing for statimport
package observability

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/ajitpratap0/statimport/pkg/errors"
)

var (
	mu       sync.RWMutex
	tracer   trace.Tracer = noop.NewTracerProvider().Tracer("statimport")
	provider *sdktrace.TracerProvider
)

// TracingConfig contains tracing configuration
type TracingConfig struct {
	Enabled        bool
	ServiceName    string
	ServiceVersion string
	// SamplingRate is the fraction of traces kept (0.0-1.0)
	SamplingRate float64
	// Writer receives pretty-printed spans. Defaults to stderr so command
	// output on stdout stays machine readable.
	Writer io.Writer
	// Exporter replaces the stdout exporter when set
	Exporter sdktrace.SpanExporter
}

// DefaultTracingConfig returns tracing disabled with full sampling once enabled
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		ServiceName:    "statimport",
		ServiceVersion: "dev",
		SamplingRate:   1.0,
	}
}

// Initialize installs the global tracer. With tracing disabled a no-op
// tracer is installed and spans cost nothing.
func Initialize(config TracingConfig) error {
	mu.Lock()
	defer mu.Unlock()

	if provider != nil {
		_ = provider.Shutdown(context.Background())
		provider = nil
	}

	if !config.Enabled {
		tracer = noop.NewTracerProvider().Tracer(config.ServiceName)
		return nil
	}

	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(config.ServiceName),
			semconv.ServiceVersionKey.String(config.ServiceVersion),
		),
	)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "failed to create trace resource")
	}

	exporter := config.Exporter
	if exporter == nil {
		w := config.Writer
		if w == nil {
			w = os.Stderr
		}
		exporter, err = stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
		if err != nil {
			return errors.Wrap(err, errors.ErrorTypeConfig, "failed to create stdout exporter")
		}
	}

	// Configure sampling
	var sampler sdktrace.Sampler
	if config.SamplingRate <= 0 {
		sampler = sdktrace.NeverSample()
	} else if config.SamplingRate >= 1.0 {
		sampler = sdktrace.AlwaysSample()
	} else {
		sampler = sdktrace.TraceIDRatioBased(config.SamplingRate)
	}

	provider = sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
		sdktrace.WithBatcher(exporter),
	)
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	tracer = provider.Tracer(config.ServiceName)
	return nil
}

// GetTracer returns the global tracer
func GetTracer() trace.Tracer {
	mu.RLock()
	defer mu.RUnlock()
	return tracer
}

// Flush exports every finished span
func Flush(ctx context.Context) error {
	mu.RLock()
	defer mu.RUnlock()
	if provider == nil {
		return nil
	}
	return provider.ForceFlush(ctx)
}

// Shutdown flushes and stops the tracer provider
func Shutdown(ctx context.Context) error {
	mu.Lock()
	defer mu.Unlock()
	if provider == nil {
		return nil
	}
	err := provider.Shutdown(ctx)
	provider = nil
	tracer = noop.NewTracerProvider().Tracer("statimport")
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "failed to shutdown tracer")
	}
	return nil
}

// Span wraps a tracing span and batches its attributes until End
type Span struct {
	span       trace.Span
	startTime  time.Time
	attributes []attribute.KeyValue
}

// StartSpan starts a span on the global tracer
func StartSpan(ctx context.Context, operationName string) (context.Context, *Span) {
	ctx, span := GetTracer().Start(ctx, operationName)
	return ctx, &Span{
		span:      span,
		startTime: time.Now(),
	}
}

// SetAttribute adds an attribute to the span
func (s *Span) SetAttribute(key string, value interface{}) {
	var attr attribute.KeyValue

	switch v := value.(type) {
	case string:
		attr = attribute.String(key, v)
	case int:
		attr = attribute.Int(key, v)
	case int64:
		attr = attribute.Int64(key, v)
	case float64:
		attr = attribute.Float64(key, v)
	case bool:
		attr = attribute.Bool(key, v)
	default:
		attr = attribute.String(key, fmt.Sprintf("%v", v))
	}

	s.attributes = append(s.attributes, attr)
}

// AddEvent adds an event to the span
func (s *Span) AddEvent(name string, attrs ...attribute.KeyValue) {
	s.span.AddEvent(name, trace.WithAttributes(attrs...))
}

// RecordError marks the span failed with the error's type. A nil error
// marks it ok.
func (s *Span) RecordError(err error) {
	if err == nil {
		s.span.SetStatus(codes.Ok, "")
		return
	}
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
	s.SetAttribute("error.type", string(errors.TypeOf(err)))
}

// Duration returns the time since the span started
func (s *Span) Duration() time.Duration {
	return time.Since(s.startTime)
}

// End sets the batched attributes and ends the span
func (s *Span) End() {
	if len(s.attributes) > 0 {
		s.span.SetAttributes(s.attributes...)
	}
	s.span.End()
}

// Trace runs fn inside a span named operation and records its outcome
func Trace(ctx context.Context, operation string, fn func(context.Context, *Span) error) error {
	ctx, span := StartSpan(ctx, operation)
	defer span.End()

	err := fn(ctx, span)
	span.RecordError(err)
	return err
}

// ReportError logs err with its type and details at error level
func ReportError(log *zap.Logger, err error, operation string) {
	if err == nil {
		return
	}

	fields := []zap.Field{
		zap.String("operation", operation),
		zap.String("error_type", string(errors.TypeOf(err))),
		zap.Error(err),
	}

	for k, v := range errors.AllDetails(err) {
		fields = append(fields, zap.Any(k, v))
	}

	log.Error("operation failed", fields...)
}
