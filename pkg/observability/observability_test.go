package observability

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ajitpratap0/statimport/pkg/errors"
)

func initRecorder(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	cfg := DefaultTracingConfig()
	cfg.Enabled = true
	cfg.ServiceName = "statimport-test"
	cfg.Exporter = exporter
	require.NoError(t, Initialize(cfg))
	t.Cleanup(func() { _ = Shutdown(context.Background()) })
	return exporter
}

func TestDisabledTracingIsNoop(t *testing.T) {
	require.NoError(t, Initialize(DefaultTracingConfig()))

	ctx, span := StartSpan(context.Background(), "noop")
	span.SetAttribute("rows", 3)
	span.End()

	assert.NotNil(t, ctx)
	assert.NotNil(t, GetTracer())
	assert.NoError(t, Flush(context.Background()))
	assert.NoError(t, Shutdown(context.Background()))
}

func TestTraceRecordsSpan(t *testing.T) {
	exporter := initRecorder(t)

	err := Trace(context.Background(), "import", func(ctx context.Context, span *Span) error {
		span.SetAttribute("file", "data.csv")
		span.SetAttribute("rows", 42)
		span.SetAttribute("ratio", 0.5)
		span.SetAttribute("header", true)
		span.AddEvent("sniffed")
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, Flush(context.Background()))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "import", spans[0].Name)
	assert.Equal(t, codes.Ok, spans[0].Status.Code)
	assert.Len(t, spans[0].Attributes, 4)
	require.Len(t, spans[0].Events, 1)
	assert.Equal(t, "sniffed", spans[0].Events[0].Name)
}

func TestTraceRecordsError(t *testing.T) {
	exporter := initRecorder(t)

	want := errors.New(errors.ErrorTypeMalformedInput, "row 3 has 2 fields, expected 3")
	err := Trace(context.Background(), "parse", func(context.Context, *Span) error {
		return want
	})
	assert.Equal(t, want, err)
	require.NoError(t, Flush(context.Background()))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)

	var errType string
	for _, attr := range spans[0].Attributes {
		if attr.Key == "error.type" {
			errType = attr.Value.AsString()
		}
	}
	assert.Equal(t, "malformed_input", errType)
}

func TestStdoutExporter(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultTracingConfig()
	cfg.Enabled = true
	cfg.Writer = &buf
	require.NoError(t, Initialize(cfg))

	_, span := StartSpan(context.Background(), "sniff")
	span.End()
	require.NoError(t, Shutdown(context.Background()))

	assert.Contains(t, buf.String(), `"Name": "sniff"`)
}

func TestReportError(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	log := zap.New(core)

	ReportError(log, nil, "noop")
	assert.Zero(t, logs.Len())

	err := errors.New(errors.ErrorTypeSchedulingInfeasible, "too many items").WithDetail("item_count", 9)
	ReportError(log, err, "schedule")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	fields := entry.ContextMap()
	assert.Equal(t, "schedule", fields["operation"])
	assert.Equal(t, "scheduling_infeasible", fields["error_type"])
	assert.EqualValues(t, 9, fields["item_count"])
}
