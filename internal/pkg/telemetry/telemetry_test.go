package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/jcmexdev/storefront/internal/pkg/requestid"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	return rec
}

func TestContextHandler_AddsIDs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo)

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  spanID,
	}))
	ctx = requestid.NewContext(ctx, "req-42")

	logger.InfoContext(ctx, "hello")

	rec := decodeLine(t, &buf)
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", rec["trace_id"])
	assert.Equal(t, "00f067aa0ba902b7", rec["span_id"])
	assert.Equal(t, "req-42", rec["request_id"])
}

func TestContextHandler_PlainContext(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, slog.LevelInfo).InfoContext(context.Background(), "plain")

	rec := decodeLine(t, &buf)
	assert.NotContains(t, rec, "trace_id")
	assert.NotContains(t, rec, "request_id")
}

func TestContextHandler_SurvivesWith(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo).With("component", "cart")

	logger.InfoContext(requestid.NewContext(context.Background(), "req-7"), "derived")

	rec := decodeLine(t, &buf)
	assert.Equal(t, "cart", rec["component"])
	assert.Equal(t, "req-7", rec["request_id"])
}

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelWarn)
	logger.Info("dropped")
	assert.Zero(t, buf.Len())
}

func TestStripScheme(t *testing.T) {
	tests := map[string]string{
		"localhost:4317":         "localhost:4317",
		"http://collector:4317":  "collector:4317",
		"https://collector:4317": "collector:4317",
		"http://":                "http://",
	}
	for in, want := range tests {
		assert.Equal(t, want, stripScheme(in), in)
	}
}

func TestSetupTracer_ShutdownWithoutSpans(t *testing.T) {
	// grpc.NewClient dials lazily, so no collector is needed.
	shutdown, err := SetupTracer(context.Background(), "storefront-test", "http://127.0.0.1:4317")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	assert.NoError(t, shutdown(ctx))
}
