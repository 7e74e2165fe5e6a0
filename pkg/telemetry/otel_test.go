package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vzahanych/weather-lookup/internal/config"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestNew_Disabled(t *testing.T) {
	tele, err := New(context.Background(), config.TelemetryConfig{Enabled: false}, "test")
	require.NoError(t, err)

	assert.False(t, tele.IsEnabled())
	assert.NotNil(t, tele.GetTracer())
	assert.NoError(t, tele.Shutdown(context.Background()))

	// no-ops on a disabled instance
	tele.RecordError(context.Background(), errors.New("boom"), map[string]interface{}{"k": 1})
}

func TestNilTelemetry(t *testing.T) {
	var tele *Telemetry

	assert.False(t, tele.IsEnabled())

	_, span := tele.GetTracer().Start(context.Background(), "span")
	span.End()
	assert.False(t, span.SpanContext().IsValid())
}

func TestNewWithProvider(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tele := NewWithProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr)))

	assert.True(t, tele.IsEnabled())

	ctx, span := tele.GetTracer().Start(context.Background(), "lookup")
	tele.RecordError(ctx, errors.New("boom"), map[string]interface{}{"location": "zip:10001"})
	span.End()

	require.Len(t, sr.Ended(), 1)
	assert.Equal(t, "lookup", sr.Ended()[0].Name())
	assert.NoError(t, tele.Shutdown(context.Background()))
}
