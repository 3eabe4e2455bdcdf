//go:build unit

package opentelemetry

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/LerianStudio/accounts-filing-api/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newRecorder() (*tracetest.SpanRecorder, *sdktrace.TracerProvider) {
	recorder := tracetest.NewSpanRecorder()

	return recorder, sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
}

func TestHandleSpanError(t *testing.T) {
	recorder, provider := newRecorder()

	_, span := provider.Tracer("test").Start(context.Background(), "op")
	HandleSpanError(span, "failed to save", errors.New("boom"))
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, "failed to save: boom", ended[0].Status().Description)
	require.Len(t, ended[0].Events(), 1)
}

func TestHandleSpanBusinessErrorEvent_KeepsStatus(t *testing.T) {
	recorder, provider := newRecorder()

	_, span := provider.Tracer("test").Start(context.Background(), "op")
	HandleSpanBusinessErrorEvent(span, "entry not found", errors.New("missing"))
	span.End()

	ended := recorder.Ended()[0]
	assert.Equal(t, codes.Unset, ended.Status().Code)
	assert.Equal(t, "entry not found", ended.Events()[0].Name)
}

func TestHandleSpanError_IgnoresNil(t *testing.T) {
	assert.NotPanics(t, func() {
		HandleSpanError(nil, "msg", errors.New("boom"))
	})
}

func TestInjectHTTPContext(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})

	_, provider := newRecorder()
	ctx, span := provider.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	headers := http.Header{}
	InjectHTTPContext(ctx, headers)

	assert.Contains(t, headers.Get("Traceparent"), span.SpanContext().TraceID().String())
}

func TestInitializeTelemetry(t *testing.T) {
	_, err := InitializeTelemetry(context.Background(), nil)
	require.ErrorIs(t, err, ErrNilTelemetryConfig)

	_, err = InitializeTelemetry(context.Background(), &TelemetryConfig{})
	require.ErrorIs(t, err, ErrNilTelemetryLogger)

	telemetry, err := InitializeTelemetry(context.Background(), &TelemetryConfig{
		ServiceName: "accounts-filing-api",
		Logger:      log.NewNop(),
	})
	require.NoError(t, err)
	assert.NotNil(t, telemetry.TracerProvider)

	assert.NotPanics(t, func() {
		telemetry.ShutdownTelemetry(context.Background())
	})
}
