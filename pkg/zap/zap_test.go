//go:build unit

package zap

import (
	"context"
	"errors"
	"testing"

	logpkg "github.com/LerianStudio/accounts-filing-api/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_WritesFieldsAtLevel(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	logger := NewWithCore(core)

	logger.Log(context.Background(), logpkg.LevelWarn, "remote call failed",
		logpkg.String("service", "file-validator"),
		logpkg.Err(errors.New("boom")),
	)

	entries := recorded.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "remote call failed", entries[0].Message)

	fields := entries[0].ContextMap()
	assert.Equal(t, "file-validator", fields["service"])
	assert.Equal(t, "boom", fields["error"])
}

func TestLogger_AppendsTraceIdentifiers(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	logger := NewWithCore(core)

	provider := sdktrace.NewTracerProvider()
	ctx, span := provider.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	logger.Log(ctx, logpkg.LevelInfo, "with span")

	fields := recorded.All()[0].ContextMap()
	assert.Equal(t, span.SpanContext().TraceID().String(), fields["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), fields["span_id"])
}

func TestLogger_RespectsLevel(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	logger := NewWithCore(core)

	assert.False(t, logger.Enabled(logpkg.LevelDebug))
	assert.True(t, logger.Enabled(logpkg.LevelError))

	logger.Log(context.Background(), logpkg.LevelDebug, "dropped")
	assert.Zero(t, recorded.Len())
}

func TestLogger_WithAddsFields(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	logger := NewWithCore(core).With(logpkg.String("entry_id", "e-1"))

	logger.Log(context.Background(), logpkg.LevelInfo, "saved")

	assert.Equal(t, "e-1", recorded.All()[0].ContextMap()["entry_id"])
}

func TestLogger_NilSafe(t *testing.T) {
	var logger *Logger

	assert.NotPanics(t, func() {
		logger.Log(context.Background(), logpkg.LevelError, "nothing")
	})
	assert.False(t, logger.Enabled(logpkg.LevelError))
}

func TestNew_ValidatesConfig(t *testing.T) {
	_, err := New(Config{Environment: EnvironmentLocal})
	require.Error(t, err)

	_, err = New(Config{Environment: "moon", OTelLibraryName: "x"})
	require.Error(t, err)

	_, err = New(Config{Environment: EnvironmentLocal, OTelLibraryName: "x", Level: "loud"})
	require.Error(t, err)

	logger, err := New(Config{Environment: EnvironmentProduction, OTelLibraryName: "accounts-filing-api", Level: "warn"})
	require.NoError(t, err)
	assert.Equal(t, zapcore.WarnLevel, logger.Level().Level())
	assert.False(t, logger.Enabled(logpkg.LevelInfo))
}
