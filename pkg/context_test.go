//go:build unit

package pkg

import (
	"context"
	"testing"

	"github.com/LerianStudio/accounts-filing-api/pkg/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestNewTrackingFromContext_Defaults(t *testing.T) {
	t.Parallel()

	logger, tracer, headerID := NewTrackingFromContext(context.Background())

	assert.IsType(t, &log.NopLogger{}, logger)
	assert.NotNil(t, tracer)

	_, err := uuid.Parse(headerID)
	assert.NoError(t, err)
}

func TestNewTrackingFromContext_ReturnsStoredComponents(t *testing.T) {
	t.Parallel()

	logger := log.NewNop()
	tracer := noop.NewTracerProvider().Tracer("test")

	ctx := ContextWithLogger(context.Background(), logger)
	ctx = ContextWithTracer(ctx, tracer)
	ctx = ContextWithHeaderID(ctx, "req-1")

	gotLogger, gotTracer, headerID := NewTrackingFromContext(ctx)

	assert.Same(t, logger, gotLogger)
	assert.Equal(t, tracer, gotTracer)
	assert.Equal(t, "req-1", headerID)
	assert.Same(t, logger, NewLoggerFromContext(ctx))
}

func TestContextWith_DoesNotMutateParent(t *testing.T) {
	t.Parallel()

	parent := ContextWithHeaderID(context.Background(), "parent")
	child := ContextWithHeaderID(parent, "child")

	_, _, parentID := NewTrackingFromContext(parent)
	_, _, childID := NewTrackingFromContext(child)

	assert.Equal(t, "parent", parentID)
	assert.Equal(t, "child", childID)
}
