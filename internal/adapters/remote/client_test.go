//go:build unit

package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/LerianStudio/accounts-filing-api/pkg"
	"github.com/LerianStudio/accounts-filing-api/pkg/circuitbreaker"
	"github.com/LerianStudio/accounts-filing-api/pkg/constant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type payload struct {
	Name string `json:"name"`
}

func newTestClient(t *testing.T, handler http.HandlerFunc, breaker circuitbreaker.Config) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{
		Service: "test-service",
		BaseURL: srv.URL + "/",
		APIKey:  "secret-key",
		Breaker: breaker,
	}, srv.Client(), circuitbreaker.NewManager(nil))
	require.NoError(t, err)

	return client
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	t.Parallel()

	_, err := NewClient(Config{Service: "x", BaseURL: "  "}, nil, nil)
	assert.ErrorIs(t, err, ErrEmptyBaseURL)
}

func TestDo_DecodesExpectedStatus(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/things/42", r.URL.Path)
		assert.Equal(t, "secret-key", r.Header.Get(constant.Authorization))
		assert.Equal(t, "req-1", r.Header.Get(constant.HeaderID))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(payload{Name: "forty-two"})
	}, circuitbreaker.Config{})

	ctx := pkg.ContextWithHeaderID(context.Background(), "req-1")

	var out payload

	status, err := client.Do(ctx, Request{
		Method: http.MethodGet, Path: "/things/42", Operation: "get", ResourceID: "42",
		Expected: http.StatusOK, Out: &out,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "forty-two", out.Name)
}

func TestDo_InjectsTraceContext(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})

	provider := sdktrace.NewTracerProvider()
	ctx, span := provider.Tracer("test").Start(context.Background(), "parent")
	defer span.End()

	ctx = pkg.ContextWithTracer(ctx, provider.Tracer("test"))

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("traceparent"), span.SpanContext().TraceID().String())
		w.WriteHeader(http.StatusNoContent)
	}, circuitbreaker.Config{})

	status, err := client.Do(ctx, Request{
		Method: http.MethodPatch, Path: "/p", Operation: "patch", Expected: http.StatusNoContent,
		Body: payload{Name: "x"},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, status)
}

func TestDo_ClientErrorsAreReturnedAsStatus(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}, circuitbreaker.Config{})

	var out payload

	status, err := client.Do(context.Background(), Request{
		Method: http.MethodGet, Path: "/missing", Operation: "get", Expected: http.StatusOK, Out: &out,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Empty(t, out.Name)
}

func TestDo_ServerErrorIsExternalServiceError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}, circuitbreaker.Config{})

	status, err := client.Do(context.Background(), Request{
		Method: http.MethodGet, Path: "/x", Operation: "get", ResourceID: "x", Expected: http.StatusOK,
	})

	var external pkg.ExternalServiceError
	require.ErrorAs(t, err, &external)
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, http.StatusBadGateway, external.ActualStatus)
	assert.Equal(t, http.StatusOK, external.ExpectedStatus)
	assert.Equal(t, "test-service", external.Service)
}

func TestDo_UndecodableBodyIsExternalServiceError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	}, circuitbreaker.Config{})

	var out payload

	_, err := client.Do(context.Background(), Request{
		Method: http.MethodGet, Path: "/x", Operation: "get", Expected: http.StatusOK, Out: &out,
	})

	var external pkg.ExternalServiceError
	require.ErrorAs(t, err, &external)
	assert.Equal(t, http.StatusOK, external.ActualStatus)
	assert.Equal(t, constant.ErrRemoteServiceFailure.Error(), external.Code)
	assert.Contains(t, err.Error(), "got 200")
}

func TestDo_OpenBreakerFailsFast(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}, circuitbreaker.Config{
		MaxRequests:         1,
		Interval:            time.Minute,
		Timeout:             time.Minute,
		ConsecutiveFailures: 2,
		FailureRatio:        1,
		MinRequests:         100,
	})

	req := Request{Method: http.MethodGet, Path: "/x", Operation: "get", Expected: http.StatusOK}

	for range 2 {
		_, err := client.Do(context.Background(), req)
		require.Error(t, err)
	}

	status, err := client.Do(context.Background(), req)

	var external pkg.ExternalServiceError
	require.ErrorAs(t, err, &external)
	assert.ErrorIs(t, err, circuitbreaker.ErrServiceUnavailable)
	assert.Equal(t, constant.ErrRemoteServiceUnavailable.Error(), external.Code)
	assert.Zero(t, status)
	assert.Equal(t, int32(2), calls.Load())
}

func TestDo_TransportFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client, err := NewClient(Config{Service: "gone", BaseURL: url}, nil, nil)
	require.NoError(t, err)

	status, err := client.Do(context.Background(), Request{
		Method: http.MethodGet, Path: "/", Operation: "get", Expected: http.StatusOK,
	})

	var external pkg.ExternalServiceError
	require.ErrorAs(t, err, &external)
	assert.Zero(t, status)
	assert.Zero(t, external.ActualStatus)
}
