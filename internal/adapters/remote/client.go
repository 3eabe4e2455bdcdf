// Package remote is the shared JSON-over-HTTP client of the outbound
// adapters. Calls go through a circuit breaker, carry the trace context and
// request id, and count failures.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/LerianStudio/accounts-filing-api/pkg"
	"github.com/LerianStudio/accounts-filing-api/pkg/circuitbreaker"
	"github.com/LerianStudio/accounts-filing-api/pkg/constant"
	"github.com/LerianStudio/accounts-filing-api/pkg/log"
	"github.com/LerianStudio/accounts-filing-api/pkg/opentelemetry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	failureCounterName = "accounts_filing_remote_call_failures_total"
	maxErrorBodyBytes  = 4096
	defaultTimeout     = 10 * time.Second
)

// ErrEmptyBaseURL is returned by NewClient when no base URL is configured.
var ErrEmptyBaseURL = errors.New("remote base url cannot be empty")

// Config describes one remote service.
type Config struct {
	Service string
	BaseURL string
	APIKey  string
	Timeout time.Duration
	Breaker circuitbreaker.Config
}

// Client calls one remote service.
type Client struct {
	cfg        Config
	httpClient *http.Client
	breakers   circuitbreaker.Manager
	failures   metric.Int64Counter
}

// NewClient registers the service's breaker on breakers and builds a client.
// A nil httpClient is replaced by one with cfg.Timeout.
func NewClient(cfg Config, httpClient *http.Client, breakers circuitbreaker.Manager) (*Client, error) {
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: %s", ErrEmptyBaseURL, cfg.Service)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	if cfg.Breaker == (circuitbreaker.Config{}) {
		cfg.Breaker = circuitbreaker.HTTPServiceConfig()
	}

	if breakers == nil {
		breakers = circuitbreaker.NewManager(nil)
	}

	breakers.GetOrCreate(cfg.Service, cfg.Breaker)

	failures, err := otel.Meter("accounts-filing-api").Int64Counter(failureCounterName,
		metric.WithDescription("Remote calls that failed in transport or returned a server error"))
	if err != nil {
		return nil, fmt.Errorf("create %s counter: %w", failureCounterName, err)
	}

	return &Client{cfg: cfg, httpClient: httpClient, breakers: breakers, failures: failures}, nil
}

// Service returns the name the client reports in errors and metrics.
func (c *Client) Service() string {
	return c.cfg.Service
}

// Request is one call. Out is decoded only when the response carries Expected.
type Request struct {
	Method     string
	Path       string
	Operation  string
	ResourceID string
	Expected   int
	Body       any
	Out        any
}

// Do performs req and returns the status code received. The error is set
// for transport failures, server errors and an open breaker (all
// ExternalServiceError) and for a body that cannot be decoded. Other
// statuses are returned for the caller to interpret.
func (c *Client) Do(ctx context.Context, req Request) (int, error) {
	logger, tracer, requestID := pkg.NewTrackingFromContext(ctx)

	ctx, span := tracer.Start(ctx, c.cfg.Service+"."+req.Operation, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	span.SetAttributes(
		attribute.String(constant.AttrPeerService, c.cfg.Service),
		attribute.String("http.request.method", req.Method),
	)

	httpReq, err := c.newHTTPRequest(ctx, req, requestID)
	if err != nil {
		opentelemetry.HandleSpanError(span, "Failed to build request", err)

		return 0, err
	}

	result, err := c.breakers.Execute(c.cfg.Service, func() (any, error) {
		return c.send(httpReq, req)
	})

	status := 0
	if res, ok := result.(*response); ok && res != nil {
		status = res.status
	}

	if err != nil {
		if errors.Is(err, circuitbreaker.ErrServiceUnavailable) {
			err = pkg.NewServiceUnavailableError(c.cfg.Service, req.Operation, req.ResourceID, req.Expected, err)
		}

		c.failures.Add(ctx, 1, metric.WithAttributes(
			attribute.String("service", c.cfg.Service),
			attribute.String("operation", req.Operation),
		))

		opentelemetry.HandleSpanError(span, "Remote call failed", err)

		logger.Log(ctx, log.LevelError, "remote call failed",
			log.String("service", c.cfg.Service),
			log.String("operation", req.Operation),
			log.String("resource_id", req.ResourceID),
			log.Err(err),
		)

		return status, err
	}

	span.SetAttributes(attribute.Int(constant.AttrHTTPStatus, status))

	if status != req.Expected {
		logger.Log(ctx, log.LevelWarn, log.SanitizeExternalResponse(c.cfg.Service, status),
			log.String("operation", req.Operation),
			log.String("resource_id", req.ResourceID),
		)
	}

	return status, nil
}

type response struct {
	status int
}

func (c *Client) newHTTPRequest(ctx context.Context, req Request, requestID string) (*http.Request, error) {
	var body io.Reader

	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s body: %w", c.cfg.Service, req.Operation, err)
		}

		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.cfg.BaseURL+req.Path, body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s request: %w", c.cfg.Service, req.Operation, err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(constant.HeaderID, requestID)

	if req.Body != nil {
		httpReq.Header.Set(constant.HeaderContentType, "application/json")
	}

	if c.cfg.APIKey != "" {
		httpReq.Header.Set(constant.Authorization, c.cfg.APIKey)
	}

	opentelemetry.InjectHTTPContext(ctx, httpReq.Header)

	return httpReq, nil
}

// send returns an error only for outcomes the breaker should count.
func (c *Client) send(httpReq *http.Request, req Request) (*response, error) {
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkg.NewResponseError(c.cfg.Service, req.Operation, req.ResourceID, req.Expected, 0, err)
	}

	defer resp.Body.Close()

	res := &response{status: resp.StatusCode}

	if resp.StatusCode >= http.StatusInternalServerError {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBodyBytes))

		return res, pkg.NewResponseError(c.cfg.Service, req.Operation, req.ResourceID, req.Expected, resp.StatusCode, nil)
	}

	if resp.StatusCode != req.Expected || req.Out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBodyBytes))

		return res, nil
	}

	if err := json.NewDecoder(resp.Body).Decode(req.Out); err != nil {
		return res, pkg.NewExternalServiceError(c.cfg.Service, req.Operation, req.ResourceID, req.Expected, resp.StatusCode,
			fmt.Errorf("decode body: %w", err))
	}

	return res, nil
}
