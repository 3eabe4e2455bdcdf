package http

import (
	"context"
	"time"

	"github.com/LerianStudio/accounts-filing-api/pkg"
	"github.com/LerianStudio/accounts-filing-api/pkg/circuitbreaker"
	"github.com/LerianStudio/accounts-filing-api/pkg/log"
	"github.com/LerianStudio/accounts-filing-api/pkg/opentelemetry"
	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/trace"
)

// Health returns HTTP Status 200 with response "healthy".
func Health(c *fiber.Ctx) error {
	return c.SendString("healthy")
}

// DependencyStatus is the breaker view of one remote service.
type DependencyStatus struct {
	State               circuitbreaker.State `json:"state"`
	Healthy             bool                 `json:"healthy"`
	Requests            uint32               `json:"requests"`
	ConsecutiveFailures uint32               `json:"consecutive_failures"`
}

// DependencyHealth reports the circuit breaker of every named service. It
// answers 503 while any of them is not closed.
func DependencyHealth(breakers circuitbreaker.Manager, services ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status := "healthy"
		code := fiber.StatusOK
		dependencies := make(map[string]DependencyStatus, len(services))

		for _, name := range services {
			counts := breakers.GetCounts(name)
			healthy := breakers.IsHealthy(name)

			dependencies[name] = DependencyStatus{
				State:               breakers.GetState(name),
				Healthy:             healthy,
				Requests:            counts.Requests,
				ConsecutiveFailures: counts.ConsecutiveFailures,
			}

			if !healthy {
				status = "degraded"
				code = fiber.StatusServiceUnavailable
			}
		}

		return JSONResponse(c, code, fiber.Map{
			"status":       status,
			"dependencies": dependencies,
		})
	}
}

// Version returns HTTP Status 200 with the running version.
func Version(c *fiber.Ctx) error {
	return OK(c, fiber.Map{
		"version":     pkg.GetenvOrDefault("VERSION", "0.0.0"),
		"requestDate": time.Now().UTC(),
	})
}

// FiberErrorHandler renders errors returned by handlers and logs the ones
// that are not plain routing errors.
func FiberErrorHandler(c *fiber.Ctx, err error) error {
	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}

	status, _ := errorToResponse(err)

	if status >= fiber.StatusInternalServerError {
		span := trace.SpanFromContext(ctx)
		opentelemetry.HandleSpanError(span, "handler error", err)

		logger := pkg.NewLoggerFromContext(ctx)
		logger.Log(ctx, log.LevelError,
			"handler error",
			log.String("method", c.Method()),
			log.String("path", c.Path()),
			log.Int("status", status),
			log.Err(err),
		)
	}

	return WithError(c, err)
}
