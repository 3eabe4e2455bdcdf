package http

import (
	"strings"

	"github.com/LerianStudio/accounts-filing-api/pkg"
	"github.com/LerianStudio/accounts-filing-api/pkg/constant"
	"github.com/LerianStudio/accounts-filing-api/pkg/opentelemetry"
	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// WithTelemetry opens a server span per request, continuing any trace
// carried by the incoming headers, and stores the tracer in the user context.
func WithTelemetry(libraryName string, excludedSuffixes ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, suffix := range excludedSuffixes {
			if strings.HasSuffix(c.Path(), suffix) {
				return c.Next()
			}
		}

		tracer := otel.Tracer(libraryName)

		ctx, span := tracer.Start(opentelemetry.ExtractHTTPContext(c), c.Method()+" "+c.Path(),
			trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()

		_, _, requestID := pkg.NewTrackingFromContext(ctx)

		span.SetAttributes(
			attribute.String("http.request.method", c.Method()),
			attribute.String("url.path", c.Path()),
			attribute.String("user_agent.original", c.Get(constant.HeaderUserAgent)),
			attribute.String("app.request.request_id", requestID),
		)

		c.SetUserContext(pkg.ContextWithTracer(ctx, tracer))

		err := c.Next()

		span.SetAttributes(attribute.String("http.route", c.Route().Path))

		status := c.Response().StatusCode()
		if err != nil {
			status, _ = errorToResponse(err)
		}

		span.SetAttributes(attribute.Int(constant.AttrHTTPStatus, status))

		return err
	}
}
