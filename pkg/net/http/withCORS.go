package http

import (
	"github.com/LerianStudio/accounts-filing-api/pkg"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

const (
	defaultAccessControlAllowOrigin  = "*"
	defaultAccessControlAllowMethods = "GET, PUT, OPTIONS"
	defaultAccessControlAllowHeaders = "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization, X-Request-Id"
)

// WithCORS enables CORS with origins, methods and headers taken from the environment.
func WithCORS() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins: pkg.GetenvOrDefault("ACCESS_CONTROL_ALLOW_ORIGIN", defaultAccessControlAllowOrigin),
		AllowMethods: pkg.GetenvOrDefault("ACCESS_CONTROL_ALLOW_METHODS", defaultAccessControlAllowMethods),
		AllowHeaders: pkg.GetenvOrDefault("ACCESS_CONTROL_ALLOW_HEADERS", defaultAccessControlAllowHeaders),
	})
}
