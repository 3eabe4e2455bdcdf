package http

import (
	"regexp"

	"github.com/LerianStudio/accounts-filing-api/pkg"
	"github.com/LerianStudio/accounts-filing-api/pkg/constant"
	"github.com/gofiber/fiber/v2"
)

// ParamRule binds a route parameter name to the pattern it must match.
type ParamRule struct {
	Name    string
	Pattern *regexp.Regexp
}

// ValidatePathParams rejects the request with a 400 when a named route
// parameter does not match its pattern. It must be registered on the route
// itself so that parameters are resolved.
func ValidatePathParams(rules ...ParamRule) fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, rule := range rules {
			if !rule.Pattern.MatchString(c.Params(rule.Name)) {
				return WithError(c, pkg.ValidateBusinessError(constant.ErrInvalidPathParameter, "", rule.Name))
			}
		}

		return c.Next()
	}
}
