package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/mediatordesk/helpdesk/pkg/util"
)

// RequireAuthenticated ensures a principal is present.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}

// RequireGlobalAdmin restricts a route to global administrators.
func RequireGlobalAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.User == nil {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !principal.User.IsGlobalAdmin {
			return apperrors.NewForbidden("administrator access required")
		}
		return c.Next()
	}
}
