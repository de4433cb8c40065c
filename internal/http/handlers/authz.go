package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"taskhub/internal/apperr"
	"taskhub/internal/domain"
	applog "taskhub/internal/log"
	"taskhub/internal/services"
)

const identityKey = "identity"

// Protect gates a route on a valid bearer token and attaches the decoded
// identity to the request. No store lookup happens here: the claims are
// trusted as current until the token expires, so a user deleted after
// issuance stays authenticated until then.
func Protect(tokens *services.TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			applog.Security(c, "auth.token.missing", nil)
			return apperr.New(apperr.KindUnauthenticated, "Not authorized to access this route")
		}
		claims, err := tokens.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			applog.Security(c, "auth.token.invalid", map[string]any{"reason": err.Error()})
			return apperr.New(apperr.KindUnauthenticated, "Not authorized to access this route")
		}
		ident := claims.Identity()
		c.Locals(identityKey, ident)
		c.Locals("userID", ident.UserID)
		return c.Next()
	}
}

// identity returns the caller attached by Protect. Only reachable on
// protected routes, so a missing value is a programming error and comes
// back as the zero Identity (which owns nothing).
func identity(c *fiber.Ctx) domain.Identity {
	ident, _ := c.Locals(identityKey).(domain.Identity)
	return ident
}
