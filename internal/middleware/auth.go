package middleware

import (
	"strings"

	"roomrento-backend/internal/pkg/response"
	"roomrento-backend/internal/session"

	"github.com/gofiber/fiber/v2"
)

// TokenParser decodes a bearer token into a session.
type TokenParser interface {
	Parse(token string) (session.Context, error)
}

// Authenticate attaches the session for requests carrying a valid bearer
// token. Requests without a token pass through anonymous; an invalid token is
// also treated as anonymous so public routes keep working.
func Authenticate(tokens TokenParser) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
			if s, err := tokens.Parse(strings.TrimSpace(header[7:])); err == nil {
				session.Attach(c, s)
			}
		}
		return c.Next()
	}
}

// RequireAuth ensures a session is attached. Returns 401 with standard error format if not.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := session.From(c); !ok {
			return response.Unauthorized(c, "Unauthorized")
		}
		return c.Next()
	}
}
