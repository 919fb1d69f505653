// Package session carries the authenticated caller through a request.
package session

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const localKey = "session"

// Context is the authenticated caller, decoded from the bearer token.
type Context struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Role   string    `json:"role"`
}

// Attach stores the session on the request.
func Attach(c *fiber.Ctx, s Context) {
	c.Locals(localKey, s)
}

// From returns the request session. ok is false for anonymous requests.
func From(c *fiber.Ctx) (Context, bool) {
	s, ok := c.Locals(localKey).(Context)
	return s, ok
}
