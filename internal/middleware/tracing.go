package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// TraceIDHeader carries the request trace ID. Clients such as the listing
// wizard may send their own so both sides log the same ID.
const TraceIDHeader = "X-Trace-Id"

const traceIDLocal = "trace_id"

// Tracing reuses a client trace ID when it is a valid UUID and mints one
// otherwise. The ID is echoed in the response header.
func Tracing() fiber.Handler {
	return func(c *fiber.Ctx) error {
		traceID := c.Get(TraceIDHeader)
		if _, err := uuid.Parse(traceID); err != nil {
			traceID = uuid.New().String()
		}
		c.Locals(traceIDLocal, traceID)
		c.Set(TraceIDHeader, traceID)
		return c.Next()
	}
}

// GetTraceID returns the trace ID from context.
func GetTraceID(c *fiber.Ctx) string {
	if id, ok := c.Locals(traceIDLocal).(string); ok {
		return id
	}
	return ""
}
