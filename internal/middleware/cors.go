package middleware

import (
	"strings"

	"roomrento-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CORSConfig lists who may call the API from a browser.
type CORSConfig struct {
	AllowedOrigins []string // exact matches, e.g. FRONTEND_URL
	AllowedSuffix  string   // e.g. .roomrento.in for preview deployments
	DevPassword    string
}

// CORS allows listed origins, origins ending with AllowedSuffix, localhost
// and requests carrying the dev-password header. Requests without an
// Origin pass through untouched.
func CORS(cfg CORSConfig) fiber.Handler {
	exact := make(map[string]bool, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		if o = strings.TrimRight(strings.ToLower(o), "/"); o != "" {
			exact[o] = true
		}
	}
	suffix := strings.ToLower(cfg.AllowedSuffix)

	return func(c *fiber.Ctx) error {
		origin := c.Get("Origin")
		if origin == "" {
			return c.Next()
		}
		lower := strings.ToLower(origin)
		allowed := exact[lower] ||
			(suffix != "" && strings.HasSuffix(lower, suffix)) ||
			strings.HasPrefix(lower, "http://localhost:") || strings.HasPrefix(lower, "http://127.0.0.1:") ||
			(cfg.DevPassword != "" && c.Get("dev-password") == cfg.DevPassword)
		if !allowed {
			return response.Forbidden(c, "Not allowed by CORS")
		}
		setCORSHeaders(c, origin)
		if c.Method() == fiber.MethodOptions {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return c.Next()
	}
}

func setCORSHeaders(c *fiber.Ctx, origin string) {
	c.Set("Access-Control-Allow-Origin", origin)
	c.Set("Access-Control-Allow-Credentials", "true")
	c.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, dev-password, "+TraceIDHeader)
	c.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
	c.Set("Access-Control-Expose-Headers", TraceIDHeader)
	c.Set("Vary", "Origin")
}
