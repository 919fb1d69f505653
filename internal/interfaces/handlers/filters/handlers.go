package filters

import (
	"strings"

	filtersvc "roomrento-backend/internal/application/filters"
	"roomrento-backend/internal/pkg/response"
	"roomrento-backend/internal/session"

	"github.com/gofiber/fiber/v2"
)

// Handlers serve the caller's remembered search filter. All routes require a session.
type Handlers struct {
	Store *filtersvc.Store
}

// Last GET /api/v1/filters/last. data is null when nothing is remembered.
func (h *Handlers) Last(c *fiber.Ctx) error {
	s, _ := session.From(c)
	f, ok, err := h.Store.Last(c.UserContext(), s.UserID)
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusInternalServerError, nil)
	}
	if !ok {
		return response.Success(c, "No remembered filter", nil, nil)
	}
	return response.Success(c, "Filter fetched", f, nil)
}

// Save PUT /api/v1/filters/last
func (h *Handlers) Save(c *fiber.Ctx) error {
	s, _ := session.From(c)
	var f filtersvc.SearchFilter
	if err := c.BodyParser(&f); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	f.Type = strings.ToLower(strings.TrimSpace(f.Type))
	if (f.MinPrice != nil && *f.MinPrice < 0) || (f.MaxPrice != nil && *f.MaxPrice < 0) {
		return response.Error(c, "Prices must be non-negative", fiber.StatusBadRequest, nil)
	}
	if err := h.Store.Save(c.UserContext(), s.UserID, f); err != nil {
		return response.Error(c, err.Error(), fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Filter saved", f, nil)
}

// Clear DELETE /api/v1/filters/last
func (h *Handlers) Clear(c *fiber.Ctx) error {
	s, _ := session.From(c)
	if err := h.Store.Clear(c.UserContext(), s.UserID); err != nil {
		return response.Error(c, err.Error(), fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Filter cleared", nil, nil)
}
