package notifications

import (
	"errors"

	notifsvc "roomrento-backend/internal/application/notifications"
	"roomrento-backend/internal/pkg/response"
	"roomrento-backend/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *notifsvc.Service
}

// List GET /api/v1/notifications?unread=true
func (h *Handlers) List(c *fiber.Ctx) error {
	s, _ := session.From(c)
	rows, err := h.Service.List(c.UserContext(), s.UserID, c.QueryBool("unread"))
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Notifications fetched", rows, fiber.Map{"count": len(rows)})
}

// MarkRead PATCH /api/v1/notifications/:id/read
func (h *Handlers) MarkRead(c *fiber.Ctx) error {
	s, _ := session.From(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid notification id", fiber.StatusBadRequest, nil)
	}
	if err := h.Service.MarkRead(c.UserContext(), s.UserID, id); err != nil {
		if errors.Is(err, notifsvc.ErrNotificationNotFound) {
			return response.NotFound(c, err.Error())
		}
		return response.Error(c, err.Error(), fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Notification marked as read", fiber.Map{"id": id}, nil)
}
