package bookings

import (
	"errors"
	"strings"
	"time"

	booksvc "roomrento-backend/internal/application/bookings"
	"roomrento-backend/internal/pkg/response"
	"roomrento-backend/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Handlers struct {
	Service *booksvc.Service
}

type requestBody struct {
	ListingID string `json:"listing_id"`
	Message   string `json:"message"`
	MoveIn    string `json:"move_in"` // YYYY-MM-DD
}

// Request POST /api/v1/bookings
func (h *Handlers) Request(c *fiber.Ctx) error {
	s, _ := session.From(c)
	var body requestBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	listingID, err := uuid.Parse(body.ListingID)
	if err != nil {
		return response.Error(c, "listing_id is required", fiber.StatusBadRequest, nil)
	}
	var moveIn *time.Time
	if v := strings.TrimSpace(body.MoveIn); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return response.Error(c, "move_in must be YYYY-MM-DD", fiber.StatusBadRequest, nil)
		}
		moveIn = &t
	}

	b, err := h.Service.Request(c.UserContext(), booksvc.RequestInput{
		TenantID:  s.UserID,
		ListingID: listingID,
		Message:   strings.TrimSpace(body.Message),
		MoveIn:    moveIn,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return response.SuccessCreated(c, "Booking requested", b, nil)
}

type decisionBody struct {
	Status string `json:"status"`
}

// Decide PATCH /api/v1/bookings/:id
func (h *Handlers) Decide(c *fiber.Ctx) error {
	s, _ := session.From(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid booking id", fiber.StatusBadRequest, nil)
	}
	var body decisionBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	b, err := h.Service.Decide(c.UserContext(), s.UserID, id, strings.ToLower(strings.TrimSpace(body.Status)))
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Booking "+b.Status, b, nil)
}

// Incoming GET /api/v1/bookings/incoming
func (h *Handlers) Incoming(c *fiber.Ctx) error {
	s, _ := session.From(c)
	rows, err := h.Service.Incoming(c.UserContext(), s.UserID)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Bookings fetched", rows, fiber.Map{"count": len(rows)})
}

// Mine GET /api/v1/bookings/mine
func (h *Handlers) Mine(c *fiber.Ctx) error {
	s, _ := session.From(c)
	rows, err := h.Service.Mine(c.UserContext(), s.UserID)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Bookings fetched", rows, fiber.Map{"count": len(rows)})
}

func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, booksvc.ErrListingNotFound), errors.Is(err, booksvc.ErrBookingNotFound):
		return response.NotFound(c, err.Error())
	case errors.Is(err, booksvc.ErrNotOwner):
		return response.Forbidden(c, err.Error())
	case errors.Is(err, booksvc.ErrAlreadyRequested), errors.Is(err, booksvc.ErrAlreadyDecided),
		errors.Is(err, booksvc.ErrListingUnavailable):
		return response.Conflict(c, err.Error())
	case errors.Is(err, booksvc.ErrOwnListing), errors.Is(err, booksvc.ErrInvalidStatus):
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	default:
		log.Error().Err(err).Msg("bookings: request failed")
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
}
