package listings

import (
	"errors"
	"strconv"
	"strings"

	"roomrento-backend/internal/application/filters"
	listsvc "roomrento-backend/internal/application/listings"
	"roomrento-backend/internal/pkg/response"
	"roomrento-backend/internal/session"
	"roomrento-backend/internal/wizard"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Handlers struct {
	Service *listsvc.Service
	Filters *filters.Store // optional; remember=true is ignored without it
}

// Create returns the POST handler for one listing type (room, hotel, shop).
func (h *Handlers) Create(listingType string) fiber.Handler {
	schema, ok := wizard.Lookup(listingType)
	if !ok {
		panic("listings: unknown listing type " + listingType)
	}
	return func(c *fiber.Ctx) error {
		s, ok := session.From(c)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}
		form, err := c.MultipartForm()
		if err != nil {
			return response.Error(c, "Expected multipart/form-data", fiber.StatusBadRequest, nil)
		}
		draft, ferrs, err := draftFromForm(schema, form)
		if err != nil {
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		}
		if len(ferrs) > 0 {
			return response.ValidationFailed(c, ferrs)
		}

		listing, err := h.Service.Create(c.UserContext(), listsvc.CreateInput{OwnerID: s.UserID, Schema: schema, Draft: draft})
		if err != nil {
			var verr *wizard.ValidationError
			switch {
			case errors.As(err, &verr):
				return response.ValidationFailed(c, verr.Errors)
			case errors.Is(err, listsvc.ErrDuplicateListing):
				return response.Conflict(c, err.Error())
			default:
				log.Error().Err(err).Str("type", listingType).Msg("listings: create failed")
				return response.Error(c, "Failed to create listing", fiber.StatusInternalServerError, nil)
			}
		}
		log.Info().Str("type", listingType).Str("listing_id", listing.ID.String()).Msg("listings: created")
		return response.SuccessCreated(c, "Listing created", listing, nil)
	}
}

// Mine GET /api/v1/listings/mine
func (h *Handlers) Mine(c *fiber.Ctx) error {
	s, _ := session.From(c)
	rows, err := h.Service.Mine(c.UserContext(), s.UserID)
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Listings fetched", rows, fiber.Map{"count": len(rows)})
}

// Get GET /api/v1/listings/:id
func (h *Handlers) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid listing id", fiber.StatusBadRequest, nil)
	}
	l, err := h.Service.Get(c.UserContext(), id)
	if err != nil {
		return h.serviceError(c, err)
	}
	return response.Success(c, "Listing fetched", l, nil)
}

type availabilityRequest struct {
	Available *bool `json:"available"`
}

// SetAvailability PATCH /api/v1/listings/:id/availability
func (h *Handlers) SetAvailability(c *fiber.Ctx) error {
	s, _ := session.From(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid listing id", fiber.StatusBadRequest, nil)
	}
	var req availabilityRequest
	if err := c.BodyParser(&req); err != nil || req.Available == nil {
		return response.Error(c, "available must be true or false", fiber.StatusBadRequest, nil)
	}
	l, err := h.Service.SetAvailability(c.UserContext(), s.UserID, id, *req.Available)
	if err != nil {
		return h.serviceError(c, err)
	}
	return response.Success(c, "Availability updated", l, nil)
}

// Delete DELETE /api/v1/listings/:id
func (h *Handlers) Delete(c *fiber.Ctx) error {
	s, _ := session.From(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid listing id", fiber.StatusBadRequest, nil)
	}
	if err := h.Service.Delete(c.UserContext(), s.UserID, id); err != nil {
		return h.serviceError(c, err)
	}
	return response.Success(c, "Listing deleted", fiber.Map{"id": id}, nil)
}

// Search GET /api/v1/listings/search?type=&city=&minPrice=&maxPrice=&amenity=&remember=true
// With last=true and no other filter, the caller's remembered filter is used.
func (h *Handlers) Search(c *fiber.Ctx) error {
	f, err := filterFromQuery(c)
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	s, authed := session.From(c)
	ctx := c.UserContext()

	if authed && h.Filters != nil {
		if f.IsZero() && c.QueryBool("last") {
			if last, ok, err := h.Filters.Last(ctx, s.UserID); err == nil && ok {
				f = last
			}
		}
		if c.QueryBool("remember") && !f.IsZero() {
			if err := h.Filters.Save(ctx, s.UserID, f); err != nil {
				log.Warn().Err(err).Msg("listings: remember filter failed")
			}
		}
	}

	rows, err := h.Service.Search(ctx, f)
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Listings fetched", rows, fiber.Map{"count": len(rows), "filter": f})
}

func filterFromQuery(c *fiber.Ctx) (filters.SearchFilter, error) {
	f := filters.SearchFilter{
		Type:    strings.ToLower(strings.TrimSpace(c.Query("type"))),
		City:    strings.TrimSpace(c.Query("city")),
		Amenity: strings.TrimSpace(c.Query("amenity")),
	}
	if f.Type != "" {
		if _, ok := wizard.Lookup(f.Type); !ok {
			return f, errors.New("type must be one of " + strings.Join(wizard.Types(), ", "))
		}
	}
	var err error
	if f.MinPrice, err = priceParam(c, "minPrice"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = priceParam(c, "maxPrice"); err != nil {
		return f, err
	}
	return f, nil
}

func priceParam(c *fiber.Ctx, name string) (*float64, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return nil, errors.New(name + " must be a non-negative number")
	}
	return &v, nil
}

func (h *Handlers) serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, listsvc.ErrListingNotFound):
		return response.NotFound(c, err.Error())
	case errors.Is(err, listsvc.ErrNotOwner):
		return response.Forbidden(c, err.Error())
	default:
		return response.Error(c, err.Error(), fiber.StatusInternalServerError, nil)
	}
}
