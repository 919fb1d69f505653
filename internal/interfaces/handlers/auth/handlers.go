package auth

import (
	"errors"

	authsvc "roomrento-backend/internal/application/auth"
	"roomrento-backend/internal/domain"
	"roomrento-backend/internal/pkg/response"
	"roomrento-backend/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Handlers holds dependencies for auth endpoints.
type Handlers struct {
	Service *authsvc.Service
	Tokens  *authsvc.Tokens
}

// LoginRequest is the body of POST /api/v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func userJSON(u *domain.User) fiber.Map {
	return fiber.Map{
		"user_id":  u.UserID.String(),
		"fullname": u.Fullname,
		"email":    u.Email,
		"phone":    u.Phone,
		"role":     u.Role,
	}
}

// Register POST /api/v1/auth/register. 201 with the user and a bearer token.
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req authsvc.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	user, err := h.Service.Register(c.UserContext(), req)
	if err != nil {
		switch {
		case errors.Is(err, authsvc.ErrEmailTaken):
			return response.Conflict(c, err.Error())
		case errors.Is(err, authsvc.ErrInvalidFullname), errors.Is(err, authsvc.ErrInvalidEmailFormat),
			errors.Is(err, authsvc.ErrInvalidPassword), errors.Is(err, authsvc.ErrInvalidRole),
			errors.Is(err, authsvc.ErrInvalidPhone):
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		default:
			log.Error().Err(err).Msg("auth/register failed")
			return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
		}
	}
	token, err := h.Tokens.Issue(user)
	if err != nil {
		log.Error().Err(err).Msg("auth/register: token issue failed")
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.SuccessCreated(c, "Registration successful", fiber.Map{"user": userJSON(user), "token": token}, nil)
}

// Login POST /api/v1/auth/login. Authenticates and returns a bearer token.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, authsvc.ErrEmailPasswordRequired.Error(), fiber.StatusBadRequest, nil)
	}
	user, err := h.Service.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, authsvc.ErrEmailPasswordRequired):
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		case errors.Is(err, authsvc.ErrInvalidEmail), errors.Is(err, authsvc.ErrIncorrectPassword):
			return response.Unauthorized(c, err.Error())
		default:
			log.Error().Err(err).Msg("auth/login failed")
			return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
		}
	}
	token, err := h.Tokens.Issue(user)
	if err != nil {
		log.Error().Err(err).Msg("auth/login: token issue failed")
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	log.Info().Str("user_id", user.UserID.String()).Msg("auth/login: success")
	return response.Success(c, "Login successful", fiber.Map{"user": userJSON(user), "token": token}, nil)
}

// Me GET /api/v1/auth/me. Returns the caller's profile.
func (h *Handlers) Me(c *fiber.Ctx) error {
	s, ok := session.From(c)
	if !ok {
		return response.Unauthorized(c, authsvc.ErrNotAuthenticated.Error())
	}
	user, err := h.Service.Find(c.UserContext(), s.UserID)
	if err != nil {
		if errors.Is(err, authsvc.ErrNotAuthenticated) {
			return response.Unauthorized(c, err.Error())
		}
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Authenticated", fiber.Map{"user": userJSON(user)}, nil)
}

// UpdateMe PATCH /api/v1/auth/me. Updates fullname, email, phone or password.
func (h *Handlers) UpdateMe(c *fiber.Ctx) error {
	s, ok := session.From(c)
	if !ok {
		return response.Unauthorized(c, authsvc.ErrNotAuthenticated.Error())
	}
	var req authsvc.ProfileUpdate
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	user, err := h.Service.UpdateProfile(c.UserContext(), s.UserID, req)
	if err != nil {
		switch {
		case errors.Is(err, authsvc.ErrEmailTaken):
			return response.Conflict(c, err.Error())
		case errors.Is(err, authsvc.ErrNotAuthenticated):
			return response.Unauthorized(c, err.Error())
		case errors.Is(err, authsvc.ErrNoUpdateFields), errors.Is(err, authsvc.ErrInvalidFullname),
			errors.Is(err, authsvc.ErrInvalidEmailFormat), errors.Is(err, authsvc.ErrInvalidPassword),
			errors.Is(err, authsvc.ErrInvalidPhone):
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		default:
			log.Error().Err(err).Msg("auth/me: update failed")
			return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
		}
	}
	return response.Success(c, "Profile updated", fiber.Map{"user": userJSON(user)}, nil)
}
