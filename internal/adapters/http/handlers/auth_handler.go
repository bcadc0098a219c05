package handlers

import (
	"strings"

	"roadcare/internal/adapters/http/middleware"
	"roadcare/internal/core/domain"
	"roadcare/internal/core/services"
	"roadcare/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct{}

// NewAuthHandler creates a new auth handler
func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

// SessionPayload is returned after a successful sign-in or sign-up
type SessionPayload struct {
	Session  *domain.Session `json:"session"`
	Redirect string          `json:"redirect,omitempty"`
}

func (h *AuthHandler) service(c *fiber.Ctx) *services.AuthService {
	return services.NewAuthService(middleware.Store(c))
}

// Register handles user registration
// @Summary Register new user
// @Description Create an account with the backend and sign in with the returned credential
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body domain.RegisterRequest true "Registration data"
// @Success 201 {object} response.Response{data=SessionPayload}
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req domain.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.UserName = strings.TrimSpace(req.UserName)
	req.Address = strings.TrimSpace(req.Address)
	req.Email = strings.TrimSpace(req.Email)

	if err := h.service(c).Register(c.UserContext(), req); err != nil {
		return fail(c, err)
	}

	return response.Created(c, "Registration successful", SessionPayload{
		Session:  middleware.Store(c).Session(),
		Redirect: middleware.NavigationOf(c),
	})
}

// Login handles user login
// @Summary Login user
// @Description Authenticate with the backend; the credential is kept server-side for this browser
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body domain.LoginRequest true "Login credentials"
// @Success 200 {object} response.Response{data=SessionPayload}
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req domain.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	req.Email = strings.TrimSpace(req.Email)

	if err := h.service(c).Login(c.UserContext(), req); err != nil {
		return fail(c, err)
	}

	return response.Success(c, "Login successful", SessionPayload{
		Session:  middleware.Store(c).Session(),
		Redirect: middleware.NavigationOf(c),
	})
}

// Logout handles user logout
// @Summary Logout user
// @Description Sign out (best effort) and forget this browser's credential
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response{data=SessionPayload}
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.service(c).Logout(c.UserContext())

	return response.Success(c, "Logged out", SessionPayload{
		Redirect: middleware.NavigationOf(c),
	})
}

// Me returns the current session
// @Summary Current session
// @Description Tri-state session view: loading, unauthenticated or authenticated
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response{data=services.Me}
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return response.Success(c, "", h.service(c).Me())
}
