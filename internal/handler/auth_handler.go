package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/travelmate/admin-console/internal/domain"
	"github.com/travelmate/admin-console/internal/middleware"
	"github.com/travelmate/admin-console/internal/service"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles POST /v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	resp, err := h.authService.Login(c.UserContext(), middleware.GetFirebaseToken(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// Logout handles POST /v1/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return respondError(c, domain.ErrUnauthorized)
	}
	if err := h.authService.Logout(c.UserContext(), identity); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Signed out"})
}

// Me handles GET /v1/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return respondError(c, domain.ErrUnauthorized)
	}
	return c.JSON(fiber.Map{"user": identity})
}
