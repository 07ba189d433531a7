package handler

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/travelmate/admin-console/internal/domain"
	"github.com/travelmate/admin-console/internal/middleware"
	"github.com/travelmate/admin-console/internal/service"
)

// respondError maps service and domain errors onto HTTP responses
func respondError(c *fiber.Ctx, err error) error {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "validation failed",
			"fields": verr.Fields,
		})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidStatus), errors.Is(err, domain.ErrEmptyPatch):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, domain.ErrNotAdmin), errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrWorkspaceClosed), errors.Is(err, service.ErrRefreshSuperseded):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	default:
		log.Printf("[Handler] %s %s failed: %v", c.Method(), c.Path(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}

// workspaceFor returns the caller's workspace, restoring the session when the
// token outlived the server's in-memory state
func workspaceFor(c *fiber.Ctx, sessions *service.SessionManager) (*service.Workspace, error) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return sessions.Acquire(c.UserContext(), identity)
}

type statusRequest struct {
	Status string `json:"status"`
}
