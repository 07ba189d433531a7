package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/travelmate/admin-console/internal/service"
)

// AdminHandler manages console operator accounts
type AdminHandler struct {
	sessions  *service.SessionManager
	directory *service.AdminDirectoryService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(sessions *service.SessionManager, directory *service.AdminDirectoryService) *AdminHandler {
	return &AdminHandler{
		sessions:  sessions,
		directory: directory,
	}
}

// ListAdmins handles GET /v1/admin/admins
func (h *AdminHandler) ListAdmins(c *fiber.Ctx) error {
	ws, err := workspaceFor(c, h.sessions)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"admins": ws.Snapshot().AdminUsers})
}

// RefreshAdmins handles POST /v1/admin/admins/refresh
func (h *AdminHandler) RefreshAdmins(c *fiber.Ctx) error {
	ws, err := workspaceFor(c, h.sessions)
	if err != nil {
		return respondError(c, err)
	}
	admins, err := ws.RefreshAdminUsers(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"admins": admins})
}

type createAdminRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// CreateAdmin handles POST /v1/admin/admins. The caller's admin list is
// reloaded so the new account shows up straight away.
func (h *AdminHandler) CreateAdmin(c *fiber.Ctx) error {
	var req createAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	admin, err := h.directory.Create(c.UserContext(), req.Email, req.Password, req.ConfirmPassword)
	if err != nil {
		return respondError(c, err)
	}

	if ws, err := workspaceFor(c, h.sessions); err == nil {
		ws.RefreshAdminUsers(c.UserContext())
	}

	return c.Status(fiber.StatusCreated).JSON(admin)
}
