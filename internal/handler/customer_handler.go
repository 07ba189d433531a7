package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/travelmate/admin-console/internal/domain"
	"github.com/travelmate/admin-console/internal/service"
)

// CustomerHandler serves the customer list and payment overview
type CustomerHandler struct {
	sessions *service.SessionManager
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(sessions *service.SessionManager) *CustomerHandler {
	return &CustomerHandler{sessions: sessions}
}

// ListUsers handles GET /v1/admin/users?status=&q=
func (h *CustomerHandler) ListUsers(c *fiber.Ctx) error {
	ws, err := workspaceFor(c, h.sessions)
	if err != nil {
		return respondError(c, err)
	}
	customers := domain.FilterCustomers(ws.Snapshot().Customers, c.Query("status"), c.Query("q"))
	return c.JSON(fiber.Map{
		"users": customers,
		"count": len(customers),
	})
}

// UpdateUserStatus handles PATCH /v1/admin/users/:id/status.
// The change lives in the session only; the next refresh recomputes it.
func (h *CustomerHandler) UpdateUserStatus(c *fiber.Ctx) error {
	var req statusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	ws, err := workspaceFor(c, h.sessions)
	if err != nil {
		return respondError(c, err)
	}

	customer, err := ws.UpdateUserStatus(c.Params("id"), req.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(customer)
}

// UserStats handles GET /v1/admin/users/stats
func (h *CustomerHandler) UserStats(c *fiber.Ctx) error {
	ws, err := workspaceFor(c, h.sessions)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(ws.Snapshot().UserStats)
}

// PaymentStats handles GET /v1/admin/payments/stats
func (h *CustomerHandler) PaymentStats(c *fiber.Ctx) error {
	ws, err := workspaceFor(c, h.sessions)
	if err != nil {
		return respondError(c, err)
	}
	snap := ws.Snapshot()
	return c.JSON(fiber.Map{
		"stats":  snap.PaymentStats,
		"orders": snap.Orders,
	})
}
