package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/travelmate/admin-console/internal/service"
)

const recentBookingsLimit = 5

// DashboardHandler serves the console overview and manual refresh
type DashboardHandler struct {
	sessions *service.SessionManager
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(sessions *service.SessionManager) *DashboardHandler {
	return &DashboardHandler{sessions: sessions}
}

// Dashboard handles GET /v1/admin/dashboard
func (h *DashboardHandler) Dashboard(c *fiber.Ctx) error {
	ws, err := workspaceFor(c, h.sessions)
	if err != nil {
		return respondError(c, err)
	}

	snap := ws.Snapshot()
	recent := snap.Bookings
	if len(recent) > recentBookingsLimit {
		recent = recent[:recentBookingsLimit]
	}

	return c.JSON(fiber.Map{
		"stats":           snap.DashboardStats,
		"recent_bookings": recent,
		"loading":         snap.Loading,
		"refreshed_at":    snap.RefreshedAt,
	})
}

// Refresh handles POST /v1/admin/refresh. Failed collections are reported
// but do not fail the request; their previous rows are kept.
func (h *DashboardHandler) Refresh(c *fiber.Ctx) error {
	ws, err := workspaceFor(c, h.sessions)
	if err != nil {
		return respondError(c, err)
	}

	refreshErr := ws.Refresh(c.UserContext())
	if errors.Is(refreshErr, service.ErrRefreshSuperseded) || errors.Is(refreshErr, service.ErrWorkspaceClosed) {
		return respondError(c, refreshErr)
	}

	snap := ws.Snapshot()
	resp := fiber.Map{
		"dashboard_stats": snap.DashboardStats,
		"user_stats":      snap.UserStats,
		"payment_stats":   snap.PaymentStats,
		"ticket_stats":    snap.TicketStats,
		"refreshed_at":    snap.RefreshedAt,
	}
	if refreshErr != nil {
		resp["warning"] = refreshErr.Error()
	}
	return c.JSON(resp)
}
