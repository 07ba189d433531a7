package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/travelmate/admin-console/internal/domain"
	"github.com/travelmate/admin-console/internal/service"
)

// BookingHandler handles booking review
type BookingHandler struct {
	sessions *service.SessionManager
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(sessions *service.SessionManager) *BookingHandler {
	return &BookingHandler{sessions: sessions}
}

// ListBookings handles GET /v1/admin/bookings?status=
func (h *BookingHandler) ListBookings(c *fiber.Ctx) error {
	ws, err := workspaceFor(c, h.sessions)
	if err != nil {
		return respondError(c, err)
	}
	bookings := domain.FilterBookings(ws.Snapshot().Bookings, c.Query("status"))
	return c.JSON(fiber.Map{
		"bookings": bookings,
		"count":    len(bookings),
	})
}

// UpdateStatus handles PATCH /v1/admin/bookings/:id/status
func (h *BookingHandler) UpdateStatus(c *fiber.Ctx) error {
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

	booking, err := ws.UpdateBookingStatus(c.UserContext(), c.Params("id"), req.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(booking)
}

// DeleteBooking handles DELETE /v1/admin/bookings/:id
func (h *BookingHandler) DeleteBooking(c *fiber.Ctx) error {
	ws, err := workspaceFor(c, h.sessions)
	if err != nil {
		return respondError(c, err)
	}
	if err := ws.DeleteBooking(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
