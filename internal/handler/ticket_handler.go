package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/travelmate/admin-console/internal/domain"
	"github.com/travelmate/admin-console/internal/service"
)

// TicketHandler handles support ticket triage
type TicketHandler struct {
	sessions *service.SessionManager
	now      func() time.Time
}

// NewTicketHandler creates a new ticket handler
func NewTicketHandler(sessions *service.SessionManager) *TicketHandler {
	return &TicketHandler{sessions: sessions, now: time.Now}
}

type ticketView struct {
	*domain.SupportTicket
	Priority string `json:"priority"`
}

// ListTickets handles GET /v1/admin/tickets?status=&q=
func (h *TicketHandler) ListTickets(c *fiber.Ctx) error {
	ws, err := workspaceFor(c, h.sessions)
	if err != nil {
		return respondError(c, err)
	}

	snap := ws.Snapshot()
	now := h.now()
	tickets := domain.FilterTickets(snap.Tickets, c.Query("status"), c.Query("q"))
	views := make([]ticketView, 0, len(tickets))
	for _, t := range tickets {
		views = append(views, ticketView{SupportTicket: t, Priority: t.Priority(now)})
	}

	return c.JSON(fiber.Map{
		"tickets": views,
		"stats":   snap.TicketStats,
	})
}

// UpdateStatus handles PATCH /v1/admin/tickets/:id/status
func (h *TicketHandler) UpdateStatus(c *fiber.Ctx) error {
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

	ticket, err := ws.UpdateTicketStatus(c.UserContext(), c.Params("id"), req.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(ticketView{SupportTicket: ticket, Priority: ticket.Priority(h.now())})
}

// DeleteTicket handles DELETE /v1/admin/tickets/:id
func (h *TicketHandler) DeleteTicket(c *fiber.Ctx) error {
	ws, err := workspaceFor(c, h.sessions)
	if err != nil {
		return respondError(c, err)
	}
	if err := ws.DeleteTicket(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
