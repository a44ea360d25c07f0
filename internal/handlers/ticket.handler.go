package handlers

import (
	"fmt"

	"maintlog/internal/app"
	"maintlog/internal/types"

	ticketsController "maintlog/internal/controllers/tickets"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type TicketHandler struct {
	Handler
	ticketController ticketsController.TicketControllerInterface
}

func NewTicketHandler(app app.App, router fiber.Router) *TicketHandler {
	log := logger.New("handlers").File("ticket_handler")
	return &TicketHandler{
		ticketController: app.Controllers.Tickets,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *TicketHandler) Register() {
	tickets := h.router.Group("/tickets")

	tickets.Get("/today", h.listToday)
	tickets.Get("/next-id", h.previewNextID)
	tickets.Get("/export", h.exportTickets)
	tickets.Get("", h.searchTickets)
	tickets.Post("", h.createTicket)
	tickets.Get("/:id", h.getTicket)
	tickets.Put("/:id", h.updateTicket)
	tickets.Delete("/:id", h.deleteTicket)
}

func parseCriteria(c *fiber.Ctx) (*types.SearchCriteria, error) {
	var criteria types.SearchCriteria
	if err := c.QueryParser(&criteria); err != nil {
		return nil, types.WrapErr(types.ErrValidation, "invalid query parameters", err)
	}
	return &criteria, nil
}

func (h *TicketHandler) searchTickets(c *fiber.Ctx) error {
	log := logger.New("handlers").TraceFromContext(c.UserContext()).File("ticket_handler").Function("searchTickets")

	criteria, err := parseCriteria(c)
	if err != nil {
		return respondError(c, log, "Invalid search criteria", err)
	}

	tickets, err := h.ticketController.Search(c.UserContext(), criteria)
	if err != nil {
		return respondError(c, log, "Failed to search tickets", err)
	}

	return c.JSON(fiber.Map{
		"tickets": tickets,
		"count":   len(tickets),
	})
}

func (h *TicketHandler) listToday(c *fiber.Ctx) error {
	log := logger.New("handlers").TraceFromContext(c.UserContext()).File("ticket_handler").Function("listToday")

	tickets, err := h.ticketController.ListToday(c.UserContext())
	if err != nil {
		return respondError(c, log, "Failed to list today's tickets", err)
	}

	return c.JSON(fiber.Map{
		"tickets": tickets,
		"count":   len(tickets),
	})
}

func (h *TicketHandler) previewNextID(c *fiber.Ctx) error {
	log := logger.New("handlers").TraceFromContext(c.UserContext()).File("ticket_handler").Function("previewNextID")

	id, err := h.ticketController.PreviewNextID(c.UserContext(), c.Query("date"))
	if err != nil {
		return respondError(c, log, "Failed to compute next ticket id", err)
	}

	return c.JSON(fiber.Map{
		"id": id,
	})
}

func (h *TicketHandler) exportTickets(c *fiber.Ctx) error {
	log := logger.New("handlers").TraceFromContext(c.UserContext()).File("ticket_handler").Function("exportTickets")

	criteria, err := parseCriteria(c)
	if err != nil {
		return respondError(c, log, "Invalid search criteria", err)
	}

	result, err := h.ticketController.Export(c.UserContext(), criteria)
	if err != nil {
		return respondError(c, log, "Failed to export tickets", err)
	}

	c.Set(fiber.HeaderContentType, result.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", result.Filename))
	return c.Send(result.Data)
}

func (h *TicketHandler) getTicket(c *fiber.Ctx) error {
	log := logger.New("handlers").TraceFromContext(c.UserContext()).File("ticket_handler").Function("getTicket")

	ticket, err := h.ticketController.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, log, "Failed to get ticket", err)
	}

	return c.JSON(fiber.Map{
		"ticket": ticket,
	})
}

func (h *TicketHandler) createTicket(c *fiber.Ctx) error {
	log := logger.New("handlers").TraceFromContext(c.UserContext()).File("ticket_handler").Function("createTicket")

	var req ticketsController.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	ticket, err := h.ticketController.Create(c.UserContext(), &req)
	if err != nil {
		return respondError(c, log, "Failed to create ticket", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"ticket": ticket,
	})
}

func (h *TicketHandler) updateTicket(c *fiber.Ctx) error {
	log := logger.New("handlers").TraceFromContext(c.UserContext()).File("ticket_handler").Function("updateTicket")

	var req ticketsController.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	ticket, err := h.ticketController.Update(c.UserContext(), c.Params("id"), &req)
	if err != nil {
		return respondError(c, log, "Failed to update ticket", err)
	}

	return c.JSON(fiber.Map{
		"ticket": ticket,
	})
}

func (h *TicketHandler) deleteTicket(c *fiber.Ctx) error {
	log := logger.New("handlers").TraceFromContext(c.UserContext()).File("ticket_handler").Function("deleteTicket")

	if err := h.ticketController.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, log, "Failed to delete ticket", err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
