package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mediatordesk/helpdesk/internal/api/dto"
	"github.com/mediatordesk/helpdesk/internal/auth"
	"github.com/mediatordesk/helpdesk/internal/domain"
	"github.com/mediatordesk/helpdesk/internal/service"
	"github.com/mediatordesk/helpdesk/internal/workflow"
	apperrors "github.com/mediatordesk/helpdesk/pkg/util"
)

// TicketsHandler manages the participant-facing ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

func requireUser(c *fiber.Ctx) (*domain.User, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return nil, apperrors.NewUnauthorized("user required")
	}
	return principal.User, nil
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	ticket, err := h.service.CreateTicket(c.UserContext(), user.ID, service.TicketCreateInput{
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewTicketSummary(ticket)})
}

// ListTickets GET /projects/:projectID/tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	var filter workflow.ListFilter
	if raw := c.Query("status"); raw != "" {
		status := domain.TicketStatus(raw)
		filter.Status = &status
	}
	if raw := c.Query("responder_id"); raw != "" {
		filter.ResponderID = &raw
	}

	tickets, err := h.service.ListTicketsForViewer(c.UserContext(), user.ID, c.Params("projectID"), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketSummaries(tickets)})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	view, err := h.service.GetTicketForViewer(c.UserContext(), user.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketDetailResponse(view)})
}

// SendMessage POST /tickets/:id/messages.
func (h *TicketsHandler) SendMessage(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	var req dto.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	msg, err := h.service.SendMessage(c.UserContext(), user.ID, c.Params("id"), req.Content)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewMessageResponse(msg)})
}

// RequestClose POST /tickets/:id/close-request.
func (h *TicketsHandler) RequestClose(c *fiber.Ctx) error {
	return h.transition(c, service.TransitionInput{Action: workflow.ActionRequestClose})
}

// Reopen POST /tickets/:id/reopen.
func (h *TicketsHandler) Reopen(c *fiber.Ctx) error {
	var req dto.ReopenTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	return h.transition(c, service.TransitionInput{
		Action:     workflow.ActionReopen,
		Reason:     req.Reason,
		AssigneeID: req.AssigneeID,
	})
}

func (h *TicketsHandler) transition(c *fiber.Ctx, input service.TransitionInput) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	ticket, err := h.service.Transition(c.UserContext(), user.ID, c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketSummary(ticket)})
}
