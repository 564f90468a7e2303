package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mediatordesk/helpdesk/internal/api/dto"
	"github.com/mediatordesk/helpdesk/internal/service"
	"github.com/mediatordesk/helpdesk/internal/workflow"
	apperrors "github.com/mediatordesk/helpdesk/pkg/util"
)

// MediationHandler exposes the mediator decisions: ticket approval and
// assignment, close review, force close and message moderation. Role
// checks live in the workflow rules, not here; a member calling these
// endpoints gets the domain error, not a routing 404.
type MediationHandler struct {
	service *service.TicketService
}

// NewMediationHandler constructs handler.
func NewMediationHandler(ticketService *service.TicketService) *MediationHandler {
	return &MediationHandler{service: ticketService}
}

// ApproveAndAssign POST /tickets/:id/approve.
func (h *MediationHandler) ApproveAndAssign(c *fiber.Ctx) error {
	var req dto.ApproveAndAssignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	return h.transition(c, service.TransitionInput{
		Action:     workflow.ActionApproveAndAssign,
		AssigneeID: req.AssigneeID,
	})
}

// Reject POST /tickets/:id/reject.
func (h *MediationHandler) Reject(c *fiber.Ctx) error {
	return h.transition(c, service.TransitionInput{Action: workflow.ActionReject})
}

// ChangeAssignee PUT /tickets/:id/assignee.
func (h *MediationHandler) ChangeAssignee(c *fiber.Ctx) error {
	var req dto.ChangeAssigneeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	return h.transition(c, service.TransitionInput{
		Action:     workflow.ActionChangeAssignee,
		AssigneeID: req.AssigneeID,
	})
}

// ApproveClose POST /tickets/:id/close-approve.
func (h *MediationHandler) ApproveClose(c *fiber.Ctx) error {
	return h.transition(c, service.TransitionInput{Action: workflow.ActionApproveClose})
}

// RejectClose POST /tickets/:id/close-reject.
func (h *MediationHandler) RejectClose(c *fiber.Ctx) error {
	return h.transition(c, service.TransitionInput{Action: workflow.ActionRejectClose})
}

// ForceClose POST /tickets/:id/force-close.
func (h *MediationHandler) ForceClose(c *fiber.Ctx) error {
	return h.transition(c, service.TransitionInput{Action: workflow.ActionForceClose})
}

// ApproveMessage POST /tickets/:id/messages/:messageID/approve.
func (h *MediationHandler) ApproveMessage(c *fiber.Ctx) error {
	return h.moderate(c, service.MessageModerationInput{Action: workflow.MessageActionApprove})
}

// RejectMessage POST /tickets/:id/messages/:messageID/reject.
func (h *MediationHandler) RejectMessage(c *fiber.Ctx) error {
	return h.moderate(c, service.MessageModerationInput{Action: workflow.MessageActionReject})
}

// EditMessage PUT /tickets/:id/messages/:messageID.
func (h *MediationHandler) EditMessage(c *fiber.Ctx) error {
	var req dto.EditMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	return h.moderate(c, service.MessageModerationInput{
		Action:     workflow.MessageActionEdit,
		NewContent: req.Content,
	})
}

func (h *MediationHandler) transition(c *fiber.Ctx, input service.TransitionInput) error {
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

func (h *MediationHandler) moderate(c *fiber.Ctx, input service.MessageModerationInput) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	msg, err := h.service.ActOnMessage(c.UserContext(), user.ID, c.Params("id"), c.Params("messageID"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewMessageResponse(msg)})
}
