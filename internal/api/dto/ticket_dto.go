package dto

import (
	"time"

	"github.com/mediatordesk/helpdesk/internal/domain"
	"github.com/mediatordesk/helpdesk/internal/service"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	ProjectID   string `json:"project_id" validate:"required"`
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"required,max=5000"`
}

// ApproveAndAssignRequest payload.
type ApproveAndAssignRequest struct {
	AssigneeID string `json:"assignee_id" validate:"required"`
}

// ChangeAssigneeRequest payload.
type ChangeAssigneeRequest struct {
	AssigneeID string `json:"assignee_id" validate:"required"`
}

// ReopenTicketRequest payload. The assignee is required only when a
// moderator reopens; the handler passes it through untouched.
type ReopenTicketRequest struct {
	Reason     string `json:"reason" validate:"required,max=1000"`
	AssigneeID string `json:"assignee_id"`
}

// SendMessageRequest payload.
type SendMessageRequest struct {
	Content string `json:"content" validate:"required,max=5000"`
}

// EditMessageRequest payload.
type EditMessageRequest struct {
	Content string `json:"content" validate:"required,max=5000"`
}

// TicketSummary response.
type TicketSummary struct {
	ID          string              `json:"id"`
	ProjectID   string              `json:"project_id"`
	Title       string              `json:"title"`
	Status      domain.TicketStatus `json:"status"`
	QuerentID   string              `json:"querent_id"`
	ResponderID *string             `json:"responder_id"`
	MediatorID  string              `json:"mediator_id"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	ClosedAt    *time.Time          `json:"closed_at"`
}

// MessageResponse represents one thread message.
type MessageResponse struct {
	ID        string               `json:"id"`
	SenderID  string               `json:"sender_id"`
	Content   string               `json:"content"`
	Status    domain.MessageStatus `json:"status"`
	Timestamp time.Time            `json:"timestamp"`
}

// AuditEntryResponse is one audit entry with the actor already rendered
// for the requesting viewer.
type AuditEntryResponse struct {
	ID        string             `json:"id"`
	Actor     string             `json:"actor"`
	Action    domain.AuditAction `json:"action"`
	Details   string             `json:"details"`
	Timestamp string             `json:"timestamp"`
}

// TicketDetailResponse provides the full viewer projection.
type TicketDetailResponse struct {
	TicketSummary
	Description string               `json:"description"`
	Messages    []MessageResponse    `json:"messages"`
	AuditLog    []AuditEntryResponse `json:"audit_log"`
}

// NewTicketSummary maps a domain ticket.
func NewTicketSummary(t *domain.Ticket) TicketSummary {
	return TicketSummary{
		ID:          t.ID,
		ProjectID:   t.ProjectID,
		Title:       t.Title,
		Status:      t.Status,
		QuerentID:   t.QuerentID,
		ResponderID: t.ResponderID,
		MediatorID:  t.MediatorID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		ClosedAt:    t.ClosedAt,
	}
}

// NewTicketSummaries maps a ticket list.
func NewTicketSummaries(tickets []domain.Ticket) []TicketSummary {
	out := make([]TicketSummary, 0, len(tickets))
	for i := range tickets {
		out = append(out, NewTicketSummary(&tickets[i]))
	}
	return out
}

// NewMessageResponse maps a domain message.
func NewMessageResponse(m *domain.Message) MessageResponse {
	return MessageResponse{
		ID:        m.ID,
		SenderID:  m.SenderID,
		Content:   m.Content,
		Status:    m.Status,
		Timestamp: m.Timestamp,
	}
}

// NewTicketDetailResponse maps the service-side viewer projection.
func NewTicketDetailResponse(view *service.TicketView) TicketDetailResponse {
	resp := TicketDetailResponse{
		TicketSummary: NewTicketSummary(view.Ticket),
		Description:   view.Ticket.Description,
		Messages:      make([]MessageResponse, 0, len(view.Messages)),
		AuditLog:      make([]AuditEntryResponse, 0, len(view.Audit)),
	}
	for i := range view.Messages {
		resp.Messages = append(resp.Messages, NewMessageResponse(&view.Messages[i]))
	}
	for _, entry := range view.Audit {
		resp.AuditLog = append(resp.AuditLog, AuditEntryResponse{
			ID:        entry.ID,
			Actor:     entry.ActorLabel,
			Action:    entry.Action,
			Details:   entry.Details,
			Timestamp: entry.Timestamp,
		})
	}
	return resp
}
