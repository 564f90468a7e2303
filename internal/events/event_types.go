package events

import (
	"time"

	"github.com/mediatordesk/helpdesk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated      EventType = "ticket_created"
	EventTicketTransitioned EventType = "ticket_transitioned"
	EventMessageSent        EventType = "message_sent"
	EventMessageModerated   EventType = "message_moderated"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	ProjectID  string `json:"project_id"`
	MediatorID string `json:"mediator_id"`
	Title      string `json:"title"`
}

// TicketTransitionedPayload payload.
type TicketTransitionedPayload struct {
	Action    string              `json:"action"`
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
	Reason    string              `json:"reason,omitempty"`
}

// MessageSentPayload payload.
type MessageSentPayload struct {
	MessageID     string               `json:"message_id"`
	SenderID      string               `json:"sender_id"`
	MessageStatus domain.MessageStatus `json:"message_status"`
}

// MessageModeratedPayload payload.
type MessageModeratedPayload struct {
	MessageID     string               `json:"message_id"`
	SenderID      string               `json:"sender_id"`
	MessageStatus domain.MessageStatus `json:"message_status"`
	TicketStatus  domain.TicketStatus  `json:"ticket_status"`
}
