package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	StatusPendingApproval      TicketStatus = "PENDING_APPROVAL"
	StatusAssigned             TicketStatus = "ASSIGNED"
	StatusInProgress           TicketStatus = "IN_PROGRESS"
	StatusWaitingFeedback      TicketStatus = "WAITING_FEEDBACK"
	StatusPendingCloseApproval TicketStatus = "PENDING_CLOSE_APPROVAL"
	StatusClosed               TicketStatus = "CLOSED"
	StatusRejected             TicketStatus = "REJECTED"
)

// Terminal reports whether no further work happens in this status.
// Terminal tickets can only leave via an explicit reopen.
func (s TicketStatus) Terminal() bool {
	return s == StatusClosed || s == StatusRejected
}

// Ticket is the aggregate for a moderated helpdesk request. Messages and
// AuditLog are append-only; insertion order is chronological.
type Ticket struct {
	ID                  string
	ProjectID           string
	Title               string
	Description         string
	OriginalDescription string
	Status              TicketStatus
	QuerentID           string
	ResponderID         *string
	MediatorID          string
	Version             int64
	CreatedAt           time.Time
	UpdatedAt           time.Time
	ClosedAt            *time.Time
	Messages            []Message
	AuditLog            []AuditLogEntry
}

// FindMessage returns a pointer into the aggregate's message slice.
func (t *Ticket) FindMessage(messageID string) *Message {
	for i := range t.Messages {
		if t.Messages[i].ID == messageID {
			return &t.Messages[i]
		}
	}
	return nil
}

// IsParticipant reports whether the user is the ticket's querent or its
// current responder.
func (t *Ticket) IsParticipant(userID string) bool {
	if t.QuerentID == userID {
		return true
	}
	return t.ResponderID != nil && *t.ResponderID == userID
}
