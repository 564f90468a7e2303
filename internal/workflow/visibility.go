package workflow

import (
	"fmt"

	"github.com/mediatordesk/helpdesk/internal/domain"
)

// Viewer identifies who is reading a ticket, with their role in the
// ticket's project (already elevated to Admin for global admins).
type Viewer struct {
	UserID string
	Role   domain.Role
}

// ListFilter holds the optional secondary predicates for ticket lists.
// They apply after the role filter, never instead of it.
type ListFilter struct {
	Status      *domain.TicketStatus
	ResponderID *string
}

// MessageVisible decides whether one message is shown to the viewer.
// Approved and edited messages are public; moderators see everything;
// a sender sees their own message while it is still pending. Rejected
// messages are visible to moderators only.
func MessageVisible(m domain.Message, viewer Viewer) bool {
	if m.Status == domain.MessageApproved || m.Status == domain.MessageEdited {
		return true
	}
	if viewer.Role.Moderates() {
		return true
	}
	return m.SenderID == viewer.UserID && m.Status == domain.MessagePendingApproval
}

// VisibleMessages projects the ticket thread for a viewer, preserving
// chronological order.
func VisibleMessages(t *domain.Ticket, viewer Viewer) []domain.Message {
	out := make([]domain.Message, 0, len(t.Messages))
	for _, m := range t.Messages {
		if MessageVisible(m, viewer) {
			out = append(out, m)
		}
	}
	return out
}

// AuditActorLabel renders the actor of an audit entry for a viewer.
// Moderators see "name (role)"; everyone else sees only the role held at
// the time of the action. Hiding the identity is part of the data
// contract, not a rendering choice.
func AuditActorLabel(entry domain.AuditLogEntry, actorName string, viewerRole domain.Role) string {
	if viewerRole.Moderates() {
		if actorName == "" {
			actorName = "Unknown User"
		}
		return fmt.Sprintf("%s (%s)", actorName, entry.Role)
	}
	return string(entry.Role)
}

// FilterTickets applies the role filter and then the optional predicates.
// Members see only tickets they raised or respond to; moderators see all
// tickets in scope.
func FilterTickets(tickets []domain.Ticket, viewer Viewer, filter ListFilter) []domain.Ticket {
	out := make([]domain.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if !viewer.Role.Moderates() && !t.IsParticipant(viewer.UserID) {
			continue
		}
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		if filter.ResponderID != nil {
			if t.ResponderID == nil || *t.ResponderID != *filter.ResponderID {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}
