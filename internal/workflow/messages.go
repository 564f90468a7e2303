package workflow

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mediatordesk/helpdesk/internal/domain"
	apperrors "github.com/mediatordesk/helpdesk/pkg/util"
)

// SendMessage appends a message to the ticket thread. Mediator and admin
// speech is trusted and lands directly in APPROVED; querent and responder
// messages start in PENDING_APPROVAL and stay invisible to the opposite
// party until moderated.
func SendMessage(t *domain.Ticket, actor Actor, content string, now time.Time) (*domain.Message, error) {
	switch t.Status {
	case domain.StatusClosed, domain.StatusRejected,
		domain.StatusPendingApproval, domain.StatusPendingCloseApproval:
		return nil, apperrors.NewTicketNotOpenForMessages(string(t.Status))
	}
	if !actor.Role.Moderates() && !t.IsParticipant(actor.ID) {
		return nil, apperrors.NewInvalidMessageAction("sender is not a participant of this ticket",
			map[string]any{"sender_id": actor.ID})
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError("message content required", map[string]any{"field": "content"})
	}

	status := domain.MessagePendingApproval
	if actor.Role.Moderates() {
		status = domain.MessageApproved
	}
	t.Messages = append(t.Messages, domain.Message{
		ID:              uuid.NewString(),
		TicketID:        t.ID,
		SenderID:        actor.ID,
		Content:         content,
		OriginalContent: content,
		Status:          status,
		Timestamp:       now,
	})
	msg := &t.Messages[len(t.Messages)-1]

	finish(t, actor, domain.AuditSendMessage, fmt.Sprintf("Message sent (status: %s).", status), now)
	if status == domain.MessageApproved {
		advanceOnApproval(t, msg, now)
	}
	return msg, nil
}

// ModerateMessage applies a mediator decision to one pending message.
// Approved, rejected and edited messages are terminal; acting on them
// again fails with INVALID_MESSAGE_ACTION and no effect.
func ModerateMessage(t *domain.Ticket, actor Actor, messageID string, action MessageAction, newContent string, now time.Time) (*domain.Message, error) {
	if !MessageRoleAllowed(action, actor.Role) {
		return nil, apperrors.NewInvalidMessageAction("role not permitted to moderate messages",
			map[string]any{"action": action, "role": actor.Role})
	}
	msg := t.FindMessage(messageID)
	if msg == nil {
		return nil, apperrors.NewInvalidMessageAction("message not found on ticket",
			map[string]any{"message_id": messageID})
	}
	if msg.Status.Resolved() {
		return nil, apperrors.NewInvalidMessageAction("message is no longer pending approval",
			map[string]any{"message_id": messageID, "status": msg.Status})
	}

	switch action {
	case MessageActionApprove:
		msg.Status = domain.MessageApproved
		finish(t, actor, domain.AuditApproveMessage, "Message approved.", now)
		advanceOnApproval(t, msg, now)
	case MessageActionReject:
		msg.Status = domain.MessageRejected
		finish(t, actor, domain.AuditRejectMessage, "Message rejected.", now)
	case MessageActionEdit:
		newContent = strings.TrimSpace(newContent)
		if newContent == "" {
			return nil, apperrors.NewValidationError("edited content required", map[string]any{"field": "content"})
		}
		msg.Content = newContent
		msg.Status = domain.MessageEdited
		finish(t, actor, domain.AuditEditMessage, "Message edited and approved.", now)
		advanceOnApproval(t, msg, now)
	default:
		return nil, apperrors.NewInvalidMessageAction("unknown message action", map[string]any{"action": action})
	}
	return msg, nil
}

// advanceOnApproval moves the ticket forward when a message becomes
// visible. The decision keys off the message's original sender, not the
// moderating actor: querent speech puts the ticket IN_PROGRESS, responder
// speech puts it WAITING_FEEDBACK. Tickets in a terminal or review status
// are left alone.
func advanceOnApproval(t *domain.Ticket, msg *domain.Message, now time.Time) {
	switch t.Status {
	case domain.StatusAssigned, domain.StatusInProgress, domain.StatusWaitingFeedback:
	default:
		return
	}
	switch {
	case msg.SenderID == t.QuerentID:
		t.Status = domain.StatusInProgress
	case t.ResponderID != nil && msg.SenderID == *t.ResponderID:
		t.Status = domain.StatusWaitingFeedback
	default:
		return
	}
	t.UpdatedAt = now
}
