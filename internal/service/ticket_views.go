package service

import (
	"context"
	"time"

	"github.com/mediatordesk/helpdesk/internal/domain"
	"github.com/mediatordesk/helpdesk/internal/workflow"
	apperrors "github.com/mediatordesk/helpdesk/pkg/util"
)

// AuditEntryView is one audit entry rendered for a specific viewer. The
// actor label already encodes the visibility rule: moderators get
// "name (role)", members get only the role.
type AuditEntryView struct {
	ID         string
	ActorLabel string
	Action     domain.AuditAction
	Details    string
	Timestamp  string
}

// TicketView is the ticket detail projection for one viewer.
type TicketView struct {
	Ticket   *domain.Ticket
	Messages []domain.Message
	Audit    []AuditEntryView
}

// GetTicketForViewer loads a ticket and projects it for the viewer:
// pending and rejected messages are filtered per the moderation rules and
// audit actors are anonymized for plain members.
func (s *TicketService) GetTicketForViewer(ctx context.Context, viewerID, ticketID string) (*TicketView, error) {
	ticket, err := s.loadAggregate(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	viewer, err := s.resolveViewer(ctx, viewerID, ticket.ProjectID)
	if err != nil {
		return nil, err
	}
	if !viewer.Role.Moderates() && !ticket.IsParticipant(viewer.UserID) {
		return nil, apperrors.NewForbidden("ticket is not visible to this member")
	}

	view := &TicketView{
		Ticket:   ticket,
		Messages: workflow.VisibleMessages(ticket, viewer),
		Audit:    make([]AuditEntryView, 0, len(ticket.AuditLog)),
	}

	// Actor names are only looked up when the viewer is allowed to see them.
	names := map[string]string{}
	for _, entry := range ticket.AuditLog {
		actorName := ""
		if viewer.Role.Moderates() {
			actorName = s.actorName(ctx, names, entry.UserID)
		}
		view.Audit = append(view.Audit, AuditEntryView{
			ID:         entry.ID,
			ActorLabel: workflow.AuditActorLabel(entry, actorName, viewer.Role),
			Action:     entry.Action,
			Details:    entry.Details,
			Timestamp:  entry.Timestamp.UTC().Format(time.RFC3339),
		})
	}
	return view, nil
}

// ListTicketsForViewer lists a project's tickets scoped to what the
// viewer may see, with the optional status and responder predicates.
func (s *TicketService) ListTicketsForViewer(ctx context.Context, viewerID, projectID string, filter workflow.ListFilter) ([]domain.Ticket, error) {
	viewer, err := s.resolveViewer(ctx, viewerID, projectID)
	if err != nil {
		return nil, err
	}
	tickets, err := s.tickets.ListByProject(ctx, projectID)
	if err != nil {
		return nil, apperrors.NewPersistenceFailure(err)
	}
	return workflow.FilterTickets(tickets, viewer, filter), nil
}

func (s *TicketService) resolveViewer(ctx context.Context, viewerID, projectID string) (workflow.Viewer, error) {
	actor, err := s.resolveActor(ctx, viewerID, projectID)
	if err != nil {
		return workflow.Viewer{}, err
	}
	return workflow.Viewer{UserID: actor.ID, Role: actor.Role}, nil
}

// actorName resolves a user's display name, caching per request. A user
// deleted since the entry was written falls back to the empty string and
// the label renders "Unknown User".
func (s *TicketService) actorName(ctx context.Context, cache map[string]string, userID string) string {
	if name, ok := cache[userID]; ok {
		return name
	}
	name := ""
	if user, err := s.users.GetByID(ctx, userID); err == nil {
		name = user.Name
	}
	cache[userID] = name
	return name
}
