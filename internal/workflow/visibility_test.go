package workflow

import (
	"testing"

	"github.com/mediatordesk/helpdesk/internal/domain"
)

func viewerFor(u *domain.User, projectID string) Viewer {
	role, _ := u.RoleInProject(projectID)
	return Viewer{UserID: u.ID, Role: role}
}

func TestPendingMessageVisibility(t *testing.T) {
	ticket := assignedTicket(t)
	if _, err := SendMessage(ticket, actorFor(alice, ticket.ProjectID), "pending from querent", at(2)); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	if got := VisibleMessages(ticket, viewerFor(bob, ticket.ProjectID)); len(got) != 0 {
		t.Errorf("responder sees %d messages, want 0", len(got))
	}
	if got := VisibleMessages(ticket, viewerFor(alice, ticket.ProjectID)); len(got) != 1 {
		t.Errorf("sender sees %d messages, want 1 (own pending)", len(got))
	}
	if got := VisibleMessages(ticket, viewerFor(diana, ticket.ProjectID)); len(got) != 1 {
		t.Errorf("mediator sees %d messages, want 1", len(got))
	}
}

func TestApprovedAndEditedArePublic(t *testing.T) {
	ticket := assignedTicket(t)
	m1, _ := SendMessage(ticket, actorFor(alice, ticket.ProjectID), "one", at(2))
	m2, _ := SendMessage(ticket, actorFor(bob, ticket.ProjectID), "two", at(3))
	if _, err := ModerateMessage(ticket, actorFor(diana, ticket.ProjectID), m1.ID, MessageActionApprove, "", at(4)); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := ModerateMessage(ticket, actorFor(diana, ticket.ProjectID), m2.ID, MessageActionEdit, "two, edited", at(5)); err != nil {
		t.Fatalf("edit: %v", err)
	}

	for _, u := range []*domain.User{alice, bob} {
		got := VisibleMessages(ticket, viewerFor(u, ticket.ProjectID))
		if len(got) != 2 {
			t.Errorf("%s sees %d messages, want 2", u.Name, len(got))
		}
	}
}

func TestRejectedVisibleOnlyToModerators(t *testing.T) {
	ticket := assignedTicket(t)
	msg, _ := SendMessage(ticket, actorFor(bob, ticket.ProjectID), "off the record", at(2))
	if _, err := ModerateMessage(ticket, actorFor(diana, ticket.ProjectID), msg.ID, MessageActionReject, "", at(3)); err != nil {
		t.Fatalf("reject: %v", err)
	}

	if got := VisibleMessages(ticket, viewerFor(bob, ticket.ProjectID)); len(got) != 0 {
		t.Errorf("sender sees own rejected message")
	}
	if got := VisibleMessages(ticket, viewerFor(alice, ticket.ProjectID)); len(got) != 0 {
		t.Errorf("querent sees rejected message")
	}
	if got := VisibleMessages(ticket, viewerFor(diana, ticket.ProjectID)); len(got) != 1 {
		t.Errorf("mediator sees %d messages, want 1", len(got))
	}
}

func TestVisibleMessagesPreserveOrder(t *testing.T) {
	ticket := assignedTicket(t)
	m1, _ := SendMessage(ticket, actorFor(alice, ticket.ProjectID), "first", at(2))
	m2, _ := SendMessage(ticket, actorFor(alice, ticket.ProjectID), "second", at(3))
	_, _ = ModerateMessage(ticket, actorFor(diana, ticket.ProjectID), m1.ID, MessageActionApprove, "", at(4))
	_, _ = ModerateMessage(ticket, actorFor(diana, ticket.ProjectID), m2.ID, MessageActionApprove, "", at(5))

	got := VisibleMessages(ticket, viewerFor(bob, ticket.ProjectID))
	if len(got) != 2 || got[0].Content != "first" || got[1].Content != "second" {
		t.Errorf("messages out of order: %+v", got)
	}
}

func TestAuditActorLabel(t *testing.T) {
	entry := domain.AuditLogEntry{UserID: diana.ID, Role: domain.RoleMediator, Action: domain.AuditApproveAndAssign}

	if got := AuditActorLabel(entry, "Diana", domain.RoleMediator); got != "Diana (MEDIATOR)" {
		t.Errorf("mediator label = %q", got)
	}
	if got := AuditActorLabel(entry, "Diana", domain.RoleAdmin); got != "Diana (MEDIATOR)" {
		t.Errorf("admin label = %q", got)
	}
	// Members never learn the actor's identity, only the role held at the
	// time of the action.
	if got := AuditActorLabel(entry, "Diana", domain.RoleMember); got != "MEDIATOR" {
		t.Errorf("member label = %q", got)
	}
	if got := AuditActorLabel(entry, "", domain.RoleMediator); got != "Unknown User (MEDIATOR)" {
		t.Errorf("missing-name label = %q", got)
	}
}

func TestFilterTicketsByRole(t *testing.T) {
	mine := *assignedTicket(t)
	other := *assignedTicket(t)
	other.QuerentID = charlie.ID
	other.ResponderID = nil
	tickets := []domain.Ticket{mine, other}

	if got := FilterTickets(tickets, viewerFor(alice, "proj_hr"), ListFilter{}); len(got) != 1 {
		t.Errorf("querent sees %d tickets, want 1", len(got))
	}
	if got := FilterTickets(tickets, viewerFor(bob, "proj_hr"), ListFilter{}); len(got) != 1 {
		t.Errorf("responder sees %d tickets, want 1", len(got))
	}
	if got := FilterTickets(tickets, viewerFor(diana, "proj_hr"), ListFilter{}); len(got) != 2 {
		t.Errorf("mediator sees %d tickets, want 2", len(got))
	}

	admin := &domain.User{ID: "user_root", Name: "Root", IsGlobalAdmin: true}
	if got := FilterTickets(tickets, viewerFor(admin, "proj_hr"), ListFilter{}); len(got) != 2 {
		t.Errorf("global admin sees %d tickets, want 2", len(got))
	}
}

func TestFilterTicketsPredicates(t *testing.T) {
	open := *assignedTicket(t)
	closed := *assignedTicket(t)
	closed.Status = domain.StatusClosed
	tickets := []domain.Ticket{open, closed}

	status := domain.StatusClosed
	got := FilterTickets(tickets, viewerFor(diana, "proj_hr"), ListFilter{Status: &status})
	if len(got) != 1 || got[0].Status != domain.StatusClosed {
		t.Errorf("status filter returned %+v", got)
	}

	responder := bob.ID
	got = FilterTickets(tickets, viewerFor(diana, "proj_hr"), ListFilter{ResponderID: &responder})
	if len(got) != 2 {
		t.Errorf("responder filter returned %d tickets, want 2", len(got))
	}
	stranger := "user_nobody"
	got = FilterTickets(tickets, viewerFor(diana, "proj_hr"), ListFilter{ResponderID: &stranger})
	if len(got) != 0 {
		t.Errorf("responder filter returned %d tickets, want 0", len(got))
	}
}
