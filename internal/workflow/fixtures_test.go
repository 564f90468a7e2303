package workflow

import (
	"testing"
	"time"

	"github.com/mediatordesk/helpdesk/internal/domain"
	apperrors "github.com/mediatordesk/helpdesk/pkg/util"
)

func codeOf(err error) string {
	return apperrors.CodeOf(err)
}

var t0 = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func at(minutes int) time.Time {
	return t0.Add(time.Duration(minutes) * time.Minute)
}

func testProject() *domain.Project {
	return &domain.Project{ID: "proj_hr", Name: "HR Department", CreatedAt: t0}
}

func member(id, name, projectID string) *domain.User {
	return &domain.User{
		ID:   id,
		Name: name,
		Memberships: []domain.Membership{
			{ProjectID: projectID, Role: domain.RoleMember},
		},
	}
}

func mediator(id, name, projectID string) *domain.User {
	return &domain.User{
		ID:   id,
		Name: name,
		Memberships: []domain.Membership{
			{ProjectID: projectID, Role: domain.RoleMediator},
		},
	}
}

// Standing cast: Alice raises tickets, Bob and Charlie respond, Diana
// mediates.
var (
	alice   = member("user_alice", "Alice", "proj_hr")
	bob     = member("user_bob", "Bob", "proj_hr")
	charlie = member("user_charlie", "Charlie", "proj_hr")
	diana   = mediator("user_diana", "Diana", "proj_hr")
)

func actorFor(u *domain.User, projectID string) Actor {
	role, _ := u.RoleInProject(projectID)
	return Actor{ID: u.ID, Role: role}
}

// pendingTicket returns a freshly created ticket awaiting approval.
func pendingTicket(t *testing.T) *domain.Ticket {
	t.Helper()
	ticket, err := NewTicket(testProject(), alice, diana.ID, "Issue", "X", t0)
	if err != nil {
		t.Fatalf("NewTicket: %v", err)
	}
	return ticket
}

// assignedTicket returns a ticket approved by Diana and assigned to Bob.
func assignedTicket(t *testing.T) *domain.Ticket {
	t.Helper()
	ticket := pendingTicket(t)
	err := Transition(ticket, actorFor(diana, ticket.ProjectID), ActionApproveAndAssign,
		TransitionParams{Assignee: bob}, at(1))
	if err != nil {
		t.Fatalf("approve and assign: %v", err)
	}
	return ticket
}

func wantCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	if got := codeOf(err); got != code {
		t.Fatalf("expected error code %s, got %s (%v)", code, got, err)
	}
}
