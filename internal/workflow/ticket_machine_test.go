package workflow

import (
	"testing"

	"github.com/mediatordesk/helpdesk/internal/domain"
	apperrors "github.com/mediatordesk/helpdesk/pkg/util"
)

func TestNewTicket(t *testing.T) {
	ticket, err := NewTicket(testProject(), alice, diana.ID, "Issue", "X", t0)
	if err != nil {
		t.Fatalf("NewTicket: %v", err)
	}
	if ticket.Status != domain.StatusPendingApproval {
		t.Errorf("status = %s, want PENDING_APPROVAL", ticket.Status)
	}
	if ticket.QuerentID != alice.ID || ticket.MediatorID != diana.ID {
		t.Errorf("participants wrong: querent=%s mediator=%s", ticket.QuerentID, ticket.MediatorID)
	}
	if ticket.OriginalDescription != "X" {
		t.Errorf("original description = %q", ticket.OriginalDescription)
	}
	if len(ticket.AuditLog) != 1 || ticket.AuditLog[0].Action != domain.AuditCreate {
		t.Fatalf("audit log = %+v, want single CREATE entry", ticket.AuditLog)
	}
	if ticket.AuditLog[0].Role != domain.RoleMember {
		t.Errorf("audit role = %s, want MEMBER", ticket.AuditLog[0].Role)
	}
}

func TestNewTicketValidation(t *testing.T) {
	if _, err := NewTicket(testProject(), alice, diana.ID, " ", "X", t0); err == nil {
		t.Error("empty title accepted")
	}
	if _, err := NewTicket(testProject(), alice, diana.ID, "Issue", "", t0); err == nil {
		t.Error("empty description accepted")
	}
	if _, err := NewTicket(testProject(), alice, "", "Issue", "X", t0); codeOf(err) != apperrors.CodeNoMediatorAssigned {
		t.Errorf("missing mediator: got %v, want NO_MEDIATOR_ASSIGNED", err)
	}
	outsider := member("user_eve", "Eve", "proj_other")
	if _, err := NewTicket(testProject(), outsider, diana.ID, "Issue", "X", t0); codeOf(err) != apperrors.CodeMembershipViolation {
		t.Errorf("non-member querent: got %v, want MEMBERSHIP_VIOLATION", err)
	}
}

func TestApproveAndAssign(t *testing.T) {
	ticket := pendingTicket(t)
	err := Transition(ticket, actorFor(diana, ticket.ProjectID), ActionApproveAndAssign,
		TransitionParams{Assignee: bob}, at(1))
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if ticket.Status != domain.StatusAssigned {
		t.Errorf("status = %s, want ASSIGNED", ticket.Status)
	}
	if ticket.ResponderID == nil || *ticket.ResponderID != bob.ID {
		t.Errorf("responder = %v, want %s", ticket.ResponderID, bob.ID)
	}
	if len(ticket.AuditLog) != 2 || ticket.AuditLog[1].Action != domain.AuditApproveAndAssign {
		t.Fatalf("audit log = %+v, want CREATE + APPROVE_AND_ASSIGN", ticket.AuditLog)
	}
	if !ticket.UpdatedAt.Equal(at(1)) {
		t.Errorf("updatedAt not bumped: %v", ticket.UpdatedAt)
	}
}

func TestApproveAndAssignConstraints(t *testing.T) {
	cases := []struct {
		name     string
		assignee *domain.User
		code     string
	}{
		{"assignee is querent", alice, apperrors.CodeMembershipViolation},
		{"assignee not a member", member("user_eve", "Eve", "proj_other"), apperrors.CodeMembershipViolation},
		{"assignee is mediator", diana, apperrors.CodeMembershipViolation},
		{"assignee missing", nil, "VALIDATION_FAILED"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ticket := pendingTicket(t)
			err := Transition(ticket, actorFor(diana, ticket.ProjectID), ActionApproveAndAssign,
				TransitionParams{Assignee: tc.assignee}, at(1))
			wantCode(t, err, tc.code)
			if ticket.Status != domain.StatusPendingApproval || ticket.ResponderID != nil {
				t.Error("failed transition mutated the ticket")
			}
			if len(ticket.AuditLog) != 1 {
				t.Error("failed transition appended an audit entry")
			}
		})
	}
}

func TestRejectTicket(t *testing.T) {
	ticket := pendingTicket(t)
	if err := Transition(ticket, actorFor(diana, ticket.ProjectID), ActionReject, TransitionParams{}, at(1)); err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if ticket.Status != domain.StatusRejected {
		t.Errorf("status = %s, want REJECTED", ticket.Status)
	}
	if !ticket.Status.Terminal() {
		t.Error("REJECTED should be terminal")
	}
}

func TestUnauthorizedRoleIsInvalidTransition(t *testing.T) {
	for _, action := range []Action{ActionApproveAndAssign, ActionReject, ActionApproveClose, ActionRejectClose, ActionForceClose, ActionChangeAssignee} {
		ticket := pendingTicket(t)
		before := ticket.Status
		err := Transition(ticket, actorFor(alice, ticket.ProjectID), action, TransitionParams{Assignee: bob}, at(1))
		wantCode(t, err, apperrors.CodeInvalidTransition)
		if ticket.Status != before || len(ticket.AuditLog) != 1 {
			t.Fatalf("%s by member mutated the ticket", action)
		}
	}
}

func TestIllegalSourceStateLeavesTicketUnchanged(t *testing.T) {
	cases := []struct {
		name   string
		action Action
	}{
		{"approve from assigned", ActionApproveAndAssign},
		{"reject from assigned", ActionReject},
		{"approve close without request", ActionApproveClose},
		{"reject close without request", ActionRejectClose},
		{"reopen non-terminal", ActionReopen},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ticket := assignedTicket(t)
			before := *ticket
			err := Transition(ticket, actorFor(diana, ticket.ProjectID), tc.action,
				TransitionParams{Assignee: charlie, Reason: "because"}, at(5))
			wantCode(t, err, apperrors.CodeInvalidTransition)
			if ticket.Status != before.Status {
				t.Errorf("status changed: %s -> %s", before.Status, ticket.Status)
			}
			if !ticket.UpdatedAt.Equal(before.UpdatedAt) {
				t.Error("updatedAt changed on failed transition")
			}
			if len(ticket.AuditLog) != len(before.AuditLog) {
				t.Error("audit entry appended on failed transition")
			}
		})
	}
}

func TestChangeAssignee(t *testing.T) {
	ticket := assignedTicket(t)
	err := Transition(ticket, actorFor(diana, ticket.ProjectID), ActionChangeAssignee,
		TransitionParams{Assignee: charlie}, at(2))
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if ticket.ResponderID == nil || *ticket.ResponderID != charlie.ID {
		t.Errorf("responder = %v, want %s", ticket.ResponderID, charlie.ID)
	}
	if ticket.Status != domain.StatusAssigned {
		t.Errorf("status changed to %s on reassignment", ticket.Status)
	}

	// Reassigning to the current responder is a no-op precondition failure.
	err = Transition(ticket, actorFor(diana, ticket.ProjectID), ActionChangeAssignee,
		TransitionParams{Assignee: charlie}, at(3))
	wantCode(t, err, apperrors.CodeInvalidTransition)
}

func TestCloseReviewFlow(t *testing.T) {
	ticket := assignedTicket(t)

	err := Transition(ticket, actorFor(bob, ticket.ProjectID), ActionRequestClose, TransitionParams{}, at(2))
	wantCode(t, err, apperrors.CodeInvalidTransition) // responder is not the querent

	if err := Transition(ticket, actorFor(alice, ticket.ProjectID), ActionRequestClose, TransitionParams{}, at(3)); err != nil {
		t.Fatalf("request close: %v", err)
	}
	if ticket.Status != domain.StatusPendingCloseApproval {
		t.Fatalf("status = %s, want PENDING_CLOSE_APPROVAL", ticket.Status)
	}

	// A second close request while one is pending is rejected.
	err = Transition(ticket, actorFor(alice, ticket.ProjectID), ActionRequestClose, TransitionParams{}, at(4))
	wantCode(t, err, apperrors.CodeInvalidTransition)

	// Rejected closure resumes IN_PROGRESS, never ASSIGNED.
	if err := Transition(ticket, actorFor(diana, ticket.ProjectID), ActionRejectClose, TransitionParams{}, at(5)); err != nil {
		t.Fatalf("reject close: %v", err)
	}
	if ticket.Status != domain.StatusInProgress {
		t.Fatalf("status = %s, want IN_PROGRESS", ticket.Status)
	}

	if err := Transition(ticket, actorFor(alice, ticket.ProjectID), ActionRequestClose, TransitionParams{}, at(6)); err != nil {
		t.Fatalf("second request close: %v", err)
	}
	if err := Transition(ticket, actorFor(diana, ticket.ProjectID), ActionApproveClose, TransitionParams{}, at(7)); err != nil {
		t.Fatalf("approve close: %v", err)
	}
	if ticket.Status != domain.StatusClosed {
		t.Fatalf("status = %s, want CLOSED", ticket.Status)
	}
	if ticket.ClosedAt == nil || !ticket.ClosedAt.Equal(at(7)) {
		t.Errorf("closedAt = %v, want %v", ticket.ClosedAt, at(7))
	}
}

func TestForceClose(t *testing.T) {
	ticket := assignedTicket(t)
	if err := Transition(ticket, actorFor(diana, ticket.ProjectID), ActionForceClose, TransitionParams{}, at(2)); err != nil {
		t.Fatalf("force close: %v", err)
	}
	if ticket.Status != domain.StatusClosed || ticket.ClosedAt == nil {
		t.Fatalf("status = %s closedAt = %v", ticket.Status, ticket.ClosedAt)
	}
	if last := ticket.AuditLog[len(ticket.AuditLog)-1]; last.Action != domain.AuditCloseTicket {
		t.Errorf("audit action = %s, want CLOSE_TICKET", last.Action)
	}
}

func TestReopenByQuerent(t *testing.T) {
	ticket := assignedTicket(t)
	if err := Transition(ticket, actorFor(diana, ticket.ProjectID), ActionForceClose, TransitionParams{}, at(2)); err != nil {
		t.Fatalf("force close: %v", err)
	}

	err := Transition(ticket, actorFor(alice, ticket.ProjectID), ActionReopen, TransitionParams{}, at(3))
	if err == nil {
		t.Fatal("reopen without reason accepted")
	}

	if err := Transition(ticket, actorFor(alice, ticket.ProjectID), ActionReopen,
		TransitionParams{Reason: "needs more info"}, at(4)); err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if ticket.Status != domain.StatusPendingApproval {
		t.Errorf("status = %s, want PENDING_APPROVAL", ticket.Status)
	}
	if ticket.ResponderID != nil {
		t.Error("responder should be cleared when re-entering the approval queue")
	}
	if ticket.ClosedAt != nil {
		t.Error("closedAt should be cleared on reopen")
	}
	last := ticket.AuditLog[len(ticket.AuditLog)-1]
	if last.Action != domain.AuditReopen || last.Details != "Ticket reopened: needs more info" {
		t.Errorf("audit entry = %+v", last)
	}
}

func TestReopenByMediatorRequiresAssignee(t *testing.T) {
	ticket := assignedTicket(t)
	if err := Transition(ticket, actorFor(diana, ticket.ProjectID), ActionForceClose, TransitionParams{}, at(2)); err != nil {
		t.Fatalf("force close: %v", err)
	}

	err := Transition(ticket, actorFor(diana, ticket.ProjectID), ActionReopen,
		TransitionParams{Reason: "follow-up"}, at(3))
	if err == nil {
		t.Fatal("mediator reopen without assignee accepted")
	}

	if err := Transition(ticket, actorFor(diana, ticket.ProjectID), ActionReopen,
		TransitionParams{Reason: "follow-up", Assignee: charlie}, at(4)); err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if ticket.Status != domain.StatusAssigned {
		t.Errorf("status = %s, want ASSIGNED", ticket.Status)
	}
	if ticket.ResponderID == nil || *ticket.ResponderID != charlie.ID {
		t.Errorf("responder = %v, want %s", ticket.ResponderID, charlie.ID)
	}
}

func TestReopenByStrangerMember(t *testing.T) {
	ticket := assignedTicket(t)
	if err := Transition(ticket, actorFor(diana, ticket.ProjectID), ActionForceClose, TransitionParams{}, at(2)); err != nil {
		t.Fatalf("force close: %v", err)
	}
	err := Transition(ticket, actorFor(charlie, ticket.ProjectID), ActionReopen,
		TransitionParams{Reason: "curiosity"}, at(3))
	wantCode(t, err, apperrors.CodeInvalidTransition)
}

func TestAuditOrderMatchesInsertion(t *testing.T) {
	ticket := assignedTicket(t)
	_ = Transition(ticket, actorFor(alice, ticket.ProjectID), ActionRequestClose, TransitionParams{}, at(2))
	_ = Transition(ticket, actorFor(diana, ticket.ProjectID), ActionApproveClose, TransitionParams{}, at(3))

	want := []domain.AuditAction{domain.AuditCreate, domain.AuditApproveAndAssign, domain.AuditRequestClose, domain.AuditApproveClose}
	if len(ticket.AuditLog) != len(want) {
		t.Fatalf("audit log has %d entries, want %d", len(ticket.AuditLog), len(want))
	}
	for i, entry := range ticket.AuditLog {
		if entry.Action != want[i] {
			t.Errorf("entry %d action = %s, want %s", i, entry.Action, want[i])
		}
		if i > 0 && entry.Timestamp.Before(ticket.AuditLog[i-1].Timestamp) {
			t.Errorf("entry %d timestamp out of order", i)
		}
	}
}
