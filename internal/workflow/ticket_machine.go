package workflow

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mediatordesk/helpdesk/internal/domain"
	apperrors "github.com/mediatordesk/helpdesk/pkg/util"
)

// Actor is the user performing a transition, with the role they hold in
// the ticket's project at this moment. The role is captured into the
// audit entry and never looked up again.
type Actor struct {
	ID   string
	Role domain.Role
}

// TransitionParams carries per-action inputs. Assignee is the resolved
// user for actions that (re)assign; Reason is required for reopens.
type TransitionParams struct {
	Assignee *domain.User
	Reason   string
}

// transitionSources lists the legal source statuses per action. An
// attempt from any other status fails with INVALID_TRANSITION before
// anything is mutated.
var transitionSources = map[Action][]domain.TicketStatus{
	ActionApproveAndAssign: {domain.StatusPendingApproval},
	ActionReject:           {domain.StatusPendingApproval},
	ActionChangeAssignee: {
		domain.StatusPendingApproval, domain.StatusAssigned, domain.StatusInProgress,
		domain.StatusWaitingFeedback, domain.StatusPendingCloseApproval,
	},
	ActionRequestClose: {
		domain.StatusPendingApproval, domain.StatusAssigned,
		domain.StatusInProgress, domain.StatusWaitingFeedback,
	},
	ActionApproveClose: {domain.StatusPendingCloseApproval},
	ActionRejectClose:  {domain.StatusPendingCloseApproval},
	ActionForceClose: {
		domain.StatusPendingApproval, domain.StatusAssigned, domain.StatusInProgress,
		domain.StatusWaitingFeedback, domain.StatusPendingCloseApproval,
	},
	ActionReopen: {domain.StatusClosed, domain.StatusRejected},
}

func sourceAllowed(action Action, status domain.TicketStatus) bool {
	for _, s := range transitionSources[action] {
		if s == status {
			return true
		}
	}
	return false
}

// NewTicket builds a ticket aggregate in PENDING_APPROVAL with its CREATE
// audit entry. The querent must hold a role in the project; the mediator
// is resolved by the caller from the project's membership roster.
func NewTicket(project *domain.Project, querent *domain.User, mediatorID, title, description string, now time.Time) (*domain.Ticket, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" {
		return nil, apperrors.NewValidationError("title required", map[string]any{"field": "title"})
	}
	if description == "" {
		return nil, apperrors.NewValidationError("description required", map[string]any{"field": "description"})
	}
	role, ok := querent.RoleInProject(project.ID)
	if !ok {
		return nil, apperrors.NewMembershipViolation("querent is not a member of the project",
			map[string]any{"user_id": querent.ID, "project_id": project.ID})
	}
	if mediatorID == "" {
		return nil, apperrors.NewNoMediatorAssigned(project.ID)
	}

	ticket := &domain.Ticket{
		ID:                  uuid.NewString(),
		ProjectID:           project.ID,
		Title:               title,
		Description:         description,
		OriginalDescription: description,
		Status:              domain.StatusPendingApproval,
		QuerentID:           querent.ID,
		MediatorID:          mediatorID,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	appendAudit(ticket, Actor{ID: querent.ID, Role: role}, domain.AuditCreate, "Ticket created.", now)
	return ticket, nil
}

// Transition validates and applies one of the eight post-creation ticket
// transitions. All preconditions are checked before the aggregate is
// touched; on error the ticket is unchanged and no audit entry exists.
func Transition(t *domain.Ticket, actor Actor, action Action, params TransitionParams, now time.Time) error {
	if !RoleAllowed(action, actor.Role) {
		return apperrors.NewInvalidTransition("role not permitted for this transition",
			map[string]any{"action": action, "role": actor.Role})
	}
	if !sourceAllowed(action, t.Status) {
		return apperrors.NewInvalidTransition("transition not allowed from current status",
			map[string]any{"action": action, "status": t.Status})
	}

	switch action {
	case ActionApproveAndAssign:
		return approveAndAssign(t, actor, params.Assignee, now)
	case ActionReject:
		t.Status = domain.StatusRejected
		finish(t, actor, domain.AuditReject, "Ticket was rejected.", now)
		return nil
	case ActionChangeAssignee:
		return changeAssignee(t, actor, params.Assignee, now)
	case ActionRequestClose:
		if t.QuerentID != actor.ID {
			return apperrors.NewInvalidTransition("only the querent may request closure",
				map[string]any{"actor_id": actor.ID, "querent_id": t.QuerentID})
		}
		t.Status = domain.StatusPendingCloseApproval
		finish(t, actor, domain.AuditRequestClose, "Querent requested to close the ticket.", now)
		return nil
	case ActionApproveClose:
		t.Status = domain.StatusClosed
		t.ClosedAt = &now
		finish(t, actor, domain.AuditApproveClose, "Ticket closure approved.", now)
		return nil
	case ActionRejectClose:
		t.Status = domain.StatusInProgress
		finish(t, actor, domain.AuditRejectClose, "Ticket closure rejected.", now)
		return nil
	case ActionForceClose:
		t.Status = domain.StatusClosed
		t.ClosedAt = &now
		finish(t, actor, domain.AuditCloseTicket, "Ticket closed by moderator.", now)
		return nil
	case ActionReopen:
		return reopen(t, actor, params, now)
	default:
		return apperrors.NewInvalidTransition("unknown transition", map[string]any{"action": action})
	}
}

func approveAndAssign(t *domain.Ticket, actor Actor, assignee *domain.User, now time.Time) error {
	if err := checkAssignee(t, assignee); err != nil {
		return err
	}
	t.Status = domain.StatusAssigned
	t.ResponderID = &assignee.ID
	finish(t, actor, domain.AuditApproveAndAssign, "Ticket approved and assigned to a responder.", now)
	return nil
}

func changeAssignee(t *domain.Ticket, actor Actor, assignee *domain.User, now time.Time) error {
	if err := checkAssignee(t, assignee); err != nil {
		return err
	}
	if t.ResponderID != nil && *t.ResponderID == assignee.ID {
		return apperrors.NewInvalidTransition("user is already the assigned responder",
			map[string]any{"assignee_id": assignee.ID})
	}
	t.ResponderID = &assignee.ID
	finish(t, actor, domain.AuditChangeAssignee, "The assigned responder has been changed.", now)
	return nil
}

func reopen(t *domain.Ticket, actor Actor, params TransitionParams, now time.Time) error {
	reason := strings.TrimSpace(params.Reason)
	if reason == "" {
		return apperrors.NewValidationError("reopen reason required", map[string]any{"field": "reason"})
	}

	if actor.Role.Moderates() {
		if err := checkAssignee(t, params.Assignee); err != nil {
			return err
		}
		t.Status = domain.StatusAssigned
		t.ResponderID = &params.Assignee.ID
	} else {
		if t.QuerentID != actor.ID {
			return apperrors.NewInvalidTransition("only the querent may reopen their ticket",
				map[string]any{"actor_id": actor.ID, "querent_id": t.QuerentID})
		}
		// Back into the approval queue; assignment happens afresh.
		t.Status = domain.StatusPendingApproval
		t.ResponderID = nil
	}
	t.ClosedAt = nil
	finish(t, actor, domain.AuditReopen, fmt.Sprintf("Ticket reopened: %s", reason), now)
	return nil
}

// checkAssignee enforces the responder invariant: a plain Member of the
// ticket's project who is not the querent.
func checkAssignee(t *domain.Ticket, assignee *domain.User) error {
	if assignee == nil {
		return apperrors.NewValidationError("assignee required", map[string]any{"field": "assignee_id"})
	}
	role, ok := assignee.RoleInProject(t.ProjectID)
	if !ok || role != domain.RoleMember {
		return apperrors.NewMembershipViolation("assignee must hold the Member role in the project",
			map[string]any{"assignee_id": assignee.ID, "project_id": t.ProjectID})
	}
	if assignee.ID == t.QuerentID {
		return apperrors.NewMembershipViolation("assignee must not be the querent",
			map[string]any{"assignee_id": assignee.ID})
	}
	return nil
}

func finish(t *domain.Ticket, actor Actor, action domain.AuditAction, details string, now time.Time) {
	t.UpdatedAt = now
	appendAudit(t, actor, action, details, now)
}

func appendAudit(t *domain.Ticket, actor Actor, action domain.AuditAction, details string, now time.Time) {
	t.AuditLog = append(t.AuditLog, domain.AuditLogEntry{
		ID:        uuid.NewString(),
		TicketID:  t.ID,
		UserID:    actor.ID,
		Role:      actor.Role,
		Action:    action,
		Details:   details,
		Timestamp: now,
	})
}
