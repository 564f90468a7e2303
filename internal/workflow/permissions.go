package workflow

import "github.com/mediatordesk/helpdesk/internal/domain"

// Action identifies a ticket transition.
type Action string

const (
	ActionApproveAndAssign Action = "APPROVE_AND_ASSIGN"
	ActionReject           Action = "REJECT"
	ActionChangeAssignee   Action = "CHANGE_ASSIGNEE"
	ActionRequestClose     Action = "REQUEST_CLOSE"
	ActionApproveClose     Action = "APPROVE_CLOSE"
	ActionRejectClose      Action = "REJECT_CLOSE"
	ActionForceClose       Action = "FORCE_CLOSE"
	ActionReopen           Action = "REOPEN"
)

// MessageAction identifies a moderation decision on one message.
type MessageAction string

const (
	MessageActionApprove MessageAction = "APPROVE"
	MessageActionReject  MessageAction = "REJECT"
	MessageActionEdit    MessageAction = "EDIT"
)

type roleSet map[domain.Role]struct{}

func roles(rs ...domain.Role) roleSet {
	set := make(roleSet, len(rs))
	for _, r := range rs {
		set[r] = struct{}{}
	}
	return set
}

var (
	moderators   = roles(domain.RoleMediator, domain.RoleAdmin)
	participants = roles(domain.RoleMember, domain.RoleMediator, domain.RoleAdmin)
)

// actionRoles is the single authorization table for ticket transitions.
// Identity constraints (actor must be the querent, assignee must differ
// from the querent) are enforced by the transition itself.
var actionRoles = map[Action]roleSet{
	ActionApproveAndAssign: moderators,
	ActionReject:           moderators,
	ActionChangeAssignee:   moderators,
	ActionRequestClose:     participants,
	ActionApproveClose:     moderators,
	ActionRejectClose:      moderators,
	ActionForceClose:       moderators,
	ActionReopen:           participants,
}

var messageActionRoles = map[MessageAction]roleSet{
	MessageActionApprove: moderators,
	MessageActionReject:  moderators,
	MessageActionEdit:    moderators,
}

// RoleAllowed reports whether the role may attempt the transition at all.
func RoleAllowed(action Action, role domain.Role) bool {
	set, ok := actionRoles[action]
	if !ok {
		return false
	}
	_, ok = set[role]
	return ok
}

// MessageRoleAllowed reports whether the role may moderate messages.
func MessageRoleAllowed(action MessageAction, role domain.Role) bool {
	set, ok := messageActionRoles[action]
	if !ok {
		return false
	}
	_, ok = set[role]
	return ok
}
