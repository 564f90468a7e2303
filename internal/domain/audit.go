package domain

import "time"

// AuditAction is the short code recorded for a state-changing action.
type AuditAction string

const (
	AuditCreate           AuditAction = "CREATE"
	AuditApproveAndAssign AuditAction = "APPROVE_AND_ASSIGN"
	AuditReject           AuditAction = "REJECT"
	AuditChangeAssignee   AuditAction = "CHANGE_ASSIGNEE"
	AuditRequestClose     AuditAction = "REQUEST_CLOSE"
	AuditApproveClose     AuditAction = "APPROVE_CLOSE"
	AuditRejectClose      AuditAction = "REJECT_CLOSE"
	AuditCloseTicket      AuditAction = "CLOSE_TICKET"
	AuditReopen           AuditAction = "REOPEN"
	AuditSendMessage      AuditAction = "SEND_MESSAGE"
	AuditApproveMessage   AuditAction = "APPROVE_MESSAGE"
	AuditRejectMessage    AuditAction = "REJECT_MESSAGE"
	AuditEditMessage      AuditAction = "EDIT_MESSAGE"
)

// AuditLogEntry is an immutable record of one transition. Role is the
// actor's role at the time of the action, never re-derived later.
type AuditLogEntry struct {
	ID        string
	TicketID  string
	UserID    string
	Role      Role
	Action    AuditAction
	Details   string
	Timestamp time.Time
}
