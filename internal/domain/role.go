package domain

// Role enumerates per-project authority levels.
type Role string

const (
	RoleMember   Role = "MEMBER"
	RoleMediator Role = "MEDIATOR"
	RoleAdmin    Role = "ADMIN"
)

// Membership assigns a role to a user within one project.
// A user holds at most one role per project.
type Membership struct {
	ProjectID string
	Role      Role
}

// Moderates reports whether the role may approve, reject, or edit
// tickets and messages.
func (r Role) Moderates() bool {
	return r == RoleMediator || r == RoleAdmin
}
