package domain

import "time"

// User is the domain model for every participant: members, mediators
// and admins are all users distinguished by their project memberships.
type User struct {
	ID            string
	Name          string
	Email         string
	PasswordHash  string
	IsGlobalAdmin bool
	Memberships   []Membership
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// RoleInProject resolves the user's role for a project. Global admins
// hold Admin in every project regardless of explicit membership.
func (u *User) RoleInProject(projectID string) (Role, bool) {
	if u == nil {
		return "", false
	}
	if u.IsGlobalAdmin {
		return RoleAdmin, true
	}
	for _, m := range u.Memberships {
		if m.ProjectID == projectID {
			return m.Role, true
		}
	}
	return "", false
}
