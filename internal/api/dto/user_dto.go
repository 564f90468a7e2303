package dto

import (
	"time"

	"github.com/mediatordesk/helpdesk/internal/domain"
)

// RegisterRequest payload.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse returns the issued token with its subject.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// MembershipPayload is one project role grant.
type MembershipPayload struct {
	ProjectID string      `json:"project_id" validate:"required"`
	Role      domain.Role `json:"role" validate:"required,oneof=MEMBER MEDIATOR ADMIN"`
}

// SetMembershipsRequest replaces a user's project roles.
type SetMembershipsRequest struct {
	Memberships []MembershipPayload `json:"memberships" validate:"dive"`
}

// SetGlobalAdminRequest toggles the global administrator flag.
type SetGlobalAdminRequest struct {
	IsGlobalAdmin bool `json:"is_global_admin"`
}

// CreateProjectRequest payload.
type CreateProjectRequest struct {
	Name string `json:"name" validate:"required,max=120"`
}

// ProjectResponse maps a project.
type ProjectResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// UserResponse maps a user without credentials.
type UserResponse struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	Email         string              `json:"email"`
	IsGlobalAdmin bool                `json:"is_global_admin"`
	Memberships   []MembershipPayload `json:"memberships"`
	CreatedAt     time.Time           `json:"created_at"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(u *domain.User) UserResponse {
	memberships := make([]MembershipPayload, 0, len(u.Memberships))
	for _, m := range u.Memberships {
		memberships = append(memberships, MembershipPayload{ProjectID: m.ProjectID, Role: m.Role})
	}
	return UserResponse{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		IsGlobalAdmin: u.IsGlobalAdmin,
		Memberships:   memberships,
		CreatedAt:     u.CreatedAt,
	}
}

// NewProjectResponse maps a domain project.
func NewProjectResponse(p *domain.Project) ProjectResponse {
	return ProjectResponse{ID: p.ID, Name: p.Name, CreatedAt: p.CreatedAt}
}
