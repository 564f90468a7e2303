package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mediatordesk/helpdesk/internal/domain"
	"github.com/mediatordesk/helpdesk/internal/repository"
	apperrors "github.com/mediatordesk/helpdesk/pkg/util"
)

// DirectoryService manages the project and membership directory that the
// workflow resolves roles from. All operations are admin-only; the route
// layer enforces that.
type DirectoryService struct {
	projects repository.ProjectRepository
	users    repository.UserRepository
}

// NewDirectoryService builds the service.
func NewDirectoryService(projects repository.ProjectRepository, users repository.UserRepository) *DirectoryService {
	return &DirectoryService{projects: projects, users: users}
}

// CreateProject registers a new project.
func (s *DirectoryService) CreateProject(ctx context.Context, name string) (*domain.Project, error) {
	project := &domain.Project{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now(),
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, apperrors.NewPersistenceFailure(err)
	}
	return project, nil
}

// ListProjects returns all projects.
func (s *DirectoryService) ListProjects(ctx context.Context) ([]domain.Project, error) {
	projects, err := s.projects.List(ctx)
	if err != nil {
		return nil, apperrors.NewPersistenceFailure(err)
	}
	return projects, nil
}

// ListUsers returns the full user directory.
func (s *DirectoryService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.NewPersistenceFailure(err)
	}
	return users, nil
}

// SetMemberships replaces a user's project roles. Every referenced project
// must exist; a user may hold at most one role per project.
func (s *DirectoryService) SetMemberships(ctx context.Context, userID string, memberships []domain.Membership) (*domain.User, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, apperrors.MapError(err)
	}
	seen := map[string]struct{}{}
	for _, m := range memberships {
		if _, dup := seen[m.ProjectID]; dup {
			return nil, apperrors.NewValidationError("duplicate project in memberships",
				map[string]any{"project_id": m.ProjectID})
		}
		seen[m.ProjectID] = struct{}{}
		switch m.Role {
		case domain.RoleMember, domain.RoleMediator, domain.RoleAdmin:
		default:
			return nil, apperrors.NewValidationError("unknown role",
				map[string]any{"role": m.Role})
		}
		if _, err := s.projects.GetByID(ctx, m.ProjectID); err != nil {
			return nil, apperrors.MapError(err)
		}
	}
	if err := s.users.ReplaceMemberships(ctx, userID, memberships); err != nil {
		return nil, apperrors.NewPersistenceFailure(err)
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// SetGlobalAdmin grants or revokes the global administrator flag.
func (s *DirectoryService) SetGlobalAdmin(ctx context.Context, userID string, isAdmin bool) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return apperrors.MapError(err)
	}
	if err := s.users.SetGlobalAdmin(ctx, userID, isAdmin); err != nil {
		return apperrors.NewPersistenceFailure(err)
	}
	return nil
}
