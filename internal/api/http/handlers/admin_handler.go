package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mediatordesk/helpdesk/internal/api/dto"
	"github.com/mediatordesk/helpdesk/internal/domain"
	"github.com/mediatordesk/helpdesk/internal/service"
	apperrors "github.com/mediatordesk/helpdesk/pkg/util"
)

// AdminHandler manages the project and membership directory. Routes are
// mounted behind the global-admin guard.
type AdminHandler struct {
	service *service.DirectoryService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(directoryService *service.DirectoryService) *AdminHandler {
	return &AdminHandler{service: directoryService}
}

// CreateProject POST /admin/projects.
func (h *AdminHandler) CreateProject(c *fiber.Ctx) error {
	var req dto.CreateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	project, err := h.service.CreateProject(c.UserContext(), req.Name)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewProjectResponse(project)})
}

// ListProjects GET /admin/projects.
func (h *AdminHandler) ListProjects(c *fiber.Ctx) error {
	projects, err := h.service.ListProjects(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.ProjectResponse, 0, len(projects))
	for i := range projects {
		items = append(items, dto.NewProjectResponse(&projects[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// ListUsers GET /admin/users.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.service.ListUsers(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, dto.NewUserResponse(&users[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// SetMemberships PUT /admin/users/:id/memberships.
func (h *AdminHandler) SetMemberships(c *fiber.Ctx) error {
	var req dto.SetMembershipsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	memberships := make([]domain.Membership, 0, len(req.Memberships))
	for _, m := range req.Memberships {
		memberships = append(memberships, domain.Membership{ProjectID: m.ProjectID, Role: m.Role})
	}
	user, err := h.service.SetMemberships(c.UserContext(), c.Params("id"), memberships)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// SetGlobalAdmin PUT /admin/users/:id/global-admin.
func (h *AdminHandler) SetGlobalAdmin(c *fiber.Ctx) error {
	var req dto.SetGlobalAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.service.SetGlobalAdmin(c.UserContext(), c.Params("id"), req.IsGlobalAdmin); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
