package http

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mediatordesk/helpdesk/internal/api/http/handlers"
	"github.com/mediatordesk/helpdesk/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	Mediation      *handlers.MediationHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated(), cfg.Users.Me)

	protected := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())

	tickets := protected.Group("/tickets")
	tickets.Post("/", cfg.Tickets.CreateTicket)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Post("/:id/messages", cfg.Tickets.SendMessage)
	tickets.Post("/:id/close-request", cfg.Tickets.RequestClose)
	tickets.Post("/:id/reopen", cfg.Tickets.Reopen)

	// Mediator decisions. Authorization is decided by the workflow rules
	// against the caller's project role.
	tickets.Post("/:id/approve", cfg.Mediation.ApproveAndAssign)
	tickets.Post("/:id/reject", cfg.Mediation.Reject)
	tickets.Put("/:id/assignee", cfg.Mediation.ChangeAssignee)
	tickets.Post("/:id/close-approve", cfg.Mediation.ApproveClose)
	tickets.Post("/:id/close-reject", cfg.Mediation.RejectClose)
	tickets.Post("/:id/force-close", cfg.Mediation.ForceClose)
	tickets.Post("/:id/messages/:messageID/approve", cfg.Mediation.ApproveMessage)
	tickets.Post("/:id/messages/:messageID/reject", cfg.Mediation.RejectMessage)
	tickets.Put("/:id/messages/:messageID", cfg.Mediation.EditMessage)

	protected.Get("/projects/:projectID/tickets", cfg.Tickets.ListTickets)

	admin := protected.Group("/admin", auth.RequireGlobalAdmin())
	admin.Post("/projects", cfg.Admin.CreateProject)
	admin.Get("/projects", cfg.Admin.ListProjects)
	admin.Get("/users", cfg.Admin.ListUsers)
	admin.Put("/users/:id/memberships", cfg.Admin.SetMemberships)
	admin.Put("/users/:id/global-admin", cfg.Admin.SetGlobalAdmin)
}
