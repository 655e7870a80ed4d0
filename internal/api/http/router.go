package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/macxnet80/tigube-approval-service/internal/api/http/handlers"
	"github.com/macxnet80/tigube-approval-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health             *handlers.HealthHandler
	Users              *handlers.UsersHandler
	Profile            *handlers.ProfileHandler
	Approvals          *handlers.ApprovalsHandler
	Verifications      *handlers.VerificationsHandler
	AdminApprovals     *handlers.AdminApprovalsHandler
	AdminVerifications *handlers.AdminVerificationsHandler
	AuthMiddleware     *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/users/register", cfg.Users.Register)
	authGroup.Post("/users/login", cfg.Users.Login)
	authGroup.Post("/admins/login", cfg.Users.LoginAdmin)

	userGroup := app.Group("/me", cfg.AuthMiddleware.Handle, auth.RequireUser())
	userGroup.Get("/profile", cfg.Profile.GetProfile)
	userGroup.Put("/profile", cfg.Profile.UpdateProfile)
	userGroup.Put("/profile/photo", cfg.Profile.UpdateProfilePhoto)
	userGroup.Get("/profile/check", cfg.Profile.CheckProfile)

	userGroup.Post("/approval/request", cfg.Approvals.RequestApproval)
	userGroup.Get("/approval", cfg.Approvals.GetApprovalStatus)

	userGroup.Post("/verification", cfg.Verifications.Submit)
	userGroup.Get("/verification", cfg.Verifications.GetStatus)

	adminGroup := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	adminGroup.Get("/approvals/pending", cfg.AdminApprovals.ListPending)
	adminGroup.Get("/approvals/stats", cfg.AdminApprovals.Stats)
	adminGroup.Post("/approvals/:userID/decide", cfg.AdminApprovals.Decide)
	adminGroup.Post("/approvals/:userID/reset", cfg.AdminApprovals.Reset)

	adminGroup.Get("/verifications", cfg.AdminVerifications.List)
	adminGroup.Post("/verifications/:id/review", cfg.AdminVerifications.Review)

	adminGroup.Get("/users/:userID/history", cfg.AdminApprovals.History)
}
