package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/file-vault-service/internal/api/http/handlers"
	"github.com/spec-kit/file-vault-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Files          *handlers.FilesHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)
	authGroup.Post("/password/reset/request", cfg.Users.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Users.ConfirmPasswordReset)
	authGroup.Post("/password/change", cfg.AuthMiddleware.Handle, cfg.Users.ChangePassword)

	files := app.Group("/files")
	files.Get("/public", cfg.Files.ListPublic)
	files.Get("/mine", cfg.AuthMiddleware.Handle, cfg.Files.ListMine)
	files.Post("/", cfg.AuthMiddleware.Handle, cfg.Files.Upload)
	// Download decides per visibility, so credentials are optional here.
	files.Get("/:id/download", cfg.AuthMiddleware.Optional, cfg.Files.Download)
	files.Delete("/:id", cfg.AuthMiddleware.Handle, cfg.Files.Delete)
}
