package routes

import (
	"time"

	"roadcare/internal/adapters/http/handlers"
	"roadcare/internal/adapters/http/middleware"
	"roadcare/internal/adapters/persistence/repositories"
	"roadcare/internal/config"
	"roadcare/internal/core/domain"
	"roadcare/internal/core/services"
	"roadcare/internal/pkg/apiclient"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

// Dependencies are the long-lived collaborators shared by every request
type Dependencies struct {
	Config      *config.Config
	Client      *apiclient.Client
	Credentials repositories.CredentialRepository
	Assistant   *services.AssistantService
}

// Setup configures all routes for the application
func Setup(app *fiber.App, deps Dependencies) {
	cfg := deps.Config

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg)
	authHandler := handlers.NewAuthHandler()
	issueHandler := handlers.NewIssueHandler()
	assistHandler := handlers.NewAssistHandler(deps.Assistant)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", middleware.CacheControl(time.Hour), swagger.HandlerDefault)

	api := app.Group("/api", middleware.NoStore())
	api.Get("/", healthHandler.APIInfo)

	// Every API route below sees this browser's session
	api.Use(middleware.SessionLoader(deps.Client, deps.Credentials, cfg.Cookie))

	setupAuthRoutes(api.Group("/auth"), authHandler)
	setupIssueRoutes(api.Group("/issues", middleware.RequireSession(domain.RoleUser, domain.RoleAdmin)), issueHandler)
	setupAdminRoutes(api.Group("/admin", middleware.AdminOnly()), issueHandler)
	setupAssistRoutes(api.Group("/assist", middleware.RequireSession(domain.RoleUser, domain.RoleAdmin)), assistHandler)
}

// setupAuthRoutes configures sign-in, sign-up and session routes (public)
func setupAuthRoutes(router fiber.Router, h *handlers.AuthHandler) {
	router.Post("/register", middleware.AuthRateLimiter(), h.Register)
	router.Post("/login", middleware.AuthRateLimiter(), h.Login)
	router.Post("/logout", h.Logout)
	router.Get("/me", h.Me)
}

// setupIssueRoutes configures citizen issue routes
func setupIssueRoutes(router fiber.Router, h *handlers.IssueHandler) {
	router.Post("/", h.Report)
	router.Get("/mine", h.Mine)
	router.Get("/status/:status", h.ByStatus)
	router.Get("/:id", h.Detail)
}

// setupAdminRoutes configures triage and response routes (Admin only)
func setupAdminRoutes(router fiber.Router, h *handlers.IssueHandler) {
	router.Get("/issues", h.Dashboard)
	router.Put("/issues/:id", h.Update)
	router.Put("/issues/:id/status", h.ChangeStatus)
	router.Delete("/issues/:id", h.Delete)
	router.Get("/issues/:id/responses", h.Responses)
	router.Post("/issues/:id/responses", h.Respond)

	router.Put("/responses/:id", h.EditResponse)
	router.Delete("/responses/:id", h.DeleteResponse)
}

// setupAssistRoutes configures the description assistant
func setupAssistRoutes(router fiber.Router, h *handlers.AssistHandler) {
	router.Post("/description", middleware.AssistantRateLimiter(), h.SuggestDescription)
}
