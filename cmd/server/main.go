package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"roadcare/internal/adapters/http/middleware"
	"roadcare/internal/adapters/http/routes"
	"roadcare/internal/adapters/persistence/models"
	"roadcare/internal/adapters/persistence/repositories"
	"roadcare/internal/config"
	"roadcare/internal/core/services"
	"roadcare/internal/pkg/apiclient"

	"github.com/gofiber/fiber/v2"

	_ "roadcare/docs" // Swagger docs
)

// @title RoadCare Portal API
// @version 1.0
// @description Citizen road-surface issue reporting portal for the Gomel public utilities.
// @description Each browser holds an opaque session cookie; its backend credential stays on the server.

// @contact.name RoadCare Support
// @contact.email support@roadcare.gomel.by

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath /api
// @schemes https http

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Credential store for browser sessions
	credentials, err := openCredentialRepository(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to open credential store: %v", err)
	}
	defer config.CloseDatabase()
	defer config.CloseRedis()

	// Start Cron Service for expired credential cleanup
	cronService := services.NewCronService(credentials, cfg.Credential.CleanupSchedule)
	if err := cronService.Start(); err != nil {
		log.Fatalf("❌ Failed to start cron: %v", err)
	}
	defer cronService.Stop()

	// Backend API client shared by all requests; each request binds its own credential
	client := apiclient.New(cfg.API.BaseURL, apiclient.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}))

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "RoadCare Portal v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes
	routes.Setup(app, routes.Dependencies{
		Config:      cfg,
		Client:      client,
		Credentials: credentials,
		Assistant:   services.NewAssistantService(cfg.Assistant),
	})

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s, BACKEND: %s, API: %s]",
		cfg.Port, cfg.AppMode, cfg.Credential.Backend, cfg.API.BaseURL)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// openCredentialRepository connects the configured credential backend
func openCredentialRepository(cfg *config.Config) (repositories.CredentialRepository, error) {
	switch cfg.Credential.Backend {
	case config.BackendMySQL:
		db, err := config.ConnectDatabase(cfg)
		if err != nil {
			return nil, err
		}

		// Auto migrate (creates tables if not exist)
		if err := models.AutoMigrate(db); err != nil {
			return nil, err
		}
		log.Println("✅ Database migration completed")
		return repositories.NewCredentialRepository(db), nil

	case config.BackendRedis:
		client, err := config.ConnectRedis(cfg)
		if err != nil {
			return nil, err
		}
		return repositories.NewRedisCredentialRepository(client), nil

	default:
		log.Println("⚠️ Using in-memory credential store; sessions are lost on restart")
		return repositories.NewMemoryCredentialRepository(), nil
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
