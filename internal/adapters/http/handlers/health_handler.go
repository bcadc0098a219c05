package handlers

import (
	"context"
	"log"
	"time"

	"roadcare/internal/config"

	"github.com/gofiber/fiber/v2"
)

const healthTimeout = 2 * time.Second

// HealthHandler handles health check endpoints
type HealthHandler struct {
	cfg *config.Config
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(cfg *config.Config) *HealthHandler {
	return &HealthHandler{cfg: cfg}
}

// Root handles root endpoint
// @Summary Root endpoint
// @Description Returns portal status
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "running",
		"message": "🚀 RoadCare portal is running",
		"mode":    h.cfg.AppMode,
		"docs":    "/swagger/index.html",
	})
}

// HealthCheck handles health check
// @Summary Health check
// @Description Check the credential store backing this portal
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
	defer cancel()

	check := func() error { return nil }
	switch h.cfg.Credential.Backend {
	case config.BackendMySQL:
		check = func() error { return config.DatabaseHealth(ctx) }
	case config.BackendRedis:
		check = func() error { return config.RedisHealth(ctx) }
	}

	if err := check(); err != nil {
		log.Printf("⚠️ Credential store %s unhealthy: %v", h.cfg.Credential.Backend, err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":           "degraded",
			"credential_store": h.cfg.Credential.Backend,
			"error":            err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"status":           "ok",
		"credential_store": h.cfg.Credential.Backend,
		"assistant":        h.cfg.Assistant.Enabled(),
	})
}

// APIInfo handles API info
// @Summary API info
// @Description Returns portal API information
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
func (h *HealthHandler) APIInfo(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message":   "RoadCare portal API",
		"version":   "1.0.0",
		"upstream":  h.cfg.API.BaseURL,
		"assistant": h.cfg.Assistant.Enabled(),
	})
}
