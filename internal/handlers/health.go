package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/alidoner/orderbot/internal/services"
)

// Pinger reports whether a backing service is reachable
type Pinger interface {
	Ping() error
}

// HealthHandler handles health check requests
type HealthHandler struct {
	Version  string
	Provider string
	sessions *services.SessionManager
	db       Pinger
	aiReady  bool
}

// NewHealthHandler creates a new health handler. db may be nil when the
// order ledger is kept in memory.
func NewHealthHandler(version, provider string, sessions *services.SessionManager, db Pinger, aiReady bool) *HealthHandler {
	return &HealthHandler{
		Version:  version,
		Provider: provider,
		sessions: sessions,
		db:       db,
		aiReady:  aiReady,
	}
}

// Banner describes the service and its endpoints
func (h *HealthHandler) Banner(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Ali Doner Aktau WhatsApp order bot",
		"version": h.Version,
		"endpoints": fiber.Map{
			"health":  "/health",
			"metrics": "/metrics",
			"webhook": "/webhook/whatsapp",
			"admin":   "/admin/orders",
		},
	})
}

// Check returns liveness, the session count and sessions per stage
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	status := "healthy"
	statusCode := fiber.StatusOK

	storage := "memory"
	if h.db != nil {
		storage = "postgres"
		if err := h.db.Ping(); err != nil {
			status = "unhealthy"
			statusCode = fiber.StatusServiceUnavailable
		}
	}

	return c.Status(statusCode).JSON(fiber.Map{
		"status":   status,
		"version":  h.Version,
		"sessions": h.sessions.Count(),
		"stages":   h.sessions.Stats(),
		"services": fiber.Map{
			"storage":  storage,
			"database": status == "healthy",
			"whatsapp": h.Provider,
			"ai":       h.aiReady,
		},
	})
}
