package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alidoner/orderbot/internal/config"
	"github.com/alidoner/orderbot/internal/handlers"
	"github.com/alidoner/orderbot/internal/middleware"
)

// Handlers groups everything the router needs
type Handlers struct {
	WhatsApp *handlers.WhatsAppHandler
	Health   *handlers.HealthHandler
	Admin    *handlers.AdminHandler
	Metrics  prometheus.Gatherer
}

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, cfg *config.Config, h Handlers) {
	// Root endpoint
	app.Get("/", h.Health.Banner)
	app.Get("/health", h.Health.Check)

	if h.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(h.Metrics, promhttp.HandlerOpts{})))
	}

	// WhatsApp webhook
	webhook := app.Group("/webhook")
	switch cfg.Provider {
	case config.ProviderUltraMsg:
		webhook.Post("/whatsapp", h.WhatsApp.HandleUltraMsgWebhook)
		webhook.Post("/ultramsg", h.WhatsApp.HandleUltraMsgWebhook)
	default:
		if cfg.ValidateWebhooks() {
			webhook.Post("/whatsapp", middleware.ValidateTwilioSignature(cfg.TwilioAuthToken, cfg.WebhookPublicURL), h.WhatsApp.HandleTwilioWebhook)
		} else {
			webhook.Post("/whatsapp", h.WhatsApp.HandleTwilioWebhook)
		}
	}

	// Test endpoint for development
	if cfg.IsDevelopment() {
		app.Post("/test/whatsapp", h.WhatsApp.HandleTestWebhook)
	}

	// Admin routes
	if cfg.AdminToken != "" && h.Admin != nil {
		admin := app.Group("/admin", middleware.RequireAdminToken(cfg.AdminToken))
		admin.Get("/orders", h.Admin.ListOrders)
		admin.Get("/orders/:id", h.Admin.GetOrder)
		admin.Get("/sessions", h.Admin.ListSessions)
	}
}
