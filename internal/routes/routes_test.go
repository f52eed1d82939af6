package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alidoner/orderbot/internal/config"
	"github.com/alidoner/orderbot/internal/handlers"
	"github.com/alidoner/orderbot/internal/metrics"
	"github.com/alidoner/orderbot/internal/services"
	"github.com/alidoner/orderbot/internal/storage"
)

type nopEngine struct{}

func (nopEngine) Handle(context.Context, services.InboundEvent) services.Result {
	return services.Result{Status: services.StatusProcessed}
}

func newApp(cfg *config.Config) *fiber.App {
	sessions := services.NewSessionManager()
	reg := prometheus.NewRegistry()
	metrics.New(reg, sessions.Count)

	app := fiber.New()
	SetupRoutes(app, cfg, Handlers{
		WhatsApp: handlers.NewWhatsAppHandler(nopEngine{}, "", 0),
		Health:   handlers.NewHealthHandler("test", cfg.Provider, sessions, nil, false),
		Admin:    handlers.NewAdminHandler(storage.NewMemoryStore(), sessions),
		Metrics:  reg,
	})
	return app
}

func status(t *testing.T, app *fiber.App, req *http.Request) int {
	t.Helper()
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestSetupRoutes_Production(t *testing.T) {
	app := newApp(&config.Config{
		Provider:        config.ProviderTwilio,
		Environment:     "production",
		TwilioAuthToken: "token",
		AdminToken:      "s3cret",
	})

	assert.Equal(t, fiber.StatusOK, status(t, app, httptest.NewRequest(http.MethodGet, "/health", nil)))

	// unsigned Twilio webhook is rejected
	form := url.Values{"From": {"whatsapp:+77010000001"}, "Body": {"донер"}}
	req := httptest.NewRequest(http.MethodPost, "/webhook/whatsapp", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	assert.Equal(t, fiber.StatusUnauthorized, status(t, app, req))

	// dev endpoint is not mounted
	req = httptest.NewRequest(http.MethodPost, "/test/whatsapp", strings.NewReader(`{"from":"1","message":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	assert.Equal(t, fiber.StatusNotFound, status(t, app, req))

	// admin needs the token
	assert.Equal(t, fiber.StatusUnauthorized, status(t, app, httptest.NewRequest(http.MethodGet, "/admin/orders", nil)))
	req = httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	assert.Equal(t, fiber.StatusOK, status(t, app, req))
}

func TestSetupRoutes_Development(t *testing.T) {
	app := newApp(&config.Config{Provider: config.ProviderTwilio, Environment: "development"})

	form := url.Values{"From": {"whatsapp:+77010000001"}, "Body": {"донер"}}
	req := httptest.NewRequest(http.MethodPost, "/webhook/whatsapp", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	assert.Equal(t, fiber.StatusOK, status(t, app, req))

	req = httptest.NewRequest(http.MethodPost, "/test/whatsapp", strings.NewReader(`{"from":"77010000001","message":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	assert.Equal(t, fiber.StatusOK, status(t, app, req))

	// admin routes are absent without a token
	assert.Equal(t, fiber.StatusNotFound, status(t, app, httptest.NewRequest(http.MethodGet, "/admin/orders", nil)))
}

func ultraMsgRequest(path string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path,
		strings.NewReader(`{"event_type":"message_received","data":{"id":"false_1","from":"77010000001@c.us","body":"оплатил","type":"chat"}}`))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestSetupRoutes_UltraMsgProvider(t *testing.T) {
	app := newApp(&config.Config{Provider: config.ProviderUltraMsg, Environment: "production"})

	assert.Equal(t, fiber.StatusOK, status(t, app, ultraMsgRequest("/webhook/whatsapp")))
	assert.Equal(t, fiber.StatusOK, status(t, app, ultraMsgRequest("/webhook/ultramsg")))
}

func TestSetupRoutes_TwilioProviderHasNoUltraMsgRoute(t *testing.T) {
	for _, env := range []string{"production", "development"} {
		t.Run(env, func(t *testing.T) {
			app := newApp(&config.Config{
				Provider:        config.ProviderTwilio,
				Environment:     env,
				TwilioAuthToken: "token",
			})

			assert.Equal(t, fiber.StatusNotFound, status(t, app, ultraMsgRequest("/webhook/ultramsg")))
		})
	}
}

func TestSetupRoutes_Metrics(t *testing.T) {
	app := newApp(&config.Config{Provider: config.ProviderTwilio})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "orderbot_sessions")
}
