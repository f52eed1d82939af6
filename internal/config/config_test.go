package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "ENVIRONMENT", "WHATSAPP_PROVIDER", "DELIVERY_PRICE", "RESTART_ON_DONE",
		"AI_TIMEOUT", "SEND_TIMEOUT", "CONVERSATION_WINDOW", "DEDUP_CAPACITY",
		"PAYMENT_REMINDER_AFTER", "PAYMENT_REMINDER_INTERVAL", "USE_MEMORY_STORE",
		"KASPI_PAY_LINK", "OPENAI_MODEL", "DB_NAME",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, ProviderTwilio, cfg.Provider)
	assert.Equal(t, int64(700), cfg.DeliveryFee)
	assert.True(t, cfg.RestartOnDone)
	assert.False(t, cfg.UseMemoryStore)
	assert.Equal(t, 15*time.Second, cfg.AITimeout)
	assert.Equal(t, 10*time.Second, cfg.SendTimeout)
	assert.Equal(t, 6, cfg.ConversationWindow)
	assert.Equal(t, 500, cfg.DedupCapacity)
	assert.Equal(t, 15*time.Minute, cfg.ReminderAfter)
	assert.Equal(t, time.Minute, cfg.ReminderInterval)
	assert.Equal(t, "https://pay.kaspi.kz/pay/3ofujmgr", cfg.KaspiPayLink)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAIModel)
	assert.Equal(t, "orderbot", cfg.Database.Name)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("WHATSAPP_PROVIDER", "UltraMsg")
	t.Setenv("DELIVERY_PRICE", "900")
	t.Setenv("RESTART_ON_DONE", "false")
	t.Setenv("AI_TIMEOUT", "3s")
	t.Setenv("ENVIRONMENT", "development")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ProviderUltraMsg, cfg.Provider)
	assert.Equal(t, int64(900), cfg.DeliveryFee)
	assert.False(t, cfg.RestartOnDone)
	assert.Equal(t, 3*time.Second, cfg.AITimeout)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("DELIVERY_PRICE", "seven hundred")
	t.Setenv("SEND_TIMEOUT", "soon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DELIVERY_PRICE")
	assert.Contains(t, err.Error(), "SEND_TIMEOUT")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Provider:           ProviderTwilio,
			TwilioAccountSID:   "AC123",
			TwilioAuthToken:    "token",
			TwilioFrom:         "whatsapp:+14155238886",
			OperatorPhone:      "77019999999",
			DeliveryFee:        700,
			ReminderInterval:   time.Minute,
			ConversationWindow: 6,
			DedupCapacity:      500,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid twilio", func(*Config) {}, ""},
		{"missing operator", func(c *Config) { c.OperatorPhone = "" }, "OPERATOR_PHONE"},
		{"missing twilio token", func(c *Config) { c.TwilioAuthToken = "" }, "TWILIO_AUTH_TOKEN"},
		{"ultramsg without credentials", func(c *Config) { c.Provider = ProviderUltraMsg }, "ULTRAMSG_INSTANCE_ID"},
		{"valid ultramsg", func(c *Config) {
			c.Provider = ProviderUltraMsg
			c.UltraMsgInstanceID = "instance1"
			c.UltraMsgToken = "tok"
		}, ""},
		{"unknown provider", func(c *Config) { c.Provider = "telegram" }, "WHATSAPP_PROVIDER"},
		{"negative fee", func(c *Config) { c.DeliveryFee = -1 }, "DELIVERY_PRICE"},
		{"zero conversation window", func(c *Config) { c.ConversationWindow = 0 }, "CONVERSATION_WINDOW"},
		{"negative conversation window", func(c *Config) { c.ConversationWindow = -2 }, "CONVERSATION_WINDOW"},
		{"zero dedup capacity", func(c *Config) { c.DedupCapacity = 0 }, "DEDUP_CAPACITY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateWebhooks(t *testing.T) {
	cfg := &Config{Provider: ProviderTwilio, Environment: "production"}
	assert.True(t, cfg.ValidateWebhooks())

	cfg.DisableWebhookValidation = true
	assert.False(t, cfg.ValidateWebhooks())

	cfg = &Config{Provider: ProviderTwilio, Environment: "development"}
	assert.False(t, cfg.ValidateWebhooks())

	cfg = &Config{Provider: ProviderUltraMsg, Environment: "production"}
	assert.False(t, cfg.ValidateWebhooks())
}
