package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/alidoner/orderbot/internal/dedup"
	"github.com/alidoner/orderbot/internal/services"
)

// Provider names for the WhatsApp gateway
const (
	ProviderTwilio   = "twilio"
	ProviderUltraMsg = "ultramsg"
)

// Config holds everything the serve command needs
type Config struct {
	Port        string
	Environment string
	Provider    string

	TwilioAccountSID         string
	TwilioAuthToken          string
	TwilioFrom               string
	WebhookPublicURL         string
	DisableWebhookValidation bool

	UltraMsgInstanceID string
	UltraMsgToken      string
	UltraMsgBaseURL    string

	OpenAIKey     string
	OpenAIModel   string
	OpenAIBaseURL string

	OperatorPhone string
	DeliveryFee   int64
	KaspiPayLink  string
	MenuFile      string
	AdminToken    string

	UseMemoryStore bool
	Database       DatabaseConfig

	RestartOnDone      bool
	AITimeout          time.Duration
	SendTimeout        time.Duration
	ConversationWindow int
	DedupCapacity      int

	ReminderAfter    time.Duration
	ReminderInterval time.Duration
}

// DatabaseConfig holds postgres connection settings
type DatabaseConfig struct {
	Host                   string
	Port                   string
	User                   string
	Password               string
	Name                   string
	InstanceConnectionName string
}

// IsDevelopment reports whether development-only routes are enabled
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// ValidateWebhooks reports whether Twilio signatures must be checked
func (c *Config) ValidateWebhooks() bool {
	return c.Provider == ProviderTwilio && !c.IsDevelopment() && !c.DisableWebhookValidation
}

// LoadDotEnv loads .env for local development, falling back to
// environments/.env.development. Missing files are not an error.
func LoadDotEnv() {
	if os.Getenv("INSTANCE_CONNECTION_NAME") != "" {
		return
	}
	if err := godotenv.Load(".env"); err != nil {
		if err := godotenv.Load("environments/.env.development"); err != nil {
			log.Println("⚠️  No .env file found - checking environment variables")
		}
	}
}

// Load reads the configuration from the environment
func Load() (*Config, error) {
	var errs []error

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "production"),
		Provider:    strings.ToLower(getEnv("WHATSAPP_PROVIDER", ProviderTwilio)),

		TwilioAccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFrom:       os.Getenv("TWILIO_WHATSAPP_FROM"),
		WebhookPublicURL: os.Getenv("WEBHOOK_PUBLIC_URL"),

		UltraMsgInstanceID: os.Getenv("ULTRAMSG_INSTANCE_ID"),
		UltraMsgToken:      os.Getenv("ULTRAMSG_TOKEN"),
		UltraMsgBaseURL:    getEnv("ULTRAMSG_BASE_URL", services.DefaultUltraMsgBaseURL),

		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   getEnv("OPENAI_MODEL", services.DefaultOpenAIModel),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),

		OperatorPhone: os.Getenv("OPERATOR_PHONE"),
		KaspiPayLink:  getEnv("KASPI_PAY_LINK", services.DefaultKaspiPayLink),
		MenuFile:      os.Getenv("MENU_FILE"),
		AdminToken:    os.Getenv("ADMIN_TOKEN"),

		Database: DatabaseConfig{
			Host:                   getEnv("DB_HOST", "localhost"),
			Port:                   getEnv("DB_PORT", "5432"),
			User:                   getEnv("DB_USER", "postgres"),
			Password:               os.Getenv("DB_PASS"),
			Name:                   getEnv("DB_NAME", "orderbot"),
			InstanceConnectionName: os.Getenv("INSTANCE_CONNECTION_NAME"),
		},
	}

	cfg.DisableWebhookValidation = parseBool("DISABLE_WEBHOOK_VALIDATION", false, &errs)
	cfg.UseMemoryStore = parseBool("USE_MEMORY_STORE", false, &errs)
	cfg.RestartOnDone = parseBool("RESTART_ON_DONE", true, &errs)
	cfg.DeliveryFee = int64(parseInt("DELIVERY_PRICE", services.DefaultDeliveryFee, &errs))
	cfg.ConversationWindow = parseInt("CONVERSATION_WINDOW", services.DefaultWindowSize, &errs)
	cfg.DedupCapacity = parseInt("DEDUP_CAPACITY", dedup.DefaultCapacity, &errs)
	cfg.AITimeout = parseDuration("AI_TIMEOUT", services.DefaultAITimeout, &errs)
	cfg.SendTimeout = parseDuration("SEND_TIMEOUT", services.DefaultSendTimeout, &errs)
	cfg.ReminderAfter = parseDuration("PAYMENT_REMINDER_AFTER", 15*time.Minute, &errs)
	cfg.ReminderInterval = parseDuration("PAYMENT_REMINDER_INTERVAL", time.Minute, &errs)

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports missing or inconsistent settings
func (c *Config) Validate() error {
	var errs []error

	if c.OperatorPhone == "" {
		errs = append(errs, errors.New("OPERATOR_PHONE is required"))
	}
	if c.DeliveryFee < 0 {
		errs = append(errs, errors.New("DELIVERY_PRICE must not be negative"))
	}

	switch c.Provider {
	case ProviderTwilio:
		if c.TwilioAccountSID == "" || c.TwilioAuthToken == "" || c.TwilioFrom == "" {
			errs = append(errs, errors.New("TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and TWILIO_WHATSAPP_FROM are required for the twilio provider"))
		}
	case ProviderUltraMsg:
		if c.UltraMsgInstanceID == "" || c.UltraMsgToken == "" {
			errs = append(errs, errors.New("ULTRAMSG_INSTANCE_ID and ULTRAMSG_TOKEN are required for the ultramsg provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown WHATSAPP_PROVIDER %q", c.Provider))
	}

	if c.ConversationWindow < 1 {
		errs = append(errs, errors.New("CONVERSATION_WINDOW must be at least 1"))
	}
	if c.DedupCapacity < 1 {
		errs = append(errs, errors.New("DEDUP_CAPACITY must be at least 1"))
	}
	if c.ReminderInterval <= 0 {
		errs = append(errs, errors.New("PAYMENT_REMINDER_INTERVAL must be positive"))
	}

	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBool(key string, fallback bool, errs *[]error) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return b
}

func parseInt(key string, fallback int, errs *[]error) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return n
}

func parseDuration(key string, fallback time.Duration, errs *[]error) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return d
}
