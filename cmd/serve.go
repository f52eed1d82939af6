package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/alidoner/orderbot/database"
	"github.com/alidoner/orderbot/internal/config"
	"github.com/alidoner/orderbot/internal/handlers"
	"github.com/alidoner/orderbot/internal/jobs"
	"github.com/alidoner/orderbot/internal/metrics"
	"github.com/alidoner/orderbot/internal/routes"
	"github.com/alidoner/orderbot/internal/services"
	"github.com/alidoner/orderbot/internal/storage"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the webhook server",
		Long: `Start the HTTP server that receives WhatsApp webhooks.

Configuration is read from the environment (and .env for local
development). OPERATOR_PHONE and the credentials of the selected
WHATSAPP_PROVIDER are required.`,
		RunE: runServe,
	}
}

func runServe(_ *cobra.Command, _ []string) error {
	config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	catalog, err := loadCatalog(cfg.MenuFile)
	if err != nil {
		return err
	}
	log.Printf("📋 Menu loaded: %d items", len(catalog.Items()))

	sessions := services.NewSessionManager(
		services.WithSeenCapacity(cfg.DedupCapacity),
		services.WithWindowSize(cfg.ConversationWindow),
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg, sessions.Count)

	notifier, ownNumber, err := newNotifier(cfg)
	if err != nil {
		return err
	}

	var ai services.AIResponder
	if cfg.OpenAIKey != "" {
		responder, err := services.NewOpenAIResponder(cfg.OpenAIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
		if err != nil {
			return fmt.Errorf("initializing AI responder: %w", err)
		}
		ai = responder
		log.Printf("✅ AI responder initialized (%s)", cfg.OpenAIModel)
	} else {
		log.Println("⚠️  OPENAI_API_KEY not set - consultation questions get a fallback reply")
	}

	payments, err := services.NewKaspiLinkGenerator(cfg.KaspiPayLink)
	if err != nil {
		return fmt.Errorf("initializing payment links: %w", err)
	}

	// Initialize storage
	var (
		orders storage.OrderStore
		pinger handlers.Pinger
	)
	if cfg.UseMemoryStore {
		log.Println("⚠️  Using in-memory order ledger (orders are lost on restart)")
		orders = storage.NewMemoryStore()
	} else {
		log.Println("📦 Connecting to PostgreSQL database...")
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return err
		}
		if err := database.Migrate(db); err != nil {
			return err
		}
		orders = storage.NewDatabaseStore(db)
		pinger = database.Pinger{DB: db}
		log.Println("✅ Using PostgreSQL order ledger")
	}

	engine, err := services.NewOrderEngine(services.EngineConfig{
		Sessions:      sessions,
		Catalog:       catalog,
		Notifier:      notifier,
		AI:            ai,
		Payments:      payments,
		Orders:        orders,
		Metrics:       m,
		OperatorID:    cfg.OperatorPhone,
		DeliveryFee:   cfg.DeliveryFee,
		RestartOnDone: cfg.RestartOnDone,
		AITimeout:     cfg.AITimeout,
		SendTimeout:   cfg.SendTimeout,
	})
	if err != nil {
		return fmt.Errorf("initializing order engine: %w", err)
	}

	reminders := jobs.NewPaymentReminderJob(engine, cfg.ReminderAfter, cfg.ReminderInterval)
	reminders.Start(context.Background())

	log.Println("✅ All services initialized and scheduled jobs started")

	// Create fiber app
	app := fiber.New(fiber.Config{
		AppName: "Ali Doner order bot " + Version,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, OPTIONS",
	}))

	routes.SetupRoutes(app, cfg, routes.Handlers{
		WhatsApp: handlers.NewWhatsAppHandler(engine, ownNumber, 0),
		Health:   handlers.NewHealthHandler(Version, cfg.Provider, sessions, pinger, ai != nil),
		Admin:    handlers.NewAdminHandler(orders, sessions),
		Metrics:  reg,
	})

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("\n🛑 Gracefully shutting down...")
		log.Println("⏹️  Stopping payment reminders...")
		reminders.Stop()
		log.Println("⏹️  Shutting down server...")
		_ = app.Shutdown()
	}()

	// Start server
	log.Println("========================================")
	log.Printf("🚀 Order bot starting on port %s", cfg.Port)
	log.Printf("📱 WhatsApp provider: %s", cfg.Provider)
	log.Printf("🔐 Webhook validation: %v", cfg.ValidateWebhooks())
	if cfg.IsDevelopment() {
		log.Println("🧪 Test endpoint: POST /test/whatsapp")
	}
	log.Println("========================================")

	if err := app.Listen(":" + cfg.Port); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// newNotifier builds the outbound channel and returns the bot's own number
// for self-message detection.
func newNotifier(cfg *config.Config) (services.Notifier, string, error) {
	switch cfg.Provider {
	case config.ProviderUltraMsg:
		svc, err := services.NewUltraMsgService(cfg.UltraMsgBaseURL, cfg.UltraMsgInstanceID, cfg.UltraMsgToken)
		if err != nil {
			return nil, "", fmt.Errorf("initializing UltraMsg: %w", err)
		}
		log.Println("✅ UltraMsg service initialized")
		return svc, "", nil
	default:
		svc, err := services.NewTwilioService(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFrom)
		if err != nil {
			return nil, "", fmt.Errorf("initializing Twilio: %w", err)
		}
		log.Println("✅ Twilio service initialized")
		return svc, svc.From(), nil
	}
}
