package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/smarttest/internal/config"
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/database"
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/events"
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/logging"
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/models"
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/repository"
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/repository/memory"
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/repository/postgres"
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/routes"
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/seed"
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/services"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Storage
	var (
		store        *repository.Store
		db           *gorm.DB
		pgLogHandler *logging.PGHandler
		ping         func(ctx context.Context) error
	)
	cleanupDone := make(chan struct{})

	switch cfg.StoreDriver {
	case config.StorePostgres:
		db, err = database.Connect(cfg.DSN())
		if err != nil {
			slog.Error("database connection failed", "error", err)
			os.Exit(1)
		}
		if err := database.Migrate(db); err != nil {
			slog.Error("migration failed", "error", err)
			os.Exit(1)
		}

		// PostgreSQL log handler (ERROR+ async batch)
		pgLogHandler = logging.NewPGHandler(db)
		slog.SetDefault(slog.New(logging.NewMultiHandler(logging.StdoutHandler(), pgLogHandler)))
		logging.StartCleanup(db, cfg.LogRetention, cleanupDone)

		store = postgres.NewStore(db)
		ping = func(ctx context.Context) error { return database.Ping(ctx, db) }
	default:
		slog.Warn("using in-memory store, data is lost on restart")
		store = memory.NewStore()
	}

	// Audit events
	var publisher events.Publisher = events.Noop{}
	if cfg.NATSURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.NATSConnectWait)
		nc, err := events.Connect(ctx, cfg.NATSURL, cfg.AppName, cfg.NATSConnectWait)
		cancel()
		if err != nil {
			slog.Error("nats unavailable, audit events disabled", "error", err)
		} else {
			defer nc.Close()
			publisher = events.NewNATSPublisher(nc, cfg.NATSSubjectPrefix)
			slog.Info("audit events enabled", "subject_prefix", cfg.NATSSubjectPrefix)
		}
	}

	// Services
	policy := services.RolePolicy{
		AdminEmails: cfg.AdminEmails,
		DefaultRole: models.Role(cfg.DefaultRoleForNewUsers),
	}
	auditService := services.NewAuditService(store.AuditLogs, publisher)
	userService := services.NewUserService(store, auditService, policy.DefaultRole)
	macroareaService := services.NewMacroareaService(store, auditService)
	testService := services.NewTestService(store, auditService)
	taskService := services.NewTaskService(store, auditService)
	identityService := services.NewIdentityService(userService, policy)

	var verifier services.IDTokenVerifier
	if cfg.OIDCIssuer != "" {
		verifier = services.NewOIDCVerifier(cfg.OIDCIssuer, cfg.OIDCAudience, cfg.OIDCJWKSURL)
	} else {
		slog.Info("OIDC_ISSUER not set, provider callback disabled")
	}
	authService := services.NewAuthService(userService, identityService, verifier, services.AuthConfig{
		JWTSecret:    cfg.JWTSecret,
		TokenExpiry:  cfg.JWTExpiry,
		ProviderName: cfg.OIDCProviderName,
		LocalEnabled: cfg.LocalAuthEnabled,
	})

	if cfg.DevRoleOverrideAllowed() {
		slog.Warn("development role override enabled", "header", middleware.DevRoleHeader)
	}

	if cfg.SeedDemoData {
		if _, err := seed.Run(context.Background(), seed.Services{
			Users:      userService,
			Macroareas: macroareaService,
			Tests:      testService,
			Tasks:      taskService,
		}, seed.Options{Password: cfg.SeedDemoPassword}); err != nil {
			slog.Error("demo seed failed", "error", err)
		}
	}

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg.CORSOrigins))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	// Routes
	routes.Setup(app, cfg, authService, userService, policy, routes.Handlers{
		Auth:       handlers.NewAuthHandler(authService),
		Health:     handlers.NewHealthHandler(cfg.StoreDriver, ping),
		Users:      handlers.NewUserHandler(userService),
		Macroareas: handlers.NewMacroareaHandler(macroareaService),
		Tests:      handlers.NewTestHandler(testService, taskService),
		Tasks:      handlers.NewTaskHandler(taskService),
		Audit:      handlers.NewAuditHandler(auditService),
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "store", cfg.StoreDriver)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	close(cleanupDone)
	if pgLogHandler != nil {
		pgLogHandler.Stop()
	}
	sentry.Flush(2 * time.Second)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if db != nil {
		if err := database.Close(db); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.ErrorContext(c.UserContext(), "unhandled server error",
			"method", c.Method(),
			"path", c.Path(),
			"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
			"error", err.Error(),
		)
		if hub := sentryfiber.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		}
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
