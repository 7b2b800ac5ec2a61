package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/biolinkbr/backend/internal/cache"
	"github.com/biolinkbr/backend/internal/config"
	"github.com/biolinkbr/backend/internal/database"
	"github.com/biolinkbr/backend/internal/handlers"
	"github.com/biolinkbr/backend/internal/logging"
	"github.com/biolinkbr/backend/internal/middleware"
	"github.com/biolinkbr/backend/internal/resolver"
	"github.com/biolinkbr/backend/internal/routes"
	"github.com/biolinkbr/backend/internal/services"
	"github.com/biolinkbr/backend/internal/store"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	if err := database.Migrate(); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		pgLogHandler,
	)))

	// Log cleanup (30-day retention)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cleanupDone)

	// Public view-model cache: Redis when configured, in-process LRU otherwise
	var profileCache cache.ProfileCache
	if cfg.RedisAddr != "" {
		redisCache, err := cache.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.PublicCacheTTL)
		if err != nil {
			slog.Error("redis connection failed", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		profileCache = redisCache
		slog.Info("public profile cache on redis", "addr", cfg.RedisAddr)
	} else {
		lruCache, err := cache.NewLRUStore(512, cfg.PublicCacheTTL)
		if err != nil {
			slog.Error("lru cache init failed", "error", err)
			os.Exit(1)
		}
		profileCache = lruCache
		slog.Info("public profile cache in process")
	}

	// Services
	dataStore := store.New(database.DB)
	accountResolver := resolver.New(dataStore, cfg.TrialDays)
	authService := services.NewAuthService(database.DB, cfg)
	profileService := services.NewProfileService(dataStore, profileCache)
	linkService := services.NewLinkService(dataStore, profileCache)
	planService := services.NewPlanService(dataStore)
	publicService := services.NewPublicService(dataStore, profileCache, cfg.PublicResolveTimeout)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, accountResolver)
	healthHandler := handlers.NewHealthHandler()
	profileHandler := handlers.NewProfileHandler(profileService)
	linkHandler := handlers.NewLinkHandler(linkService)
	planHandler := handlers.NewPlanHandler(planService)
	publicHandler := handlers.NewPublicHandler(publicService)

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      os.Getenv("APP_ENV"),
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    4 * 1024 * 1024,
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
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	// Routes
	routes.Setup(app, cfg, authHandler, healthHandler, profileHandler, linkHandler, planHandler, publicHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if err := profileCache.Close(); err != nil {
		slog.Error("cache close error", "error", err)
	}

	// Close database connections
	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
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
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
