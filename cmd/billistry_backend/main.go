package main

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	portsrepo "github.com/SscSPs/billistry/internal/core/ports/repositories"
	"github.com/SscSPs/billistry/internal/core/services"
	"github.com/SscSPs/billistry/internal/handlers"
	"github.com/SscSPs/billistry/internal/middleware"
	"github.com/SscSPs/billistry/internal/platform/cache"
	"github.com/SscSPs/billistry/internal/platform/config"
	"github.com/SscSPs/billistry/internal/repositories/database/pgsql"
	"github.com/SscSPs/billistry/internal/repositories/memory"
	"github.com/SscSPs/billistry/internal/utils"
	"github.com/SscSPs/billistry/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func logLevel(raw string) slog.Level {
	switch strings.ToLower(raw) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// @title Billistry API
// @version 1.0
// @description Inventory, billing and subscriptions for small shops.

// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	var repos portsrepo.RepositoryProvider
	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		logger.Warn("Using in-process storage, data is lost on restart")
		repos = memory.NewRepositoryProvider(memory.NewStore())
		if _, err := services.SeedDefaultPlans(context.Background(), repos.SubscriptionRepo, "system", time.Now().UTC()); err != nil {
			logger.Error("Failed to seed subscription plans", slog.String("error", err.Error()))
			os.Exit(1)
		}
	default:
		dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer database.ClosePgxPool(dbPool)
		logger.Info("Database connection pool established.")

		logger.Info("Running database migrations...", slog.String("path", cfg.MigrationsPath))
		applied, err := database.MigrateUp(cfg.DatabaseURL, cfg.MigrationsPath)
		if err != nil {
			logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if applied {
			logger.Info("Database migrations applied successfully.")
		} else {
			logger.Info("No new migrations to apply.")
		}
		repos = pgsql.NewRepositoryProvider(dbPool)
	}

	printTokens := cache.NewPrintTokens(cfg.PrintCacheSize, cfg.PrintTokenTTL)
	serviceContainer := services.NewServiceContainer(cfg, repos, printTokens)

	loginLimiter, err := middleware.NewMemoryLimiter(cfg.LoginRateLimit)
	if err != nil {
		logger.Error("Invalid login rate limit", slog.String("rate", cfg.LoginRateLimit), slog.String("error", err.Error()))
		os.Exit(1)
	}

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, logger)
	defer posthogClient.Close()

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS, analytics)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", handlers.WebhookSignatureHeader},
		ExposeHeaders:    []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.PosthogMiddleware(posthogClient))

	err = r.SetTrustedProxies(nil)
	if err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, loginLimiter)

	logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("storage", cfg.StorageDriver))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
