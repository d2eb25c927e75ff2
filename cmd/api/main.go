// Command api runs both functions behind one local HTTP server. The
// ingredients handler reaches the nutrition handler in-process instead of
// through Lambda.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/redis/go-redis/v9"

	"github.com/seshat-app/ingredients/backend/config"
	"github.com/seshat-app/ingredients/backend/internal/api"
	"github.com/seshat-app/ingredients/backend/internal/database"
	"github.com/seshat-app/ingredients/backend/internal/logging"
	"github.com/seshat-app/ingredients/backend/internal/middleware"
	"github.com/seshat-app/ingredients/backend/internal/relay"
	"github.com/seshat-app/ingredients/backend/internal/server"
	"github.com/seshat-app/ingredients/backend/internal/service"
	"github.com/seshat-app/ingredients/backend/internal/spoon"
	"github.com/seshat-app/ingredients/backend/internal/store"
)

var version = "dev"

func main() {
	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logging.SetDefaultStructuredLogger("api", version, cfg.LogLevel)
	logger := slog.Default()

	ctx := context.Background()
	s, closeStore, err := store.Open(ctx, cfg)
	if err != nil {
		logger.Error("failed to open store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	if err := resolveSpoonKey(ctx, cfg); err != nil {
		logger.Warn("spoonacular key unavailable, nutrition lookups will fail", "error", err)
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("redis unavailable, cache and rate limiting disabled", "error", err)
	}

	var cache service.Cache
	var limiter *middleware.RateLimiter
	if redisClient != nil {
		defer redisClient.Close()
		cache = service.NewRedisCache(redisClient)
		limiter = newLimiter(cfg, redisClient, logger)
	}

	nutrition := api.NewNutritionHandler(
		service.NewNutritionService(spoon.NewClient(cfg.SpoonAPIURL, cfg.SpoonAPIKey), cache, cfg.NutritionCacheTTL),
		logger,
	)
	invoker := relay.NewLocalInvoker(cfg.SpoonLambdaName, nutrition.Handle)
	ingredients := api.NewIngredientsHandler(s, service.NewEnrichmentService(invoker), logger)

	srv := server.New(cfg, ingredients, nutrition, limiter, logger)

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	// Channel to listen for an interrupt or terminate signal from the OS
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	case sig := <-quit:
		logger.Info("received signal", "signal", sig.String())
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func resolveSpoonKey(ctx context.Context, cfg *config.Config) error {
	if err := config.RequireSpoonCredentials(cfg); err != nil {
		return err
	}
	if cfg.SpoonAPIKey != "" {
		return nil
	}
	awsCfg, err := config.LoadAWSConfig(ctx, cfg.SpoonLambdaRegion)
	if err != nil {
		return err
	}
	return config.ResolveSpoonAPIKey(ctx, cfg, secretsmanager.NewFromConfig(awsCfg))
}

func newLimiter(cfg *config.Config, client *redis.Client, logger *slog.Logger) *middleware.RateLimiter {
	return middleware.NewRateLimiter(client, middleware.RateLimitConfig{
		Window: cfg.RateLimitWindow,
		Limit:  cfg.RateLimit,
	}, logger)
}
