// Command spoon is the Lambda function proxying the spoonacular API.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"

	"github.com/seshat-app/ingredients/backend/config"
	"github.com/seshat-app/ingredients/backend/internal/api"
	"github.com/seshat-app/ingredients/backend/internal/database"
	"github.com/seshat-app/ingredients/backend/internal/logging"
	"github.com/seshat-app/ingredients/backend/internal/service"
	"github.com/seshat-app/ingredients/backend/internal/spoon"
)

var version = "dev"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logging.SetDefaultStructuredLogger("spoon", version, cfg.LogLevel)

	if err := config.RequireSpoonCredentials(cfg); err != nil {
		slog.Error("missing spoonacular credentials", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	if cfg.SpoonAPIKey == "" {
		awsCfg, err := config.LoadAWSConfig(ctx, cfg.SpoonLambdaRegion)
		if err != nil {
			slog.Error("failed to configure secrets client", "error", err)
			os.Exit(1)
		}
		if err := config.ResolveSpoonAPIKey(ctx, cfg, secretsmanager.NewFromConfig(awsCfg)); err != nil {
			slog.Error("failed to resolve spoonacular key", "error", err)
			os.Exit(1)
		}
	}

	nutrition := service.NewNutritionService(spoon.NewClient(cfg.SpoonAPIURL, cfg.SpoonAPIKey), newCache(cfg), cfg.NutritionCacheTTL)
	handler := api.NewNutritionHandler(nutrition, slog.Default())

	slog.Info("starting spoon function", "api", cfg.SpoonAPIURL)
	lambda.Start(handler.Handle)
}

// newCache returns the Redis lookup cache, or nil when Redis is not
// configured or unreachable
func newCache(cfg *config.Config) service.Cache {
	client, err := database.NewRedisClient(cfg)
	if err != nil {
		slog.Warn("nutrition cache disabled", "error", err)
		return nil
	}
	if client == nil {
		return nil
	}
	return service.NewRedisCache(client)
}
