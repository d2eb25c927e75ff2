// Command ingredients is the Lambda function serving the ingredient CRUD
// routes behind API Gateway.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/seshat-app/ingredients/backend/config"
	"github.com/seshat-app/ingredients/backend/internal/api"
	"github.com/seshat-app/ingredients/backend/internal/logging"
	"github.com/seshat-app/ingredients/backend/internal/relay"
	"github.com/seshat-app/ingredients/backend/internal/service"
	"github.com/seshat-app/ingredients/backend/internal/store"
)

var version = "dev"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logging.SetDefaultStructuredLogger("ingredients", version, cfg.LogLevel)

	ctx := context.Background()
	s, closeStore, err := store.Open(ctx, cfg)
	if err != nil {
		slog.Error("failed to open store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	awsCfg, err := config.LoadAWSConfig(ctx, cfg.SpoonLambdaRegion)
	if err != nil {
		slog.Error("failed to configure relay", "error", err)
		os.Exit(1)
	}
	invoker := relay.NewLambdaInvoker(relay.NewLambdaClient(awsCfg), cfg.SpoonLambdaName)

	handler := api.NewIngredientsHandler(s, service.NewEnrichmentService(invoker), slog.Default())
	slog.Info("starting ingredients function",
		"table", cfg.TableName,
		"table_region", cfg.TableRegion,
		"relay", cfg.SpoonLambdaName,
	)
	lambda.Start(handler.Handle)
}
