package config

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers understood by store.Open
const (
	StoreDynamoDB = "dynamodb"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

// Config holds all configuration for the ingredients services
type Config struct {
	// Server configuration (local HTTP server only)
	ServerPort string
	ServerHost string

	// Record store configuration
	StoreDriver      string
	TableName        string
	TableRegion      string
	DynamoDBEndpoint string
	DatabaseURL      string

	// Enrichment relay configuration
	SpoonLambdaName   string
	SpoonLambdaRegion string

	// Upstream nutrition API
	SpoonAPIURL       string
	SpoonAPIKey       string
	SpoonAPIKeySecret string

	// Redis configuration
	RedisURL          string
	NutritionCacheTTL time.Duration
	RateLimit         int
	RateLimitWindow   time.Duration

	CORSAllowedOrigins []string
	LogLevel           string
}

// LoadConfig creates a new Config instance with values from environment variables,
// falling back to the defaults the deployed stack uses.
func LoadConfig() (*Config, error) {
	if IsDevelopment() {
		// .env is optional; real environment variables win over it
		if err := godotenv.Load(); err == nil {
			slog.Debug("loaded .env file")
		}
	}

	cfg := &Config{
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		ServerHost:         getEnv("SERVER_HOST", "0.0.0.0"),
		StoreDriver:        strings.ToLower(getEnv("STORE_DRIVER", StoreDynamoDB)),
		TableName:          getEnv("INGRS_TABLE_NAME", "IngredientsDynamoDbTable"),
		TableRegion:        getEnv("INGRS_TABLE_REGION", "us-east-1"),
		DynamoDBEndpoint:   getEnv("DYNAMODB_ENDPOINT", ""),
		DatabaseURL:        getEnv("DATABASE_URL", "file:ingredients.db?cache=shared"),
		SpoonLambdaName:    getEnv("SPOON_LAMBDA_NAME", "IngredientsSpoonProxyLambdaFn"),
		SpoonLambdaRegion:  getEnv("SPOON_LAMBDA_REGION", "us-east-1"),
		SpoonAPIURL:        strings.TrimRight(getEnv("SPOON_API_URL", "https://api.spoonacular.com"), "/"),
		SpoonAPIKey:        strings.TrimSpace(getEnv("SPOON_API_KEY", "")),
		SpoonAPIKeySecret:  getEnv("SPOON_API_KEY_SECRET", ""),
		RedisURL:           getEnv("REDIS_URL", ""),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "https://csingrs.seshat.app,http://localhost:3000")),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.NutritionCacheTTL, err = time.ParseDuration(getEnv("NUTRITION_CACHE_TTL", "24h")); err != nil {
		return nil, fmt.Errorf("invalid NUTRITION_CACHE_TTL: %w", err)
	}
	if cfg.RateLimitWindow, err = time.ParseDuration(getEnv("RATE_LIMIT_WINDOW", "1m")); err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_WINDOW: %w", err)
	}
	if cfg.RateLimit, err = strconv.Atoi(getEnv("RATE_LIMIT", "120")); err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT: %w", err)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Addr returns the listen address of the local server
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
