package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found in one pass
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, v := range e {
		msgs = append(msgs, v.Error())
	}
	return strings.Join(msgs, "\n")
}

// ValidateConfig checks the values that every entry point depends on
func ValidateConfig(cfg *Config) error {
	var errs ValidationErrors

	switch cfg.StoreDriver {
	case StoreDynamoDB:
		if cfg.TableName == "" {
			errs = append(errs, ValidationError{"INGRS_TABLE_NAME", "is required for the dynamodb store"})
		}
	case StoreSQLite, StorePostgres:
		if IsLambda() {
			errs = append(errs, ValidationError{"STORE_DRIVER", "only dynamodb is supported inside Lambda"})
		}
		if cfg.DatabaseURL == "" {
			errs = append(errs, ValidationError{"DATABASE_URL", "is required for the " + cfg.StoreDriver + " store"})
		}
	default:
		errs = append(errs, ValidationError{"STORE_DRIVER", fmt.Sprintf("unknown driver %q", cfg.StoreDriver)})
	}

	if cfg.RateLimit <= 0 {
		errs = append(errs, ValidationError{"RATE_LIMIT", "must be positive"})
	}
	if cfg.RateLimitWindow <= 0 {
		errs = append(errs, ValidationError{"RATE_LIMIT_WINDOW", "must be positive"})
	}
	if cfg.NutritionCacheTTL < 0 {
		errs = append(errs, ValidationError{"NUTRITION_CACHE_TTL", "must not be negative"})
	}
	if !strings.HasPrefix(cfg.SpoonAPIURL, "http://") && !strings.HasPrefix(cfg.SpoonAPIURL, "https://") {
		errs = append(errs, ValidationError{"SPOON_API_URL", "must be an http(s) URL"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// RequireSpoonCredentials is checked by the entry points that call the
// upstream nutrition API directly.
func RequireSpoonCredentials(cfg *Config) error {
	if cfg.SpoonAPIKey == "" && cfg.SpoonAPIKeySecret == "" {
		return ValidationError{"SPOON_API_KEY", "SPOON_API_KEY or SPOON_API_KEY_SECRET must be set"}
	}
	return nil
}
