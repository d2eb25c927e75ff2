package config

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// spoonSecretField is the JSON field of the spoonacular secret holding the key
const spoonSecretField = "api-key"

// SecretsAPI is the part of the Secrets Manager client used here
type SecretsAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// LoadAWSConfig loads the shared AWS configuration for region. The SDK retryer
// is disabled: a failed store or relay call surfaces to the caller as-is.
func LoadAWSConfig(ctx context.Context, region string) (aws.Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithRetryer(func() aws.Retryer { return aws.NopRetryer{} }),
	)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return awsCfg, nil
}

// ResolveSpoonAPIKey fills cfg.SpoonAPIKey from Secrets Manager when only the
// secret name is configured. An explicit SPOON_API_KEY always wins.
func ResolveSpoonAPIKey(ctx context.Context, cfg *Config, client SecretsAPI) error {
	if cfg.SpoonAPIKey != "" || cfg.SpoonAPIKeySecret == "" {
		return nil
	}

	out, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(cfg.SpoonAPIKeySecret),
	})
	if err != nil {
		return fmt.Errorf("failed to read secret %s: %w", cfg.SpoonAPIKeySecret, err)
	}
	if out.SecretString == nil {
		return fmt.Errorf("secret %s has no string value", cfg.SpoonAPIKeySecret)
	}

	var fields map[string]string
	if err := json.Unmarshal([]byte(*out.SecretString), &fields); err != nil {
		// plain-text secrets hold the key itself
		cfg.SpoonAPIKey = strings.TrimSpace(*out.SecretString)
		return nil
	}
	key := strings.TrimSpace(fields[spoonSecretField])
	if key == "" {
		return fmt.Errorf("secret %s has no %q field", cfg.SpoonAPIKeySecret, spoonSecretField)
	}
	cfg.SpoonAPIKey = key
	return nil
}
