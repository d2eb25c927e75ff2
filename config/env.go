package config

import (
	"os"
)

// Environment represents the current runtime environment
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	Lambda      Environment = "lambda"
	Production  Environment = "production"
)

// GetEnvironment determines the current environment
func GetEnvironment() Environment {
	// The Lambda runtime always sets the function name
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		return Lambda
	}

	switch env := os.Getenv("ENV"); env {
	case "production":
		return Production
	case "test":
		return Test
	default:
		return Development
	}
}

// IsDevelopment returns true if the current environment is development
func IsDevelopment() bool {
	return GetEnvironment() == Development
}

// IsLambda returns true when running inside the Lambda runtime
func IsLambda() bool {
	return GetEnvironment() == Lambda
}

// getEnv returns the value of key, or fallback when it is unset or blank.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
