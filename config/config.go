package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort     string
	ServerHost     string
	AllowedOrigins []string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration (optional; rate limiting and stats caching are
	// disabled when unset)
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// Identity provider configuration. When AuthIssuerURL is empty the
	// server falls back to HS256 tokens signed with AuthDevSecret, which is
	// only acceptable outside production.
	AuthIssuerURL string
	AuthClientID  string
	AuthDevSecret string

	// Upload provider configuration
	S3Bucket  string
	AWSRegion string
}

// LoadConfig creates a new Config instance with values from environment
// variables, falling back to Docker secret files for sensitive values.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerPort:     envOr("SERVER_PORT", "8080"),
		ServerHost:     envOr("SERVER_HOST", "0.0.0.0"),
		AllowedOrigins: strings.Split(envOr("CORS_ALLOWED_ORIGINS", "http://localhost:3000"), ","),

		DBHost:     envOr("DB_HOST", "localhost"),
		DBPort:     envOr("DB_PORT", "5432"),
		DBUser:     envOrSecret("DB_USER", "db_user"),
		DBPassword: envOrSecret("DB_PASSWORD", "db_password"),
		DBName:     envOr("DB_NAME", "tastytrove"),
		DBSSLMode:  envOr("DB_SSL_MODE", "disable"),

		RedisHost:     os.Getenv("REDIS_HOST"),
		RedisPort:     envOr("REDIS_PORT", "6379"),
		RedisPassword: envOrSecret("REDIS_PASSWORD", "redis_password"),
		RedisDB:       0,
		RedisURL:      os.Getenv("REDIS_URL"),

		AuthIssuerURL: os.Getenv("AUTH_ISSUER_URL"),
		AuthClientID:  os.Getenv("AUTH_CLIENT_ID"),
		AuthDevSecret: envOrSecret("AUTH_DEV_SECRET", "auth_dev_secret"),

		S3Bucket:  envOr("S3_BUCKET_NAME", "tastytrove-uploads"),
		AWSRegion: os.Getenv("AWS_REGION"),
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// envOr returns the environment variable value or a default.
func envOr(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

// envOrSecret prefers the environment variable and falls back to a Docker
// secret file of the given name.
func envOrSecret(envName, secretName string) string {
	if v := os.Getenv(envName); v != "" {
		return v
	}
	return readSecret(secretName)
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
