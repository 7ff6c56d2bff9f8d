package config

import (
	"fmt"
	"strings"
)

// ValidateConfig checks that the configuration is complete enough to boot in
// the current environment.
func ValidateConfig(cfg *Config) error {
	var errors []string

	if cfg.DBHost == "" {
		errors = append(errors, "DB_HOST is required")
	}
	if cfg.DBUser == "" {
		errors = append(errors, "DB_USER (or db_user secret) is required")
	}
	if cfg.DBName == "" {
		errors = append(errors, "DB_NAME is required")
	}

	env := GetEnvironment()
	if env == Production {
		if cfg.DBPassword == "" {
			errors = append(errors, "DB_PASSWORD (or db_password secret) is required in production")
		}
		if cfg.AuthIssuerURL == "" {
			errors = append(errors, "AUTH_ISSUER_URL is required in production; the dev token secret is not accepted")
		}
		if cfg.AuthIssuerURL != "" && cfg.AuthClientID == "" {
			errors = append(errors, "AUTH_CLIENT_ID is required when AUTH_ISSUER_URL is set")
		}
	} else if cfg.AuthIssuerURL == "" && cfg.AuthDevSecret == "" {
		errors = append(errors, "either AUTH_ISSUER_URL or AUTH_DEV_SECRET must be set")
	}

	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, "\n"))
	}

	return nil
}
