package config

import (
	"fmt"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that the configuration is usable in the current
// environment. Production refuses to start without a JWT secret and a
// database password; development and test fill in safe defaults.
func ValidateConfig(cfg *Config) error {
	if cfg.ServerPort == "" {
		return ValidationError{Field: "ServerPort", Message: "server port is required"}
	}

	if IsProduction() {
		if cfg.JWTSecret == "" {
			return ValidationError{Field: "JWTSecret", Message: "JWT_SECRET is required in production"}
		}
		if cfg.DBPassword == "" {
			return ValidationError{Field: "DBPassword", Message: "DB_PASSWORD is required in production"}
		}
		if cfg.DBSSLMode == "disable" {
			return ValidationError{Field: "DBSSLMode", Message: "SSL must not be disabled in production"}
		}
		return nil
	}

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "dev-secret"
	}

	return nil
}
