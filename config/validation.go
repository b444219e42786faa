package config

import (
	"errors"
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

// ValidateConfig checks that the loaded configuration is usable
func ValidateConfig(cfg *Config) error {
	var errs []error

	if cfg.JWTSecret == "" {
		errs = append(errs, ValidationError{Field: "JWT_SECRET", Message: "is required"})
	}

	switch cfg.DBDriver {
	case "postgres":
		if cfg.DBPassword == "" && !IsTest() {
			errs = append(errs, ValidationError{Field: "DB_PASSWORD", Message: "is required for postgres"})
		}
		if cfg.DBHost == "" {
			errs = append(errs, ValidationError{Field: "DB_HOST", Message: "is required for postgres"})
		}
	case "sqlite":
		if cfg.DBPath == "" {
			errs = append(errs, ValidationError{Field: "DB_PATH", Message: "is required for sqlite"})
		}
	default:
		errs = append(errs, ValidationError{Field: "DB_DRIVER", Message: fmt.Sprintf("unsupported driver %q", cfg.DBDriver)})
	}

	if cfg.PageSize < 1 {
		errs = append(errs, ValidationError{Field: "PAGE_SIZE", Message: "must be positive"})
	}
	if cfg.MaxPageSize < cfg.PageSize {
		errs = append(errs, ValidationError{Field: "MAX_PAGE_SIZE", Message: "must not be smaller than PAGE_SIZE"})
	}
	if IsProduction() && cfg.LogFormat != "json" {
		errs = append(errs, ValidationError{Field: "LOG_FORMAT", Message: "must be json in production"})
	}

	return errors.Join(errs...)
}
