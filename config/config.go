package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration. DBDriver is "postgres" or "sqlite";
	// DBPath is only read for sqlite.
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBPath     string

	MigrationsDir string

	// Redis configuration. Redis is optional: with no host and no URL the
	// recipe creation rate limiter is disabled.
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string
	TokenTTL  time.Duration

	// Logging
	LogLevel  string
	LogFormat string

	CORSOrigins []string

	// Listing and export
	PageSize             int
	MaxPageSize          int
	ShoppingListFilename string

	RecipeCreateLimit int
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := &Config{}

	switch env {
	case CI:
		if err := loadCIConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to load CI configuration: %w", err)
		}
	case Development, Test:
		if err := loadDevConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to load development configuration: %w", err)
		}
	case Production:
		if err := loadProdConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to load production configuration: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadCIConfig reads environment variables only
func loadCIConfig(cfg *Config) error {
	loadCommon(cfg, os.Getenv)

	cfg.DBPassword = firstNonEmpty(os.Getenv("DB_PASSWORD"), os.Getenv("TEST_DB_PASSWORD"))
	if cfg.DBPassword == "" && cfg.DBDriver == "postgres" {
		return fmt.Errorf("DB_PASSWORD environment variable is required in CI environment")
	}
	cfg.JWTSecret = firstNonEmpty(os.Getenv("JWT_SECRET"), os.Getenv("TEST_JWT_SECRET"))
	cfg.RedisPassword = firstNonEmpty(os.Getenv("REDIS_PASSWORD"), os.Getenv("TEST_REDIS_PASSWORD"))
	cfg.RedisURL = firstNonEmpty(os.Getenv("REDIS_URL"), os.Getenv("TEST_REDIS_URL"))

	return nil
}

// loadDevConfig loads an optional .env file, then environment variables,
// then Docker secrets for anything still unset
func loadDevConfig(cfg *Config) error {
	envFile := getEnv("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	lookup := func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return readSecret(strings.ToLower(key))
	}
	loadCommon(cfg, lookup)

	cfg.DBPassword = lookup("DB_PASSWORD")
	cfg.JWTSecret = lookup("JWT_SECRET")
	cfg.RedisPassword = lookup("REDIS_PASSWORD")
	cfg.RedisURL = lookup("REDIS_URL")

	return nil
}

// loadProdConfig prefers Docker secrets and falls back to environment variables
func loadProdConfig(cfg *Config) error {
	lookup := func(key string) string {
		if v := readSecret(strings.ToLower(key)); v != "" {
			return v
		}
		return os.Getenv(key)
	}
	loadCommon(cfg, lookup)

	cfg.DBPassword = lookup("DB_PASSWORD")
	cfg.JWTSecret = lookup("JWT_SECRET")
	cfg.RedisPassword = lookup("REDIS_PASSWORD")
	cfg.RedisURL = lookup("REDIS_URL")

	return nil
}

// loadCommon fills the non-sensitive fields, applying defaults.
func loadCommon(cfg *Config, lookup func(string) string) {
	get := func(key, def string) string {
		if v := lookup(key); v != "" {
			return v
		}
		return def
	}

	cfg.ServerPort = get("SERVER_PORT", "8080")
	cfg.ServerHost = get("SERVER_HOST", "0.0.0.0")

	cfg.DBDriver = strings.ToLower(get("DB_DRIVER", "postgres"))
	cfg.DBHost = get("DB_HOST", "localhost")
	cfg.DBPort = get("DB_PORT", "5432")
	cfg.DBUser = get("DB_USER", "postgres")
	cfg.DBName = get("DB_NAME", "foodgram")
	cfg.DBSSLMode = get("DB_SSL_MODE", "disable")
	cfg.DBPath = get("DB_PATH", "foodgram.db")
	cfg.MigrationsDir = get("MIGRATIONS_DIR", "migrations")

	cfg.RedisHost = lookup("REDIS_HOST")
	cfg.RedisPort = get("REDIS_PORT", "6379")
	cfg.RedisDB = getInt(lookup, "REDIS_DB", 0)

	cfg.TokenTTL = getDuration(lookup, "TOKEN_TTL", 24*time.Hour)
	cfg.LogLevel = get("LOG_LEVEL", "info")
	cfg.LogFormat = get("LOG_FORMAT", GetEnvironment().DefaultLogFormat())
	cfg.CORSOrigins = splitList(get("CORS_ORIGINS", "http://localhost:3000"))

	cfg.PageSize = getInt(lookup, "PAGE_SIZE", 6)
	cfg.MaxPageSize = getInt(lookup, "MAX_PAGE_SIZE", 100)
	cfg.ShoppingListFilename = get("SHOPPING_LIST_FILENAME", "shopping_list.txt")
	cfg.RecipeCreateLimit = getInt(lookup, "RECIPE_CREATE_LIMIT", 30)
}

// RedisEnabled reports whether a Redis endpoint was configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := getEnv("SECRETS_DIR", "/run/secrets")
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(lookup func(string) string, key string, def int) int {
	if v := lookup(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup func(string) string, key string, def time.Duration) time.Duration {
	if v := lookup(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
