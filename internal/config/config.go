package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Store backends
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendSupabase = "supabase"
)

// DefaultMaxBodyBytes matches the 10MB request limit evidence uploads are sized for
const DefaultMaxBodyBytes int64 = 10 << 20

// DefaultLoginRateLimit is the number of admin login attempts allowed per client per minute
const DefaultLoginRateLimit = 10

// Config holds all configuration values for the application
type Config struct {
	Port        string
	LogLevel    string
	Environment string

	StoreBackend string
	DataFile     string
	DatabaseURL  string

	SupabaseURL         string
	SupabaseServiceRole string

	RedisURL string

	AdminUser     string
	AdminPassword string
	AdminToken    string
	JWTSecret     string

	MaxBodyBytes int64

	LoginRateLimit int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:                getEnv("PORT", "8080"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		Environment:         getEnv("ENVIRONMENT", "production"),
		StoreBackend:        strings.ToLower(getEnv("STORE_BACKEND", BackendFile)),
		DataFile:            getEnv("DATA_FILE", "data/placar.json"),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		SupabaseURL:         strings.TrimRight(getEnv("SUPABASE_URL", ""), "/"),
		SupabaseServiceRole: getEnv("SUPABASE_SERVICE_ROLE", ""),
		RedisURL:            getEnv("REDIS_URL", ""),
		AdminUser:           getEnv("ADMIN_USER", ""),
		AdminPassword:       getEnv("ADMIN_PASSWORD", ""),
		AdminToken:          getEnv("ADMIN_TOKEN", ""),
		JWTSecret:           getEnv("JWT_SECRET", ""),
		MaxBodyBytes:        getInt64Env("MAX_BODY_BYTES", DefaultMaxBodyBytes),
		LoginRateLimit:      int(getInt64Env("LOGIN_RATE_LIMIT", DefaultLoginRateLimit)),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every setting the selected backend needs is present
func (c *Config) Validate() error {
	if c.AdminUser == "" || c.AdminPassword == "" || c.AdminToken == "" {
		return fmt.Errorf("ADMIN_USER, ADMIN_PASSWORD and ADMIN_TOKEN are required")
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("MAX_BODY_BYTES must be positive")
	}
	if c.LoginRateLimit <= 0 {
		return fmt.Errorf("LOGIN_RATE_LIMIT must be positive")
	}

	switch c.StoreBackend {
	case BackendFile:
		if c.DataFile == "" {
			return fmt.Errorf("DATA_FILE is required for the file backend")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres backend")
		}
	case BackendSupabase:
		if c.SupabaseURL == "" || c.SupabaseServiceRole == "" {
			return fmt.Errorf("SUPABASE_URL and SUPABASE_SERVICE_ROLE are required for the supabase backend")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	return nil
}

// IsDevelopment reports whether the service runs outside production
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "local"
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getInt64Env gets an integer environment variable with a fallback value
func getInt64Env(key string, fallback int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return fallback
}
