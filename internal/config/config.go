package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds environment-driven configuration.
type Config struct {
	Addr        string
	Env         string
	LogLevel    string
	Storage     string
	DatabaseURL string

	JWTSecret         string
	AdminEmail        string
	AdminPasswordHash string

	CategoryCacheTTL time.Duration
}

// IsProduction reports whether APP_ENV selects production logging.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// UsesPostgres reports whether records live in Postgres rather than memory.
func (c Config) UsesPostgres() bool {
	return c.Storage != "memory"
}

// Load reads configuration from a local .env file (when present) and then
// from environment variables.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Addr:              getenv("APP_ADDR", ":8080"),
		Env:               getenv("APP_ENV", "development"),
		LogLevel:          getenv("LOG_LEVEL", "info"),
		Storage:           strings.ToLower(getenv("STORAGE", "postgres")),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		AdminEmail:        strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL"))),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		CategoryCacheTTL:  time.Minute,
	}

	if v := os.Getenv("CATEGORY_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.CategoryCacheTTL = d
		}
	}

	return cfg
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
