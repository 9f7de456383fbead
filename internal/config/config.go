// Package config handles loading application configuration from environment
// variables. All config is centralized here so no other package reads env
// vars directly. Sensible defaults are provided for development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration. Populated from environment
// variables at startup. Passed to other packages via dependency injection.
type Config struct {
	// Env is the runtime environment: "development" or "production".
	Env string

	// Port is the HTTP listen port (default: 8080).
	Port int

	// BaseURL is the public-facing URL used for CORS and redirects.
	BaseURL string

	// LogLevel controls log verbosity: "debug", "info", "warn", "error".
	LogLevel string

	// Redis holds Redis connection settings.
	Redis RedisConfig

	// CMS holds the headless CMS endpoint settings.
	CMS CMSConfig

	// Session holds session token settings.
	Session SessionConfig

	// Cache holds garment cache settings.
	Cache CacheConfig
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	// URL is the Redis connection URL (e.g., "redis://localhost:6379").
	URL string
}

// CMSConfig holds the headless CMS GraphQL endpoint settings.
type CMSConfig struct {
	// Endpoint is the GraphQL URL of the CMS (e.g., "https://cms.example.com/api/graphql").
	Endpoint string

	// Token is an optional bearer token for the CMS API.
	Token string

	// Timeout bounds a single CMS request round-trip.
	Timeout time.Duration
}

// SessionConfig holds session token settings.
type SessionConfig struct {
	// SecretKey signs session tokens (HMAC, must be 32+ characters in production).
	SecretKey string

	// TTL is how long an issued session is valid. The research-mode contract
	// fixes this at 7 days; it is configurable only for tests and staging.
	TTL time.Duration
}

// CacheConfig holds garment cache settings.
type CacheConfig struct {
	// GarmentTTL is the revalidation window for the cached garment list.
	GarmentTTL time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
// Returns an error if required variables are missing.
func Load() (*Config, error) {
	cfg := &Config{
		Env:      getEnv("ENV", "development"),
		Port:     getEnvInt("PORT", 8080),
		BaseURL:  getEnv("BASE_URL", "http://localhost:8080"),
		LogLevel: getEnv("LOG_LEVEL", "debug"),

		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", "redis://localhost:6379"),
		},

		CMS: CMSConfig{
			Endpoint: getEnv("CMS_ENDPOINT", "http://localhost:3001/api/graphql"),
			Token:    getEnv("CMS_TOKEN", ""),
			Timeout:  getEnvDuration("CMS_TIMEOUT", 10*time.Second),
		},

		Session: SessionConfig{
			SecretKey: getEnv("SECRET_KEY", ""),
			TTL:       getEnvDuration("SESSION_TTL", 168*time.Hour),
		},

		Cache: CacheConfig{
			GarmentTTL: getEnvDuration("GARMENT_CACHE_TTL", 5*time.Minute),
		},
	}

	// Validate required fields in production. Case-insensitive check catches
	// common variants like "Production", "prod", etc.
	envLower := strings.ToLower(cfg.Env)
	if envLower == "production" || envLower == "prod" {
		if cfg.Session.SecretKey == "" {
			return nil, fmt.Errorf("SECRET_KEY is required in production")
		}
		if len(cfg.Session.SecretKey) < 32 {
			return nil, fmt.Errorf("SECRET_KEY must be at least 32 characters in production")
		}
		if cfg.CMS.Endpoint == "" {
			return nil, fmt.Errorf("CMS_ENDPOINT is required in production")
		}
	}

	// Provide a dev-only default secret so local dev works without .env.
	if cfg.Session.SecretKey == "" {
		cfg.Session.SecretKey = "dev-secret-key-do-not-use-in-production!!"
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Env)
	return env == "development" || env == "dev"
}

// --- Helper functions for reading environment variables ---

// getEnv reads a string env var or returns the default.
func getEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return defaultVal
}

// getEnvInt reads an integer env var or returns the default.
func getEnvInt(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// getEnvDuration reads a duration env var (e.g., "168h") or returns the default.
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
