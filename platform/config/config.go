// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// RedisConfig provides settings for the Redis cache.
type RedisConfig interface {
	GetRedisURL() string
}

// DistanceAPIConfig provides settings for the distance-lookup collaborator.
type DistanceAPIConfig interface {
	GetDistanceAPIURL() string
	GetDistanceAPITimeout() time.Duration
	GetDistanceCacheTTL() time.Duration
	GetDistanceLookupRPS() float64
}

// Config holds all application settings loaded from the environment.
type Config struct {
	Env                string
	HTTPAddr           string
	DatabaseURL        string
	RedisURL           string
	CORSAllowAll       bool
	CORSOrigins        []string
	CORSAllowCreds     bool
	DistanceAPIURL     string
	DistanceAPITimeout time.Duration
	DistanceCacheTTL   time.Duration
	DistanceLookupRPS  float64
	PublicRateLimitRPS float64
	PublicRateBurst    int
}

// Load reads configuration from the environment, applying defaults and
// failing fast on settings the server cannot run without.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                getEnv("APP_ENV", "development"),
		HTTPAddr:           getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		RedisURL:           getEnv("REDIS_URL", ""),
		CORSAllowAll:       corsAllowAll,
		CORSOrigins:        corsOrigins,
		CORSAllowCreds:     strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		DistanceAPIURL:     getEnv("DISTANCE_API_URL", ""),
		DistanceAPITimeout: mustDuration(getEnv("DISTANCE_API_TIMEOUT", "5s")),
		DistanceCacheTTL:   mustDuration(getEnv("DISTANCE_CACHE_TTL", "10m")),
		DistanceLookupRPS:  getEnvFloat("DISTANCE_LOOKUP_RPS", 5),
		PublicRateLimitRPS: getEnvFloat("PUBLIC_RATE_LIMIT_RPS", 10),
		PublicRateBurst:    getEnvInt("PUBLIC_RATE_BURST", 20),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}

	return cfg, nil
}

// Interface implementations.

func (c *Config) GetDatabaseURL() string                 { return c.DatabaseURL }
func (c *Config) GetHTTPAddr() string                    { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool                  { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string               { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool                { return c.CORSAllowCreds }
func (c *Config) GetRedisURL() string                    { return c.RedisURL }
func (c *Config) GetDistanceAPIURL() string              { return c.DistanceAPIURL }
func (c *Config) GetDistanceAPITimeout() time.Duration   { return c.DistanceAPITimeout }
func (c *Config) GetDistanceCacheTTL() time.Duration     { return c.DistanceCacheTTL }
func (c *Config) GetDistanceLookupRPS() float64          { return c.DistanceLookupRPS }
