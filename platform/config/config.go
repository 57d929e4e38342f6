// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// MongoConfig provides document store connection settings.
type MongoConfig interface {
	GetMongoURI() string
	GetMongoDatabase() string
}

// JWTConfig provides token signing settings.
type JWTConfig interface {
	GetJWTSecret() string
	GetTokenTTL() time.Duration
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSOrigins() []string
	GetMaxBodyBytes() int64
	IsDevelopment() bool
}

// AdminConfig provides the out-of-band admin credential triple.
type AdminConfig interface {
	GetAdminEmail() string
	GetAdminPassword() string
	GetAdminPasswordHash() string
	GetAdminCode() string
	GetAdminChallengeTTL() time.Duration
}

// RedisConfig provides the optional redis connection.
type RedisConfig interface {
	GetRedisURL() string
}

// SchedulerConfig provides settings for the booking expiry worker.
type SchedulerConfig interface {
	RedisConfig
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
	GetBookingExpiryCron() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values. It is written once by
// Load and only read afterwards.
type Config struct {
	Env               string
	HTTPAddr          string
	MongoURI          string
	MongoDatabase     string
	JWTSecret         string
	TokenTTL          time.Duration
	CORSOrigins       []string
	MaxBodyBytes      int64
	AdminEmail        string
	AdminPassword     string
	AdminPasswordHash string
	AdminCode         string
	AdminChallengeTTL time.Duration
	RedisURL          string
	AsynqQueueName    string
	AsynqConcurrency  int
	BookingExpiryCron string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// MongoConfig implementation
func (c *Config) GetMongoURI() string      { return c.MongoURI }
func (c *Config) GetMongoDatabase() string { return c.MongoDatabase }

// JWTConfig implementation
func (c *Config) GetJWTSecret() string        { return c.JWTSecret }
func (c *Config) GetTokenTTL() time.Duration { return c.TokenTTL }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetMaxBodyBytes() int64   { return c.MaxBodyBytes }
func (c *Config) IsDevelopment() bool      { return strings.EqualFold(c.Env, "development") }

// AdminConfig implementation
func (c *Config) GetAdminEmail() string               { return c.AdminEmail }
func (c *Config) GetAdminPassword() string            { return c.AdminPassword }
func (c *Config) GetAdminPasswordHash() string        { return c.AdminPasswordHash }
func (c *Config) GetAdminCode() string                { return c.AdminCode }
func (c *Config) GetAdminChallengeTTL() time.Duration { return c.AdminChallengeTTL }

// SchedulerConfig implementation
func (c *Config) GetRedisURL() string          { return c.RedisURL }
func (c *Config) GetAsynqQueueName() string    { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int     { return c.AsynqConcurrency }
func (c *Config) GetBookingExpiryCron() string { return c.BookingExpiryCron }

// Load reads configuration from environment variables, after loading a .env
// file when one is present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	httpAddr := getEnv("HTTP_ADDR", "")
	if httpAddr == "" {
		httpAddr = ":" + getEnv("PORT", "5000")
	}

	cfg := &Config{
		Env:               getEnv("APP_ENV", "development"),
		HTTPAddr:          httpAddr,
		MongoURI:          getEnv("MONGO_URI", ""),
		MongoDatabase:     getEnv("MONGO_DATABASE", "tourism"),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		TokenTTL:          mustDuration(getEnv("TOKEN_TTL", "168h")),
		CORSOrigins:       splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		MaxBodyBytes:      mustInt64(getEnv("MAX_BODY_BYTES", "10485760")),
		AdminEmail:        strings.TrimSpace(getEnv("ADMIN_EMAIL", "")),
		AdminPassword:     getEnv("ADMIN_PASSWORD", ""),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		AdminCode:         strings.TrimSpace(getEnv("ADMIN_CODE", "")),
		AdminChallengeTTL: mustDuration(getEnv("ADMIN_CHALLENGE_TTL", "5m")),
		RedisURL:          getEnv("REDIS_URL", ""),
		AsynqQueueName:    getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency:  int(mustInt64(getEnv("ASYNQ_CONCURRENCY", "5"))),
		BookingExpiryCron: getEnv("BOOKING_EXPIRY_CRON", "@hourly"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.MongoURI == "" {
		return fmt.Errorf("MONGO_URI is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be a positive duration")
	}
	if c.AdminEmail == "" || (c.AdminPassword == "" && c.AdminPasswordHash == "") {
		return fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD (or ADMIN_PASSWORD_HASH) are required")
	}
	if !isEightDigits(c.AdminCode) {
		return fmt.Errorf("ADMIN_CODE must be exactly 8 digits")
	}
	if c.AdminChallengeTTL <= 0 {
		return fmt.Errorf("ADMIN_CHALLENGE_TTL must be a positive duration")
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("MAX_BODY_BYTES must be positive")
	}
	for _, origin := range c.CORSOrigins {
		if origin == "*" {
			return fmt.Errorf("CORS_ORIGINS cannot contain * because credentials are enabled")
		}
	}
	return nil
}

func isEightDigits(value string) bool {
	if len(value) != 8 {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt64(value string) int64 {
	result, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}
