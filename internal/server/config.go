package server

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/philly/rolekeeper/internal/platform/logger"
	"github.com/spf13/viper"
)

// Audit delivery modes
const (
	AuditDeliverySync  = "sync"
	AuditDeliveryQueue = "queue"
)

type Config struct {
	DatabaseURL   string `mapstructure:"DATABASE_URL"`
	JWKSEndpoint  string `mapstructure:"JWKS_ENDPOINT"` // Generic JWKS endpoint for JWT validation
	JWTIssuer     string `mapstructure:"JWT_ISSUER"`    // Expected JWT issuer for validation
	ServerAddress string `mapstructure:"SERVER_ADDRESS"`
	Environment   string `mapstructure:"ENVIRONMENT"`
	LogLevel      string `mapstructure:"LOG_LEVEL"` // Logging level (debug, info, warn, error)

	// Redis backs the counts cache and the audit queue; empty disables both
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	AuditDelivery         string        `mapstructure:"AUDIT_DELIVERY"` // sync or queue
	AuditMaxRetries       int           `mapstructure:"AUDIT_MAX_RETRIES"`
	StoreRetryMaxAttempts int           `mapstructure:"STORE_RETRY_MAX_ATTEMPTS"`
	BulkConcurrency       int           `mapstructure:"BULK_CONCURRENCY"`
	BulkMaxTargets        int           `mapstructure:"BULK_MAX_TARGETS"`
	RoleCountsCacheTTL    time.Duration `mapstructure:"ROLE_COUNTS_CACHE_TTL"`
	SearchLimit           int           `mapstructure:"SEARCH_LIMIT"`
	RateLimitRPS          float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst        int           `mapstructure:"RATE_LIMIT_BURST"`
	WorkerConcurrency     int           `mapstructure:"WORKER_CONCURRENCY"`
}

var configDefaults = map[string]any{
	"DATABASE_URL":             "postgresql://localhost:5432/rolekeeper?sslmode=disable",
	"SERVER_ADDRESS":           ":8080",
	"ENVIRONMENT":              "development",
	"LOG_LEVEL":                "info",
	"REDIS_ADDR":               "",
	"REDIS_PASSWORD":           "",
	"REDIS_DB":                 0,
	"JWKS_ENDPOINT":            "",
	"JWT_ISSUER":               "",
	"AUDIT_DELIVERY":           AuditDeliverySync,
	"AUDIT_MAX_RETRIES":        5,
	"STORE_RETRY_MAX_ATTEMPTS": 3,
	"BULK_CONCURRENCY":         8,
	"BULK_MAX_TARGETS":         500,
	"ROLE_COUNTS_CACHE_TTL":    "30s",
	"SEARCH_LIMIT":             50,
	"RATE_LIMIT_RPS":           5.0,
	"RATE_LIMIT_BURST":         10,
	"WORKER_CONCURRENCY":       5,
}

func LoadConfig(bootstrapLogger *logger.BootstrapLogger) (Config, error) {
	ctx := context.Background()

	// Load .env file if it exists (godotenv will find it automatically)
	// It's okay if the file doesn't exist - we'll use environment variables
	if err := godotenv.Load(); err != nil {
		bootstrapLogger.Info(ctx, "no .env file found, using environment variables only")
	} else {
		bootstrapLogger.Info(ctx, "loaded .env file")
	}

	config, err := readConfig(viper.New())
	if err != nil {
		bootstrapLogger.Error(ctx, "failed to load configuration", "error", err)
		return Config{}, err
	}

	bootstrapLogger.Info(ctx, "configuration loaded",
		"environment", config.Environment,
		"log_level", config.LogLevel,
		"server_address", config.ServerAddress,
		"audit_delivery", config.AuditDelivery,
		"redis_enabled", config.RedisAddr != "",
	)
	return config, nil
}

// readConfig unmarshals the environment into Config and validates the
// settings every binary needs. API-only settings are checked by Validate.
func readConfig(v *viper.Viper) (Config, error) {
	for key, value := range configDefaults {
		v.SetDefault(key, value)
	}

	// Viper will now see all environment variables, including those loaded by godotenv
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	config.AuditDelivery = strings.ToLower(strings.TrimSpace(config.AuditDelivery))
	if err := config.validateCommon(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func (c Config) validateCommon() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	switch c.AuditDelivery {
	case AuditDeliverySync:
	case AuditDeliveryQueue:
		if c.RedisAddr == "" {
			return errors.New("AUDIT_DELIVERY=queue requires REDIS_ADDR")
		}
	default:
		return fmt.Errorf("AUDIT_DELIVERY must be %q or %q, got %q", AuditDeliverySync, AuditDeliveryQueue, c.AuditDelivery)
	}
	if c.BulkConcurrency <= 0 {
		return errors.New("BULK_CONCURRENCY must be positive")
	}
	if c.BulkMaxTargets <= 0 {
		return errors.New("BULK_MAX_TARGETS must be positive")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	return nil
}

// ValidateAPI checks the settings only the HTTP API needs.
func (c Config) ValidateAPI() error {
	if c.JWKSEndpoint == "" {
		return errors.New("JWKS_ENDPOINT is required")
	}
	if c.JWTIssuer == "" {
		return errors.New("JWT_ISSUER is required")
	}
	return nil
}
