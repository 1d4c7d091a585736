// Package config loads runtime settings from .env and the environment.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port        string `mapstructure:"PORT"`
	GinMode     string `mapstructure:"GIN_MODE"`
	StoreDriver string `mapstructure:"STORE_DRIVER"`
	DSN         string `mapstructure:"DB_DSN_PRIMARY"`

	JWTSecret  string        `mapstructure:"JWT_SECRET"`
	JWTTTL     time.Duration `mapstructure:"JWT_TTL"`
	CORSOrigin string        `mapstructure:"CORS_ORIGIN"`

	RedisAddr       string        `mapstructure:"REDIS_ADDR"`
	RedisPassword   string        `mapstructure:"REDIS_PASSWORD"`
	CatalogCacheTTL time.Duration `mapstructure:"CATALOG_CACHE_TTL"`

	KafkaBrokers   string        `mapstructure:"KAFKA_BROKERS"`
	OutboxTopic    string        `mapstructure:"OUTBOX_TOPIC"`
	OutboxInterval time.Duration `mapstructure:"OUTBOX_INTERVAL"`

	PaymentProvider    string        `mapstructure:"PAYMENT_PROVIDER"`
	PaymentTimeout     time.Duration `mapstructure:"PAYMENT_TIMEOUT"`
	PaymentBreakerOpen time.Duration `mapstructure:"PAYMENT_BREAKER_OPEN"`
	SandboxDeclineOver int64         `mapstructure:"SANDBOX_DECLINE_OVER"`
	StripeSecretKey    string        `mapstructure:"STRIPE_SECRET_KEY"`
	StripeSuccessURL   string        `mapstructure:"STRIPE_SUCCESS_URL"`
	StripeCancelURL    string        `mapstructure:"STRIPE_CANCEL_URL"`
	StripeCurrency     string        `mapstructure:"STRIPE_CURRENCY"`
}

const (
	DriverMySQL  = "mysql"
	DriverMemory = "memory"

	ProviderSandbox = "sandbox"
	ProviderStripe  = "stripe"
)

var defaults = map[string]any{
	"PORT":                 "8080",
	"GIN_MODE":             "debug",
	"STORE_DRIVER":         DriverMySQL,
	"DB_DSN_PRIMARY":       "",
	"JWT_SECRET":           "",
	"JWT_TTL":              "72h",
	"CORS_ORIGIN":          "http://localhost:5173",
	"REDIS_ADDR":           "",
	"REDIS_PASSWORD":       "",
	"CATALOG_CACHE_TTL":    "5m",
	"KAFKA_BROKERS":        "",
	"OUTBOX_TOPIC":         "storefront.orders",
	"OUTBOX_INTERVAL":      "2s",
	"PAYMENT_PROVIDER":     ProviderSandbox,
	"PAYMENT_TIMEOUT":      "10s",
	"PAYMENT_BREAKER_OPEN": "30s",
	"SANDBOX_DECLINE_OVER": 0,
	"STRIPE_SECRET_KEY":    "",
	"STRIPE_SUCCESS_URL":   "",
	"STRIPE_CANCEL_URL":    "",
	"STRIPE_CURRENCY":      "usd",
}

// Load reads .env when present, then the process environment, which wins.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("WARNING: could not load .env file: %v", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects combinations the server cannot start with.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverMySQL:
		if c.DSN == "" {
			return errors.New("config: DB_DSN_PRIMARY is required for the mysql store")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.StoreDriver)
	}

	if len(c.JWTSecret) < 16 {
		return errors.New("config: JWT_SECRET must be at least 16 characters")
	}

	switch c.PaymentProvider {
	case ProviderSandbox:
	case ProviderStripe:
		if c.StripeSecretKey == "" || c.StripeSuccessURL == "" || c.StripeCancelURL == "" {
			return errors.New("config: stripe needs STRIPE_SECRET_KEY, STRIPE_SUCCESS_URL and STRIPE_CANCEL_URL")
		}
	default:
		return fmt.Errorf("config: unknown PAYMENT_PROVIDER %q", c.PaymentProvider)
	}
	return nil
}
