package config

import (
	"fmt"

	pkgconfig "github.com/verdantleaf/storefront/pkg/config"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"STOREFRONT_HTTP_PORT" envDefault:"8010"`

	// Redis (cart storage)
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Cart TTL in hours (default: 7 days)
	CartTTL int `env:"CART_TTL_HOURS" envDefault:"168"`

	// Checkout session TTL in minutes
	CheckoutTTL int `env:"CHECKOUT_TTL_MINUTES" envDefault:"30"`

	// Kafka
	KafkaBrokers  []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`
	ConsumerGroup string   `env:"KAFKA_CONSUMER_GROUP" envDefault:"storefront"`

	// Downstream services
	ProfileServiceURL  string `env:"PROFILE_SERVICE_URL" envDefault:"http://localhost:8005"`
	SettingsServiceURL string `env:"SETTINGS_SERVICE_URL" envDefault:"http://localhost:8006"`
	OrderServiceURL    string `env:"ORDER_SERVICE_URL" envDefault:"http://localhost:8004"`

	// Circuit breaker
	CBMaxRequests uint32 `env:"CB_MAX_REQUESTS" envDefault:"3"`
	CBIntervalSec int    `env:"CB_INTERVAL_SECONDS" envDefault:"60"`
	CBTimeoutSec  int    `env:"CB_TIMEOUT_SECONDS" envDefault:"30"`

	// Tracing
	TracingEnabled  bool    `env:"OTEL_TRACING_ENABLED" envDefault:"false"`
	TracingEndpoint string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	TracingSample   float64 `env:"OTEL_TRACE_SAMPLE_RATIO" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.CartTTL < 1 {
		return fmt.Errorf("invalid cart TTL: %d", c.CartTTL)
	}
	if c.CheckoutTTL < 1 {
		return fmt.Errorf("invalid checkout TTL: %d", c.CheckoutTTL)
	}
	if c.TracingSample < 0 || c.TracingSample > 1 {
		return fmt.Errorf("invalid trace sample ratio: %f", c.TracingSample)
	}
	return nil
}
