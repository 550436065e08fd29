package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/utafrali/CafeCart/pkg/config"
)

// Config holds all configuration for the cart service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"CART_HTTP_PORT" envDefault:"8080"`

	// Redis
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Storage slot and change channel shared by every context of the site.
	SlotKey     string `env:"CART_SLOT_KEY" envDefault:"cafeCart"`
	ChangesChan string `env:"CART_CHANGES_CHANNEL" envDefault:"cafeCart:changes"`

	// Simulated checkout processing time.
	CheckoutDelay time.Duration `env:"CHECKOUT_DELAY" envDefault:"2s"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load cart config: %w", err)
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
	if c.SlotKey == "" {
		return fmt.Errorf("slot key must not be empty")
	}
	if c.CheckoutDelay < 0 {
		return fmt.Errorf("checkout delay must not be negative: %s", c.CheckoutDelay)
	}
	return nil
}
