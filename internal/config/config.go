// Package config loads runtime configuration from the environment (and .env for local runs).
package config

import (
	"fmt"

	"go-order-api/pkg/database"
	pkgredis "go-order-api/pkg/redis"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Env     string `envconfig:"APP_ENV" default:"development"`
	AppName string `envconfig:"APP_NAME" default:"Order API v1.0"`
	Port    string `envconfig:"PORT" default:"3000"`

	Database database.Config
	Redis    pkgredis.Config

	StockEventsChannel string `envconfig:"STOCK_EVENTS_CHANNEL" default:"stock-events"`
	LowStockThreshold  int    `envconfig:"LOW_STOCK_THRESHOLD" default:"10"`
}

// Environment returns the parsed APP_ENV value.
func (c *Config) Environment() Environment {
	return ParseEnvironment(c.Env)
}

// Load reads .env (if present) and then the process environment.
// The returned bool reports whether a .env file was found.
func Load(files ...string) (*Config, bool, error) {
	envLoaded := godotenv.Load(files...) == nil

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, envLoaded, fmt.Errorf("process environment config: %w", err)
	}
	if cfg.LowStockThreshold < 0 {
		return nil, envLoaded, fmt.Errorf("LOW_STOCK_THRESHOLD must not be negative, got %d", cfg.LowStockThreshold)
	}
	return &cfg, envLoaded, nil
}
