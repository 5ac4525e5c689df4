// Package config loads the transfer core's tunables from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Coordinator modes.
const (
	CoordinatorLock       = "lock"
	CoordinatorOptimistic = "optimistic"
)

// Config holds all runtime configuration.
type Config struct {
	// Coordinator
	CoordinatorMode string        `env:"COORDINATOR_MODE" envDefault:"lock"`
	LockTimeout     time.Duration `env:"LOCK_TIMEOUT"     envDefault:"5s"`

	// Optimistic retry budget
	RetryMaxAttempts     int           `env:"RETRY_MAX_ATTEMPTS"     envDefault:"16"`
	RetryInitialInterval time.Duration `env:"RETRY_INITIAL_INTERVAL" envDefault:"500us"`
	RetryMaxInterval     time.Duration `env:"RETRY_MAX_INTERVAL"     envDefault:"50ms"`
	RetryMaxElapsed      time.Duration `env:"RETRY_MAX_ELAPSED"      envDefault:"5s"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if cfg.CoordinatorMode != CoordinatorLock && cfg.CoordinatorMode != CoordinatorOptimistic {
		return nil, fmt.Errorf("unknown coordinator mode %q", cfg.CoordinatorMode)
	}

	return cfg, nil
}
