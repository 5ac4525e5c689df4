package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iho/moneyctx/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, config.CoordinatorLock, cfg.CoordinatorMode)
	require.Equal(t, 5*time.Second, cfg.LockTimeout)
	require.Equal(t, 16, cfg.RetryMaxAttempts)
	require.Equal(t, 500*time.Microsecond, cfg.RetryInitialInterval)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, "json", cfg.LogFormat)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("COORDINATOR_MODE", "optimistic")
	t.Setenv("LOCK_TIMEOUT", "250ms")
	t.Setenv("RETRY_MAX_ATTEMPTS", "64")
	t.Setenv("RETRY_MAX_ELAPSED", "30s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, config.CoordinatorOptimistic, cfg.CoordinatorMode)
	require.Equal(t, 250*time.Millisecond, cfg.LockTimeout)
	require.Equal(t, 64, cfg.RetryMaxAttempts)
	require.Equal(t, 30*time.Second, cfg.RetryMaxElapsed)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadRejectsUnknownCoordinatorMode(t *testing.T) {
	t.Setenv("COORDINATOR_MODE", "yolo")

	_, err := config.Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "coordinator mode")
}
