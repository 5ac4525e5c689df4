package interaction

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/moneyctx/internal/coordinator"
	"github.com/iho/moneyctx/internal/domain"
	"github.com/iho/moneyctx/internal/infrastructure/config"
	"github.com/iho/moneyctx/internal/infrastructure/metrics"
)

// Engine carries the shared wiring (coordinator, logger, metrics) for a
// host application's transfer interactions: constructed once, used for
// many transfers.
type Engine struct {
	coord   coordinator.Coordinator
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

// NewEngine builds an Engine from configuration. The coordinator mode
// selects between pessimistic lock ordering and optimistic retry.
func NewEngine(cfg *config.Config, logger zerolog.Logger, m *metrics.Metrics) *Engine {
	var coord coordinator.Coordinator

	switch cfg.CoordinatorMode {
	case config.CoordinatorOptimistic:
		coord = coordinator.NewOptimistic(coordinator.RetryConfig{
			MaxAttempts:     cfg.RetryMaxAttempts,
			InitialInterval: cfg.RetryInitialInterval,
			MaxInterval:     cfg.RetryMaxInterval,
			MaxElapsedTime:  cfg.RetryMaxElapsed,
		}, logger, m)
	default:
		coord = coordinator.NewLockOrdered(cfg.LockTimeout, logger, m)
	}

	return &Engine{coord: coord, logger: logger, metrics: m}
}

// Transfer runs one interaction with the engine's wiring.
func (e *Engine) Transfer(ctx context.Context, source, destination *domain.Account, amount decimal.Decimal) error {
	t, err := New(source, destination, amount,
		WithCoordinator(e.coord),
		WithLogger(e.logger),
		WithMetrics(e.metrics),
	)
	if err != nil {
		return err
	}

	return t.Execute(ctx)
}
