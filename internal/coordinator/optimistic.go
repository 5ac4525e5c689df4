package coordinator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/iho/moneyctx/internal/domain"
	"github.com/iho/moneyctx/internal/infrastructure/metrics"
)

// RetryConfig tunes the Optimistic coordinator's retry budget.
type RetryConfig struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
}

// Default retry budget.
const (
	DefaultMaxAttempts     = 16
	DefaultInitialInterval = 500 * time.Microsecond
	DefaultMaxInterval     = 50 * time.Millisecond
	DefaultMaxElapsedTime  = 5 * time.Second
)

// Optimistic is the retrying coordinator: no locks are held, the body
// validates its funds check against a balance snapshot and commits the
// debit only if the snapshot is still current. A conflicting commit
// surfaces as domain.ErrStaleBalance and the body is re-run with
// exponential backoff until the attempt budget runs out. The credit is
// unconditional and always follows a committed debit.
type Optimistic struct {
	cfg     RetryConfig
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

// NewOptimistic creates an Optimistic coordinator. Zero-valued fields
// of cfg fall back to the defaults.
func NewOptimistic(cfg RetryConfig, logger zerolog.Logger, m *metrics.Metrics) *Optimistic {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.InitialInterval <= 0 {
		cfg.InitialInterval = DefaultInitialInterval
	}
	if cfg.MaxInterval <= 0 {
		cfg.MaxInterval = DefaultMaxInterval
	}
	if cfg.MaxElapsedTime <= 0 {
		cfg.MaxElapsedTime = DefaultMaxElapsedTime
	}

	return &Optimistic{cfg: cfg, logger: logger, metrics: m}
}

// Execute retries body on snapshot conflicts. The account locks are not
// touched; atomicity comes from the body's compare-and-append commit.
// Every non-conflict error is permanent and returned as-is.
func (c *Optimistic) Execute(ctx context.Context, source, destination Lockable, body func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.cfg.InitialInterval
	b.MaxInterval = c.cfg.MaxInterval
	b.MaxElapsedTime = c.cfg.MaxElapsedTime

	attempts := 0

	err := backoff.Retry(func() error {
		attempts++

		err := body()
		if err == nil {
			return nil
		}

		if !errors.Is(err, domain.ErrStaleBalance) {
			return backoff.Permanent(err)
		}

		if attempts >= c.cfg.MaxAttempts {
			return backoff.Permanent(fmt.Errorf("%w: %d attempts", domain.ErrConcurrencyAborted, attempts))
		}

		if c.metrics != nil {
			c.metrics.CoordinatorRetries.Inc()
		}
		c.logger.Debug().Int("attempt", attempts).Msg("balance snapshot went stale, retrying")

		return err
	}, backoff.WithContext(b, ctx))

	// Elapsed-time or context exhaustion while conflicts persisted.
	if err != nil && errors.Is(err, domain.ErrStaleBalance) {
		return fmt.Errorf("%w: %v", domain.ErrConcurrencyAborted, err)
	}

	return err
}
