package coordinator

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/moneyctx/internal/domain"
	"github.com/iho/moneyctx/internal/infrastructure/metrics"
)

// DefaultLockTimeout bounds how long a transfer may wait for account locks.
const DefaultLockTimeout = 5 * time.Second

// LockOrdered is the pessimistic coordinator: both account tokens are
// taken in ascending lock-rank order and held for the whole
// check+debit+credit sequence, so debit and credit land in one atomic
// unit and no intermediate balance is ever observable.
type LockOrdered struct {
	timeout time.Duration
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

// NewLockOrdered creates a LockOrdered coordinator. A non-positive
// timeout falls back to DefaultLockTimeout.
func NewLockOrdered(timeout time.Duration, logger zerolog.Logger, m *metrics.Metrics) *LockOrdered {
	if timeout <= 0 {
		timeout = DefaultLockTimeout
	}

	return &LockOrdered{timeout: timeout, logger: logger, metrics: m}
}

// Execute acquires both locks and runs body exactly once. A lock wait
// exceeding the timeout, or an already-cancelled ctx, aborts with
// ErrConcurrencyAborted before any mutation.
func (c *LockOrdered) Execute(ctx context.Context, source, destination Lockable, body func() error) error {
	first, second := orderByRank(source, destination)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()

	if err := acquireAll(ctx, first, second); err != nil {
		c.logger.Warn().Err(err).Msg("lock acquisition aborted")
		return fmt.Errorf("%w: %v", domain.ErrConcurrencyAborted, err)
	}
	defer releaseAll(first, second)

	if c.metrics != nil {
		c.metrics.LockWaitDuration.Observe(time.Since(start).Seconds())
	}

	return body()
}

// orderByRank returns the two lockables in global acquisition order,
// dropping nils and the duplicate when both handles share one token.
func orderByRank(a, b Lockable) (Lockable, Lockable) {
	if a == nil {
		return b, nil
	}

	if b == nil || b.LockRank() == a.LockRank() {
		return a, nil
	}

	if b.LockRank() < a.LockRank() {
		return b, a
	}

	return a, b
}

func acquireAll(ctx context.Context, locks ...Lockable) error {
	held := make([]Lockable, 0, len(locks))

	for _, l := range locks {
		if l == nil {
			continue
		}

		if err := l.Acquire(ctx); err != nil {
			releaseAll(held...)
			return err
		}

		held = append(held, l)
	}

	return nil
}

func releaseAll(locks ...Lockable) {
	for i := len(locks) - 1; i >= 0; i-- {
		if locks[i] != nil {
			locks[i].Release()
		}
	}
}
