// Package interaction runs the Transfer Money use case: verify the role
// contracts, bind the role behavior for the duration of one
// interaction, and execute the transfer under a coordinator. Role
// bindings never escape an interaction.
package interaction

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/moneyctx/internal/coordinator"
	"github.com/iho/moneyctx/internal/domain"
	"github.com/iho/moneyctx/internal/infrastructure/metrics"
	"github.com/iho/moneyctx/internal/role"
)

// ledgerIdentity lets the interaction detect aliased ledgers without
// depending on a concrete entity type.
type ledgerIdentity interface {
	LedgerID() string
}

// TransferInteraction executes one balance transfer exactly once. It is
// not reentrant: a second Execute fails with ErrAlreadyExecuted.
type TransferInteraction struct {
	id          string
	source      any
	destination any
	amount      decimal.Decimal

	coord   coordinator.Coordinator
	logger  zerolog.Logger
	metrics *metrics.Metrics

	mu      sync.Mutex
	state   State
	started bool
}

// Option customizes a TransferInteraction.
type Option func(*TransferInteraction)

// WithCoordinator overrides the default lock-ordered coordinator.
func WithCoordinator(c coordinator.Coordinator) Option {
	return func(t *TransferInteraction) { t.coord = c }
}

// WithLogger attaches a logger.
func WithLogger(l zerolog.Logger) Option {
	return func(t *TransferInteraction) { t.logger = l }
}

// WithMetrics attaches Prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(t *TransferInteraction) { t.metrics = m }
}

// New builds an interaction in the Created state. The amount is
// validated here, so a negative or oversized amount never reaches
// concurrency control.
func New(source, destination any, amount decimal.Decimal, opts ...Option) (*TransferInteraction, error) {
	if source == nil || destination == nil {
		return nil, domain.ErrNilEntity
	}

	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}

	t := &TransferInteraction{
		id:          ulid.Make().String(),
		source:      source,
		destination: destination,
		amount:      amount,
		logger:      zerolog.Nop(),
		state:       StateCreated,
	}

	for _, opt := range opts {
		opt(t)
	}

	if t.coord == nil {
		t.coord = coordinator.NewLockOrdered(coordinator.DefaultLockTimeout, t.logger, t.metrics)
	}

	return t, nil
}

// ID returns the interaction identity.
func (t *TransferInteraction) ID() string { return t.id }

// State returns the current lifecycle state.
func (t *TransferInteraction) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.state
}

func (t *TransferInteraction) setState(s State) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = s
}

func (t *TransferInteraction) begin() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.started {
		return false
	}
	t.started = true

	return true
}

// Execute drives the interaction through its lifecycle: verify both
// contracts, bind the role handles, run the transfer under the
// coordinator, release the bindings. Either both ledgers are mutated or
// neither is; every failure is a typed error, never a silent no-op.
func (t *TransferInteraction) Execute(ctx context.Context) error {
	if !t.begin() {
		return domain.ErrAlreadyExecuted
	}

	start := time.Now()
	log := t.logger.With().Str("interaction_id", t.id).Logger()

	defer func() {
		if t.metrics != nil {
			t.metrics.TransferDuration.Observe(time.Since(start).Seconds())
		}
	}()

	// Ledger identity covers aliased handles, not just identical ones.
	if src, ok := t.source.(ledgerIdentity); ok {
		if dst, ok := t.destination.(ledgerIdentity); ok && src.LedgerID() == dst.LedgerID() {
			return t.abort(log, domain.ErrSelfTransfer)
		}
	}

	srcCap, cerr := role.VerifySource(t.source)
	if cerr != nil {
		return t.abort(log, cerr)
	}

	dstCap, cerr := role.VerifyDestination(t.destination)
	if cerr != nil {
		return t.abort(log, cerr)
	}
	t.setState(StateVerified)

	source := role.BindSource(srcCap)
	sink := role.BindDestination(dstCap)
	t.setState(StateBound)

	srcLock, _ := t.source.(coordinator.Lockable)
	dstLock, _ := t.destination.(coordinator.Lockable)

	err := t.coord.Execute(ctx, srcLock, dstLock, func() error {
		return source.SendTransfer(sink, t.amount)
	})
	if err != nil {
		source.Release()
		sink.Release()

		return t.abort(log, err)
	}
	t.setState(StateExecuted)

	source.Release()
	sink.Release()
	t.setState(StateReleased)

	if t.metrics != nil {
		t.metrics.TransfersExecuted.Inc()
		amount, _ := t.amount.Float64()
		t.metrics.TransferAmount.Observe(amount)
	}
	log.Debug().Str("amount", t.amount.String()).Msg("transfer executed")

	return nil
}

func (t *TransferInteraction) abort(log zerolog.Logger, err error) error {
	t.setState(StateAborted)

	if t.metrics != nil {
		t.metrics.TransfersAborted.WithLabelValues(abortReason(err)).Inc()
	}
	log.Debug().Err(err).Msg("transfer aborted")

	return err
}

func abortReason(err error) string {
	var cerr *role.ContractError

	switch {
	case errors.As(err, &cerr):
		return "contract"
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, domain.ErrSelfTransfer):
		return "self_transfer"
	case errors.Is(err, domain.ErrConcurrencyAborted):
		return "concurrency_aborted"
	default:
		return "other"
	}
}

// Transfer executes one complete money transfer between two accounts
// with the default coordinator. Each call is a new interaction: two
// calls with the same arguments produce two independent transfers.
func Transfer(ctx context.Context, source, destination *domain.Account, amount decimal.Decimal) error {
	t, err := New(source, destination, amount)
	if err != nil {
		return err
	}

	return t.Execute(ctx)
}
