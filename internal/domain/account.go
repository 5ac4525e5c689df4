package domain

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

// ledgerState is the shared core behind one or more Account handles.
// Aliased handles share the mutex, the version counter and the
// interaction token, so locking one alias excludes all the others.
type ledgerState struct {
	mu       sync.Mutex
	ledger   *Ledger
	version  int64
	ledgerID string
	rank     int64
	token    chan struct{}
}

var nextRank atomic.Int64

// Account wraps exactly one Ledger. Identity is by handle: two Account
// handles may refer to the same underlying ledger (see Alias).
type Account struct {
	id string
	st *ledgerState
}

// NewAccount creates an account whose ledger is seeded with the given
// entries.
func NewAccount(initial ...decimal.Decimal) *Account {
	st := &ledgerState{
		ledger:   NewLedger(initial...),
		ledgerID: ulid.Make().String(),
		rank:     nextRank.Add(1),
		token:    make(chan struct{}, 1),
	}

	return &Account{id: ulid.Make().String(), st: st}
}

// Alias returns a second handle over the same underlying ledger.
func (a *Account) Alias() *Account {
	return &Account{id: ulid.Make().String(), st: a.st}
}

// ID returns the handle identity.
func (a *Account) ID() string { return a.id }

// LedgerID identifies the underlying ledger; aliases share it.
func (a *Account) LedgerID() string { return a.st.ledgerID }

// SameLedger reports whether both handles share one underlying ledger.
func (a *Account) SameLedger(other *Account) bool {
	return other != nil && a.st == other.st
}

// Balance returns the sum of all ledger entries.
func (a *Account) Balance() decimal.Decimal {
	a.st.mu.Lock()
	defer a.st.mu.Unlock()

	return a.st.ledger.Balance()
}

// Version counts ledger mutations. Optimistic commits validate against it.
func (a *Account) Version() int64 {
	a.st.mu.Lock()
	defer a.st.mu.Unlock()

	return a.st.version
}

// EntryCount reports how many entries the ledger holds.
func (a *Account) EntryCount() int {
	a.st.mu.Lock()
	defer a.st.mu.Unlock()

	return a.st.ledger.Len()
}

// AppendEntry records one signed ledger entry. It is the mutation
// primitive the role behavior is built on; external callers go through
// the transfer interaction instead.
func (a *Account) AppendEntry(amount decimal.Decimal) {
	a.st.mu.Lock()
	defer a.st.mu.Unlock()

	a.st.ledger.Append(amount)
	a.st.version++
}

// BalanceSnapshot returns the balance together with the version it was
// read at.
func (a *Account) BalanceSnapshot() (decimal.Decimal, int64) {
	a.st.mu.Lock()
	defer a.st.mu.Unlock()

	return a.st.ledger.Balance(), a.st.version
}

// DebitIfUnchanged appends a debit for amount only if no entry landed
// since the given version. It reports whether the debit was applied.
func (a *Account) DebitIfUnchanged(version int64, amount decimal.Decimal) bool {
	a.st.mu.Lock()
	defer a.st.mu.Unlock()

	if a.st.version != version {
		return false
	}

	a.st.ledger.Append(amount.Neg())
	a.st.version++

	return true
}

// Role contract fulfilment: any Account can play MoneySource and
// MoneyDestination.

// AvailableBalance implements the availableBalance operation of the
// MoneySource contract.
func (a *Account) AvailableBalance() decimal.Decimal { return a.Balance() }

// DecreaseBalance implements the decreaseBalance operation of the
// MoneySource contract.
func (a *Account) DecreaseBalance(amount decimal.Decimal) { a.AppendEntry(amount.Neg()) }

// IncreaseBalance implements the increaseBalance operation of the
// MoneyDestination contract.
func (a *Account) IncreaseBalance(amount decimal.Decimal) { a.AppendEntry(amount) }

// Interaction lock. A coordinator holds the token across the whole
// check+debit+credit sequence.

// LockRank is the fixed global ordering key for two-account locking.
func (a *Account) LockRank() int64 { return a.st.rank }

// Acquire takes the interaction token, waiting until ctx is done.
func (a *Account) Acquire(ctx context.Context) error {
	select {
	case a.st.token <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryAcquire takes the interaction token without waiting.
func (a *Account) TryAcquire() bool {
	select {
	case a.st.token <- struct{}{}:
		return true
	default:
		return false
	}
}

// Release returns the interaction token.
func (a *Account) Release() {
	<-a.st.token
}
