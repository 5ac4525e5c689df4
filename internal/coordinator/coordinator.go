// Package coordinator serializes transfer interactions so that the
// funds check and the ledger mutations of one transfer are observed as
// a single atomic unit by every other interaction touching the same
// accounts.
package coordinator

import "context"

// Lockable is the per-account mutual-exclusion surface the pessimistic
// coordinator drives. domain.Account implements it; aliased account
// handles share one token.
type Lockable interface {
	// LockRank is a fixed global ordering key; acquiring locks in
	// ascending rank order prevents deadlock under two-account locking.
	LockRank() int64
	Acquire(ctx context.Context) error
	Release()
}

// Coordinator runs one transfer body atomically with respect to every
// other interaction on the same accounts. Optimistic implementations
// re-run the body on conflict, so the body must be safe to call again
// until its first committed mutation.
type Coordinator interface {
	Execute(ctx context.Context, source, destination Lockable, body func() error) error
}
