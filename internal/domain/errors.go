package domain

import "errors"

var (
	// Amount errors
	ErrInvalidAmount  = errors.New("amount must be non-negative")
	ErrAmountTooLarge = errors.New("amount exceeds maximum allowed")

	// Transfer errors
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrSelfTransfer      = errors.New("source and destination share the same ledger")
	ErrNilEntity         = errors.New("source and destination must not be nil")

	// Interaction errors
	ErrAlreadyExecuted = errors.New("interaction already executed")
	ErrBindingReleased = errors.New("role binding used after release")

	// Concurrency errors
	ErrConcurrencyAborted = errors.New("transfer aborted, retry budget exhausted")
	ErrStaleBalance       = errors.New("balance changed since snapshot")
)
