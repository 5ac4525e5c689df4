package domain

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestNewAccount(t *testing.T) {
	acc := NewAccount(decimal.NewFromInt(1000), decimal.NewFromInt(-100))

	if got := acc.Balance().String(); got != "900" {
		t.Errorf("Balance() = %s, want 900", got)
	}

	if acc.ID() == "" {
		t.Error("expected non-empty account ID")
	}

	if acc.Version() != 0 {
		t.Errorf("Version() = %d, want 0 for a fresh account", acc.Version())
	}
}

func TestAccount_AppendEntry(t *testing.T) {
	acc := NewAccount(decimal.NewFromInt(100))

	acc.AppendEntry(decimal.NewFromInt(-30))
	acc.AppendEntry(decimal.NewFromInt(5))

	if got := acc.Balance().String(); got != "75" {
		t.Errorf("Balance() = %s, want 75", got)
	}

	if acc.Version() != 2 {
		t.Errorf("Version() = %d, want 2", acc.Version())
	}

	if acc.EntryCount() != 3 {
		t.Errorf("EntryCount() = %d, want 3", acc.EntryCount())
	}
}

func TestAccount_DebitIfUnchanged(t *testing.T) {
	acc := NewAccount(decimal.NewFromInt(100))

	balance, version := acc.BalanceSnapshot()
	if balance.String() != "100" {
		t.Fatalf("BalanceSnapshot() balance = %s, want 100", balance)
	}

	if !acc.DebitIfUnchanged(version, decimal.NewFromInt(40)) {
		t.Fatal("expected debit against a current snapshot to apply")
	}

	if got := acc.Balance().String(); got != "60" {
		t.Errorf("Balance() = %s, want 60", got)
	}

	// The old version is stale now; the debit must be refused.
	if acc.DebitIfUnchanged(version, decimal.NewFromInt(40)) {
		t.Error("expected debit against a stale snapshot to be refused")
	}

	if got := acc.Balance().String(); got != "60" {
		t.Errorf("Balance() = %s, want 60 after refused debit", got)
	}
}

func TestAccount_Alias(t *testing.T) {
	acc := NewAccount(decimal.NewFromInt(50))
	alias := acc.Alias()

	if acc.ID() == alias.ID() {
		t.Error("aliased handles must have distinct identities")
	}

	if !acc.SameLedger(alias) {
		t.Error("expected alias to share the ledger")
	}

	if acc.LedgerID() != alias.LedgerID() {
		t.Error("expected alias to share the ledger ID")
	}

	alias.AppendEntry(decimal.NewFromInt(25))

	if got := acc.Balance().String(); got != "75" {
		t.Errorf("Balance() through original handle = %s, want 75", got)
	}

	// Aliases share the interaction token.
	if !acc.TryAcquire() {
		t.Fatal("expected to acquire the free token")
	}
	if alias.TryAcquire() {
		t.Error("expected alias acquisition to fail while the token is held")
	}
	acc.Release()
}

func TestAccount_SameLedger(t *testing.T) {
	a := NewAccount()
	b := NewAccount()

	if a.SameLedger(b) {
		t.Error("distinct accounts must not share a ledger")
	}

	if a.SameLedger(nil) {
		t.Error("nil is never the same ledger")
	}
}

func TestAccount_AcquireHonorsContext(t *testing.T) {
	acc := NewAccount()

	if err := acc.Acquire(context.Background()); err != nil {
		t.Fatalf("unexpected error acquiring free token: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := acc.Acquire(ctx); err != context.DeadlineExceeded {
		t.Errorf("Acquire() = %v, want context.DeadlineExceeded", err)
	}

	acc.Release()

	if !acc.TryAcquire() {
		t.Error("expected token to be free after release")
	}
	acc.Release()
}

func TestAccount_ConcurrentAppends(t *testing.T) {
	acc := NewAccount()

	const workers = 32
	const perWorker = 50

	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				acc.AppendEntry(decimal.NewFromInt(1))
			}
		}()
	}

	wg.Wait()

	want := decimal.NewFromInt(workers * perWorker)
	if !acc.Balance().Equal(want) {
		t.Errorf("Balance() = %s, want %s", acc.Balance(), want)
	}

	if acc.Version() != workers*perWorker {
		t.Errorf("Version() = %d, want %d", acc.Version(), workers*perWorker)
	}
}

func TestValidateAmount(t *testing.T) {
	tests := []struct {
		name    string
		amount  decimal.Decimal
		wantErr error
	}{
		{"zero is valid", decimal.Zero, nil},
		{"positive is valid", decimal.NewFromInt(100), nil},
		{"negative is rejected", decimal.NewFromInt(-1), ErrInvalidAmount},
		{"above maximum is rejected", maxTransferAmount.Add(decimal.NewFromInt(1)), ErrAmountTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAmount(tt.amount)

			if tt.wantErr == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateAmount() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
