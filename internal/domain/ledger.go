package domain

import "github.com/shopspring/decimal"

// Ledger is an append-only record of signed amounts. The current
// balance is the sum of all entries. A Ledger is owned by its Account
// and is not safe for concurrent use on its own.
type Ledger struct {
	entries []decimal.Decimal
}

// NewLedger creates a ledger seeded with the given entries.
func NewLedger(entries ...decimal.Decimal) *Ledger {
	l := &Ledger{entries: make([]decimal.Decimal, len(entries))}
	copy(l.entries, entries)
	return l
}

// Append records one signed entry.
func (l *Ledger) Append(amount decimal.Decimal) {
	l.entries = append(l.entries, amount)
}

// Balance returns the sum of all entries.
func (l *Ledger) Balance() decimal.Decimal {
	sum := decimal.Zero
	for _, e := range l.entries {
		sum = sum.Add(e)
	}

	return sum
}

// Len returns the number of entries.
func (l *Ledger) Len() int {
	return len(l.entries)
}
