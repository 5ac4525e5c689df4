package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MaxTransferAmount bounds a single transfer.
const MaxTransferAmount = "1000000000000" // 1 trillion

var maxTransferAmount = decimal.RequireFromString(MaxTransferAmount)

// ValidateAmount rejects negative or oversized amounts before they
// reach concurrency control. Zero is a valid (no-op) transfer amount.
// decimal.Decimal cannot represent NaN or infinities, so finiteness
// needs no separate check.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrInvalidAmount
	}

	if amount.GreaterThan(maxTransferAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxTransferAmount)
	}

	return nil
}
