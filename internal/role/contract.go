// Package role implements the role contracts, contract verification and
// scoped role binding of the money-transfer context. A role's derived
// behavior is written purely against the contract's primitive
// operations; it never belongs to the entity type itself.
package role

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Operation wire names used in contract errors.
const (
	OpAvailableBalance = "availableBalance"
	OpDecreaseBalance  = "decreaseBalance"
	OpIncreaseBalance  = "increaseBalance"
)

// BalanceReader is the availableBalance capability.
type BalanceReader interface {
	AvailableBalance() decimal.Decimal
}

// BalanceDecreaser is the decreaseBalance capability.
type BalanceDecreaser interface {
	DecreaseBalance(amount decimal.Decimal)
}

// BalanceIncreaser is the increaseBalance capability.
type BalanceIncreaser interface {
	IncreaseBalance(amount decimal.Decimal)
}

// SourceCapable is the full capability set of the MoneySource contract.
// Holding one is the proof that verification succeeded.
type SourceCapable interface {
	BalanceReader
	BalanceDecreaser
}

// DestinationCapable is the full capability set of the MoneyDestination
// contract.
type DestinationCapable interface {
	BalanceIncreaser
}

// snapshotDebiter is an optional refinement of MoneySource: entities
// that can validate a debit against a balance snapshot support
// optimistic coordination without locks. domain.Account provides it.
type snapshotDebiter interface {
	BalanceSnapshot() (decimal.Decimal, int64)
	DebitIfUnchanged(version int64, amount decimal.Decimal) bool
}

// operation pairs a contract operation name with its capability probe.
type operation struct {
	name  string
	probe func(entity any) bool
}

// Contract is a fixed, named list of operations an entity must expose
// to play a role. Contracts are immutable and process-wide.
type Contract struct {
	name string
	ops  []operation
}

// Name returns the contract name.
func (c Contract) Name() string { return c.name }

// The two contracts of the transfer-money context.
var (
	MoneySource = Contract{
		name: "MoneySource",
		ops: []operation{
			{OpAvailableBalance, func(e any) bool { _, ok := e.(BalanceReader); return ok }},
			{OpDecreaseBalance, func(e any) bool { _, ok := e.(BalanceDecreaser); return ok }},
		},
	}

	MoneyDestination = Contract{
		name: "MoneyDestination",
		ops: []operation{
			{OpIncreaseBalance, func(e any) bool { _, ok := e.(BalanceIncreaser); return ok }},
		},
	}
)

// ContractError reports the first operation an entity is missing for a
// contract. Nothing is mutated before verification fails.
type ContractError struct {
	Contract string
	Op       string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("entity cannot play %s: missing operation %s", e.Contract, e.Op)
}

// Verify checks that entity provides every operation the contract
// lists, either natively or through a still-active role handle (handles
// forward the primitive operations of the contract they wrap).
// Operations are probed in declaration order and the first missing one
// is reported; there is no partial success.
func Verify(entity any, c Contract) *ContractError {
	for _, op := range c.ops {
		if !op.probe(entity) {
			return &ContractError{Contract: c.name, Op: op.name}
		}
	}

	return nil
}

// VerifySource proves entity satisfies MoneySource and returns the
// typed capability all subsequent role calls go through.
func VerifySource(entity any) (SourceCapable, *ContractError) {
	if err := Verify(entity, MoneySource); err != nil {
		return nil, err
	}

	return entity.(SourceCapable), nil
}

// VerifyDestination proves entity satisfies MoneyDestination.
func VerifyDestination(entity any) (DestinationCapable, *ContractError) {
	if err := Verify(entity, MoneyDestination); err != nil {
		return nil, err
	}

	return entity.(DestinationCapable), nil
}
