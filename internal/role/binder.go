package role

import (
	"github.com/shopspring/decimal"

	"github.com/iho/moneyctx/internal/domain"
)

// noCopy makes `go vet -copylocks` flag handles that escape by copy.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// SourceHandle exposes the MoneySource role's derived behavior. It is
// valid only inside the interaction that bound it: Release invalidates
// it, and any later derived call fails with ErrBindingReleased.
type SourceHandle struct {
	noCopy   noCopy
	entity   SourceCapable
	released bool
}

// BindSource attaches the MoneySource role behavior to a verified
// capability for the duration of one interaction.
func BindSource(entity SourceCapable) *SourceHandle {
	return &SourceHandle{entity: entity}
}

// Release detaches the role. The handle is unusable afterwards.
func (h *SourceHandle) Release() { h.released = true }

// AvailableBalance forwards the contract primitive, so a still-active
// handle itself passes MoneySource verification.
func (h *SourceHandle) AvailableBalance() decimal.Decimal { return h.entity.AvailableBalance() }

// DecreaseBalance forwards the contract primitive.
func (h *SourceHandle) DecreaseBalance(amount decimal.Decimal) { h.entity.DecreaseBalance(amount) }

// SendTransfer moves amount to dst. The policy is strict: a failed
// funds check is an ErrInsufficientFunds error, never a silent no-op.
// A zero amount succeeds without touching either ledger.
//
// When the entity can validate balance snapshots, the debit commits
// only if the ledger is unchanged since the funds check; a concurrent
// mutation surfaces as ErrStaleBalance for the coordinator to retry.
// Entities without snapshot support rely entirely on the coordinator's
// mutual exclusion.
func (h *SourceHandle) SendTransfer(dst *DestinationHandle, amount decimal.Decimal) error {
	if h.released || dst.released {
		return domain.ErrBindingReleased
	}

	if amount.IsZero() {
		return nil
	}

	if sd, ok := h.entity.(snapshotDebiter); ok {
		balance, version := sd.BalanceSnapshot()
		if balance.LessThan(amount) {
			return domain.ErrInsufficientFunds
		}

		if !sd.DebitIfUnchanged(version, amount) {
			return domain.ErrStaleBalance
		}

		return dst.ReceiveTransfer(amount)
	}

	if h.entity.AvailableBalance().LessThan(amount) {
		return domain.ErrInsufficientFunds
	}
	h.entity.DecreaseBalance(amount)

	return dst.ReceiveTransfer(amount)
}

// DestinationHandle exposes the MoneyDestination role's derived
// behavior for the duration of one interaction.
type DestinationHandle struct {
	noCopy   noCopy
	entity   DestinationCapable
	released bool
}

// BindDestination attaches the MoneyDestination role behavior to a
// verified capability.
func BindDestination(entity DestinationCapable) *DestinationHandle {
	return &DestinationHandle{entity: entity}
}

// Release detaches the role.
func (h *DestinationHandle) Release() { h.released = true }

// IncreaseBalance forwards the contract primitive.
func (h *DestinationHandle) IncreaseBalance(amount decimal.Decimal) { h.entity.IncreaseBalance(amount) }

// ReceiveTransfer credits amount unconditionally.
func (h *DestinationHandle) ReceiveTransfer(amount decimal.Decimal) error {
	if h.released {
		return domain.ErrBindingReleased
	}

	h.entity.IncreaseBalance(amount)

	return nil
}
