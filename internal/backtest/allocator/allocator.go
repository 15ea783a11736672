// Package allocator tracks the capital a strategy slot may commit to open
// positions during an orchestrated run.
package allocator

import (
	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/pkg/errors"
	"github.com/shopspring/decimal"
)

// Allocation is the capital cap of one strategy. Used capital only changes
// through Allocate and Release, and 0 <= used <= allocated always holds.
type Allocation struct {
	strategyID string
	allocated  decimal.Decimal
	used       decimal.Decimal
}

// NewAllocation creates an allocation with nothing used. A negative amount is
// rejected.
func NewAllocation(strategyID string, allocated decimal.Decimal) (*Allocation, error) {
	if allocated.IsNegative() {
		return nil, errors.Newf(errors.ErrCodeAllocationFailed,
			"allocated capital for %s must not be negative, got %s", strategyID, allocated)
	}

	return &Allocation{
		strategyID: strategyID,
		allocated:  allocated,
		used:       decimal.Zero,
	}, nil
}

func (a *Allocation) StrategyID() string {
	return a.strategyID
}

func (a *Allocation) Allocated() decimal.Decimal {
	return a.allocated
}

func (a *Allocation) Used() decimal.Decimal {
	return a.used
}

// Available is allocated minus used.
func (a *Allocation) Available() decimal.Decimal {
	return a.allocated.Sub(a.used)
}

// CanAllocate reports whether Allocate(amount) would succeed.
func (a *Allocation) CanAllocate(amount decimal.Decimal) bool {
	return amount.IsPositive() && amount.LessThanOrEqual(a.Available())
}

// Allocate moves amount from available to used.
func (a *Allocation) Allocate(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return errors.Newf(errors.ErrCodeAllocationFailed,
			"cannot allocate non-positive amount %s for %s", amount, a.strategyID)
	}

	if amount.GreaterThan(a.Available()) {
		return errors.Newf(errors.ErrCodeAllocationFailed,
			"cannot allocate %s for %s: exceeds available %s", amount, a.strategyID, a.Available())
	}

	a.used = a.used.Add(amount)

	return nil
}

// Release returns amount from used to available.
func (a *Allocation) Release(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return errors.Newf(errors.ErrCodeAllocationFailed,
			"cannot release non-positive amount %s for %s", amount, a.strategyID)
	}

	if amount.GreaterThan(a.used) {
		return errors.Newf(errors.ErrCodeAllocationFailed,
			"cannot release %s for %s: exceeds used %s", amount, a.strategyID, a.used)
	}

	a.used = a.used.Sub(amount)

	return nil
}
