// Package strategy defines the contract between the backtest core and a
// trading strategy, plus the built-in strategies the CLI can run by name.
package strategy

import (
	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/types"
	"github.com/shopspring/decimal"
)

// Strategy decides when a single long position per symbol is opened and closed.
//
// bars is the chronological history of one symbol up to and including the
// current bar. Implementations must treat bars and position as read-only and
// must not keep a reference to them after returning.
type Strategy interface {
	// Name is a human readable identifier used in results and logs.
	Name() string
	// ShouldEnter reports whether a position should be opened on the last bar.
	ShouldEnter(bars []types.Bar) (bool, error)
	// ShouldExit reports whether the open position should be closed on the last bar.
	ShouldExit(position types.Position, bars []types.Bar) (bool, error)
	// PositionSize returns the number of whole shares to buy with cash at price.
	PositionSize(cash decimal.Decimal, price decimal.Decimal) int64
}

// DefaultSizing spends as much cash as possible on whole shares.
// Embed it to get the default PositionSize.
type DefaultSizing struct{}

// PositionSize returns floor(cash / price), or 0 for a non-positive price.
func (DefaultSizing) PositionSize(cash decimal.Decimal, price decimal.Decimal) int64 {
	if !price.IsPositive() || !cash.IsPositive() {
		return 0
	}

	quotient, _ := cash.QuoRem(price, 0)

	return quotient.IntPart()
}
