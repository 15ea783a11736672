package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Position is an immutable snapshot of an open long holding.
// Refreshing the mark produces a new value via WithMark.
type Position struct {
	StrategyID string          `yaml:"strategy_id" json:"strategy_id"`
	Symbol     string          `yaml:"symbol" json:"symbol"`
	Shares     int64           `yaml:"shares" json:"shares"`
	EntryPrice decimal.Decimal `yaml:"entry_price" json:"entry_price"`
	EntryTime  time.Time       `yaml:"entry_time" json:"entry_time"`
	MarkPrice  decimal.Decimal `yaml:"mark_price" json:"mark_price"`
}

// NewPosition opens a position marked at its entry price.
func NewPosition(strategyID string, symbol string, shares int64, price decimal.Decimal, at time.Time) Position {
	return Position{
		StrategyID: strategyID,
		Symbol:     symbol,
		Shares:     shares,
		EntryPrice: price,
		EntryTime:  at,
		MarkPrice:  price,
	}
}

// WithMark returns a copy of the position marked at price.
func (p Position) WithMark(price decimal.Decimal) Position {
	next := p
	next.MarkPrice = price

	return next
}

// CostBasis is shares times entry price.
func (p Position) CostBasis() decimal.Decimal {
	return p.EntryPrice.Mul(decimal.NewFromInt(p.Shares))
}

// MarketValue is shares times the current mark.
func (p Position) MarketValue() decimal.Decimal {
	return p.MarkPrice.Mul(decimal.NewFromInt(p.Shares))
}

// UnrealizedPnL is the mark-to-market gain before costs.
func (p Position) UnrealizedPnL() decimal.Decimal {
	return p.MarketValue().Sub(p.CostBasis())
}
