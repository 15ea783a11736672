package types

import (
	"time"

	"github.com/shopspring/decimal"
)

type ExitReason string

const (
	ExitReasonStrategySignal ExitReason = "strategy_signal"
	ExitReasonEndOfData      ExitReason = "end_of_data"
	ExitReasonStopLoss       ExitReason = "stop_loss"
	ExitReasonTakeProfit     ExitReason = "take_profit"
)

// Trade is a closed round trip. It is created once when a position closes
// and never mutated afterwards.
type Trade struct {
	StrategyID string          `yaml:"strategy_id" json:"strategy_id"`
	Symbol     string          `yaml:"symbol" json:"symbol"`
	EntryTime  time.Time       `yaml:"entry_time" json:"entry_time"`
	ExitTime   time.Time       `yaml:"exit_time" json:"exit_time"`
	EntryPrice decimal.Decimal `yaml:"entry_price" json:"entry_price"`
	ExitPrice  decimal.Decimal `yaml:"exit_price" json:"exit_price"`
	Shares     int64           `yaml:"shares" json:"shares"`
	// PnL is (exit - entry) * shares - commission - slippage.
	// For example 1000 shares bought at $100 and sold at $150 with $5 commission
	// and no slippage gives 50000 - 5 = $49995.
	PnL decimal.Decimal `yaml:"pnl" json:"pnl"`
	// PnLPercent is PnL over the cost basis (entry * shares).
	PnLPercent   float64         `yaml:"pnl_pct" json:"pnl_pct"`
	DurationDays int             `yaml:"duration_days" json:"duration_days"`
	ExitReason   ExitReason      `yaml:"exit_reason" json:"exit_reason"`
	Commission   decimal.Decimal `yaml:"commission" json:"commission"`
	Slippage     decimal.Decimal `yaml:"slippage" json:"slippage"`
}

// NewTrade closes position at exitPrice and derives the P&L fields.
func NewTrade(
	position Position,
	exitTime time.Time,
	exitPrice decimal.Decimal,
	commission decimal.Decimal,
	slippage decimal.Decimal,
	reason ExitReason,
) Trade {
	shares := decimal.NewFromInt(position.Shares)
	costBasis := position.EntryPrice.Mul(shares)
	pnl := exitPrice.Sub(position.EntryPrice).Mul(shares).Sub(commission).Sub(slippage)

	pnlPercent := 0.0
	if costBasis.IsPositive() {
		pnlPercent = pnl.Div(costBasis).InexactFloat64()
	}

	return Trade{
		StrategyID:   position.StrategyID,
		Symbol:       position.Symbol,
		EntryTime:    position.EntryTime,
		ExitTime:     exitTime,
		EntryPrice:   position.EntryPrice,
		ExitPrice:    exitPrice,
		Shares:       position.Shares,
		PnL:          pnl,
		PnLPercent:   pnlPercent,
		DurationDays: HoldingDays(position.EntryTime, exitTime),
		ExitReason:   reason,
		Commission:   commission,
		Slippage:     slippage,
	}
}

// HoldingDays is the number of whole days between from and to.
func HoldingDays(from time.Time, to time.Time) int {
	return int(to.Sub(from) / (24 * time.Hour))
}

// Fees is commission plus slippage.
func (t Trade) Fees() decimal.Decimal {
	return t.Commission.Add(t.Slippage)
}

// IsWinner reports a strictly positive P&L. Breakeven trades are neither winners nor losers.
func (t Trade) IsWinner() bool {
	return t.PnL.IsPositive()
}

// IsLoser reports a strictly negative P&L.
func (t Trade) IsLoser() bool {
	return t.PnL.IsNegative()
}
