package ledger

import (
	"fmt"
	"slices"
	"time"

	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/backtest/engine/commission_fee"
	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/logger"
	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/types"
	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Ledger is the cash and position book of one strategy during one run.
// It is not safe for concurrent use.
type Ledger struct {
	strategyID  string
	logger      *logger.Logger
	commission  commission_fee.CommissionFee
	slippage    decimal.Decimal
	currentTime time.Time
	cash        decimal.Decimal
	positions   map[string]types.Position
	lastBars    map[string]types.Bar
	equity      []types.EquityPoint
	trades      []types.Trade
	warnings    []string
}

// NewLedger creates a ledger holding cash and no positions.
// slippage is a fraction of traded notional, e.g. 0.001 for 10bps.
func NewLedger(
	strategyID string,
	cash decimal.Decimal,
	commission commission_fee.CommissionFee,
	slippage decimal.Decimal,
	log *logger.Logger,
) *Ledger {
	if commission == nil {
		commission = commission_fee.NewZeroCommissionFee()
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Ledger{
		strategyID:  strategyID,
		logger:      log,
		commission:  commission,
		slippage:    slippage,
		currentTime: time.Time{},
		cash:        cash,
		positions:   make(map[string]types.Position),
		lastBars:    make(map[string]types.Bar),
		equity:      []types.EquityPoint{},
		trades:      []types.Trade{},
		warnings:    []string{},
	}
}

func (l *Ledger) StrategyID() string {
	return l.strategyID
}

func (l *Ledger) Cash() decimal.Decimal {
	return l.cash
}

func (l *Ledger) CurrentTime() time.Time {
	return l.currentTime
}

// Position returns the open position for symbol, if any.
func (l *Ledger) Position(symbol string) optional.Option[types.Position] {
	position, ok := l.positions[symbol]
	if !ok {
		return optional.None[types.Position]()
	}

	return optional.Some(position)
}

func (l *Ledger) HasPosition(symbol string) bool {
	_, ok := l.positions[symbol]

	return ok
}

// OpenPositions returns the open positions ordered by symbol.
func (l *Ledger) OpenPositions() []types.Position {
	symbols := make([]string, 0, len(l.positions))
	for symbol := range l.positions {
		symbols = append(symbols, symbol)
	}

	slices.Sort(symbols)

	positions := make([]types.Position, 0, len(symbols))
	for _, symbol := range symbols {
		positions = append(positions, l.positions[symbol])
	}

	return positions
}

// Equity is cash plus the marked value of every open position.
func (l *Ledger) Equity() decimal.Decimal {
	equity := l.cash
	for _, position := range l.positions {
		equity = equity.Add(position.MarketValue())
	}

	return equity
}

func (l *Ledger) Trades() []types.Trade {
	return slices.Clone(l.trades)
}

func (l *Ledger) EquityCurve() []types.EquityPoint {
	return slices.Clone(l.equity)
}

func (l *Ledger) Warnings() []string {
	return slices.Clone(l.warnings)
}

// Observe advances the clock to bar and refreshes the mark of a matching position.
func (l *Ledger) Observe(bar types.Bar) {
	l.currentTime = bar.Time
	l.lastBars[bar.Symbol] = bar

	if position, ok := l.positions[bar.Symbol]; ok {
		l.positions[bar.Symbol] = position.WithMark(bar.Close)
	}
}

// Warn records a recoverable condition on the run and logs it.
func (l *Ledger) Warn(message string, fields ...zap.Field) {
	l.warnings = append(l.warnings, message)
	l.logger.Warn(message, append([]zap.Field{zap.String("strategy_id", l.strategyID)}, fields...)...)
}

// Enter opens a position of shares at price if budget covers it. budget is the
// spendable amount, which is the cash balance for a single strategy run and
// may be lower for a capped allocation. A rejected entry is recorded as a
// warning and leaves the ledger unchanged.
func (l *Ledger) Enter(symbol string, at time.Time, price decimal.Decimal, shares int64, budget decimal.Decimal) optional.Option[types.Position] {
	if l.HasPosition(symbol) {
		l.Warn(fmt.Sprintf("position already open for %s, entry ignored", symbol), zap.String("symbol", symbol))

		return optional.None[types.Position]()
	}

	cost := price.Mul(decimal.NewFromInt(shares))
	if shares <= 0 || cost.GreaterThan(budget) || cost.GreaterThan(l.cash) {
		l.Warn(
			fmt.Sprintf(
				"insufficient capital for %s: %d shares at %s costs %s, available cash %s",
				symbol, shares, price.String(), cost.String(), budget.String(),
			),
			zap.String("symbol", symbol),
			zap.Int64("shares", shares),
			zap.String("price", price.String()),
			zap.String("available", budget.String()),
		)

		return optional.None[types.Position]()
	}

	position := types.NewPosition(l.strategyID, symbol, shares, price, at)
	l.positions[symbol] = position
	l.cash = l.cash.Sub(cost)

	l.logger.Debug("Opened position",
		zap.String("strategy_id", l.strategyID),
		zap.String("symbol", symbol),
		zap.Int64("shares", shares),
		zap.String("price", price.String()),
		zap.String("cash", l.cash.String()),
	)

	return optional.Some(position)
}

// Exit closes the open position for symbol at price and books the trade.
func (l *Ledger) Exit(symbol string, at time.Time, price decimal.Decimal, reason types.ExitReason) optional.Option[types.Trade] {
	position, ok := l.positions[symbol]
	if !ok {
		return optional.None[types.Trade]()
	}

	shares := decimal.NewFromInt(position.Shares)
	proceeds := price.Mul(shares)
	commission := l.commission.Calculate(position.Shares)
	slippage := l.slippage.Mul(position.CostBasis().Add(proceeds))

	trade := types.NewTrade(position, at, price, commission, slippage, reason)

	l.cash = l.cash.Add(proceeds).Sub(commission).Sub(slippage)
	delete(l.positions, symbol)
	l.trades = append(l.trades, trade)

	l.logger.Debug("Closed position",
		zap.String("strategy_id", l.strategyID),
		zap.String("symbol", symbol),
		zap.String("reason", string(reason)),
		zap.String("pnl", trade.PnL.String()),
		zap.String("cash", l.cash.String()),
	)

	return optional.Some(trade)
}

// CloseAll closes every open position at the last bar seen for its symbol.
// Positions are closed in symbol order and the closed trades are returned.
func (l *Ledger) CloseAll(reason types.ExitReason) []types.Trade {
	closed := []types.Trade{}

	for _, position := range l.OpenPositions() {
		bar, ok := l.lastBars[position.Symbol]
		if !ok {
			bar = types.Bar{Symbol: position.Symbol, Time: position.EntryTime, Close: position.MarkPrice}
		}

		trade := l.Exit(position.Symbol, bar.Time, ExitFillPrice(bar), reason)
		if trade.IsSome() {
			closed = append(closed, trade.Unwrap())
		}
	}

	return closed
}

// Snapshot appends the current equity to the curve.
func (l *Ledger) Snapshot() types.EquityPoint {
	point := types.EquityPoint{Time: l.currentTime, Value: l.Equity()}
	l.equity = append(l.equity, point)

	return point
}

// Settle restates the last equity point after the final forced close so the
// curve ends on the realized balance net of closing costs. The number of
// points is unchanged.
func (l *Ledger) Settle() {
	if len(l.equity) == 0 {
		return
	}

	l.equity[len(l.equity)-1].Value = l.Equity()
}
