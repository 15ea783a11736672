package engine

import (
	"context"
	"fmt"
	"time"

	engine_types "github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/backtest/engine"
	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/backtest/feed"
	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/backtest/ledger"
	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/logger"
	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/strategy"
	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/types"
	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CapitalGuard caps the capital a slot may commit to open positions.
type CapitalGuard interface {
	Available() decimal.Decimal
	Allocate(amount decimal.Decimal) error
	Release(amount decimal.Decimal) error
}

// Slot is one strategy with its own ledger inside a simulation. Guard is
// optional; without it the ledger cash is the only limit.
type Slot struct {
	ID       string
	Strategy strategy.Strategy
	Ledger   *ledger.Ledger
	Guard    CapitalGuard
	log      *logger.Logger
}

func NewSlot(id string, strat strategy.Strategy, book *ledger.Ledger, guard CapitalGuard, log *logger.Logger) *Slot {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Slot{
		ID:       id,
		Strategy: strat,
		Ledger:   book,
		Guard:    guard,
		log:      log,
	}
}

// Simulate drives every slot through entries in order. At global index i each
// slot sees only the prefix of the current symbol's series up to the bar at i.
// After the last bar all open positions are closed at their last bar.
func Simulate(
	ctx context.Context,
	series map[string][]types.Bar,
	entries []feed.Entry,
	slots []*Slot,
	onProcessData *engine_types.OnProcessDataCallback,
) error {
	total := len(entries)

	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(errors.ErrCodeBacktestCancelled, "backtest cancelled", err)
		}

		bars := series[entry.Symbol]
		visible := bars[: entry.SymbolIndex+1 : entry.SymbolIndex+1]

		for _, slot := range slots {
			slot.Ledger.Observe(entry.Bar)

			if err := slot.process(entry.Bar, i, entry.SymbolIndex == len(bars)-1, visible); err != nil {
				return err
			}

			slot.Ledger.Snapshot()
		}

		if onProcessData != nil {
			if err := (*onProcessData)(i+1, total); err != nil {
				return errors.Wrap(errors.ErrCodeCallbackFailed, "process data callback failed", err)
			}
		}
	}

	for _, slot := range slots {
		if err := slot.closeAll(); err != nil {
			return err
		}
	}

	return nil
}

func (s *Slot) process(bar types.Bar, index int, lastOfSymbol bool, visible []types.Bar) error {
	position := s.Ledger.Position(bar.Symbol)

	if position.IsNone() {
		enter, err := s.Strategy.ShouldEnter(visible)
		if err != nil {
			return s.strategyError("ShouldEnter", bar, err)
		}

		if enter {
			return s.enter(bar, index, lastOfSymbol)
		}

		return nil
	}

	exit, err := s.Strategy.ShouldExit(position.Unwrap(), visible)
	if err != nil {
		return s.strategyError("ShouldExit", bar, err)
	}

	if exit {
		return s.exit(bar)
	}

	return nil
}

func (s *Slot) enter(bar types.Bar, index int, lastOfSymbol bool) error {
	price := ledger.EntryFillPrice(bar, index, lastOfSymbol)
	if price.IsNone() {
		s.Ledger.Warn(
			fmt.Sprintf("entry for %s rejected on its last bar at %s: no later bar to exit on", bar.Symbol, bar.Time.Format(time.RFC3339)),
			zap.String("symbol", bar.Symbol),
		)
		s.log.Debug("Last bar entry rejected",
			zap.String("strategy_id", s.ID),
			zap.String("symbol", bar.Symbol),
			zap.Int("index", index),
		)

		return nil
	}

	fill := price.Unwrap()

	budget := s.Ledger.Cash()
	if s.Guard != nil {
		budget = decimal.Min(budget, s.Guard.Available())
	}

	shares := s.Strategy.PositionSize(budget, fill)

	opened := s.Ledger.Enter(bar.Symbol, bar.Time, fill, shares, budget)
	if opened.IsNone() || s.Guard == nil {
		return nil
	}

	if err := s.Guard.Allocate(opened.Unwrap().CostBasis()); err != nil {
		return errors.Wrapf(errors.ErrCodeAllocationFailed, err, "strategy %s could not allocate entry for %s", s.ID, bar.Symbol)
	}

	return nil
}

func (s *Slot) exit(bar types.Bar) error {
	trade := s.Ledger.Exit(bar.Symbol, bar.Time, ledger.ExitFillPrice(bar), types.ExitReasonStrategySignal)
	if trade.IsNone() {
		return nil
	}

	return s.release(trade.Unwrap())
}

func (s *Slot) closeAll() error {
	for _, trade := range s.Ledger.CloseAll(types.ExitReasonEndOfData) {
		if err := s.release(trade); err != nil {
			return err
		}
	}

	s.Ledger.Settle()

	return nil
}

func (s *Slot) release(trade types.Trade) error {
	if s.Guard == nil {
		return nil
	}

	costBasis := trade.EntryPrice.Mul(decimal.NewFromInt(trade.Shares))
	if err := s.Guard.Release(costBasis); err != nil {
		return errors.Wrapf(errors.ErrCodeReleaseFailed, err, "strategy %s could not release %s", s.ID, trade.Symbol)
	}

	return nil
}

func (s *Slot) strategyError(method string, bar types.Bar, err error) error {
	s.log.Error("Strategy failed",
		zap.String("strategy_id", s.ID),
		zap.String("strategy", s.Strategy.Name()),
		zap.String("method", method),
		zap.String("symbol", bar.Symbol),
		zap.Time("time", bar.Time),
		zap.Error(err),
	)

	return errors.Wrapf(errors.ErrCodeStrategyRuntimeError, err,
		"strategy %s failed in %s for %s at %s", s.Strategy.Name(), method, bar.Symbol, bar.Time.Format(time.RFC3339))
}
