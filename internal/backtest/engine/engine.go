package engine

import (
	"context"

	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/types"
)

// Lifecycle callback types for backtest phases
// All callbacks with error return can abort execution if they return an error

// OnBacktestStartCallback is called once before the first bar is processed.
type OnBacktestStartCallback func(totalStrategies int, totalSymbols int, totalBars int) error

// OnBacktestEndCallback is called when the run finishes (always called via defer).
type OnBacktestEndCallback func(err error)

// OnStrategyStartCallback is called for every strategy before the bar loop starts.
type OnStrategyStartCallback func(strategyIndex int, strategyName string, totalStrategies int) error

// OnStrategyEndCallback is called for every strategy after its result is packaged.
type OnStrategyEndCallback func(strategyIndex int, strategyName string)

// OnProcessDataCallback is called after each bar has been processed by every strategy.
type OnProcessDataCallback func(current int, total int) error

// LifecycleCallbacks holds all lifecycle callback functions for the backtest engine.
// All fields are pointers - nil means no callback will be invoked.
type LifecycleCallbacks struct {
	OnBacktestStart *OnBacktestStartCallback
	OnBacktestEnd   *OnBacktestEndCallback
	OnStrategyStart *OnStrategyStartCallback
	OnStrategyEnd   *OnStrategyEndCallback
	OnProcessData   *OnProcessDataCallback
}

// Engine runs one strategy over historical bars.
type Engine interface {
	// Run simulates the strategy over bars, a map of symbol to chronological bars.
	// The context is checked between bars; a cancelled run returns no result.
	Run(ctx context.Context, bars map[string][]types.Bar, callbacks LifecycleCallbacks) (types.BacktestResult, error)
	// GetConfigSchema returns the JSON schema of the engine configuration
	GetConfigSchema() (string, error)
}
