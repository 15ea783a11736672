package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	engine_types "github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/backtest/engine"
	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/backtest/engine/commission_fee"
	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/backtest/feed"
	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/backtest/ledger"
	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/logger"
	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/performance"
	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/strategy"
	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/types"
	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/pkg/errors"
	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SingleStrategyID labels the only strategy of a single engine run.
const SingleStrategyID = "strategy_0"

// MinExecutionTime is reported when the clock does not advance during a run.
const MinExecutionTime = time.Microsecond

type BacktestEngineV1 struct {
	config     BacktestEngineV1Config
	strategy   strategy.Strategy
	commission commission_fee.CommissionFee
	log        *logger.Logger
}

// NewBacktestEngineV1 validates config and binds the strategy. A nil logger
// discards log output.
func NewBacktestEngineV1(config BacktestEngineV1Config, strat strategy.Strategy, log *logger.Logger) (engine_types.Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if strat == nil {
		return nil, errors.New(errors.ErrCodeStrategyNotLoaded, "strategy is required")
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	return &BacktestEngineV1{
		config:     config,
		strategy:   strat,
		commission: config.CommissionFee(),
		log:        log.Named("engine"),
	}, nil
}

// Run implements engine.Engine.
func (b *BacktestEngineV1) Run(ctx context.Context, bars map[string][]types.Bar, callbacks engine_types.LifecycleCallbacks) (result types.BacktestResult, err error) {
	startedAt := time.Now()

	if callbacks.OnBacktestEnd != nil {
		defer func() {
			(*callbacks.OnBacktestEnd)(err)
		}()
	}

	book := ledger.NewLedger(SingleStrategyID, decimal.NewFromFloat(b.config.InitialCapital), b.commission, decimal.NewFromFloat(b.config.Slippage), b.log)

	series, missing := SelectSeries(bars, b.config.Symbols, b.config.StartTime, b.config.EndTime)
	for _, symbol := range missing {
		book.Warn(NoDataWarning(symbol, b.config.StartTime, b.config.EndTime), zap.String("symbol", symbol))
	}

	entries := feed.MergeIndexed(series, b.config.Symbols)

	b.log.Debug("Running backtest",
		zap.String("strategy", b.strategy.Name()),
		zap.Strings("symbols", b.config.Symbols),
		zap.Int("bars", len(entries)),
	)

	if callbacks.OnBacktestStart != nil {
		if err := (*callbacks.OnBacktestStart)(1, len(b.config.Symbols), len(entries)); err != nil {
			return types.BacktestResult{}, errors.Wrap(errors.ErrCodeCallbackFailed, "backtest start callback failed", err)
		}
	}

	if callbacks.OnStrategyStart != nil {
		if err := (*callbacks.OnStrategyStart)(0, b.strategy.Name(), 1); err != nil {
			return types.BacktestResult{}, errors.Wrap(errors.ErrCodeCallbackFailed, "strategy start callback failed", err)
		}
	}

	slot := NewSlot(SingleStrategyID, b.strategy, book, nil, b.log)
	if err := Simulate(ctx, series, entries, []*Slot{slot}, callbacks.OnProcessData); err != nil {
		b.log.Error("Backtest aborted", zap.String("strategy", b.strategy.Name()), zap.Error(err))

		return types.BacktestResult{}, err
	}

	result = PackageResult(SingleStrategyID, b.strategy.Name(), b.config, book, decimal.NewFromFloat(b.config.InitialCapital), startedAt)

	if callbacks.OnStrategyEnd != nil {
		(*callbacks.OnStrategyEnd)(0, b.strategy.Name())
	}

	b.log.Info("Backtest completed",
		zap.String("strategy", b.strategy.Name()),
		zap.Int("trades", len(result.Trades)),
		zap.Int("warnings", len(result.DataWarnings)),
		zap.Float64("total_return", result.Metrics.TotalReturn),
	)

	return result, nil
}

// GetConfigSchema implements engine.Engine.
func (b *BacktestEngineV1) GetConfigSchema() (string, error) {
	config := b.config

	schema, err := config.GenerateSchemaJSON()
	if err != nil {
		return "", fmt.Errorf("failed to generate schema: %w", err)
	}

	return schema, nil
}

// SelectSeries keeps the configured symbols trimmed to [start, end]. Symbols
// without any bar in range are returned as missing and left out of the series.
func SelectSeries(bars map[string][]types.Bar, symbols []string, start time.Time, end time.Time) (map[string][]types.Bar, []string) {
	series := make(map[string][]types.Bar, len(symbols))
	missing := []string{}

	for _, symbol := range symbols {
		inRange := feed.Filter(bars[symbol], optional.Some(start), optional.Some(end))
		if len(inRange) == 0 {
			missing = append(missing, symbol)

			continue
		}

		series[symbol] = inRange
	}

	return series, missing
}

// NoDataWarning is the warning recorded for a symbol without bars in range.
func NoDataWarning(symbol string, start time.Time, end time.Time) string {
	return fmt.Sprintf("no bars for %s between %s and %s", symbol, start.Format(time.RFC3339), end.Format(time.RFC3339))
}

// PackageResult freezes a finished ledger into a result.
func PackageResult(
	strategyID string,
	strategyName string,
	config BacktestEngineV1Config,
	book *ledger.Ledger,
	initialCapital decimal.Decimal,
	startedAt time.Time,
) types.BacktestResult {
	trades := book.Trades()
	types.SortTradesByEntry(trades)

	curve := book.EquityCurve()
	runConfig := config.RunConfig()
	runConfig.InitialCapital = initialCapital.InexactFloat64()

	return types.BacktestResult{
		RunID:                uuid.New().String(),
		StrategyID:           strategyID,
		StrategyName:         strategyName,
		Config:               runConfig,
		Trades:               trades,
		EquityCurve:          curve,
		Metrics:              performance.Calculate(trades, curve, config.RiskFreeRate, initialCapital),
		DataWarnings:         book.Warnings(),
		ExecutionTimeSeconds: ExecutionSeconds(startedAt),
		CompletedAt:          time.Now().UTC(),
	}
}

// ExecutionSeconds is the wall time since startedAt, never below MinExecutionTime.
func ExecutionSeconds(startedAt time.Time) float64 {
	elapsed := time.Since(startedAt)
	if elapsed < MinExecutionTime {
		elapsed = MinExecutionTime
	}

	return elapsed.Seconds()
}
