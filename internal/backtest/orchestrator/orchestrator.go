// Package orchestrator runs several weighted strategies over one merged bar
// stream. Each strategy trades its own ledger and is capped by an allocator
// holding its share of the initial capital.
package orchestrator

import (
	"context"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/backtest/allocator"
	engine_types "github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/backtest/engine"
	engine "github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/backtest/engine/engine_v1"
	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/backtest/feed"
	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/backtest/ledger"
	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/logger"
	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/performance"
	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/strategy"
	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/types"
	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// WeightTolerance absorbs float rounding when weights are summed.
const WeightTolerance = 1e-9

// WeightedStrategy pairs a strategy with its fraction of the initial capital.
type WeightedStrategy struct {
	Strategy strategy.Strategy
	Weight   float64
}

type member struct {
	id         string
	strategy   strategy.Strategy
	weight     float64
	capital    decimal.Decimal
	allocation *allocator.Allocation
}

type Orchestrator struct {
	config  engine.BacktestEngineV1Config
	members []member
	log     *logger.Logger
}

// StrategyID is the id of the strategy registered at index.
func StrategyID(index int) string {
	return fmt.Sprintf("strategy_%d", index)
}

// NewOrchestrator validates config and weights and creates one allocation per
// strategy. A nil logger discards log output.
func NewOrchestrator(config engine.BacktestEngineV1Config, strategies []WeightedStrategy, log *logger.Logger) (*Orchestrator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if len(strategies) == 0 {
		return nil, errors.New(errors.ErrCodeBacktestNoStrategies, "at least one strategy is required")
	}

	if err := ValidateWeights(strategies); err != nil {
		return nil, err
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	capital := decimal.NewFromFloat(config.InitialCapital)
	members := make([]member, 0, len(strategies))

	for i, weighted := range strategies {
		if weighted.Strategy == nil {
			return nil, errors.Newf(errors.ErrCodeStrategyNotLoaded, "strategy at index %d is nil", i)
		}

		id := StrategyID(i)
		share := capital.Mul(decimal.NewFromFloat(weighted.Weight))

		allocation, err := allocator.NewAllocation(id, share)
		if err != nil {
			return nil, err
		}

		members = append(members, member{
			id:         id,
			strategy:   weighted.Strategy,
			weight:     weighted.Weight,
			capital:    share,
			allocation: allocation,
		})
	}

	return &Orchestrator{
		config:  config,
		members: members,
		log:     log.Named("orchestrator"),
	}, nil
}

// ValidateWeights requires every weight to be a non-negative number and the
// total to stay within 1.0.
func ValidateWeights(strategies []WeightedStrategy) error {
	sum := 0.0

	for i, weighted := range strategies {
		if math.IsNaN(weighted.Weight) || math.IsInf(weighted.Weight, 0) || weighted.Weight < 0 {
			return errors.Newf(errors.ErrCodeInvalidWeights,
				"weight of strategy %d must be a number >= 0, got %v", i, weighted.Weight)
		}

		sum += weighted.Weight
	}

	if sum > 1.0+WeightTolerance {
		return errors.Newf(errors.ErrCodeInvalidWeights, "strategy weights sum to %.2f, must be <= 1.0", sum)
	}

	return nil
}

// Allocation returns the allocator of the strategy with the given id. After a
// run it reflects the state that run left behind.
func (o *Orchestrator) Allocation(id string) (*allocator.Allocation, bool) {
	for _, m := range o.members {
		if m.id == id {
			return m.allocation, true
		}
	}

	return nil, false
}

// Run simulates every strategy over the same bars. Strategies are evaluated
// in registration order at each bar. Every run starts from fresh allocations,
// so an aborted run does not leak used capital into the next one. Run must not
// be called concurrently on the same Orchestrator.
func (o *Orchestrator) Run(ctx context.Context, bars map[string][]types.Bar, callbacks engine_types.LifecycleCallbacks) (result types.OrchestratorResult, err error) {
	startedAt := time.Now()

	if callbacks.OnBacktestEnd != nil {
		defer func() {
			(*callbacks.OnBacktestEnd)(err)
		}()
	}

	series, missingSymbols := engine.SelectSeries(bars, o.config.Symbols, o.config.StartTime, o.config.EndTime)
	missing := make([]string, 0, len(missingSymbols))

	for _, symbol := range missingSymbols {
		missing = append(missing, engine.NoDataWarning(symbol, o.config.StartTime, o.config.EndTime))
	}

	entries := feed.MergeIndexed(series, o.config.Symbols)
	slippage := decimal.NewFromFloat(o.config.Slippage)

	if err := o.resetAllocations(); err != nil {
		return types.OrchestratorResult{}, err
	}

	slots := make([]*engine.Slot, 0, len(o.members))

	for _, m := range o.members {
		book := ledger.NewLedger(m.id, m.allocation.Allocated(), o.config.CommissionFee(), slippage, o.log.Named(m.id))
		for i, warning := range missing {
			book.Warn(warning, zap.String("symbol", missingSymbols[i]))
		}

		slots = append(slots, engine.NewSlot(m.id, m.strategy, book, m.allocation, o.log))
	}

	o.log.Debug("Running orchestrated backtest",
		zap.Int("strategies", len(o.members)),
		zap.Strings("symbols", o.config.Symbols),
		zap.Int("bars", len(entries)),
	)

	if callbacks.OnBacktestStart != nil {
		if err := (*callbacks.OnBacktestStart)(len(o.members), len(o.config.Symbols), len(entries)); err != nil {
			return types.OrchestratorResult{}, errors.Wrap(errors.ErrCodeCallbackFailed, "backtest start callback failed", err)
		}
	}

	if callbacks.OnStrategyStart != nil {
		for i, m := range o.members {
			if err := (*callbacks.OnStrategyStart)(i, m.strategy.Name(), len(o.members)); err != nil {
				return types.OrchestratorResult{}, errors.Wrap(errors.ErrCodeCallbackFailed, "strategy start callback failed", err)
			}
		}
	}

	if err := engine.Simulate(ctx, series, entries, slots, callbacks.OnProcessData); err != nil {
		o.log.Error("Orchestrated backtest aborted", zap.Error(err))

		return types.OrchestratorResult{}, err
	}

	result = o.packageResult(slots, missing, startedAt)

	if callbacks.OnStrategyEnd != nil {
		for i, m := range o.members {
			(*callbacks.OnStrategyEnd)(i, m.strategy.Name())
		}
	}

	o.log.Info("Orchestrated backtest completed",
		zap.Int("strategies", len(o.members)),
		zap.Int("trades", len(result.Trades)),
		zap.Float64("total_return", result.Metrics.TotalReturn),
	)

	return result, nil
}

func (o *Orchestrator) resetAllocations() error {
	for i, m := range o.members {
		allocation, err := allocator.NewAllocation(m.id, m.capital)
		if err != nil {
			return err
		}

		o.members[i].allocation = allocation
	}

	return nil
}

// packageResult builds the per strategy results and the portfolio view. Data
// warnings shared by every strategy are reported once; the rest are prefixed
// with the strategy id.
func (o *Orchestrator) packageResult(slots []*engine.Slot, shared []string, startedAt time.Time) types.OrchestratorResult {
	strategyResults := make(map[string]types.BacktestResult, len(slots))
	comparison := make(map[string]types.ComparisonRow, len(slots))
	curves := make([][]types.EquityPoint, 0, len(slots))
	trades := []types.Trade{}
	warnings := slices.Clone(shared)
	totalAllocated := decimal.Zero

	for i, slot := range slots {
		m := o.members[i]

		strategyResult := engine.PackageResult(m.id, m.strategy.Name(), o.config, slot.Ledger, m.allocation.Allocated(), startedAt)
		strategyResults[m.id] = strategyResult
		comparison[m.id] = types.NewComparisonRow(
			m.strategy.Name(),
			m.weight,
			m.allocation.Allocated().InexactFloat64(),
			strategyResult.Metrics,
		)

		curves = append(curves, strategyResult.EquityCurve)
		trades = append(trades, strategyResult.Trades...)
		totalAllocated = totalAllocated.Add(m.allocation.Allocated())

		for _, warning := range strategyResult.DataWarnings {
			if !slices.Contains(shared, warning) {
				warnings = append(warnings, m.id+": "+warning)
			}
		}
	}

	types.SortTradesByEntry(trades)
	portfolio := types.SumEquityCurves(curves...)

	return types.OrchestratorResult{
		RunID:                uuid.New().String(),
		Config:               o.config.RunConfig(),
		StrategyResults:      strategyResults,
		Comparison:           comparison,
		Trades:               trades,
		EquityCurve:          portfolio,
		Metrics:              performance.Calculate(trades, portfolio, o.config.RiskFreeRate, totalAllocated),
		DataWarnings:         warnings,
		ExecutionTimeSeconds: engine.ExecutionSeconds(startedAt),
		CompletedAt:          time.Now().UTC(),
	}
}
