package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	engine_types "github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/backtest/engine"
	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/backtest/engine/commission_fee"
	engine "github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/backtest/engine/engine_v1"
	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/strategy"
	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/types"
	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/mocks"
	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

var day0 = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

type OrchestratorTestSuite struct {
	suite.Suite
}

func TestOrchestratorSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}

func ohlc(symbol string, day int, open, closePrice float64) types.Bar {
	o := decimal.NewFromFloat(open)
	c := decimal.NewFromFloat(closePrice)

	return types.Bar{
		Symbol: symbol,
		Time:   day0.AddDate(0, 0, day),
		Open:   o,
		High:   decimal.Max(o, c),
		Low:    decimal.Min(o, c),
		Close:  c,
		Volume: decimal.NewFromInt(1000),
	}
}

func (suite *OrchestratorTestSuite) config(symbols ...string) engine.BacktestEngineV1Config {
	config := engine.TestConfig(symbols, day0, day0.AddDate(0, 0, 30), commission_fee.BrokerFlat)
	config.InitialCapital = 10000

	return config
}

func (suite *OrchestratorTestSuite) risingBars() map[string][]types.Bar {
	return map[string][]types.Bar{
		"AAPL": {
			ohlc("AAPL", 0, 100, 100),
			ohlc("AAPL", 1, 110, 120),
			ohlc("AAPL", 2, 140, 150),
		},
	}
}

func (suite *OrchestratorTestSuite) TestWeightsAboveOneRejected() {
	strategies := []WeightedStrategy{
		{Strategy: strategy.NewBuyAndHold(), Weight: 0.6},
		{Strategy: strategy.NewAlwaysBuy(), Weight: 0.5},
		{Strategy: strategy.NewBuyAndHold(), Weight: 0.4},
	}

	_, err := NewOrchestrator(suite.config("AAPL"), strategies, nil)
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidWeights))
	suite.Contains(err.Error(), "1.5")
	suite.Contains(err.Error(), "<= 1.0")
}

func (suite *OrchestratorTestSuite) TestWeightValidation() {
	tests := []struct {
		name    string
		weights []float64
		valid   bool
	}{
		{"single full weight", []float64{1.0}, true},
		{"ten tenths", []float64{0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1}, true},
		{"partial", []float64{0.2, 0.3}, true},
		{"zero weight", []float64{0, 0.5}, true},
		{"negative", []float64{-0.1, 0.5}, false},
		{"above one", []float64{0.5, 0.5000001}, false},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			strategies := make([]WeightedStrategy, len(tc.weights))
			for i, weight := range tc.weights {
				strategies[i] = WeightedStrategy{Strategy: strategy.NewBuyAndHold(), Weight: weight}
			}

			err := ValidateWeights(strategies)
			if tc.valid {
				suite.NoError(err)
			} else {
				suite.True(errors.HasCode(err, errors.ErrCodeInvalidWeights))
			}
		})
	}
}

func (suite *OrchestratorTestSuite) TestConstructionErrors() {
	_, err := NewOrchestrator(suite.config("AAPL"), nil, nil)
	suite.True(errors.HasCode(err, errors.ErrCodeBacktestNoStrategies))

	_, err = NewOrchestrator(suite.config("AAPL"), []WeightedStrategy{{Strategy: nil, Weight: 0.5}}, nil)
	suite.True(errors.HasCode(err, errors.ErrCodeStrategyNotLoaded))

	config := suite.config("AAPL")
	config.InitialCapital = 0
	_, err = NewOrchestrator(config, []WeightedStrategy{{Strategy: strategy.NewBuyAndHold(), Weight: 0.5}}, nil)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *OrchestratorTestSuite) TestAllocationsFollowWeights() {
	orchestrator, err := NewOrchestrator(suite.config("AAPL"), []WeightedStrategy{
		{Strategy: strategy.NewBuyAndHold(), Weight: 0.25},
		{Strategy: strategy.NewAlwaysBuy(), Weight: 0.75},
	}, nil)
	suite.Require().NoError(err)

	first, ok := orchestrator.Allocation("strategy_0")
	suite.Require().True(ok)
	suite.True(decimal.NewFromInt(2500).Equal(first.Allocated()))

	second, ok := orchestrator.Allocation("strategy_1")
	suite.Require().True(ok)
	suite.True(decimal.NewFromInt(7500).Equal(second.Allocated()))

	_, ok = orchestrator.Allocation("strategy_2")
	suite.False(ok)
}

func (suite *OrchestratorTestSuite) TestRunTwoBuyAndHold() {
	orchestrator, err := NewOrchestrator(suite.config("AAPL"), []WeightedStrategy{
		{Strategy: strategy.NewBuyAndHold(), Weight: 0.5},
		{Strategy: strategy.NewBuyAndHold(), Weight: 0.5},
	}, nil)
	suite.Require().NoError(err)

	result, err := orchestrator.Run(context.Background(), suite.risingBars(), engine_types.LifecycleCallbacks{})
	suite.Require().NoError(err)

	suite.Equal([]string{"strategy_0", "strategy_1"}, result.StrategyIDs())
	suite.Len(result.Trades, 2)

	for _, id := range result.StrategyIDs() {
		strategyResult := result.StrategyResults[id]
		suite.Require().Len(strategyResult.Trades, 1)

		trade := strategyResult.Trades[0]
		suite.Equal(id, trade.StrategyID)
		suite.Equal(int64(50), trade.Shares)
		suite.True(decimal.NewFromInt(100).Equal(trade.EntryPrice))
		suite.True(decimal.NewFromInt(2500).Equal(trade.PnL))
		suite.Equal(types.ExitReasonEndOfData, trade.ExitReason)
		suite.InDelta(0.5, strategyResult.Metrics.TotalReturn, 1e-9)
		suite.InDelta(5000, strategyResult.Config.InitialCapital, 1e-9)
	}

	suite.Require().Len(result.EquityCurve, 3)
	suite.True(decimal.NewFromInt(10000).Equal(result.EquityCurve[0].Value))
	suite.True(decimal.NewFromInt(12000).Equal(result.EquityCurve[1].Value))
	suite.True(decimal.NewFromInt(15000).Equal(result.EquityCurve[2].Value))
	suite.InDelta(0.5, result.Metrics.TotalReturn, 1e-9)
	suite.InDelta(15000, result.Metrics.FinalEquity, 1e-9)
	suite.Equal(2, result.Metrics.TotalTrades)
	suite.Greater(result.ExecutionTimeSeconds, 0.0)
	suite.NotEmpty(result.RunID)

	for id, row := range result.Comparison {
		suite.Contains(result.StrategyResults, id)
		suite.Equal(strategy.BuyAndHoldName, row.Name)
		suite.InDelta(0.5, row.Weight, 1e-9)
		suite.InDelta(5000, row.AllocatedCapital, 1e-9)
		suite.InDelta(7500, row.FinalEquity, 1e-9)
		suite.Equal(1, row.TotalTrades)
	}
}

func (suite *OrchestratorTestSuite) TestAllocationReleasedAfterRun() {
	orchestrator, err := NewOrchestrator(suite.config("AAPL"), []WeightedStrategy{
		{Strategy: strategy.NewAlwaysBuy(), Weight: 0.3},
	}, nil)
	suite.Require().NoError(err)

	result, err := orchestrator.Run(context.Background(), suite.risingBars(), engine_types.LifecycleCallbacks{})
	suite.Require().NoError(err)

	suite.Require().Len(result.Trades, 1)
	suite.Equal(int64(30), result.Trades[0].Shares)

	allocation, ok := orchestrator.Allocation("strategy_0")
	suite.Require().True(ok)
	suite.True(allocation.Used().IsZero())

	// Idle capital outside the weights is not part of the portfolio.
	suite.True(decimal.NewFromInt(3000).Equal(result.EquityCurve[0].Value))
	suite.InDelta(3000, result.Metrics.InitialEquity, 1e-9)
}

func (suite *OrchestratorTestSuite) TestEntryAboveAllocationRejected() {
	ctrl := gomock.NewController(suite.T())
	defer ctrl.Finish()

	greedy := mocks.NewMockStrategy(ctrl)
	greedy.EXPECT().Name().Return("greedy").AnyTimes()
	greedy.EXPECT().ShouldEnter(gomock.Any()).Return(true, nil).AnyTimes()
	greedy.EXPECT().PositionSize(gomock.Any(), gomock.Any()).Return(int64(30)).AnyTimes()

	orchestrator, err := NewOrchestrator(suite.config("AAPL"), []WeightedStrategy{
		{Strategy: greedy, Weight: 0.2},
		{Strategy: strategy.NewBuyAndHold(), Weight: 0.8},
	}, nil)
	suite.Require().NoError(err)

	result, err := orchestrator.Run(context.Background(), suite.risingBars(), engine_types.LifecycleCallbacks{})
	suite.Require().NoError(err)

	greedyResult := result.StrategyResults["strategy_0"]
	suite.Empty(greedyResult.Trades)
	suite.NotEmpty(greedyResult.DataWarnings)
	suite.Contains(greedyResult.DataWarnings[0], "insufficient capital")
	suite.Contains(greedyResult.DataWarnings[0], "2000")

	suite.Len(result.StrategyResults["strategy_1"].Trades, 1)
	suite.Len(result.Trades, 1)
	suite.Require().NotEmpty(result.DataWarnings)
	suite.True(strings.HasPrefix(result.DataWarnings[0], "strategy_0: insufficient capital"))
}

func (suite *OrchestratorTestSuite) TestStrategyErrorAbortsRun() {
	ctrl := gomock.NewController(suite.T())
	defer ctrl.Finish()

	broken := mocks.NewMockStrategy(ctrl)
	broken.EXPECT().Name().Return("broken").AnyTimes()
	broken.EXPECT().ShouldEnter(gomock.Any()).Return(false, errors.New(errors.ErrCodeUnknown, "boom"))

	orchestrator, err := NewOrchestrator(suite.config("AAPL"), []WeightedStrategy{
		{Strategy: strategy.NewBuyAndHold(), Weight: 0.5},
		{Strategy: broken, Weight: 0.5},
	}, nil)
	suite.Require().NoError(err)

	result, err := orchestrator.Run(context.Background(), suite.risingBars(), engine_types.LifecycleCallbacks{})
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeStrategyRuntimeError))
	suite.Empty(result.StrategyResults)
}

func (suite *OrchestratorTestSuite) TestRunIsDeterministic() {
	generator := mocks.NewDataGenerator(42)
	bars := generator.GenerateMultiSymbol([]string{"AAPL", "MSFT"}, mocks.DefaultConfig())

	config := suite.config("AAPL", "MSFT")
	config.EndTime = day0.AddDate(1, 0, 0)

	run := func() types.OrchestratorResult {
		orchestrator, err := NewOrchestrator(config, []WeightedStrategy{
			{Strategy: strategy.NewAlwaysBuy(), Weight: 0.4},
			{Strategy: strategy.NewConsecutiveCandles(), Weight: 0.6},
		}, nil)
		suite.Require().NoError(err)

		result, err := orchestrator.Run(context.Background(), bars, engine_types.LifecycleCallbacks{})
		suite.Require().NoError(err)

		return result
	}

	first := run()
	second := run()

	suite.Equal(first.Trades, second.Trades)
	suite.Equal(first.EquityCurve, second.EquityCurve)
	suite.Equal(first.Metrics, second.Metrics)
	suite.Equal(first.Comparison, second.Comparison)
}

func (suite *OrchestratorTestSuite) TestMissingSymbolWarnedOnce() {
	orchestrator, err := NewOrchestrator(suite.config("AAPL", "TSLA"), []WeightedStrategy{
		{Strategy: strategy.NewBuyAndHold(), Weight: 0.5},
		{Strategy: strategy.NewBuyAndHold(), Weight: 0.5},
	}, nil)
	suite.Require().NoError(err)

	result, err := orchestrator.Run(context.Background(), suite.risingBars(), engine_types.LifecycleCallbacks{})
	suite.Require().NoError(err)

	suite.Len(result.DataWarnings, 1)
	suite.Contains(result.DataWarnings[0], "TSLA")
	suite.Len(result.StrategyResults["strategy_0"].DataWarnings, 1)
}

func (suite *OrchestratorTestSuite) TestCallbacks() {
	orchestrator, err := NewOrchestrator(suite.config("AAPL"), []WeightedStrategy{
		{Strategy: strategy.NewBuyAndHold(), Weight: 0.5},
		{Strategy: strategy.NewAlwaysBuy(), Weight: 0.5},
	}, nil)
	suite.Require().NoError(err)

	started := []int{}
	names := []string{}
	ended := 0
	progress := 0
	var endErr error

	onStart := engine_types.OnBacktestStartCallback(func(totalStrategies, totalSymbols, totalBars int) error {
		started = []int{totalStrategies, totalSymbols, totalBars}

		return nil
	})
	onEnd := engine_types.OnBacktestEndCallback(func(err error) {
		endErr = err
	})
	onStrategyStart := engine_types.OnStrategyStartCallback(func(index int, name string, total int) error {
		names = append(names, name)

		return nil
	})
	onStrategyEnd := engine_types.OnStrategyEndCallback(func(index int, name string) {
		ended++
	})
	onProcess := engine_types.OnProcessDataCallback(func(current, total int) error {
		progress = current

		return nil
	})

	_, err = orchestrator.Run(context.Background(), suite.risingBars(), engine_types.LifecycleCallbacks{
		OnBacktestStart: &onStart,
		OnBacktestEnd:   &onEnd,
		OnStrategyStart: &onStrategyStart,
		OnStrategyEnd:   &onStrategyEnd,
		OnProcessData:   &onProcess,
	})
	suite.Require().NoError(err)

	suite.Equal([]int{2, 1, 3}, started)
	suite.Equal([]string{strategy.BuyAndHoldName, strategy.AlwaysBuyName}, names)
	suite.Equal(2, ended)
	suite.Equal(3, progress)
	suite.NoError(endErr)
}

func (suite *OrchestratorTestSuite) TestCancelledContext() {
	orchestrator, err := NewOrchestrator(suite.config("AAPL"), []WeightedStrategy{
		{Strategy: strategy.NewBuyAndHold(), Weight: 1},
	}, nil)
	suite.Require().NoError(err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = orchestrator.Run(ctx, suite.risingBars(), engine_types.LifecycleCallbacks{})
	suite.True(errors.HasCode(err, errors.ErrCodeBacktestCancelled))
}

func (suite *OrchestratorTestSuite) TestRunAfterAbortStartsWithFreshAllocations() {
	ctrl := gomock.NewController(suite.T())
	defer ctrl.Finish()

	flaky := mocks.NewMockStrategy(ctrl)
	flaky.EXPECT().Name().Return("flaky").AnyTimes()
	flaky.EXPECT().ShouldEnter(gomock.Any()).Return(true, nil).AnyTimes()
	flaky.EXPECT().PositionSize(gomock.Any(), gomock.Any()).Return(int64(100)).AnyTimes()
	flaky.EXPECT().ShouldExit(gomock.Any(), gomock.Any()).Return(false, fmt.Errorf("bad state")).Times(1)
	flaky.EXPECT().ShouldExit(gomock.Any(), gomock.Any()).Return(false, nil).AnyTimes()

	orchestrator, err := NewOrchestrator(suite.config("AAPL"), []WeightedStrategy{
		{Strategy: flaky, Weight: 1},
	}, nil)
	suite.Require().NoError(err)

	_, err = orchestrator.Run(context.Background(), suite.risingBars(), engine_types.LifecycleCallbacks{})
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeStrategyRuntimeError))

	aborted, ok := orchestrator.Allocation("strategy_0")
	suite.Require().True(ok)
	suite.True(decimal.NewFromInt(10000).Equal(aborted.Used()))

	result, err := orchestrator.Run(context.Background(), suite.risingBars(), engine_types.LifecycleCallbacks{})
	suite.Require().NoError(err)
	suite.Require().Len(result.Trades, 1)
	suite.Equal(int64(100), result.Trades[0].Shares)
	suite.Empty(result.DataWarnings)

	fresh, ok := orchestrator.Allocation("strategy_0")
	suite.Require().True(ok)
	suite.True(fresh.Used().IsZero())
	suite.True(decimal.NewFromInt(10000).Equal(fresh.Available()))
}

func (suite *OrchestratorTestSuite) TestRepeatedRunsMatch() {
	bars := mocks.NewDataGenerator(7).GenerateMultiSymbol([]string{"AAPL", "MSFT"}, mocks.DefaultConfig())

	config := suite.config("AAPL", "MSFT")
	config.EndTime = day0.AddDate(1, 0, 0)

	orchestrator, err := NewOrchestrator(config, []WeightedStrategy{
		{Strategy: strategy.NewConsecutiveCandles(), Weight: 0.5},
		{Strategy: strategy.NewAlwaysBuy(), Weight: 0.5},
	}, nil)
	suite.Require().NoError(err)

	first, err := orchestrator.Run(context.Background(), bars, engine_types.LifecycleCallbacks{})
	suite.Require().NoError(err)

	second, err := orchestrator.Run(context.Background(), bars, engine_types.LifecycleCallbacks{})
	suite.Require().NoError(err)

	suite.Equal(first.Trades, second.Trades)
	suite.Equal(first.EquityCurve, second.EquityCurve)
	suite.Equal(first.DataWarnings, second.DataWarnings)
}

func (suite *OrchestratorTestSuite) TestEntryOnSymbolLastBarRejected() {
	ctrl := gomock.NewController(suite.T())
	defer ctrl.Finish()

	late := mocks.NewMockStrategy(ctrl)
	late.EXPECT().Name().Return("late").AnyTimes()
	late.EXPECT().ShouldEnter(gomock.Any()).DoAndReturn(func(bars []types.Bar) (bool, error) {
		return bars[len(bars)-1].Symbol == "AAPL" && len(bars) == 3, nil
	}).AnyTimes()

	bars := map[string][]types.Bar{
		"AAPL": {ohlc("AAPL", 0, 100, 100), ohlc("AAPL", 1, 100, 100), ohlc("AAPL", 2, 100, 100)},
		"MSFT": {ohlc("MSFT", 0, 50, 50), ohlc("MSFT", 1, 50, 50), ohlc("MSFT", 2, 50, 50), ohlc("MSFT", 3, 50, 50)},
	}

	config := suite.config("AAPL", "MSFT")
	config.Commission = 1

	orchestrator, err := NewOrchestrator(config, []WeightedStrategy{{Strategy: late, Weight: 1}}, nil)
	suite.Require().NoError(err)

	result, err := orchestrator.Run(context.Background(), bars, engine_types.LifecycleCallbacks{})
	suite.Require().NoError(err)
	suite.Empty(result.Trades)
	suite.Require().Len(result.DataWarnings, 1)
	suite.Contains(result.DataWarnings[0], "strategy_0: entry for AAPL rejected on its last bar")
	suite.InDelta(10000, result.Metrics.FinalEquity, 1e-9)
}

// prefixCheckingStrategy fails the test when a call sees anything other than
// a capped prefix of the symbol's own series.
type prefixCheckingStrategy struct {
	strategy.DefaultSizing
	t      *testing.T
	series map[string][]types.Bar
	enter  int
	calls  int
}

func (s *prefixCheckingStrategy) Name() string { return "prefix_checking" }

func (s *prefixCheckingStrategy) check(bars []types.Bar) {
	s.calls++
	require.NotEmpty(s.t, bars)

	current := bars[len(bars)-1]
	full := s.series[current.Symbol]
	assert.Equal(s.t, full[:len(bars)], bars)
	assert.Equal(s.t, len(bars), cap(bars))

	for _, bar := range bars {
		assert.False(s.t, bar.Time.After(current.Time))
	}
}

func (s *prefixCheckingStrategy) ShouldEnter(bars []types.Bar) (bool, error) {
	s.check(bars)

	return len(bars)%s.enter == 0, nil
}

func (s *prefixCheckingStrategy) ShouldExit(position types.Position, bars []types.Bar) (bool, error) {
	s.check(bars)

	return len(bars)%7 == 0, nil
}

func (suite *OrchestratorTestSuite) TestEveryStrategySeesOnlyItsPrefix() {
	generatorConfig := mocks.DefaultConfig()
	generatorConfig.Count = 80
	series := mocks.NewDataGenerator(19).GenerateMultiSymbol([]string{"AAPL", "MSFT", "SPY"}, generatorConfig)

	config := suite.config("AAPL", "MSFT", "SPY")
	config.EndTime = day0.AddDate(0, 0, 120)
	config.Commission = 1
	config.Slippage = 0.001

	first := &prefixCheckingStrategy{t: suite.T(), series: series, enter: 3}
	second := &prefixCheckingStrategy{t: suite.T(), series: series, enter: 5}

	orchestrator, err := NewOrchestrator(config, []WeightedStrategy{
		{Strategy: first, Weight: 0.4},
		{Strategy: second, Weight: 0.6},
	}, nil)
	suite.Require().NoError(err)

	result, err := orchestrator.Run(context.Background(), series, engine_types.LifecycleCallbacks{})
	suite.Require().NoError(err)

	suite.Equal(240, first.calls)
	suite.Equal(240, second.calls)
	suite.NotEmpty(result.Trades)

	ids := result.StrategyIDs()
	suite.Require().Len(result.EquityCurve, 240)

	for i, point := range result.EquityCurve {
		sum := decimal.Zero
		for _, id := range ids {
			strategyPoint := result.StrategyResults[id].EquityCurve[i]
			suite.Equal(point.Time, strategyPoint.Time)
			sum = sum.Add(strategyPoint.Value)
		}

		suite.True(sum.Equal(point.Value), "point %d: expected %s got %s", i, sum, point.Value)
	}

	for _, id := range ids {
		strategyResult := result.StrategyResults[id]
		allocation, ok := orchestrator.Allocation(id)
		suite.Require().True(ok)
		suite.True(allocation.Used().IsZero())

		expected := allocation.Allocated()
		for _, trade := range strategyResult.Trades {
			expected = expected.Add(trade.PnL)
			suite.True(trade.ExitTime.After(trade.EntryTime))
		}

		final := strategyResult.EquityCurve[len(strategyResult.EquityCurve)-1].Value
		suite.True(expected.Equal(final), "%s: expected %s got %s", id, expected, final)
	}
}
