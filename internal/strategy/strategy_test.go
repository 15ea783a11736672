package strategy

import (
	"testing"
	"time"

	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/types"
	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type StrategyTestSuite struct {
	suite.Suite
}

func TestStrategySuite(t *testing.T) {
	suite.Run(t, new(StrategyTestSuite))
}

// candles builds bars from (open, close) pairs one day apart.
func candles(pairs ...[2]float64) []types.Bar {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]types.Bar, len(pairs))

	for i, pair := range pairs {
		open := decimal.NewFromFloat(pair[0])
		closePrice := decimal.NewFromFloat(pair[1])
		bars[i] = types.Bar{
			Symbol: "AAPL",
			Time:   start.AddDate(0, 0, i),
			Open:   open,
			High:   decimal.Max(open, closePrice),
			Low:    decimal.Min(open, closePrice),
			Close:  closePrice,
			Volume: decimal.NewFromInt(100),
		}
	}

	return bars
}

func closes(values ...float64) []types.Bar {
	pairs := make([][2]float64, len(values))
	for i, v := range values {
		pairs[i] = [2]float64{v, v}
	}

	return candles(pairs...)
}

func (suite *StrategyTestSuite) TestDefaultSizing() {
	tests := []struct {
		name     string
		cash     string
		price    string
		expected int64
	}{
		{"exact", "100000", "100", 1000},
		{"floors", "1000", "333", 3},
		{"fractional price", "100", "33.33", 3},
		{"price above cash", "100", "150", 0},
		{"zero price", "100", "0", 0},
		{"negative cash", "-5", "10", 0},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			shares := DefaultSizing{}.PositionSize(decimal.RequireFromString(tc.cash), decimal.RequireFromString(tc.price))
			suite.Equal(tc.expected, shares)
		})
	}
}

func (suite *StrategyTestSuite) TestBuyAndHold() {
	s := NewBuyAndHold()
	suite.Equal(BuyAndHoldName, s.Name())

	bars := closes(100, 101, 102)

	enter, err := s.ShouldEnter(bars[:1])
	suite.NoError(err)
	suite.True(enter)

	enter, err = s.ShouldEnter(bars)
	suite.NoError(err)
	suite.False(enter)

	exit, err := s.ShouldExit(types.Position{}, bars)
	suite.NoError(err)
	suite.False(exit)
}

func (suite *StrategyTestSuite) TestAlwaysBuy() {
	s := NewAlwaysBuy()
	suite.Equal(AlwaysBuyName, s.Name())

	for i := 1; i <= 3; i++ {
		enter, err := s.ShouldEnter(closes(100, 101, 102)[:i])
		suite.NoError(err)
		suite.True(enter)
	}

	enter, err := s.ShouldEnter(nil)
	suite.NoError(err)
	suite.False(enter)
}

func (suite *StrategyTestSuite) TestConsecutiveCandles() {
	s := NewConsecutiveCandles()

	up := candles([2]float64{10, 11}, [2]float64{11, 12})
	enter, err := s.ShouldEnter(up)
	suite.NoError(err)
	suite.True(enter)

	enter, err = s.ShouldEnter(up[:1])
	suite.NoError(err)
	suite.False(enter)

	down := candles([2]float64{12, 11}, [2]float64{11, 10})
	exit, err := s.ShouldExit(types.Position{}, down)
	suite.NoError(err)
	suite.True(exit)

	mixed := candles([2]float64{12, 11}, [2]float64{11, 12})
	exit, err = s.ShouldExit(types.Position{}, mixed)
	suite.NoError(err)
	suite.False(exit)
}

func (suite *StrategyTestSuite) TestSimpleMovingAverage() {
	bars := closes(10, 20, 30, 40, 50)

	suite.True(decimal.NewFromInt(30).Equal(SimpleMovingAverage(bars, 5)))
	suite.True(decimal.NewFromInt(45).Equal(SimpleMovingAverage(bars, 2)))
	suite.True(decimal.NewFromInt(30).Equal(SimpleMovingAverage(bars, 10)))
	suite.True(SimpleMovingAverage(nil, 3).IsZero())
	suite.True(SimpleMovingAverage(bars, 0).IsZero())
}

func (suite *StrategyTestSuite) TestMovingAverageCrossover() {
	s, err := NewMovingAverageCrossover(MovingAverageCrossoverConfig{FastPeriod: 2, SlowPeriod: 3})
	suite.Require().NoError(err)
	suite.Equal(MovingAverageCrossoverName, s.Name())

	// falling then a sharp rise: fast crosses above slow on the last bar
	bars := closes(10, 9, 8, 12)

	enter, err := s.ShouldEnter(bars[:3])
	suite.NoError(err)
	suite.False(enter)

	enter, err = s.ShouldEnter(bars)
	suite.NoError(err)
	suite.True(enter)

	exit, err := s.ShouldExit(types.Position{}, closes(12, 11, 6))
	suite.NoError(err)
	suite.True(exit)

	exit, err = s.ShouldExit(types.Position{}, bars)
	suite.NoError(err)
	suite.False(exit)
}

func (suite *StrategyTestSuite) TestMovingAverageCrossoverConfig() {
	_, err := NewMovingAverageCrossover(MovingAverageCrossoverConfig{FastPeriod: 5, SlowPeriod: 5})
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeStrategyConfigError))

	_, err = NewMovingAverageCrossover(MovingAverageCrossoverConfig{FastPeriod: 0, SlowPeriod: 5})
	suite.Error(err)

	s, err := NewMovingAverageCrossoverFromYAML("fast_period: 3\nslow_period: 7\n")
	suite.Require().NoError(err)
	suite.Equal(7, s.(*MovingAverageCrossover).config.SlowPeriod)

	s, err = NewMovingAverageCrossoverFromYAML("")
	suite.Require().NoError(err)
	suite.Equal(20, s.(*MovingAverageCrossover).config.SlowPeriod)

	_, err = NewMovingAverageCrossoverFromYAML("fast_period: [")
	suite.Error(err)
}

func (suite *StrategyTestSuite) TestStrategiesDoNotMutateBars() {
	bars := closes(10, 9, 8, 12, 15)
	snapshot := make([]types.Bar, len(bars))
	copy(snapshot, bars)

	crossover, err := NewMovingAverageCrossover(MovingAverageCrossoverConfig{FastPeriod: 2, SlowPeriod: 3})
	suite.Require().NoError(err)

	for _, s := range []Strategy{NewBuyAndHold(), NewAlwaysBuy(), NewConsecutiveCandles(), crossover} {
		_, err := s.ShouldEnter(bars)
		suite.NoError(err)
		_, err = s.ShouldExit(types.Position{}, bars)
		suite.NoError(err)
	}

	suite.Equal(snapshot, bars)
}

func (suite *StrategyTestSuite) TestToJSONSchema() {
	schema, err := ToJSONSchema(MovingAverageCrossoverConfig{})
	suite.NoError(err)
	suite.Contains(schema, "fast_period")
	suite.Contains(schema, "Slow Period")
}

func (suite *StrategyTestSuite) TestConfigSchema() {
	schema, err := ConfigSchema(MovingAverageCrossoverName)
	suite.NoError(err)
	suite.Contains(schema, "slow_period")

	schema, err = ConfigSchema(BuyAndHoldName)
	suite.NoError(err)
	suite.Contains(schema, "object")

	_, err = ConfigSchema("missing")
	suite.True(errors.HasCode(err, errors.ErrCodeUnsupportedStrategy))
}
