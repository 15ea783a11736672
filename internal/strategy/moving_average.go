package strategy

import (
	"github.com/go-playground/validator/v10"
	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/types"
	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/pkg/errors"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const MovingAverageCrossoverName = "moving_average_crossover"

type MovingAverageCrossoverConfig struct {
	FastPeriod int `yaml:"fast_period" json:"fast_period" validate:"required,gt=0" jsonschema:"title=Fast Period,description=The period for the fast moving average,minimum=1,default=5"`
	SlowPeriod int `yaml:"slow_period" json:"slow_period" validate:"required,gtfield=FastPeriod" jsonschema:"title=Slow Period,description=The period for the slow moving average,minimum=2,default=20"`
}

// MovingAverageCrossover enters when the fast SMA of closes crosses above the
// slow SMA and exits once the fast SMA is below the slow SMA.
type MovingAverageCrossover struct {
	DefaultSizing
	config MovingAverageCrossoverConfig
}

func NewMovingAverageCrossover(config MovingAverageCrossoverConfig) (Strategy, error) {
	if err := validator.New().Struct(config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStrategyConfigError, "invalid moving average crossover config", err)
	}

	return &MovingAverageCrossover{
		DefaultSizing: DefaultSizing{},
		config:        config,
	}, nil
}

// NewMovingAverageCrossoverFromYAML builds the strategy from a YAML config document.
// An empty document uses 5/20.
func NewMovingAverageCrossoverFromYAML(config string) (Strategy, error) {
	parsed := MovingAverageCrossoverConfig{FastPeriod: 5, SlowPeriod: 20}

	if err := yaml.Unmarshal([]byte(config), &parsed); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStrategyConfigError, "failed to parse moving average crossover config", err)
	}

	return NewMovingAverageCrossover(parsed)
}

func (s *MovingAverageCrossover) Name() string {
	return MovingAverageCrossoverName
}

func (s *MovingAverageCrossover) ShouldEnter(bars []types.Bar) (bool, error) {
	if len(bars) < s.config.SlowPeriod+1 {
		return false, nil
	}

	previous := bars[:len(bars)-1]
	fastBefore := SimpleMovingAverage(previous, s.config.FastPeriod)
	slowBefore := SimpleMovingAverage(previous, s.config.SlowPeriod)
	fastNow := SimpleMovingAverage(bars, s.config.FastPeriod)
	slowNow := SimpleMovingAverage(bars, s.config.SlowPeriod)

	return fastBefore.LessThanOrEqual(slowBefore) && fastNow.GreaterThan(slowNow), nil
}

func (s *MovingAverageCrossover) ShouldExit(position types.Position, bars []types.Bar) (bool, error) {
	if len(bars) < s.config.SlowPeriod {
		return false, nil
	}

	return SimpleMovingAverage(bars, s.config.FastPeriod).LessThan(SimpleMovingAverage(bars, s.config.SlowPeriod)), nil
}

// SimpleMovingAverage is the mean close of the last period bars. Fewer bars
// than period average what is there; no bars give zero.
func SimpleMovingAverage(bars []types.Bar, period int) decimal.Decimal {
	if len(bars) == 0 || period <= 0 {
		return decimal.Zero
	}

	window := bars[max(0, len(bars)-period):]

	sum := decimal.Zero
	for _, bar := range window {
		sum = sum.Add(bar.Close)
	}

	return sum.Div(decimal.NewFromInt(int64(len(window))))
}
