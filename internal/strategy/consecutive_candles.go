package strategy

import "github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/types"

const ConsecutiveCandlesName = "consecutive_candles"

// ConsecutiveCandles buys after two consecutive up candles and sells after
// two consecutive down candles.
type ConsecutiveCandles struct {
	DefaultSizing
}

func NewConsecutiveCandles() Strategy {
	return &ConsecutiveCandles{}
}

func (s *ConsecutiveCandles) Name() string {
	return ConsecutiveCandlesName
}

func (s *ConsecutiveCandles) ShouldEnter(bars []types.Bar) (bool, error) {
	if len(bars) < 2 {
		return false, nil
	}

	prev, current := bars[len(bars)-2], bars[len(bars)-1]

	return current.Close.GreaterThan(current.Open) && prev.Close.GreaterThan(prev.Open), nil
}

func (s *ConsecutiveCandles) ShouldExit(position types.Position, bars []types.Bar) (bool, error) {
	if len(bars) < 2 {
		return false, nil
	}

	prev, current := bars[len(bars)-2], bars[len(bars)-1]

	return current.Close.LessThan(current.Open) && prev.Close.LessThan(prev.Open), nil
}
