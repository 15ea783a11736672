package strategy

import "github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/types"

const AlwaysBuyName = "always_buy"

// AlwaysBuy asks to enter on every bar while flat and never exits.
type AlwaysBuy struct {
	DefaultSizing
}

func NewAlwaysBuy() Strategy {
	return &AlwaysBuy{}
}

func (s *AlwaysBuy) Name() string {
	return AlwaysBuyName
}

func (s *AlwaysBuy) ShouldEnter(bars []types.Bar) (bool, error) {
	return len(bars) > 0, nil
}

func (s *AlwaysBuy) ShouldExit(position types.Position, bars []types.Bar) (bool, error) {
	return false, nil
}
