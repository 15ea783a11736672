package strategy

import "github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/types"

const BuyAndHoldName = "buy_and_hold"

// BuyAndHold buys on the first bar of each symbol and holds until the end of data.
type BuyAndHold struct {
	DefaultSizing
}

func NewBuyAndHold() Strategy {
	return &BuyAndHold{}
}

func (s *BuyAndHold) Name() string {
	return BuyAndHoldName
}

func (s *BuyAndHold) ShouldEnter(bars []types.Bar) (bool, error) {
	return len(bars) == 1, nil
}

func (s *BuyAndHold) ShouldExit(position types.Position, bars []types.Bar) (bool, error) {
	return false, nil
}
