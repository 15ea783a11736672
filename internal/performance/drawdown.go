package performance

import (
	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/types"
	"github.com/shopspring/decimal"
)

// Drawdown describes the largest peak-to-trough decline of an equity curve.
type Drawdown struct {
	Peak         types.EquityPoint
	Trough       types.EquityPoint
	Value        float64
	DurationDays int
}

// MaxDrawdown scans the curve once. The running peak only moves on a strictly
// higher value and the maximum only moves on a strictly larger decline, so the
// earliest of equal drawdowns is reported.
func MaxDrawdown(curve []types.EquityPoint) Drawdown {
	if len(curve) == 0 {
		return Drawdown{}
	}

	peak := curve[0]
	result := Drawdown{Peak: curve[0], Trough: curve[0], Value: 0, DurationDays: 0}
	largest := decimal.Zero

	for _, point := range curve {
		if point.Value.GreaterThan(peak.Value) {
			peak = point
		}

		if !peak.Value.IsPositive() {
			continue
		}

		drawdown := peak.Value.Sub(point.Value).Div(peak.Value)
		if drawdown.GreaterThan(largest) {
			largest = drawdown
			result = Drawdown{
				Peak:         peak,
				Trough:       point,
				Value:        drawdown.InexactFloat64(),
				DurationDays: types.HoldingDays(peak.Time, point.Time),
			}
		}
	}

	if result.Value > 1 {
		result.Value = 1
	}

	return result
}
