package performance

import (
	"math"

	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/types"
)

// Ratios are the annualized risk-adjusted figures of a curve.
type Ratios struct {
	Sharpe  float64
	Sortino float64
}

// CalculateRatios annualizes per-step returns with PeriodsPerYear of the
// average step length. Either ratio is zero when its denominator is zero or
// there are fewer than two returns.
func CalculateRatios(curve []types.EquityPoint, riskFreeRate float64) Ratios {
	returns := StepReturns(types.EquityValues(curve))
	if len(returns) < 2 {
		return Ratios{}
	}

	avgDaysPerStep := ElapsedDays(curve) / float64(len(curve)-1)
	periods := PeriodsPerYear(avgDaysPerStep)

	annualMean := ArithmeticAverage(returns) * periods
	volatility := SampleStandardDeviation(returns) * math.Sqrt(periods)
	downside := DownsideDeviation(returns) * math.Sqrt(periods)

	ratios := Ratios{}
	if volatility > 0 {
		ratios.Sharpe = finiteOrZero((annualMean - riskFreeRate) / volatility)
	}

	if downside > 0 {
		ratios.Sortino = finiteOrZero((annualMean - riskFreeRate) / downside)
	}

	return ratios
}
