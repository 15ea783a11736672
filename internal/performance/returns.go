package performance

import (
	"math"
	"time"

	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/types"
)

// ElapsedDays is the fractional number of days between the first and last point.
func ElapsedDays(curve []types.EquityPoint) float64 {
	if len(curve) < 2 {
		return 0
	}

	return float64(curve[len(curve)-1].Time.Sub(curve[0].Time)) / float64(24*time.Hour)
}

// Returns holds the three return figures of a curve.
type Returns struct {
	Total      float64
	Annualized float64
	CAGR       float64
}

// CalculateReturns derives total, annualized and compounded returns. All are
// zero for fewer than two points, no elapsed time or a non-positive start.
func CalculateReturns(curve []types.EquityPoint) Returns {
	days := ElapsedDays(curve)
	if len(curve) < 2 || days <= 0 || !curve[0].Value.IsPositive() {
		return Returns{}
	}

	first := curve[0].Value
	last := curve[len(curve)-1].Value

	total := last.Sub(first).Div(first).InexactFloat64()
	ratio := last.Div(first).InexactFloat64()

	cagr := -1.0
	if ratio > 0 {
		cagr = math.Pow(ratio, 365/days) - 1
	}

	return Returns{
		Total:      total,
		Annualized: finiteOrZero(total * 365 / days),
		CAGR:       finiteOrZero(cagr),
	}
}
