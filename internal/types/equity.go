package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// EquityPoint is the account value recorded after one bar was processed.
type EquityPoint struct {
	Time  time.Time       `yaml:"timestamp" json:"timestamp"`
	Value decimal.Decimal `yaml:"value" json:"value"`
}

// EquityValues returns the point values as float64 for statistics.
func EquityValues(curve []EquityPoint) []float64 {
	values := make([]float64, len(curve))
	for i, point := range curve {
		values[i] = point.Value.InexactFloat64()
	}

	return values
}

// SumEquityCurves adds curves point by point. All curves must have the same
// length and come from the same bar stream; timestamps are taken from the first.
func SumEquityCurves(curves ...[]EquityPoint) []EquityPoint {
	if len(curves) == 0 {
		return []EquityPoint{}
	}

	sum := make([]EquityPoint, len(curves[0]))
	for i, point := range curves[0] {
		sum[i] = EquityPoint{Time: point.Time, Value: decimal.Zero}
	}

	for _, curve := range curves {
		for i := range sum {
			if i < len(curve) {
				sum[i].Value = sum[i].Value.Add(curve[i].Value)
			}
		}
	}

	return sum
}
