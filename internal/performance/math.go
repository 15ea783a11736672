package performance

import "math"

// TradingDaysPerYear annualizes per-step statistics.
const TradingDaysPerYear = 252.0

// ArithmeticAverage divides the sum of values by their count.
func ArithmeticAverage(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}

// SampleStandardDeviation uses the n-1 denominator. Fewer than two values give 0.
func SampleStandardDeviation(values []float64) float64 {
	if len(values) <= 1 {
		return 0
	}

	mean := ArithmeticAverage(values)

	var combined float64
	for _, v := range values {
		combined += math.Pow(v-mean, 2)
	}

	return math.Sqrt(combined / float64(len(values)-1))
}

// DownsideDeviation is the root mean square of the negative values over all values.
func DownsideDeviation(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var squared float64
	for _, v := range values {
		if v < 0 {
			squared += v * v
		}
	}

	return math.Sqrt(squared / float64(len(values)))
}

// PeriodsPerYear converts the average spacing of observations in days into a
// number of periods per trading year. A zero spacing counts as daily.
func PeriodsPerYear(avgDaysPerStep float64) float64 {
	if avgDaysPerStep <= 0 {
		return TradingDaysPerYear
	}

	return TradingDaysPerYear / avgDaysPerStep
}

// StepReturns are the simple returns between consecutive values. A step from a
// non-positive value is skipped.
func StepReturns(values []float64) []float64 {
	if len(values) < 2 {
		return []float64{}
	}

	returns := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		if values[i-1] <= 0 {
			continue
		}

		returns = append(returns, values[i]/values[i-1]-1)
	}

	return returns
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}

	return v
}
