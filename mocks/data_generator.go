package mocks

import (
	"math"
	"math/rand"
	"slices"
	"time"

	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/types"
	"github.com/shopspring/decimal"
)

// DataGenerator generates realistic daily bars for testing and benchmarking.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a new DataGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how bars are generated.
type GeneratorConfig struct {
	// Symbol is the trading symbol (e.g., "AAPL", "SPY")
	Symbol string
	// StartTime is the time of the first bar, in UTC
	StartTime time.Time
	// Interval is the duration between each bar
	Interval time.Duration
	// Count is the number of bars to generate
	Count int
	// InitialPrice is the starting price
	InitialPrice float64
	// Volatility controls price movement (0.01 = 1% typical daily volatility)
	Volatility float64
	// Trend is the drift over the whole series (-0.5 to 0.5 for bearish to bullish)
	Trend float64
	// VolumeBase is the average volume per bar
	VolumeBase float64
	// VolumeVariance is the variance in volume (0.0 to 1.0)
	VolumeVariance float64
}

// DefaultConfig returns a year of daily bars starting at 100.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Symbol:         "TEST",
		StartTime:      time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Interval:       24 * time.Hour,
		Count:          252,
		InitialPrice:   100.0,
		Volatility:     0.01, // 1% per bar
		Trend:          0.0,  // neutral
		VolumeBase:     1000000,
		VolumeVariance: 0.3,
	}
}

// Generate creates bars following a geometric Brownian motion. Every bar
// satisfies low <= open, close <= high with positive prices.
func (g *DataGenerator) Generate(config GeneratorConfig) []types.Bar {
	bars := make([]types.Bar, config.Count)
	currentPrice := config.InitialPrice
	currentTime := config.StartTime.UTC()

	for i := 0; i < config.Count; i++ {
		open := currentPrice

		// Box-Muller transform for a normal draw
		u1 := 1 - g.rng.Float64()
		u2 := g.rng.Float64()
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

		priceChange := config.Volatility * z
		drift := 0.0
		if config.Count > 0 {
			drift = config.Trend / float64(config.Count)
		}

		closePrice := open * (1 + priceChange + drift)
		if closePrice <= 0 {
			closePrice = open * 0.99
		}

		highExtension := math.Abs(g.rng.Float64() * config.Volatility * open * 0.5)
		lowExtension := math.Abs(g.rng.Float64() * config.Volatility * open * 0.5)

		high := math.Max(open, closePrice) + highExtension
		low := math.Min(open, closePrice) - lowExtension
		if low <= 0 {
			low = math.Min(open, closePrice) * 0.99
		}

		volumeVariation := 1.0 + (g.rng.Float64()*2-1)*config.VolumeVariance
		volume := config.VolumeBase * volumeVariation
		if volume < 0 {
			volume = config.VolumeBase * 0.1
		}

		bars[i] = types.Bar{
			Symbol:           config.Symbol,
			Time:             currentTime,
			Open:             roundToDecimals(open, 4),
			High:             roundToDecimals(high, 4),
			Low:              roundToDecimals(low, 4),
			Close:            roundToDecimals(closePrice, 4),
			Volume:           roundToDecimals(volume, 0),
			SplitAdjusted:    false,
			DividendAdjusted: false,
		}

		currentPrice = closePrice
		currentTime = currentTime.Add(config.Interval)
	}

	return bars
}

// GenerateMultiSymbol generates one series per symbol, in symbol order so the
// same seed always yields the same map.
func (g *DataGenerator) GenerateMultiSymbol(symbols []string, baseConfig GeneratorConfig) map[string][]types.Bar {
	ordered := slices.Clone(symbols)
	slices.Sort(ordered)

	series := make(map[string][]types.Bar, len(ordered))

	for _, symbol := range ordered {
		config := baseConfig
		config.Symbol = symbol
		// Vary initial price and volatility slightly per symbol
		config.InitialPrice = baseConfig.InitialPrice * (0.8 + g.rng.Float64()*0.4)
		config.Volatility = baseConfig.Volatility * (0.8 + g.rng.Float64()*0.4)

		series[symbol] = g.Generate(config)
	}

	return series
}

// GenerateYear is a convenience function returning 252 daily bars with default
// settings and a fixed seed.
func GenerateYear(symbol string) []types.Bar {
	gen := NewDataGenerator(42)
	config := DefaultConfig()
	config.Symbol = symbol

	return gen.Generate(config)
}

func roundToDecimals(val float64, places int32) decimal.Decimal {
	return decimal.NewFromFloat(val).Round(places)
}
