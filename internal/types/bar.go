package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/pkg/errors"
	"github.com/shopspring/decimal"
)

// Bar is one OHLCV observation for a symbol. Prices are exact decimals.
// Bars are created by a data source and only ever read by the backtest core.
type Bar struct {
	Symbol string          `yaml:"symbol" json:"symbol" csv:"symbol" validate:"required"`
	Time   time.Time       `yaml:"time" json:"time" csv:"time" validate:"required"`
	Open   decimal.Decimal `yaml:"open" json:"open" csv:"open"`
	High   decimal.Decimal `yaml:"high" json:"high" csv:"high"`
	Low    decimal.Decimal `yaml:"low" json:"low" csv:"low"`
	Close  decimal.Decimal `yaml:"close" json:"close" csv:"close"`
	Volume decimal.Decimal `yaml:"volume" json:"volume" csv:"volume"`
	// SplitAdjusted is true when prices were back-adjusted for splits.
	SplitAdjusted bool `yaml:"split_adjusted" json:"split_adjusted" csv:"split_adjusted"`
	// DividendAdjusted is true when prices were back-adjusted for dividends.
	DividendAdjusted bool `yaml:"dividend_adjusted" json:"dividend_adjusted" csv:"dividend_adjusted"`
}

// Validate checks the OHLC envelope, positivity of prices and a UTC timestamp.
func (b Bar) Validate() error {
	validate := validator.New()
	if err := validate.Struct(b); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidBar, "invalid bar", err)
	}

	if b.Time.Location() != time.UTC {
		return errors.Newf(errors.ErrCodeInvalidBar, "bar %s at %s is not in UTC", b.Symbol, b.Time)
	}

	prices := []struct {
		name  string
		value decimal.Decimal
	}{{"open", b.Open}, {"high", b.High}, {"low", b.Low}, {"close", b.Close}}

	for _, price := range prices {
		if !price.value.IsPositive() {
			return errors.Newf(errors.ErrCodeInvalidBar,
				"bar %s at %s has non-positive %s price %s", b.Symbol, b.Time, price.name, price.value)
		}
	}

	if b.Volume.IsNegative() {
		return errors.Newf(errors.ErrCodeInvalidBar, "bar %s at %s has negative volume %s", b.Symbol, b.Time, b.Volume)
	}

	if b.Low.GreaterThan(b.Open) || b.Low.GreaterThan(b.Close) || b.High.LessThan(b.Open) || b.High.LessThan(b.Close) {
		return errors.Newf(errors.ErrCodeInvalidBar,
			"bar %s at %s violates low <= open,close <= high (o=%s h=%s l=%s c=%s)",
			b.Symbol, b.Time, b.Open, b.High, b.Low, b.Close)
	}

	return nil
}

// ValidateBars validates every bar and checks that timestamps never go backwards.
func ValidateBars(bars []Bar) error {
	for i, bar := range bars {
		if err := bar.Validate(); err != nil {
			return err
		}

		if i > 0 && bar.Time.Before(bars[i-1].Time) {
			return errors.Newf(errors.ErrCodeInvalidBar,
				"bars for %s are not chronological: %s follows %s", bar.Symbol, bar.Time, bars[i-1].Time)
		}
	}

	return nil
}
