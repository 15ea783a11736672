package types

import (
	"testing"
	"time"

	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type BarTestSuite struct {
	suite.Suite
}

func TestBarSuite(t *testing.T) {
	suite.Run(t, new(BarTestSuite))
}

func newTestBar(open, high, low, close string) Bar {
	return Bar{
		Symbol:           "AAPL",
		Time:             time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Open:             decimal.RequireFromString(open),
		High:             decimal.RequireFromString(high),
		Low:              decimal.RequireFromString(low),
		Close:            decimal.RequireFromString(close),
		Volume:           decimal.NewFromInt(1000),
		SplitAdjusted:    false,
		DividendAdjusted: false,
	}
}

func (suite *BarTestSuite) TestValidate() {
	tests := []struct {
		name      string
		bar       Bar
		expectErr bool
	}{
		{"valid bar", newTestBar("100", "105", "99", "101"), false},
		{"flat bar", newTestBar("100", "100", "100", "100"), false},
		{"low above open", newTestBar("100", "105", "100.5", "101"), true},
		{"close above high", newTestBar("100", "105", "99", "106"), true},
		{"zero open", newTestBar("0", "105", "0", "101"), true},
		{"negative low", newTestBar("100", "105", "-1", "101"), true},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			err := tc.bar.Validate()
			if tc.expectErr {
				suite.Error(err)
				suite.True(errors.HasCode(err, errors.ErrCodeInvalidBar))
			} else {
				suite.NoError(err)
			}
		})
	}
}

func (suite *BarTestSuite) TestValidateRejectsMissingFields() {
	bar := newTestBar("100", "105", "99", "101")
	bar.Symbol = ""
	suite.True(errors.HasCode(bar.Validate(), errors.ErrCodeInvalidBar))

	bar = newTestBar("100", "105", "99", "101")
	bar.Time = time.Time{}
	suite.True(errors.HasCode(bar.Validate(), errors.ErrCodeInvalidBar))
}

func (suite *BarTestSuite) TestValidateRejectsNegativeVolume() {
	bar := newTestBar("100", "105", "99", "101")
	bar.Volume = decimal.NewFromInt(-5)
	suite.Error(bar.Validate())
}

func (suite *BarTestSuite) TestValidateRejectsNonUTC() {
	bar := newTestBar("100", "105", "99", "101")
	bar.Time = time.Date(2024, 1, 2, 9, 30, 0, 0, time.FixedZone("EST", -5*3600))
	suite.Error(bar.Validate())

	bar.Time = time.Date(2024, 1, 2, 9, 30, 0, 0, time.FixedZone("GMT", 0))
	err := bar.Validate()
	suite.Error(err)
	suite.Contains(err.Error(), "not in UTC")

	bar.Time = time.Date(2024, 1, 2, 9, 30, 0, 0, time.FixedZone("EST", -5*3600)).UTC()
	suite.NoError(bar.Validate())
}

func (suite *BarTestSuite) TestValidateBarsOrdering() {
	first := newTestBar("100", "105", "99", "101")
	second := newTestBar("101", "103", "100", "102")
	second.Time = first.Time.Add(24 * time.Hour)

	suite.NoError(ValidateBars([]Bar{first, second}))
	suite.NoError(ValidateBars(nil))

	err := ValidateBars([]Bar{second, first})
	suite.Error(err)
	suite.Contains(err.Error(), "not chronological")
}
