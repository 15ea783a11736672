package commission_fee

import "github.com/shopspring/decimal"

// ZeroCommissionFee implements CommissionFee interface with zero commission.
type ZeroCommissionFee struct{}

// NewZeroCommissionFee creates a new zero commission fee.
func NewZeroCommissionFee() CommissionFee {
	return &ZeroCommissionFee{}
}

// Calculate returns 0 for any quantity.
func (c *ZeroCommissionFee) Calculate(shares int64) decimal.Decimal {
	return decimal.Zero
}
