package commission_fee

import "github.com/shopspring/decimal"

// FlatCommissionFee charges the same amount for every completed trade.
type FlatCommissionFee struct {
	fee decimal.Decimal
}

func NewFlatCommissionFee(fee decimal.Decimal) CommissionFee {
	return &FlatCommissionFee{fee: fee}
}

func (c *FlatCommissionFee) Calculate(shares int64) decimal.Decimal {
	return c.fee
}
