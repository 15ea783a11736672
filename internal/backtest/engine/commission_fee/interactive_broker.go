package commission_fee

import "github.com/shopspring/decimal"

var (
	ibPerShare   = decimal.RequireFromString("0.005")
	ibMinimumFee = decimal.NewFromInt(1)
)

// InteractiveBrokerCommissionFee charges $0.005 per share with a $1 minimum on each leg.
type InteractiveBrokerCommissionFee struct {
}

func NewInteractiveBrokerCommissionFee() CommissionFee {
	return &InteractiveBrokerCommissionFee{}
}

func (c *InteractiveBrokerCommissionFee) Calculate(shares int64) decimal.Decimal {
	leg := ibPerShare.Mul(decimal.NewFromInt(shares))
	if leg.LessThan(ibMinimumFee) {
		leg = ibMinimumFee
	}

	return leg.Mul(decimal.NewFromInt(2))
}
