package commission_fee

import "github.com/shopspring/decimal"

// CommissionFee prices the commission of one completed trade (entry and exit leg).
type CommissionFee interface {
	// Calculate returns the commission in account currency for a round trip of shares.
	Calculate(shares int64) decimal.Decimal
}

type Broker string

const (
	BrokerFlat              Broker = "flat"
	BrokerInteractiveBroker Broker = "interactive_broker"
	BrokerZero              Broker = "zero_commission"
)

var AllBrokers = []any{
	BrokerFlat,
	BrokerInteractiveBroker,
	BrokerZero,
}

// GetCommissionFeeHandler returns the model for broker. flatFee is only used by
// BrokerFlat; unknown brokers fall back to the flat model.
func GetCommissionFeeHandler(broker Broker, flatFee decimal.Decimal) CommissionFee {
	switch broker {
	case BrokerInteractiveBroker:
		return NewInteractiveBrokerCommissionFee()
	case BrokerZero:
		return NewZeroCommissionFee()
	case BrokerFlat:
		return NewFlatCommissionFee(flatFee)
	default:
		return NewFlatCommissionFee(flatFee)
	}
}
