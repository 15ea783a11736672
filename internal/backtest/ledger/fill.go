package ledger

import (
	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/types"
	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
)

// EntryFillPrice returns the execution price for an entry triggered by bar at
// position index of the merged run.
//
//   - The last bar of its symbol cannot be filled because no later bar of that
//     symbol exists to exit on. This covers the last bar of the run.
//   - The first bar of the run fills at its open.
//   - Any later bar fills at its close.
func EntryFillPrice(bar types.Bar, index int, lastOfSymbol bool) optional.Option[decimal.Decimal] {
	if lastOfSymbol {
		return optional.None[decimal.Decimal]()
	}

	if index == 0 {
		return optional.Some(bar.Open)
	}

	return optional.Some(bar.Close)
}

// ExitFillPrice returns the execution price for an exit triggered by bar.
func ExitFillPrice(bar types.Bar) decimal.Decimal {
	return bar.Close
}
