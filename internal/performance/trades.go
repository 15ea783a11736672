package performance

import (
	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/types"
	"github.com/shopspring/decimal"
)

// TradeStats summarises a list of closed trades.
type TradeStats struct {
	Total          int
	Winners        int
	Losers         int
	WinRate        float64
	ProfitFactor   float64
	AverageWin     float64
	AverageLoss    float64
	LargestWin     float64
	LargestLoss    float64
	TotalPnL       float64
	TotalFees      float64
	AvgHoldingDays float64
}

// CalculateTradeStats counts winners and losers and sums their P&L. Breakeven
// trades count toward the total only. The profit factor is zero when there is
// no losing trade.
func CalculateTradeStats(trades []types.Trade) TradeStats {
	stats := TradeStats{Total: len(trades)}
	if len(trades) == 0 {
		return stats
	}

	grossProfit := decimal.Zero
	grossLoss := decimal.Zero
	totalPnL := decimal.Zero
	totalFees := decimal.Zero
	largestWin := decimal.Zero
	largestLoss := decimal.Zero
	holdingDays := 0

	for _, trade := range trades {
		totalPnL = totalPnL.Add(trade.PnL)
		totalFees = totalFees.Add(trade.Fees())
		holdingDays += trade.DurationDays

		switch {
		case trade.IsWinner():
			stats.Winners++
			grossProfit = grossProfit.Add(trade.PnL)
			largestWin = decimal.Max(largestWin, trade.PnL)
		case trade.IsLoser():
			stats.Losers++
			grossLoss = grossLoss.Add(trade.PnL)
			largestLoss = decimal.Min(largestLoss, trade.PnL)
		}
	}

	stats.WinRate = float64(stats.Winners) / float64(stats.Total)

	if stats.Winners > 0 {
		stats.AverageWin = grossProfit.Div(decimal.NewFromInt(int64(stats.Winners))).InexactFloat64()
	}

	if stats.Losers > 0 {
		stats.AverageLoss = grossLoss.Div(decimal.NewFromInt(int64(stats.Losers))).InexactFloat64()
		stats.ProfitFactor = grossProfit.Div(grossLoss.Abs()).InexactFloat64()
	}

	stats.LargestWin = largestWin.InexactFloat64()
	stats.LargestLoss = largestLoss.InexactFloat64()
	stats.TotalPnL = totalPnL.InexactFloat64()
	stats.TotalFees = totalFees.InexactFloat64()
	stats.AvgHoldingDays = float64(holdingDays) / float64(stats.Total)

	return stats
}
