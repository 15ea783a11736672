// Package performance derives return, risk and trade statistics from a
// finished run. Every function is pure.
package performance

import (
	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/types"
	"github.com/shopspring/decimal"
)

// Calculate builds the metrics of a run from its closed trades and equity
// curve. initialCapital stands in for the curve when it is empty.
func Calculate(trades []types.Trade, equity []types.EquityPoint, riskFreeRate float64, initialCapital decimal.Decimal) types.PerformanceMetrics {
	finalEquity := initialCapital
	if len(equity) > 0 {
		finalEquity = equity[len(equity)-1].Value
	}

	returns := CalculateReturns(equity)
	drawdown := MaxDrawdown(equity)
	ratios := CalculateRatios(equity, riskFreeRate)
	tradeStats := CalculateTradeStats(trades)

	calmar := 0.0
	if drawdown.Value > 0 {
		calmar = finiteOrZero(returns.CAGR / drawdown.Value)
	}

	return types.PerformanceMetrics{
		TotalReturn:             returns.Total,
		AnnualizedReturn:        returns.Annualized,
		CAGR:                    returns.CAGR,
		MaxDrawdown:             drawdown.Value,
		MaxDrawdownDurationDays: drawdown.DurationDays,
		SharpeRatio:             ratios.Sharpe,
		SortinoRatio:            ratios.Sortino,
		CalmarRatio:             calmar,
		TotalTrades:             tradeStats.Total,
		WinningTrades:           tradeStats.Winners,
		LosingTrades:            tradeStats.Losers,
		WinRate:                 tradeStats.WinRate,
		ProfitFactor:            tradeStats.ProfitFactor,
		AverageWin:              tradeStats.AverageWin,
		AverageLoss:             tradeStats.AverageLoss,
		LargestWin:              tradeStats.LargestWin,
		LargestLoss:             tradeStats.LargestLoss,
		TotalPnL:                tradeStats.TotalPnL,
		TotalFees:               tradeStats.TotalFees,
		AvgHoldingDays:          tradeStats.AvgHoldingDays,
		InitialEquity:           initialCapital.InexactFloat64(),
		FinalEquity:             finalEquity.InexactFloat64(),
	}
}
