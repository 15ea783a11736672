package types

// PerformanceMetrics are the return and risk statistics derived from a finished
// run. Ratios are fractions: 0.15 means 15%.
type PerformanceMetrics struct {
	// TotalReturn is (last equity - first equity) / first equity.
	TotalReturn float64 `yaml:"total_return" json:"total_return"`
	// AnnualizedReturn scales TotalReturn linearly to 365 days.
	AnnualizedReturn float64 `yaml:"annualized_return" json:"annualized_return"`
	// CAGR is the compounded annual growth rate over the elapsed days.
	CAGR float64 `yaml:"cagr" json:"cagr"`
	// MaxDrawdown is the largest peak-to-trough decline, between 0 and 1.
	MaxDrawdown float64 `yaml:"max_drawdown" json:"max_drawdown"`
	// MaxDrawdownDurationDays is measured from the peak to the trough of the largest drawdown.
	MaxDrawdownDurationDays int     `yaml:"max_drawdown_duration_days" json:"max_drawdown_duration_days"`
	SharpeRatio             float64 `yaml:"sharpe_ratio" json:"sharpe_ratio"`
	SortinoRatio            float64 `yaml:"sortino_ratio" json:"sortino_ratio"`
	CalmarRatio             float64 `yaml:"calmar_ratio" json:"calmar_ratio"`
	// Count of all closed trades.
	TotalTrades int `yaml:"total_trades" json:"total_trades"`
	// Count of trades with positive pnl.
	WinningTrades int `yaml:"winning_trades" json:"winning_trades"`
	// Count of trades with negative pnl.
	LosingTrades int     `yaml:"losing_trades" json:"losing_trades"`
	WinRate      float64 `yaml:"win_rate" json:"win_rate"`
	// ProfitFactor is gross profit over gross loss, and 0 when there are no losing trades.
	ProfitFactor   float64 `yaml:"profit_factor" json:"profit_factor"`
	AverageWin     float64 `yaml:"average_win" json:"average_win"`
	AverageLoss    float64 `yaml:"average_loss" json:"average_loss"`
	LargestWin     float64 `yaml:"largest_win" json:"largest_win"`
	LargestLoss    float64 `yaml:"largest_loss" json:"largest_loss"`
	TotalPnL       float64 `yaml:"total_pnl" json:"total_pnl"`
	TotalFees      float64 `yaml:"total_fees" json:"total_fees"`
	AvgHoldingDays float64 `yaml:"avg_holding_days" json:"avg_holding_days"`
	InitialEquity  float64 `yaml:"initial_equity" json:"initial_equity"`
	FinalEquity    float64 `yaml:"final_equity" json:"final_equity"`
}

// ComparisonRow summarises one strategy of an orchestrated run.
type ComparisonRow struct {
	Name             string  `yaml:"name" json:"name"`
	Weight           float64 `yaml:"weight" json:"weight"`
	AllocatedCapital float64 `yaml:"allocated_capital" json:"allocated_capital"`
	FinalEquity      float64 `yaml:"final_equity" json:"final_equity"`
	TotalReturn      float64 `yaml:"total_return" json:"total_return"`
	AnnualizedReturn float64 `yaml:"annualized_return" json:"annualized_return"`
	CAGR             float64 `yaml:"cagr" json:"cagr"`
	SharpeRatio      float64 `yaml:"sharpe_ratio" json:"sharpe_ratio"`
	MaxDrawdown      float64 `yaml:"max_drawdown" json:"max_drawdown"`
	WinRate          float64 `yaml:"win_rate" json:"win_rate"`
	ProfitFactor     float64 `yaml:"profit_factor" json:"profit_factor"`
	TotalTrades      int     `yaml:"total_trades" json:"total_trades"`
}

// NewComparisonRow copies the headline metrics of one strategy.
func NewComparisonRow(name string, weight float64, allocated float64, metrics PerformanceMetrics) ComparisonRow {
	return ComparisonRow{
		Name:             name,
		Weight:           weight,
		AllocatedCapital: allocated,
		FinalEquity:      metrics.FinalEquity,
		TotalReturn:      metrics.TotalReturn,
		AnnualizedReturn: metrics.AnnualizedReturn,
		CAGR:             metrics.CAGR,
		SharpeRatio:      metrics.SharpeRatio,
		MaxDrawdown:      metrics.MaxDrawdown,
		WinRate:          metrics.WinRate,
		ProfitFactor:     metrics.ProfitFactor,
		TotalTrades:      metrics.TotalTrades,
	}
}
