package types

import (
	"slices"
	"time"
)

// RunConfig is the configuration snapshot embedded in every result.
type RunConfig struct {
	Symbols        []string  `yaml:"symbols" json:"symbols"`
	StartTime      time.Time `yaml:"start_time" json:"start_time"`
	EndTime        time.Time `yaml:"end_time" json:"end_time"`
	InitialCapital float64   `yaml:"initial_capital" json:"initial_capital"`
	Commission     float64   `yaml:"commission" json:"commission"`
	Broker         string    `yaml:"broker" json:"broker"`
	Slippage       float64   `yaml:"slippage" json:"slippage"`
	RiskFreeRate   float64   `yaml:"risk_free_rate" json:"risk_free_rate"`
}

// BacktestResult is the read-only bundle produced by one strategy run.
type BacktestResult struct {
	RunID                string             `yaml:"run_id" json:"run_id"`
	StrategyID           string             `yaml:"strategy_id" json:"strategy_id"`
	StrategyName         string             `yaml:"strategy_name" json:"strategy_name"`
	Config               RunConfig          `yaml:"config" json:"config"`
	Trades               []Trade            `yaml:"trades" json:"trades"`
	EquityCurve          []EquityPoint      `yaml:"equity_curve" json:"equity_curve"`
	Metrics              PerformanceMetrics `yaml:"metrics" json:"metrics"`
	DataWarnings         []string           `yaml:"data_warnings" json:"data_warnings"`
	ExecutionTimeSeconds float64            `yaml:"execution_time_seconds" json:"execution_time_seconds"`
	CompletedAt          time.Time          `yaml:"completed_at" json:"completed_at"`
}

// OrchestratorResult bundles every strategy of a multi-strategy run with the
// combined portfolio view.
type OrchestratorResult struct {
	RunID                string                    `yaml:"run_id" json:"run_id"`
	Config               RunConfig                 `yaml:"config" json:"config"`
	StrategyResults      map[string]BacktestResult `yaml:"strategy_results" json:"strategy_results"`
	Comparison           map[string]ComparisonRow  `yaml:"comparison" json:"comparison"`
	Trades               []Trade                   `yaml:"trades" json:"trades"`
	EquityCurve          []EquityPoint             `yaml:"equity_curve" json:"equity_curve"`
	Metrics              PerformanceMetrics        `yaml:"metrics" json:"metrics"`
	DataWarnings         []string                  `yaml:"data_warnings" json:"data_warnings"`
	ExecutionTimeSeconds float64                   `yaml:"execution_time_seconds" json:"execution_time_seconds"`
	CompletedAt          time.Time                 `yaml:"completed_at" json:"completed_at"`
}

// StrategyIDs returns the strategy ids in sorted order.
func (r OrchestratorResult) StrategyIDs() []string {
	ids := make([]string, 0, len(r.StrategyResults))
	for id := range r.StrategyResults {
		ids = append(ids, id)
	}

	slices.Sort(ids)

	return ids
}

// SortTradesByEntry orders trades by entry time. Ties keep their closing order.
func SortTradesByEntry(trades []Trade) {
	slices.SortStableFunc(trades, func(a, b Trade) int {
		return a.EntryTime.Compare(b.EntryTime)
	})
}
