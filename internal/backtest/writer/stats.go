package writer

import (
	"os"
	"time"

	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/types"
	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/version"
	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Stats is the content of stats.yaml.
type Stats struct {
	SchemaVersion string                   `yaml:"schema_version" json:"schema_version"`
	EngineVersion string                   `yaml:"engine_version" json:"engine_version"`
	RunID         string                   `yaml:"run_id" json:"run_id"`
	StrategyID    string                   `yaml:"strategy_id,omitempty" json:"strategy_id,omitempty"`
	StrategyName  string                   `yaml:"strategy_name,omitempty" json:"strategy_name,omitempty"`
	Config        types.RunConfig          `yaml:"config" json:"config"`
	Metrics       types.PerformanceMetrics `yaml:"metrics" json:"metrics"`
	// Comparison is only set for orchestrated runs.
	Comparison           map[string]types.ComparisonRow `yaml:"comparison,omitempty" json:"comparison,omitempty"`
	DataWarnings         []string                       `yaml:"data_warnings" json:"data_warnings"`
	ExecutionTimeSeconds float64                        `yaml:"execution_time_seconds" json:"execution_time_seconds"`
	CompletedAt          time.Time                      `yaml:"completed_at" json:"completed_at"`
	TradesFilePath       string                         `yaml:"trades_file_path" json:"trades_file_path"`
	EquityFilePath       string                         `yaml:"equity_file_path" json:"equity_file_path"`
}

// WriteStats writes stats as YAML to path.
func WriteStats(path string, stats Stats) error {
	data, err := yaml.Marshal(stats)
	if err != nil {
		return errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to marshal stats to YAML", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(errors.ErrCodeResultWriteFailed, err, "failed to write stats to %s", path)
	}

	return nil
}

// ReadStats reads a stats.yaml file and rejects files written with an
// incompatible schema version.
func ReadStats(path string) (Stats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Stats{}, errors.Wrapf(errors.ErrCodeResultReadFailed, err, "failed to read stats file %s", path)
	}

	var stats Stats
	if err := yaml.Unmarshal(data, &stats); err != nil {
		return Stats{}, errors.Wrap(errors.ErrCodeResultReadFailed, "failed to unmarshal stats", err)
	}

	if err := version.CheckSchemaCompatibility(stats.SchemaVersion, version.SchemaVersion); err != nil {
		return Stats{}, err
	}

	return stats, nil
}
