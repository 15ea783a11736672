package orchestrator

import (
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	engine "github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/backtest/engine/engine_v1"
	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/strategy"
	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/pkg/errors"
	"gopkg.in/yaml.v3"
)

// StrategyConfig selects a registered strategy and its share of the capital.
type StrategyConfig struct {
	Name   string  `yaml:"name" json:"name" validate:"required" jsonschema:"title=Name,description=Registered strategy name"`
	Weight float64 `yaml:"weight" json:"weight" validate:"gte=0,lte=1" jsonschema:"title=Weight,description=Fraction of initial capital allocated to the strategy,minimum=0,maximum=1"`
	// Config is passed verbatim to the strategy factory.
	Config string `yaml:"config" json:"config" jsonschema:"title=Config,description=Strategy specific YAML configuration"`
}

// Config is a backtest configuration plus the weighted strategy list.
type Config struct {
	engine.BacktestEngineV1Config `yaml:",inline"`
	Strategies                    []StrategyConfig `yaml:"strategies" json:"strategies" validate:"required,min=1,dive" jsonschema:"title=Strategies,minItems=1"`
}

// ParseConfig decodes a YAML document with the backtest settings at the top
// level and a strategies list.
func ParseConfig(data []byte) (Config, error) {
	config := Config{
		BacktestEngineV1Config: engine.EmptyConfig(),
		Strategies:             nil,
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse orchestrator config", err)
	}

	if err := config.BacktestEngineV1Config.Validate(); err != nil {
		return Config{}, err
	}

	if len(config.Strategies) == 0 {
		return Config{}, errors.New(errors.ErrCodeBacktestNoStrategies, "at least one strategy is required")
	}

	if err := validator.New().Struct(config); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid orchestrator config", err)
	}

	return config, nil
}

// Build creates the configured strategies from the registry in list order.
func (c Config) Build(registry *strategy.Registry) ([]WeightedStrategy, error) {
	strategies := make([]WeightedStrategy, 0, len(c.Strategies))

	for _, entry := range c.Strategies {
		strat, err := registry.Create(entry.Name, entry.Config)
		if err != nil {
			return nil, err
		}

		strategies = append(strategies, WeightedStrategy{
			Strategy: strat,
			Weight:   entry.Weight,
		})
	}

	return strategies, nil
}

// GenerateSchemaJSON returns the JSON schema of the orchestrator config file.
func (c *Config) GenerateSchemaJSON() (string, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper:                     engine.BrokerSchemaMapper,
	}

	schema := reflector.Reflect(c)
	schema.Title = "backtest-config"
	schema.Description = "Configuration schema for a weighted multi strategy backtest"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}

// SampleConfig is a runnable example written next to the schema.
func SampleConfig() Config {
	config := Config{
		BacktestEngineV1Config: engine.EmptyConfig(),
		Strategies: []StrategyConfig{
			{Name: strategy.BuyAndHoldName, Weight: 0.5, Config: ""},
			{Name: strategy.MovingAverageCrossoverName, Weight: 0.5, Config: "fast_period: 5\nslow_period: 20\n"},
		},
	}
	config.Symbols = []string{"SPY"}
	config.StartTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	config.EndTime = time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	config.InitialCapital = 100000

	return config
}
