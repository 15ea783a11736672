package engine

import (
	"encoding/json"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/backtest/engine/commission_fee"
	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/types"
	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/pkg/errors"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type BacktestEngineV1Config struct {
	Symbols        []string              `yaml:"symbols" json:"symbols" validate:"required,min=1,dive,required" jsonschema:"title=Symbols,description=Symbols to simulate,minItems=1"`
	StartTime      time.Time             `yaml:"start_time" json:"start_time" validate:"required" jsonschema:"title=Start Time,description=First bar time included in the backtest"`
	EndTime        time.Time             `yaml:"end_time" json:"end_time" validate:"required" jsonschema:"title=End Time,description=Last bar time included in the backtest"`
	InitialCapital float64               `yaml:"initial_capital" json:"initial_capital" validate:"gt=0" jsonschema:"title=Initial Capital,description=Starting capital for the backtest in USD,exclusiveMinimum=0"`
	Commission     float64               `yaml:"commission" json:"commission" validate:"gte=0" jsonschema:"title=Commission,description=Flat commission charged per completed trade,minimum=0"`
	Broker         commission_fee.Broker `yaml:"broker" json:"broker" jsonschema:"title=Broker,description=The broker to use for commission calculations"`
	Slippage       float64               `yaml:"slippage" json:"slippage" validate:"gte=0,lt=1" jsonschema:"title=Slippage,description=Fraction of traded notional lost on entry and exit,minimum=0,exclusiveMaximum=1"`
	RiskFreeRate   float64               `yaml:"risk_free_rate" json:"risk_free_rate" jsonschema:"title=Risk Free Rate,description=Annual risk free rate used by the Sharpe ratio,default=0.02"`
}

// ParseConfig decodes a YAML document and validates it.
func ParseConfig(data []byte) (BacktestEngineV1Config, error) {
	config := EmptyConfig()

	if err := yaml.Unmarshal(data, &config); err != nil {
		return BacktestEngineV1Config{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse backtest config", err)
	}

	if err := config.Validate(); err != nil {
		return BacktestEngineV1Config{}, err
	}

	return config, nil
}

// Validate rejects configurations that cannot produce a meaningful run.
func (c BacktestEngineV1Config) Validate() error {
	if len(c.Symbols) == 0 {
		return errors.New(errors.ErrCodeInvalidConfiguration, "at least one symbol is required")
	}

	if !c.EndTime.After(c.StartTime) {
		return errors.Newf(errors.ErrCodeInvalidConfiguration,
			"end_time %s must be after start_time %s",
			c.EndTime.Format(time.RFC3339), c.StartTime.Format(time.RFC3339))
	}

	if math.IsNaN(c.InitialCapital) || c.InitialCapital <= 0 {
		return errors.Newf(errors.ErrCodeInvalidConfiguration, "initial_capital must be positive, got %v", c.InitialCapital)
	}

	if math.IsNaN(c.Commission) || c.Commission < 0 {
		return errors.Newf(errors.ErrCodeInvalidConfiguration, "commission must not be negative, got %v", c.Commission)
	}

	if math.IsNaN(c.Slippage) || c.Slippage < 0 || c.Slippage >= 1 {
		return errors.Newf(errors.ErrCodeInvalidConfiguration, "slippage must be in [0, 1), got %v", c.Slippage)
	}

	if math.IsNaN(c.RiskFreeRate) || math.IsInf(c.RiskFreeRate, 0) {
		return errors.Newf(errors.ErrCodeInvalidConfiguration, "risk_free_rate must be finite, got %v", c.RiskFreeRate)
	}

	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid backtest config", err)
	}

	return nil
}

// CommissionFee returns the commission model selected by Broker.
func (c BacktestEngineV1Config) CommissionFee() commission_fee.CommissionFee {
	return commission_fee.GetCommissionFeeHandler(c.Broker, decimal.NewFromFloat(c.Commission))
}

// RunConfig is the snapshot stored in results.
func (c BacktestEngineV1Config) RunConfig() types.RunConfig {
	return types.RunConfig{
		Symbols:        append([]string(nil), c.Symbols...),
		StartTime:      c.StartTime,
		EndTime:        c.EndTime,
		InitialCapital: c.InitialCapital,
		Commission:     c.Commission,
		Broker:         string(c.Broker),
		Slippage:       c.Slippage,
		RiskFreeRate:   c.RiskFreeRate,
	}
}

// BrokerSchemaMapper renders commission_fee.Broker as a string enum.
func BrokerSchemaMapper(t reflect.Type) *jsonschema.Schema {
	if strings.Contains(t.String(), "commission_fee.Broker") {
		return &jsonschema.Schema{
			Type: "string",
			Enum: commission_fee.AllBrokers,
		}
	}

	return nil
}

// GenerateSchema generates a JSON schema for the BacktestEngineV1Config
func (c *BacktestEngineV1Config) GenerateSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper:                     BrokerSchemaMapper,
	}

	schema := reflector.Reflect(c)

	schema.Title = "backtest-engine-v1-config"
	schema.Description = "Configuration schema for BacktestEngineV1"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema, nil
}

// GenerateSchemaJSON generates a JSON schema string for the BacktestEngineV1Config
func (c *BacktestEngineV1Config) GenerateSchemaJSON() (string, error) {
	schema, err := c.GenerateSchema()
	if err != nil {
		return "", err
	}

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}

func TestConfig(symbols []string, startTime time.Time, endTime time.Time, broker commission_fee.Broker) BacktestEngineV1Config {
	return BacktestEngineV1Config{
		Symbols:        symbols,
		StartTime:      startTime,
		EndTime:        endTime,
		InitialCapital: 10000,
		Commission:     0,
		Broker:         broker,
		Slippage:       0,
		RiskFreeRate:   0.02,
	}
}

// EmptyConfig returns a BacktestEngineV1Config with default values
func EmptyConfig() BacktestEngineV1Config {
	return BacktestEngineV1Config{
		Symbols:        nil,
		StartTime:      time.Time{},
		EndTime:        time.Time{},
		InitialCapital: 0,
		Commission:     0,
		Broker:         commission_fee.BrokerFlat,
		Slippage:       0,
		RiskFreeRate:   0.02,
	}
}
