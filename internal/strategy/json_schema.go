package strategy

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/pkg/errors"
)

// ToJSONSchema converts a strategy config struct to a JSON schema.
func ToJSONSchema[T any](t T) (string, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = true
	schema := r.Reflect(t)

	jsonSchemaBytes, err := json.Marshal(schema)
	if err != nil {
		return "", err
	}

	return string(jsonSchemaBytes), nil
}

// ConfigSchema returns the JSON schema of a built-in strategy's config.
// Strategies without options have an empty object schema.
func ConfigSchema(name string) (string, error) {
	switch name {
	case MovingAverageCrossoverName:
		return ToJSONSchema(MovingAverageCrossoverConfig{})
	case BuyAndHoldName, AlwaysBuyName, ConsecutiveCandlesName:
		return ToJSONSchema(struct{}{})
	default:
		return "", errors.Newf(errors.ErrCodeUnsupportedStrategy, "strategy %s not found", name)
	}
}
