package strategy

import (
	"slices"
	"sync"

	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/pkg/errors"
)

// Factory builds a strategy from its YAML config document.
type Factory func(config string) (Strategy, error)

// Registry maps strategy names to factories.
type Registry struct {
	factories map[string]Factory
	mu        sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		mu:        sync.RWMutex{},
	}
}

// NewDefaultRegistry creates a registry holding every built-in strategy.
func NewDefaultRegistry() *Registry {
	registry := NewRegistry()

	builtins := map[string]Factory{
		BuyAndHoldName:             func(string) (Strategy, error) { return NewBuyAndHold(), nil },
		AlwaysBuyName:              func(string) (Strategy, error) { return NewAlwaysBuy(), nil },
		ConsecutiveCandlesName:     func(string) (Strategy, error) { return NewConsecutiveCandles(), nil },
		MovingAverageCrossoverName: NewMovingAverageCrossoverFromYAML,
	}

	for name, factory := range builtins {
		// names are unique, Register cannot fail here
		_ = registry.Register(name, factory)
	}

	return registry
}

// Register adds a factory under name.
func (r *Registry) Register(name string, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name == "" || factory == nil {
		return errors.New(errors.ErrCodeInvalidParameter, "strategy name and factory are required")
	}

	if _, exists := r.factories[name]; exists {
		return errors.Newf(errors.ErrCodeInvalidParameter, "strategy %s already registered", name)
	}

	r.factories[name] = factory

	return nil
}

// Create builds the strategy registered under name.
func (r *Registry) Create(name string, config string) (Strategy, error) {
	r.mu.RLock()
	factory, exists := r.factories[name]
	r.mu.RUnlock()

	if !exists {
		return nil, errors.Newf(errors.ErrCodeUnsupportedStrategy, "strategy %s not found", name)
	}

	return factory(config)
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}
