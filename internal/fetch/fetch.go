package fetch

import (
	"context"
	"fmt"

	"coindigest/internal/domain"
)

// Category describes a monitored category as provided by config. URL is only
// set for feed-backed strategies; API strategies build their own URLs from
// the category name.
type Category struct {
	Name string
	URL  string
}

// Request carries all parameters required to execute one category fetch.
type Request struct {
	Category Category
	PageSize int
}

// Strategy captures a single provider implementation (CryptoPanic, RSS, etc.).
type Strategy interface {
	Name() string
	Fetch(ctx context.Context, req Request) ([]domain.Article, error)
}

// Registry keeps a mapping from strategy names to their implementations.
type Registry struct {
	strategies map[string]Strategy
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{strategies: map[string]Strategy{}}
}

// Register adds or replaces a strategy implementation.
func (r *Registry) Register(strategy Strategy) {
	if r.strategies == nil {
		r.strategies = map[string]Strategy{}
	}
	r.strategies[strategy.Name()] = strategy
}

// Resolve returns a strategy by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Strategy, error) {
	if strategy, ok := r.strategies[name]; ok {
		return strategy, nil
	}
	return nil, fmt.Errorf("strategy %s is not registered", name)
}
