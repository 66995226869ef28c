package feeds

import (
	"context"
	"fmt"
	"log/slog"

	"coindigest/internal/config"
	"coindigest/internal/domain"
	"coindigest/internal/fetch"
	"coindigest/internal/ports"
)

// StrategySource implements NewsSource via registered provider strategies.
type StrategySource struct {
	registry   *fetch.Registry
	provider   string
	pageSize   int
	categories map[string]fetch.Category
	logger     *slog.Logger
}

var _ ports.NewsSource = (*StrategySource)(nil)

// NewStrategySource wires the strategy registry with config-defined
// categories.
func NewStrategySource(reg *fetch.Registry, cfg config.SourceConfig, log *slog.Logger) *StrategySource {
	categories := make(map[string]fetch.Category, len(cfg.Categories))
	for _, cat := range cfg.Categories {
		categories[cat.Name] = fetch.Category{Name: cat.Name, URL: cat.URL}
	}

	return &StrategySource{
		registry:   reg,
		provider:   cfg.Provider,
		pageSize:   cfg.PageSize,
		categories: categories,
		logger:     log,
	}
}

// FetchCategory resolves the configured strategy and pulls one category page.
func (s *StrategySource) FetchCategory(ctx context.Context, category string) ([]domain.Article, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("strategy registry is not configured")
	}

	strategy, err := s.registry.Resolve(s.provider)
	if err != nil {
		return nil, fmt.Errorf("category %s: %w", category, err)
	}

	cat, ok := s.categories[category]
	if !ok {
		cat = fetch.Category{Name: category}
	}

	s.debug("fetch category", "provider", s.provider, "category", category)

	articles, err := strategy.Fetch(ctx, fetch.Request{Category: cat, PageSize: s.pageSize})
	if err != nil {
		return nil, fmt.Errorf("fetch category %s: %w", category, err)
	}

	s.debug("category produced articles", "category", category, "count", len(articles))
	return articles, nil
}

func (s *StrategySource) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
