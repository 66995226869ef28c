package feeds

import (
	"context"
	"errors"
	"testing"

	"coindigest/internal/config"
	"coindigest/internal/domain"
	"coindigest/internal/fetch"
)

type recordingStrategy struct {
	name     string
	lastReq  fetch.Request
	articles []domain.Article
	err      error
}

func (r *recordingStrategy) Name() string { return r.name }

func (r *recordingStrategy) Fetch(_ context.Context, req fetch.Request) ([]domain.Article, error) {
	r.lastReq = req
	return r.articles, r.err
}

func TestStrategySourceFetchCategory(t *testing.T) {
	t.Parallel()

	strategy := &recordingStrategy{
		name:     "cryptopanic",
		articles: []domain.Article{{ID: "a-1", Title: "headline"}},
	}

	registry := fetch.NewRegistry()
	registry.Register(strategy)

	source := NewStrategySource(registry, config.SourceConfig{
		Provider: "cryptopanic",
		PageSize: 25,
		Categories: []config.CategoryConfig{
			{Name: "BTC", URL: "https://wire.example.org/btc"},
		},
	}, nil)

	articles, err := source.FetchCategory(context.Background(), "BTC")
	if err != nil {
		t.Fatalf("FetchCategory error: %v", err)
	}

	if len(articles) != 1 || articles[0].ID != "a-1" {
		t.Fatalf("unexpected articles: %v", articles)
	}
	if strategy.lastReq.Category.Name != "BTC" {
		t.Fatalf("unexpected category: %s", strategy.lastReq.Category.Name)
	}
	if strategy.lastReq.Category.URL != "https://wire.example.org/btc" {
		t.Fatalf("expected configured url, got %s", strategy.lastReq.Category.URL)
	}
	if strategy.lastReq.PageSize != 25 {
		t.Fatalf("expected page size 25, got %d", strategy.lastReq.PageSize)
	}
}

func TestStrategySourceUnknownCategoryKeepsName(t *testing.T) {
	t.Parallel()

	strategy := &recordingStrategy{name: "cryptopanic"}
	registry := fetch.NewRegistry()
	registry.Register(strategy)

	source := NewStrategySource(registry, config.SourceConfig{Provider: "cryptopanic"}, nil)

	if _, err := source.FetchCategory(context.Background(), "LTC"); err != nil {
		t.Fatalf("FetchCategory error: %v", err)
	}
	if strategy.lastReq.Category.Name != "LTC" {
		t.Fatalf("expected bare category name, got %s", strategy.lastReq.Category.Name)
	}
}

func TestStrategySourceUnknownProvider(t *testing.T) {
	t.Parallel()

	source := NewStrategySource(fetch.NewRegistry(), config.SourceConfig{Provider: "missing"}, nil)

	if _, err := source.FetchCategory(context.Background(), "BTC"); err == nil {
		t.Fatal("expected error for unregistered provider")
	}
}

func TestStrategySourceWrapsFetchError(t *testing.T) {
	t.Parallel()

	strategy := &recordingStrategy{name: "cryptopanic", err: errors.New("upstream down")}
	registry := fetch.NewRegistry()
	registry.Register(strategy)

	source := NewStrategySource(registry, config.SourceConfig{Provider: "cryptopanic"}, nil)

	_, err := source.FetchCategory(context.Background(), "BTC")
	if err == nil {
		t.Fatal("expected wrapped fetch error")
	}
	if !errors.Is(err, strategy.err) {
		t.Fatalf("expected wrapped upstream error, got %v", err)
	}
}
