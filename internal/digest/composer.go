package digest

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"coindigest/internal/domain"
	"coindigest/internal/ports"
)

const (
	// DefaultTopPerCategory bounds stories per sentiment section.
	DefaultTopPerCategory = 5
	// DefaultSummaryTimeout bounds the optional summary call.
	DefaultSummaryTimeout = 15 * time.Second

	bullishSampleLimit = 3
	bearishSampleLimit = 3
	neutralSampleLimit = 2
)

// Composer turns one cycle's new articles into a ready-to-send digest.
type Composer struct {
	provider       ports.SummaryProvider
	topPerCategory int
	summaryTimeout time.Duration
	logger         *slog.Logger
}

// NewComposer wires the optional summary provider; non-positive limits fall
// back to defaults.
func NewComposer(provider ports.SummaryProvider, topPerCategory int, summaryTimeout time.Duration, logger *slog.Logger) *Composer {
	if topPerCategory <= 0 {
		topPerCategory = DefaultTopPerCategory
	}
	if summaryTimeout <= 0 {
		summaryTimeout = DefaultSummaryTimeout
	}
	return &Composer{
		provider:       provider,
		topPerCategory: topPerCategory,
		summaryTimeout: summaryTimeout,
		logger:         logger,
	}
}

// Compose aggregates sentiment counts, per-fetch-category new counts, and
// top stories, then requests a best-effort summary. Input articles must
// already be deduplicated; a category key with an empty slice records a zero
// count.
func (c *Composer) Compose(ctx context.Context, newByCategory map[string][]domain.ClassifiedArticle) domain.Digest {
	digest := domain.Digest{
		GeneratedAt:   time.Now().UTC(),
		Counts:        map[domain.SentimentCategory]int{},
		NewByCategory: map[string]int{},
	}
	for _, category := range domain.Categories() {
		digest.Counts[category] = 0
	}

	var all []domain.ClassifiedArticle
	categories := make([]string, 0, len(newByCategory))
	for name, articles := range newByCategory {
		categories = append(categories, name)
		digest.NewByCategory[name] = len(articles)
		for _, article := range articles {
			digest.Counts[article.Category]++
			all = append(all, article)
		}
	}
	sort.Strings(categories)

	sortStories(all)
	digest.TopStories = topStories(all, c.topPerCategory)
	digest.Summary = c.generateSummary(ctx, digest.Counts, categories, all)

	return digest
}

// sortStories orders most recent first; ties break on ascending identity so
// the selection is deterministic.
func sortStories(stories []domain.ClassifiedArticle) {
	sort.SliceStable(stories, func(i, j int) bool {
		a, b := stories[i].Article, stories[j].Article
		if !a.PublishedAt.Equal(b.PublishedAt) {
			return a.PublishedAt.After(b.PublishedAt)
		}
		return a.ID < b.ID
	})
}

func topStories(sorted []domain.ClassifiedArticle, perCategory int) []domain.ClassifiedArticle {
	taken := map[domain.SentimentCategory]int{}
	var top []domain.ClassifiedArticle
	for _, story := range sorted {
		if taken[story.Category] >= perCategory {
			continue
		}
		taken[story.Category]++
		top = append(top, story)
	}
	return top
}

func (c *Composer) generateSummary(ctx context.Context, counts map[domain.SentimentCategory]int, categories []string, sorted []domain.ClassifiedArticle) string {
	if c.provider == nil || !c.provider.Available() {
		return ""
	}

	input := domain.SummaryInput{
		Counts:     counts,
		Categories: categories,
		Headlines:  headlineSample(sorted),
	}

	ctx, cancel := context.WithTimeout(ctx, c.summaryTimeout)
	defer cancel()

	text, err := c.provider.Generate(ctx, input)
	if err != nil {
		c.warn("summary generation failed", "provider", c.provider.Name(), "error", err)
		return ""
	}
	return strings.TrimSpace(text)
}

// headlineSample picks the most recent headlines per bucket for the summary
// prompt: up to 3 bullish, 3 bearish, 2 neutral.
func headlineSample(sorted []domain.ClassifiedArticle) []domain.Headline {
	limits := map[domain.SentimentCategory]int{
		domain.SentimentBullish: bullishSampleLimit,
		domain.SentimentBearish: bearishSampleLimit,
		domain.SentimentNeutral: neutralSampleLimit,
	}

	var sample []domain.Headline
	for _, story := range sorted {
		if limits[story.Category] == 0 {
			continue
		}
		limits[story.Category]--
		sample = append(sample, domain.Headline{
			Title:      story.Article.Title,
			Category:   story.Category,
			Currencies: story.Article.Currencies,
		})
	}
	return sample
}

func (c *Composer) warn(msg string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}
