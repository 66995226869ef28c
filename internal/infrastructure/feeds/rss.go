package feeds

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"coindigest/internal/domain"
	"coindigest/internal/fetch"
)

// RSSStrategy reads a category's configured feed URL. Feed items carry no
// polarity signal, so their articles land in the neutral bucket.
type RSSStrategy struct {
	client *http.Client
}

var _ fetch.Strategy = (*RSSStrategy)(nil)

// NewRSSStrategy wires an HTTP client; a nil client gets a 20s timeout
// default.
func NewRSSStrategy(client *http.Client) *RSSStrategy {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &RSSStrategy{client: client}
}

// Name identifies the strategy inside the registry.
func (r *RSSStrategy) Name() string {
	return "rss"
}

// Fetch downloads and parses one category feed.
func (r *RSSStrategy) Fetch(ctx context.Context, req fetch.Request) ([]domain.Article, error) {
	if req.Category.URL == "" {
		return nil, fmt.Errorf("category %s has no feed url", req.Category.Name)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.Category.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("User-Agent", "CoinDigest/1.0")

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned %s", resp.Status)
	}

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	articles := make([]domain.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		if req.PageSize > 0 && len(articles) == req.PageSize {
			break
		}

		id := item.GUID
		if id == "" {
			id = hashID(item.Link)
		}

		publishedAt := time.Now().UTC()
		if item.PublishedParsed != nil {
			publishedAt = item.PublishedParsed.UTC()
		}

		articles = append(articles, domain.Article{
			ID:          id,
			Title:       stripHTML(item.Title),
			URL:         item.Link,
			Source:      feed.Title,
			Currencies:  []string{req.Category.Name},
			PublishedAt: publishedAt,
		})
	}

	return articles, nil
}
