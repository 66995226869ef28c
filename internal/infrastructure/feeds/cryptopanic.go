package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"coindigest/internal/config"
	"coindigest/internal/domain"
	"coindigest/internal/fetch"
)

const defaultCryptoPanicEndpoint = "https://cryptopanic.com/api/v1/posts/"

// CryptoPanicStrategy pulls the latest posts for one currency code from the
// CryptoPanic API.
type CryptoPanicStrategy struct {
	endpoint string
	apiKey   string
	client   *http.Client
	limiter  *rate.Limiter
}

var _ fetch.Strategy = (*CryptoPanicStrategy)(nil)

// NewCryptoPanicStrategy wires an HTTP client; a nil client gets a 20s
// timeout default. Requests are spaced out so bursts across categories
// stay inside the API's free-tier budget.
func NewCryptoPanicStrategy(cfg config.CryptoPanicConfig, client *http.Client) *CryptoPanicStrategy {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultCryptoPanicEndpoint
	}

	return &CryptoPanicStrategy{
		endpoint: endpoint,
		apiKey:   cfg.APIKey,
		client:   client,
		limiter:  rate.NewLimiter(rate.Every(750*time.Millisecond), 1),
	}
}

// Name identifies the strategy inside the registry.
func (c *CryptoPanicStrategy) Name() string {
	return "cryptopanic"
}

// Fetch requests one page of posts filtered to the requested currency.
func (c *CryptoPanicStrategy) Fetch(ctx context.Context, req fetch.Request) ([]domain.Article, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("cryptopanic api key is not configured")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("wait for request slot: %w", err)
	}

	pageURL, err := c.buildPostsURL(req.Category.Name)
	if err != nil {
		return nil, fmt.Errorf("category %s: %w", req.Category.Name, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("User-Agent", "CoinDigest/1.0")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request posts: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cryptopanic returned %s", resp.Status)
	}

	var payload cryptoPanicResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	posts := payload.Results
	if req.PageSize > 0 && len(posts) > req.PageSize {
		posts = posts[:req.PageSize]
	}

	articles := make([]domain.Article, 0, len(posts))
	for _, post := range posts {
		articles = append(articles, post.toArticle())
	}

	return articles, nil
}

func (c *CryptoPanicStrategy) buildPostsURL(currency string) (string, error) {
	parsed, err := url.Parse(c.endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint %s: %w", c.endpoint, err)
	}

	query := parsed.Query()
	query.Set("auth_token", c.apiKey)
	query.Set("currencies", currency)
	query.Set("public", "true")
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}

type cryptoPanicResponse struct {
	Results []cryptoPanicPost `json:"results"`
}

type cryptoPanicPost struct {
	ID          int64             `json:"id"`
	Title       string            `json:"title"`
	URL         string            `json:"url"`
	PublishedAt string            `json:"published_at"`
	Source      cryptoPanicSource `json:"source"`
	Currencies  []cryptoPanicCoin `json:"currencies"`
	Votes       cryptoPanicVotes  `json:"votes"`
}

type cryptoPanicSource struct {
	Title  string `json:"title"`
	Domain string `json:"domain"`
}

type cryptoPanicCoin struct {
	Code string `json:"code"`
}

type cryptoPanicVotes struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
}

// signal reports the community's lean on a post. Ties and unvoted posts
// carry no signal.
func (p cryptoPanicPost) signal() string {
	switch {
	case p.Votes.Positive > p.Votes.Negative:
		return "positive"
	case p.Votes.Negative > p.Votes.Positive:
		return "negative"
	default:
		return ""
	}
}

func (p cryptoPanicPost) toArticle() domain.Article {
	id := hashID(p.URL)
	if p.ID != 0 {
		id = fmt.Sprintf("cp-%d", p.ID)
	}

	source := p.Source.Title
	if source == "" {
		source = p.Source.Domain
	}
	if source == "" {
		source = "Unknown"
	}

	currencies := make([]string, 0, len(p.Currencies))
	for _, coin := range p.Currencies {
		if coin.Code != "" {
			currencies = append(currencies, coin.Code)
		}
	}

	publishedAt := time.Now().UTC()
	if parsed, err := time.Parse(time.RFC3339, p.PublishedAt); err == nil {
		publishedAt = parsed.UTC()
	}

	return domain.Article{
		ID:          id,
		Title:       stripHTML(p.Title),
		URL:         p.URL,
		Source:      source,
		Signal:      p.signal(),
		Currencies:  currencies,
		PublishedAt: publishedAt,
	}
}
