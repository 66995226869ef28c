package digest

import (
	"strings"
	"testing"
	"time"

	"coindigest/internal/domain"
)

func TestRenderMessageLayout(t *testing.T) {
	t.Parallel()

	generated := time.Date(2026, time.August, 25, 14, 30, 0, 0, time.UTC)
	d := domain.Digest{
		GeneratedAt: generated,
		Counts: map[domain.SentimentCategory]int{
			domain.SentimentBullish: 2,
			domain.SentimentBearish: 1,
			domain.SentimentNeutral: 0,
		},
		NewByCategory: map[string]int{"BTC": 2, "ETH": 1},
		Summary:       "Sentiment is mildly positive.",
		TopStories: []domain.ClassifiedArticle{
			{
				Article: domain.Article{
					ID:         "b1",
					Title:      "BTC breaks out",
					URL:        "https://example.com/b1",
					Source:     "coindesk.com",
					Currencies: []string{"BTC"},
				},
				Category: domain.SentimentBullish,
			},
			{
				Article: domain.Article{
					ID:         "b2",
					Title:      "ETH follows",
					URL:        "https://example.com/b2",
					Source:     "cointelegraph.com",
					Currencies: []string{"ETH", "BTC"},
				},
				Category: domain.SentimentBullish,
			},
			{
				Article: domain.Article{
					ID:     "r1",
					Title:  "Miners capitulate",
					URL:    "https://example.com/r1",
					Source: "theblock.co",
				},
				Category: domain.SentimentBearish,
			},
		},
	}

	msg := Render(d)

	for _, want := range []string{
		"🔔 *CRYPTO NEWS SENTIMENT UPDATE* 🔔",
		"📊 3 new stories (2 bullish / 1 bearish / 0 neutral)",
		"*AI SENTIMENT ANALYSIS*\nSentiment is mildly positive.",
		"📈 *BULLISH NEWS*",
		"1. [BTC breaks out](https://example.com/b1) [BTC]",
		"2. [ETH follows](https://example.com/b2) [ETH, BTC]",
		"   *Source:* coindesk.com",
		"📉 *BEARISH NEWS*",
		"1. [Miners capitulate](https://example.com/r1)\n",
		"_Updated on 2026-08-25 14:30 UTC_",
		"_This is not financial advice. DYOR!_ 🧠",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message missing %q:\n%s", want, msg)
		}
	}

	if strings.Contains(msg, "⚖️ *NEUTRAL NEWS*") {
		t.Fatalf("empty neutral section rendered:\n%s", msg)
	}
}

func TestRenderOmitsEmptySummary(t *testing.T) {
	t.Parallel()

	d := domain.Digest{
		GeneratedAt:   time.Date(2026, time.August, 25, 14, 30, 0, 0, time.UTC),
		Counts:        map[domain.SentimentCategory]int{},
		NewByCategory: map[string]int{},
	}

	msg := Render(d)
	if strings.Contains(msg, "AI SENTIMENT ANALYSIS") {
		t.Fatalf("summary block rendered for empty summary:\n%s", msg)
	}
}

func TestRenderTruncatesLongTitles(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 150)
	d := domain.Digest{
		GeneratedAt:   time.Date(2026, time.August, 25, 14, 30, 0, 0, time.UTC),
		Counts:        map[domain.SentimentCategory]int{domain.SentimentNeutral: 1},
		NewByCategory: map[string]int{"BTC": 1},
		TopStories: []domain.ClassifiedArticle{
			{
				Article:  domain.Article{ID: "n1", Title: long, URL: "https://example.com/n1"},
				Category: domain.SentimentNeutral,
			},
		},
	}

	msg := Render(d)
	want := "[" + strings.Repeat("x", 97) + "...]"
	if !strings.Contains(msg, want) {
		t.Fatalf("long title not truncated:\n%s", msg)
	}
	if strings.Contains(msg, strings.Repeat("x", 98)) {
		t.Fatalf("truncated title still too long:\n%s", msg)
	}
}

func TestTruncateTitleRuneSafe(t *testing.T) {
	t.Parallel()

	short := "BTC к луне"
	if got := truncateTitle(short); got != short {
		t.Fatalf("short title altered: %q", got)
	}

	long := strings.Repeat("й", 120)
	got := truncateTitle(long)
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected ellipsis suffix, got %q", got)
	}
	if n := len([]rune(got)); n != maxTitleRunes {
		t.Fatalf("expected %d runes, got %d", maxTitleRunes, n)
	}
}
