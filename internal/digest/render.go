package digest

import (
	"fmt"
	"strings"

	"coindigest/internal/domain"
)

const maxTitleRunes = 100

var sectionHeaders = map[domain.SentimentCategory]string{
	domain.SentimentBullish: "📈 *BULLISH NEWS*",
	domain.SentimentBearish: "📉 *BEARISH NEWS*",
	domain.SentimentNeutral: "⚖️ *NEUTRAL NEWS*",
}

// Render produces the Telegram Markdown message for a digest. Output is
// deterministic for a given digest.
func Render(d domain.Digest) string {
	var b strings.Builder

	b.WriteString("🔔 *CRYPTO NEWS SENTIMENT UPDATE* 🔔\n\n")
	fmt.Fprintf(&b, "📊 %d new stories (%d bullish / %d bearish / %d neutral)\n\n",
		d.TotalNew(),
		d.Counts[domain.SentimentBullish],
		d.Counts[domain.SentimentBearish],
		d.Counts[domain.SentimentNeutral])

	if d.Summary != "" {
		fmt.Fprintf(&b, "*AI SENTIMENT ANALYSIS*\n%s\n\n", d.Summary)
	}

	for _, category := range domain.Categories() {
		stories := storiesFor(d.TopStories, category)
		if len(stories) == 0 {
			continue
		}

		b.WriteString(sectionHeaders[category])
		b.WriteString("\n\n")
		for i, story := range stories {
			fmt.Fprintf(&b, "%d. [%s](%s)%s\n", i+1,
				truncateTitle(story.Article.Title),
				story.Article.URL,
				currencyTag(story.Article.Currencies))
			fmt.Fprintf(&b, "   *Source:* %s\n\n", story.Article.Source)
		}
	}

	fmt.Fprintf(&b, "_Updated on %s UTC_\n", d.GeneratedAt.Format("2006-01-02 15:04"))
	b.WriteString("_This is not financial advice. DYOR!_ 🧠")

	return b.String()
}

func storiesFor(stories []domain.ClassifiedArticle, category domain.SentimentCategory) []domain.ClassifiedArticle {
	var out []domain.ClassifiedArticle
	for _, story := range stories {
		if story.Category == category {
			out = append(out, story)
		}
	}
	return out
}

func truncateTitle(title string) string {
	runes := []rune(title)
	if len(runes) <= maxTitleRunes {
		return title
	}
	return string(runes[:maxTitleRunes-3]) + "..."
}

func currencyTag(currencies []string) string {
	if len(currencies) == 0 {
		return ""
	}
	return fmt.Sprintf(" [%s]", strings.Join(currencies, ", "))
}
