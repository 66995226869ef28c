package summary

import (
	"fmt"
	"strings"

	"coindigest/internal/domain"
)

const analystSystemPrompt = `You are a high-energy, meme-loving cryptocurrency analyst. Your mission is to analyze market news with a combination of technical knowledge and crypto-culture humor.

Provide a brief, entertaining summary of the crypto market sentiment based on the news articles.
Use crypto slang, emojis, and meme references in your analysis.
Keep it concise (2-3 sentences max) but make it entertaining and informative.
Focus on the overall sentiment and any standout news items.`

// buildUserPrompt renders sentiment counts and the headline sample into the
// user message sent to the model.
func buildUserPrompt(input domain.SummaryInput) string {
	var sb strings.Builder

	sb.WriteString("Based on the following crypto news, create a brief, entertaining crypto market sentiment summary:\n\n")
	fmt.Fprintf(&sb, "Bullish News Count: %d\n", input.Counts[domain.SentimentBullish])
	fmt.Fprintf(&sb, "Bearish News Count: %d\n", input.Counts[domain.SentimentBearish])
	fmt.Fprintf(&sb, "Neutral News Count: %d\n", input.Counts[domain.SentimentNeutral])

	writeHeadlineSection(&sb, "BULLISH NEWS", domain.SentimentBullish, input.Headlines)
	writeHeadlineSection(&sb, "BEARISH NEWS", domain.SentimentBearish, input.Headlines)
	writeHeadlineSection(&sb, "NEUTRAL NEWS", domain.SentimentNeutral, input.Headlines)

	if len(input.Categories) > 0 {
		fmt.Fprintf(&sb, "\nThe tracked cryptocurrencies are: %s\n", strings.Join(input.Categories, ", "))
	}

	sb.WriteString("\nPlease provide a brief FUD (Fear, Uncertainty, Doubt) analysis with crypto humor and memes. Keep it to 2-3 sentences maximum.\n")

	return sb.String()
}

func writeHeadlineSection(sb *strings.Builder, header string, category domain.SentimentCategory, headlines []domain.Headline) {
	n := 0
	for _, h := range headlines {
		if h.Category != category {
			continue
		}
		if n == 0 {
			fmt.Fprintf(sb, "\n%s:\n", header)
		}
		n++

		tag := "general market"
		if len(h.Currencies) > 0 {
			tag = strings.Join(h.Currencies, ", ")
		}
		fmt.Fprintf(sb, "%d. %s (%s)\n", n, h.Title, tag)
	}
}
