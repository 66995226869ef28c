package domain

import "strings"

// SentimentCategory buckets articles by the market mood they signal.
type SentimentCategory string

const (
	SentimentBullish SentimentCategory = "bullish"
	SentimentBearish SentimentCategory = "bearish"
	SentimentNeutral SentimentCategory = "neutral"
)

// Categories lists all buckets in render order.
func Categories() []SentimentCategory {
	return []SentimentCategory{SentimentBullish, SentimentBearish, SentimentNeutral}
}

// Classify maps a raw provider signal to a sentiment bucket. Unrecognized or
// missing signals classify as Neutral; the function never errors.
func Classify(signal string) SentimentCategory {
	switch strings.ToLower(strings.TrimSpace(signal)) {
	case "bullish", "positive":
		return SentimentBullish
	case "bearish", "negative":
		return SentimentBearish
	default:
		return SentimentNeutral
	}
}
