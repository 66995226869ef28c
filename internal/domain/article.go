package domain

import "time"

// Article is a core entity describing one news item fetched from a provider.
// Immutable once fetched.
type Article struct {
	ID          string
	Title       string
	URL         string
	Source      string
	Signal      string
	Currencies  []string
	PublishedAt time.Time
}

// ClassifiedArticle pairs an article with its assigned sentiment bucket.
// Created once per fetch, never mutated.
type ClassifiedArticle struct {
	Article  Article
	Category SentimentCategory
}

// Digest aggregates one cycle's new articles for notification. Ephemeral:
// built per cycle, rendered, sent, discarded.
type Digest struct {
	GeneratedAt   time.Time
	Counts        map[SentimentCategory]int
	NewByCategory map[string]int
	TopStories    []ClassifiedArticle
	Summary       string
}

// TotalNew returns the number of new articles across all fetch categories.
func (d Digest) TotalNew() int {
	total := 0
	for _, n := range d.NewByCategory {
		total += n
	}
	return total
}

// Headline is a compact article reference passed to summary providers.
type Headline struct {
	Title      string
	Category   SentimentCategory
	Currencies []string
}

// SummaryInput carries sentiment counts and a headline sample for the
// summary provider prompt. Categories lists the fetch categories covered
// by this cycle.
type SummaryInput struct {
	Counts     map[SentimentCategory]int
	Categories []string
	Headlines  []Headline
}

// CycleOutcome enumerates how an update cycle ended.
type CycleOutcome string

const (
	OutcomeSent             CycleOutcome = "sent"
	OutcomeBelowThreshold   CycleOutcome = "below_threshold"
	OutcomeAlreadyRunning   CycleOutcome = "already_running"
	OutcomeAllFetchesFailed CycleOutcome = "all_fetches_failed"
	OutcomeSendFailed       CycleOutcome = "send_failed"
)

// CycleReport describes a single cycle for logs and manual-trigger replies.
type CycleReport struct {
	CycleID          string
	Outcome          CycleOutcome
	NewArticles      int
	NewByCategory    map[string]int
	FailedCategories []string
}
