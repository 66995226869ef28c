package ports

import (
	"context"
	"time"

	"coindigest/internal/domain"
)

// NewsSource pulls one category's article page from the configured provider.
type NewsSource interface {
	FetchCategory(ctx context.Context, category string) ([]domain.Article, error)
}

// SummaryProvider generates short digest summaries via an LLM API. Optional
// collaborator: absence or unavailability must not disable the pipeline.
type SummaryProvider interface {
	Name() string
	Available() bool
	Generate(ctx context.Context, input domain.SummaryInput) (string, error)
}

// Notifier delivers rendered digest text to a notification channel.
type Notifier interface {
	Send(ctx context.Context, channel, text string) error
}

// Trigger admits one update cycle on demand and reports its outcome.
type Trigger interface {
	TriggerNow(ctx context.Context) domain.CycleReport
}

// Scheduler controls when update cycles execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
