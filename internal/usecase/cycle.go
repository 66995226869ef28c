package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"coindigest/internal/digest"
	"coindigest/internal/domain"
	"coindigest/internal/ports"
	"coindigest/internal/tracker"
)

const (
	// DefaultThreshold is the minimum new-article count for a notification.
	DefaultThreshold = 3
	// DefaultFetchTimeout bounds a single category fetch.
	DefaultFetchTimeout = 30 * time.Second

	maxConcurrentFetches = 4
)

var (
	// ErrCycleRunning marks a trigger rejected because a cycle is active.
	ErrCycleRunning = errors.New("update cycle already running")
	// ErrAllFetchesFailed marks a cycle that ended with nothing committed.
	ErrAllFetchesFailed = errors.New("all category fetches failed")
)

// Engine phases. The trigger path compare-and-sets phaseIdle, so at most
// one cycle runs at a time and an overlapping trigger is dropped.
const (
	phaseIdle int32 = iota
	phaseFetching
	phaseComposing
	phaseNotifying
)

// EngineDeps wires all collaborators into the update cycle engine.
type EngineDeps struct {
	Source       ports.NewsSource
	Tracker      *tracker.Tracker
	Composer     *digest.Composer
	Notifier     ports.Notifier
	Channel      string
	Categories   []string
	Threshold    int
	FetchTimeout time.Duration
	Logger       *slog.Logger
}

// Engine runs update cycles: fetch per category, filter seen articles,
// classify, check the threshold, and notify. Cycle state (consecutive
// failures, last fetch time) is owned here.
type Engine struct {
	source       ports.NewsSource
	tracker      *tracker.Tracker
	composer     *digest.Composer
	notifier     ports.Notifier
	channel      string
	categories   []string
	threshold    int
	fetchTimeout time.Duration
	logger       *slog.Logger

	phase atomic.Int32

	mu             sync.Mutex
	consecFailures int
	fetchFailures  int
	lastFetch      time.Time
}

var _ ports.Trigger = (*Engine)(nil)

// NewEngine constructs the engine; non-positive threshold and timeout fall
// back to defaults.
func NewEngine(deps EngineDeps) *Engine {
	threshold := deps.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	fetchTimeout := deps.FetchTimeout
	if fetchTimeout <= 0 {
		fetchTimeout = DefaultFetchTimeout
	}
	return &Engine{
		source:       deps.Source,
		tracker:      deps.Tracker,
		composer:     deps.Composer,
		notifier:     deps.Notifier,
		channel:      deps.Channel,
		categories:   deps.Categories,
		threshold:    threshold,
		fetchTimeout: fetchTimeout,
		logger:       deps.Logger,
	}
}

// TriggerNow admits one cycle if the engine is idle and runs it to
// completion. Shared by the timer and the manual path; a forced check, not
// a forced send.
func (e *Engine) TriggerNow(ctx context.Context) domain.CycleReport {
	if !e.phase.CompareAndSwap(phaseIdle, phaseFetching) {
		e.debug("trigger dropped", "error", ErrCycleRunning)
		return domain.CycleReport{Outcome: domain.OutcomeAlreadyRunning}
	}
	defer e.phase.Store(phaseIdle)

	return e.runCycle(ctx)
}

func (e *Engine) runCycle(ctx context.Context) domain.CycleReport {
	report := domain.CycleReport{
		CycleID:       uuid.NewString(),
		NewByCategory: make(map[string]int, len(e.categories)),
	}
	for _, name := range e.categories {
		report.NewByCategory[name] = 0
	}

	e.info("cycle started", "cycle", report.CycleID, "categories", len(e.categories))

	batches, failed := e.fetchAll(ctx, report.CycleID)
	report.FailedCategories = failed
	if len(failed) == len(e.categories) {
		e.noteAllFailed(len(failed))
		e.warn("cycle aborted", "cycle", report.CycleID, "error", ErrAllFetchesFailed)
		report.Outcome = domain.OutcomeAllFetchesFailed
		return report
	}
	e.noteFetched(len(failed))

	e.phase.Store(phaseComposing)

	newByCategory := e.filterAndClassify(batches)
	for name, articles := range newByCategory {
		report.NewByCategory[name] = len(articles)
		report.NewArticles += len(articles)
	}

	meetsThreshold := report.NewArticles >= e.threshold

	// Every identity considered this cycle is committed once the threshold
	// decision is made, sent or not. A re-fetch returns the same articles,
	// and recounting them as new would produce duplicate-feeling digests.
	// The cost is that a failed send loses this cycle's digest content.
	e.tracker.Commit(flatten(batches))

	if !meetsThreshold {
		e.info("below threshold", "cycle", report.CycleID,
			"new", report.NewArticles, "threshold", e.threshold)
		report.Outcome = domain.OutcomeBelowThreshold
		return report
	}

	composed := e.composer.Compose(ctx, newByCategory)

	e.phase.Store(phaseNotifying)

	if err := e.notifier.Send(ctx, e.channel, digest.Render(composed)); err != nil {
		e.warn("send digest", "cycle", report.CycleID, "error", err)
		report.Outcome = domain.OutcomeSendFailed
		return report
	}

	e.info("digest sent", "cycle", report.CycleID, "new", report.NewArticles,
		"tracked", e.tracker.Len(), "evicted", e.tracker.Evicted())
	report.Outcome = domain.OutcomeSent
	return report
}

type categoryBatch struct {
	name     string
	articles []domain.Article
}

// fetchAll runs one fetch per category with bounded concurrency and a
// per-fetch timeout. A failed category yields an empty batch; the cycle
// carries on with the rest.
func (e *Engine) fetchAll(ctx context.Context, cycleID string) ([]categoryBatch, []string) {
	batches := make([]categoryBatch, len(e.categories))
	errs := make([]error, len(e.categories))

	var g errgroup.Group
	g.SetLimit(maxConcurrentFetches)
	for i, name := range e.categories {
		batches[i].name = name
		g.Go(func() error {
			fetchCtx, cancel := context.WithTimeout(ctx, e.fetchTimeout)
			defer cancel()

			articles, err := e.source.FetchCategory(fetchCtx, name)
			if err != nil {
				errs[i] = err
				return nil
			}
			batches[i].articles = articles
			return nil
		})
	}
	_ = g.Wait()

	var failed []string
	for i, err := range errs {
		if err == nil {
			continue
		}
		failed = append(failed, e.categories[i])
		e.warn("category fetch failed", "cycle", cycleID,
			"category", e.categories[i], "error", err)
	}
	return batches, failed
}

// filterAndClassify drops already-seen articles and assigns sentiment
// buckets. An article returned under two categories in one cycle counts
// once, for the first category in configured order. Every configured
// category gets a map entry, empty ones included.
func (e *Engine) filterAndClassify(batches []categoryBatch) map[string][]domain.ClassifiedArticle {
	fresh := e.tracker.Filter(flatten(batches))
	freshIDs := make(map[string]struct{}, len(fresh))
	for _, article := range fresh {
		freshIDs[article.ID] = struct{}{}
	}

	newByCategory := make(map[string][]domain.ClassifiedArticle, len(e.categories))
	for _, name := range e.categories {
		newByCategory[name] = nil
	}

	for _, batch := range batches {
		for _, article := range batch.articles {
			if _, ok := freshIDs[article.ID]; !ok {
				continue
			}
			delete(freshIDs, article.ID)
			newByCategory[batch.name] = append(newByCategory[batch.name], domain.ClassifiedArticle{
				Article:  article,
				Category: domain.Classify(article.Signal),
			})
		}
	}
	return newByCategory
}

func flatten(batches []categoryBatch) []domain.Article {
	var all []domain.Article
	for _, batch := range batches {
		all = append(all, batch.articles...)
	}
	return all
}

func (e *Engine) noteFetched(failedCategories int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.consecFailures = 0
	e.fetchFailures += failedCategories
	e.lastFetch = time.Now().UTC()
}

func (e *Engine) noteAllFailed(failedCategories int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.consecFailures++
	e.fetchFailures += failedCategories
}

// ConsecutiveFailures reports how many cycles in a row ended with every
// category fetch failing. Feeds the scheduler's tick penalty.
func (e *Engine) ConsecutiveFailures() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.consecFailures
}

// FetchFailures reports the lifetime count of per-category fetch failures.
func (e *Engine) FetchFailures() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fetchFailures
}

// LastFetch reports when a cycle last completed with at least one
// successful category fetch.
func (e *Engine) LastFetch() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastFetch
}

// FailurePenalty stretches the gap to the next automatic tick after
// consecutive all-fetch failures: failures squared in minutes, capped at
// one interval. Zero while the source is healthy.
func FailurePenalty(failures int, interval time.Duration) time.Duration {
	if failures <= 0 {
		return 0
	}
	penalty := time.Duration(failures*failures) * time.Minute
	if penalty > interval {
		return interval
	}
	return penalty
}

func (e *Engine) info(msg string, args ...interface{}) {
	if e.logger != nil {
		e.logger.Info(msg, args...)
	}
}

func (e *Engine) warn(msg string, args ...interface{}) {
	if e.logger != nil {
		e.logger.Warn(msg, args...)
	}
}

func (e *Engine) debug(msg string, args ...interface{}) {
	if e.logger != nil {
		e.logger.Debug(msg, args...)
	}
}
