package tracker

import (
	"sync"

	"coindigest/internal/domain"
)

// DefaultCapacity bounds the seen set when no capacity is configured.
const DefaultCapacity = 1024

// Tracker remembers article identities already counted by a past cycle so a
// re-fetched article is never reported as new again. The set is bounded:
// once capacity is exceeded the oldest-inserted identities are evicted.
type Tracker struct {
	mu       sync.RWMutex
	seen     map[string]struct{}
	order    []string
	capacity int
	evicted  int
}

// New builds a tracker with the given capacity. Non-positive capacities fall
// back to DefaultCapacity.
func New(capacity int) *Tracker {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Tracker{
		seen:     make(map[string]struct{}, capacity),
		capacity: capacity,
	}
}

// Filter returns the subset of articles whose identity is not yet committed,
// without mutating tracker state. Duplicate identities within the input
// batch are reported once, first occurrence kept.
func (t *Tracker) Filter(articles []domain.Article) []domain.Article {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var fresh []domain.Article
	batch := make(map[string]struct{}, len(articles))
	for _, article := range articles {
		if article.ID == "" {
			continue
		}
		if _, ok := t.seen[article.ID]; ok {
			continue
		}
		if _, ok := batch[article.ID]; ok {
			continue
		}
		batch[article.ID] = struct{}{}
		fresh = append(fresh, article)
	}
	return fresh
}

// Commit adds the articles' identities to the seen set. Committing an
// already-present identity is a no-op and does not refresh its insertion
// order. Eviction runs only here, never during Filter.
func (t *Tracker) Commit(articles []domain.Article) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, article := range articles {
		if article.ID == "" {
			continue
		}
		if _, ok := t.seen[article.ID]; ok {
			continue
		}
		t.seen[article.ID] = struct{}{}
		t.order = append(t.order, article.ID)
	}

	for len(t.order) > t.capacity {
		oldest := t.order[0]
		t.order = t.order[1:]
		delete(t.seen, oldest)
		t.evicted++
	}
}

// Len reports the current number of tracked identities.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.seen)
}

// Evicted reports how many identities have been evicted over the tracker's
// lifetime.
func (t *Tracker) Evicted() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.evicted
}
