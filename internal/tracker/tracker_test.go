package tracker

import (
	"fmt"
	"sync"
	"testing"

	"coindigest/internal/domain"
)

func art(id string) domain.Article {
	return domain.Article{ID: id, Title: "title " + id}
}

func ids(articles []domain.Article) []string {
	out := make([]string, len(articles))
	for i, a := range articles {
		out[i] = a.ID
	}
	return out
}

func TestFilterThenCommit(t *testing.T) {
	t.Parallel()

	tr := New(10)
	batch := []domain.Article{art("a"), art("b")}

	fresh := tr.Filter(batch)
	if len(fresh) != 2 {
		t.Fatalf("expected 2 fresh articles, got %d", len(fresh))
	}

	tr.Commit(batch)

	fresh = tr.Filter(batch)
	if len(fresh) != 0 {
		t.Fatalf("expected 0 fresh after commit, got %v", ids(fresh))
	}
	if tr.Len() != 2 {
		t.Fatalf("expected 2 tracked, got %d", tr.Len())
	}
}

func TestFilterDoesNotMutate(t *testing.T) {
	t.Parallel()

	tr := New(10)
	batch := []domain.Article{art("a"), art("b"), art("c")}

	first := tr.Filter(batch)
	second := tr.Filter(batch)
	if len(first) != 3 || len(second) != 3 {
		t.Fatalf("Filter mutated state: first=%d second=%d", len(first), len(second))
	}
	if tr.Len() != 0 {
		t.Fatalf("Filter changed tracked count: %d", tr.Len())
	}
}

func TestFilterBatchDuplicates(t *testing.T) {
	t.Parallel()

	tr := New(10)
	fresh := tr.Filter([]domain.Article{art("a"), art("a"), art("b")})
	if len(fresh) != 2 {
		t.Fatalf("expected batch duplicate reported once, got %v", ids(fresh))
	}
	if fresh[0].ID != "a" || fresh[1].ID != "b" {
		t.Fatalf("unexpected order: %v", ids(fresh))
	}
}

func TestFilterSkipsBlankIdentity(t *testing.T) {
	t.Parallel()

	tr := New(10)
	fresh := tr.Filter([]domain.Article{{Title: "no id"}, art("a")})
	if len(fresh) != 1 || fresh[0].ID != "a" {
		t.Fatalf("expected only identified article, got %v", ids(fresh))
	}

	tr.Commit([]domain.Article{{Title: "no id"}})
	if tr.Len() != 0 {
		t.Fatalf("blank identity committed: len=%d", tr.Len())
	}
}

func TestCommitIdempotent(t *testing.T) {
	t.Parallel()

	tr := New(10)
	batch := []domain.Article{art("a"), art("b")}

	tr.Commit(batch)
	tr.Commit(batch)
	tr.Commit(batch)

	if tr.Len() != 2 {
		t.Fatalf("expected 2 tracked after repeated commits, got %d", tr.Len())
	}
	if tr.Evicted() != 0 {
		t.Fatalf("unexpected evictions: %d", tr.Evicted())
	}
}

func TestEvictionOldestFirst(t *testing.T) {
	t.Parallel()

	tr := New(3)
	tr.Commit([]domain.Article{art("a"), art("b"), art("c")})
	tr.Commit([]domain.Article{art("d")})

	if tr.Len() != 3 {
		t.Fatalf("expected capacity 3 held, got %d", tr.Len())
	}
	if tr.Evicted() != 1 {
		t.Fatalf("expected 1 eviction, got %d", tr.Evicted())
	}

	fresh := tr.Filter([]domain.Article{art("a"), art("b"), art("c"), art("d")})
	if len(fresh) != 1 || fresh[0].ID != "a" {
		t.Fatalf("expected only oldest entry evicted, got %v", ids(fresh))
	}
}

func TestRecommitDoesNotRefreshInsertionOrder(t *testing.T) {
	t.Parallel()

	tr := New(3)
	tr.Commit([]domain.Article{art("a"), art("b"), art("c")})
	tr.Commit([]domain.Article{art("a")})
	tr.Commit([]domain.Article{art("d")})

	fresh := tr.Filter([]domain.Article{art("a")})
	if len(fresh) != 1 {
		t.Fatalf("expected a evicted despite recommit, still oldest by insertion")
	}
	fresh = tr.Filter([]domain.Article{art("b"), art("c"), art("d")})
	if len(fresh) != 0 {
		t.Fatalf("expected b, c, d retained, got fresh %v", ids(fresh))
	}
}

func TestEvictionBeyondCapacityInOneCommit(t *testing.T) {
	t.Parallel()

	tr := New(5)
	batch := make([]domain.Article, 12)
	for i := range batch {
		batch[i] = art(fmt.Sprintf("id-%02d", i))
	}
	tr.Commit(batch)

	if tr.Len() != 5 {
		t.Fatalf("expected 5 tracked, got %d", tr.Len())
	}
	if tr.Evicted() != 7 {
		t.Fatalf("expected 7 evicted, got %d", tr.Evicted())
	}

	fresh := tr.Filter(batch)
	if len(fresh) != 7 {
		t.Fatalf("expected oldest 7 forgotten, got %d", len(fresh))
	}
	if fresh[0].ID != "id-00" || fresh[6].ID != "id-06" {
		t.Fatalf("unexpected eviction order: %v", ids(fresh))
	}
}

func TestConcurrentFilterAndCommit(t *testing.T) {
	t.Parallel()

	tr := New(256)
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				batch := []domain.Article{art(fmt.Sprintf("w%d-%d", w, i))}
				tr.Filter(batch)
				tr.Commit(batch)
			}
		}(w)
	}
	wg.Wait()

	if tr.Len() != 256 {
		t.Fatalf("expected tracker full at capacity, got %d", tr.Len())
	}
	if tr.Evicted() != 8*50-256 {
		t.Fatalf("expected %d evictions, got %d", 8*50-256, tr.Evicted())
	}
}
