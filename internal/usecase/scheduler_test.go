package usecase

import (
	"context"
	"testing"
	"time"

	"coindigest/internal/domain"
)

type fakeDriver struct {
	job     func(time.Time)
	started bool
	stopped bool
}

func (f *fakeDriver) Start(_ context.Context, job func(time.Time)) error {
	f.started = true
	f.job = job
	return nil
}

func (f *fakeDriver) Stop(_ context.Context) error {
	f.stopped = true
	return nil
}

func TestSchedulerTickRunsCycle(t *testing.T) {
	t.Parallel()

	src := &fakeSource{}
	src.set("BTC", []domain.Article{art("a-1", "positive"), art("a-2", "negative"), art("a-3", "")}, nil)
	notifier := &fakeNotifier{}
	engine, _ := newTestEngine(src, notifier, 3, "BTC")

	driver := &fakeDriver{}
	s := NewScheduler(driver, engine, nil)

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	if !driver.started || driver.job == nil {
		t.Fatal("scheduler did not register a job with the driver")
	}

	driver.job(time.Now())

	if notifier.sendCount() != 1 {
		t.Fatalf("tick did not run a cycle: %d sends", notifier.sendCount())
	}
	if src.callCount("BTC") != 1 {
		t.Fatalf("expected 1 fetch, got %d", src.callCount("BTC"))
	}

	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("Stop error: %v", err)
	}
	if !driver.stopped {
		t.Fatal("scheduler did not stop the driver")
	}
}

func TestSchedulerNilCollaborators(t *testing.T) {
	t.Parallel()

	s := NewScheduler(nil, nil, nil)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start with nil driver must be a no-op, got %v", err)
	}
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("Stop with nil driver must be a no-op, got %v", err)
	}
}
