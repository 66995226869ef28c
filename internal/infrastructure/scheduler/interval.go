package scheduler

import (
	"context"
	"time"

	"coindigest/internal/ports"
)

// DefaultInterval is the gap between automatic update cycles.
const DefaultInterval = 30 * time.Minute

// IntervalScheduler drives recurring jobs on a fixed interval. An optional
// penalty callback stretches the gap after failed cycles; manual triggers
// bypass this driver entirely and neither reset nor consume the timer.
type IntervalScheduler struct {
	interval time.Duration
	penalty  func() time.Duration
	stop     chan struct{}
}

var _ ports.Scheduler = (*IntervalScheduler)(nil)

// NewIntervalScheduler builds a driver; non-positive intervals fall back to
// DefaultInterval.
func NewIntervalScheduler(interval time.Duration, penalty func() time.Duration) *IntervalScheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &IntervalScheduler{interval: interval, penalty: penalty}
}

// Start begins ticking. The first job runs immediately; each following run
// waits interval plus the current penalty.
func (s *IntervalScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}

	if s.stop != nil {
		return nil
	}

	s.stop = make(chan struct{})
	stop := s.stop
	go func() {
		job(time.Now())

		timer := time.NewTimer(s.nextDelay())
		defer timer.Stop()
		for {
			select {
			case t := <-timer.C:
				job(t)
				timer.Reset(s.nextDelay())
			case <-ctx.Done():
				return
			case <-stop:
				return
			}
		}
	}()

	return nil
}

// Stop halts the ticking goroutine.
func (s *IntervalScheduler) Stop(ctx context.Context) error {
	if s.stop == nil {
		return nil
	}
	close(s.stop)
	s.stop = nil
	return nil
}

func (s *IntervalScheduler) nextDelay() time.Duration {
	delay := s.interval
	if s.penalty != nil {
		delay += s.penalty()
	}
	return delay
}
