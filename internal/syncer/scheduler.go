package syncer

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultInterval is the sync cadence.
const DefaultInterval = 3 * time.Second

// Cycler runs one sync cycle.
type Cycler interface {
	RunCycle(ctx context.Context) Outcome
}

// Scheduler starts sync cycles on a fixed cadence with at most one cycle in
// flight. Ticks that arrive while a cycle runs are dropped.
type Scheduler struct {
	cycler    Cycler
	interval  time.Duration
	onOutcome func(Outcome)

	inFlight atomic.Bool
	wg       sync.WaitGroup
}

// NewScheduler returns a scheduler for c. onOutcome, when non-nil, is called
// from the cycle goroutine after every cycle.
func NewScheduler(c Cycler, interval time.Duration, onOutcome func(Outcome)) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{cycler: c, interval: interval, onOutcome: onOutcome}
}

// Tick starts a cycle in the background unless one is already running. It
// never blocks and reports whether a cycle was started.
func (s *Scheduler) Tick(ctx context.Context) bool {
	if !s.inFlight.CompareAndSwap(false, true) {
		return false
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.inFlight.Store(false)

		outcome := s.cycler.RunCycle(ctx)
		if s.onOutcome != nil {
			s.onOutcome(outcome)
		}
	}()
	return true
}

// Busy reports whether a cycle is running.
func (s *Scheduler) Busy() bool {
	return s.inFlight.Load()
}

// Wait blocks until the running cycle, if any, returns.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

// Run ticks immediately and then every interval until ctx ends, then waits
// for the last cycle.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.Tick(ctx)
		select {
		case <-ctx.Done():
			s.Wait()
			return
		case <-ticker.C:
		}
	}
}
