package scan

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

type Runner interface {
	Run(ctx context.Context) Summary
}

// Scheduler runs a cycle after an initial delay and then on every interval.
// At most one cycle runs at a time, ticks that arrive while one is busy are
// dropped.
type Scheduler struct {
	runner   Runner
	delay    time.Duration
	interval time.Duration
	sem      *semaphore.Weighted
	wg       sync.WaitGroup
	logger   *slog.Logger
}

func NewScheduler(runner Runner, delay, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		runner:   runner,
		delay:    delay,
		interval: interval,
		sem:      semaphore.NewWeighted(1),
		logger:   logger,
	}
}

// Run blocks until ctx is done and then waits for a running cycle to return.
func (s *Scheduler) Run(ctx context.Context) error {
	defer s.wg.Wait()
	s.logger.Info("scheduler started", "initial_delay", s.delay, "interval", s.interval)

	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return nil
	case <-timer.C:
	}
	s.tick(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.tick(ctx)
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return nil
		}
	}
}

// tick starts a cycle in the background and reports whether it did.
func (s *Scheduler) tick(ctx context.Context) bool {
	if !s.sem.TryAcquire(1) {
		s.logger.Warn("previous scan still running, skipping tick")
		return false
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.sem.Release(1)
		s.runner.Run(ctx)
	}()
	return true
}
