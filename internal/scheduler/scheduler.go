package scheduler

import (
	"context"
	"log"
	"time"
)

// DigestRunner is implemented by the digest service.
type DigestRunner interface {
	RunDailyDigest(ctx context.Context)
}

// Scheduler fires the daily digest at a fixed wall-clock time in a fixed
// reference timezone. Idempotence of the digest itself is handled by the
// sent timestamps, so an extra manual trigger alongside the schedule is
// harmless.
type Scheduler struct {
	runner DigestRunner
	hour   int
	minute int
	loc    *time.Location
	ctx    context.Context
	cancel context.CancelFunc
}

func New(runner DigestRunner, hour, minute int, loc *time.Location) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		runner: runner,
		hour:   hour,
		minute: minute,
		loc:    loc,
		ctx:    ctx,
		cancel: cancel,
	}
}

func (s *Scheduler) Start() {
	log.Printf("[scheduler] daily digest scheduled at %02d:%02d %s", s.hour, s.minute, s.loc)
	go s.run()
}

func (s *Scheduler) Stop() {
	s.cancel()
	log.Println("[scheduler] stopped")
}

func (s *Scheduler) run() {
	for {
		now := time.Now().In(s.loc)
		next := nextRunAfter(now, s.hour, s.minute)
		timer := time.NewTimer(next.Sub(now))
		select {
		case <-s.ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.runner.RunDailyDigest(s.ctx)
		}
	}
}

// nextRunAfter returns the next occurrence of hour:minute strictly after t,
// in t's location.
func nextRunAfter(t time.Time, hour, minute int) time.Time {
	next := time.Date(t.Year(), t.Month(), t.Day(), hour, minute, 0, 0, t.Location())
	if !next.After(t) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
