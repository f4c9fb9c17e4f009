package services

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Scheduler runs the full job set on a fixed interval. Job-level dedup in
// the ledger keeps frequent ticks harmless.
type Scheduler struct {
	jobs     *Jobs
	interval time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler creates a scheduler. Intervals under a minute are clamped to
// a minute to keep outbound request rate bounded.
func NewScheduler(jobs *Jobs, interval time.Duration) *Scheduler {
	if interval < time.Minute {
		interval = time.Minute
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		jobs:     jobs,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins the scheduling loop in the background.
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.loop()
	log.Info().Dur("interval", s.interval).Msg("scheduler started")
}

// Stop cancels the loop and waits for a running cycle to finish.
func (s *Scheduler) Stop() {
	log.Info().Msg("stopping scheduler")
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) loop() {
	defer s.wg.Done()

	s.jobs.RunAll(s.ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.jobs.RunAll(s.ctx)
		}
	}
}
