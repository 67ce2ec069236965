package jobs

import (
	"context"
	"fmt"
	"time"

	"vrent/config"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

type Scheduler struct {
	cron       *cron.Cron
	reconciler *Reconciler
}

// NewScheduler registers every job enabled in cfg. Schedules use six fields
// with seconds first.
func NewScheduler(cfg *config.Config, reconciler *Reconciler) (*Scheduler, error) {
	s := &Scheduler{
		cron:       cron.New(cron.WithLocation(time.UTC), cron.WithSeconds()),
		reconciler: reconciler,
	}

	job := cfg.Jobs.ReconcileAvailability
	if !job.Enable {
		log.Info().Msg("availability reconciler disabled")

		return s, nil
	}

	if _, err := s.cron.AddFunc(job.Schedule, s.reconcile); err != nil {
		return nil, fmt.Errorf("invalid reconcile schedule %q: %w", job.Schedule, err)
	}

	log.Info().Str("schedule", job.Schedule).Msg("availability reconciler registered")

	return s, nil
}

func (s *Scheduler) reconcile() {
	_, _ = s.reconciler.Run(context.Background())
}

func (s *Scheduler) Jobs() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for running jobs or until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
		log.Info().Msg("scheduler stopped")
	case <-ctx.Done():
		log.Warn().Msg("scheduler stop timed out")
	}
}
