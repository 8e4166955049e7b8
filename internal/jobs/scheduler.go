package jobs

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/robfig/cron/v3"

	"github.com/goliatone/go-enroll/auth"
)

// Scheduler runs background jobs on cron schedules
type Scheduler struct {
	cron   *cron.Cron
	logger auth.Logger
}

func NewScheduler(logger auth.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		logger: logger,
	}
}

// Add registers job on schedule, e.g. "@every 15m" or "0 * * * *"
func (s *Scheduler) Add(schedule string, job cron.Job) error {
	if _, err := s.cron.AddJob(schedule, job); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid job schedule").
			WithMetadata(map[string]any{"schedule": schedule})
	}
	return nil
}

func (s *Scheduler) Start() {
	s.logger.Info("starting %d background jobs", len(s.cron.Entries()))
	s.cron.Start()
}

// Stop waits for running jobs to finish or ctx to expire
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn("background jobs did not stop in time")
	}
}
