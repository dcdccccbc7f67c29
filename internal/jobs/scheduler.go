package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

type Sweeper interface {
	Run(ctx context.Context) error
}

// Scheduler drives the reconciliation sweep on a cron spec. The sweep
// is read-only, so overlapping with live traffic is harmless.
type Scheduler struct {
	cron    *cron.Cron
	spec    string
	sweeper Sweeper
	log     zerolog.Logger
}

func NewScheduler(spec string, sweeper Sweeper, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		spec:    spec,
		sweeper: sweeper,
		log:     log,
	}
}

func (s *Scheduler) Start() error {
	if s.sweeper == nil {
		return nil
	}

	if _, err := s.cron.AddFunc(s.spec, s.runSweep); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop waits briefly for a sweep in flight before giving up on it.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
	}
}

func (s *Scheduler) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := s.sweeper.Run(ctx); err != nil {
		s.log.Error().Err(err).Msg("reconciliation sweep failed")
	}
}
