package jobs

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/scoop-dispatch/internal/config"
)

// Scheduler runs Jobs on the configured cron specs in the business
// time zone.
type Scheduler struct {
	cron *cron.Cron
	jobs *Jobs
	log  *zap.Logger
	cfg  *config.Config
}

func NewScheduler(jobs *Jobs, log *zap.Logger, cfg *config.Config) *Scheduler {
	cronLogger := cron.PrintfLogger(zap.NewStdLog(log))
	c := cron.New(
		cron.WithLocation(jobs.policy.Location),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)

	return &Scheduler{
		cron: c,
		jobs: jobs,
		log:  log,
		cfg:  cfg,
	}
}

// Start registers every job and starts the cron loop. A bad spec is fatal.
func (s *Scheduler) Start() error {
	entries := []struct {
		name string
		spec string
		fn   func()
	}{
		{JobExpireStaleClaims, s.cfg.SweepExpiredClaimsCron, s.jobs.ExpireStaleClaims},
		{JobExpireMissedServices, s.cfg.SweepMissedServicesCron, s.jobs.ExpireMissedServices},
		{JobReconcile, s.cfg.ReconcileCron, s.jobs.ReconcilePayments},
	}

	for _, e := range entries {
		if _, err := s.cron.AddFunc(e.spec, e.fn); err != nil {
			s.log.Error("failed to schedule job", zap.String("job", e.name), zap.String("schedule", e.spec), zap.Error(err))
			return err
		}
		s.log.Info("scheduled job", zap.String("job", e.name), zap.String("schedule", e.spec))
	}

	s.cron.Start()
	return nil
}

// Stop returns a context that is done once running jobs finish.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}
