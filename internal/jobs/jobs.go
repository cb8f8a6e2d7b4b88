package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/scoop-dispatch/internal/domain/claiming"
	"github.com/BruksfildServices01/scoop-dispatch/internal/metrics"
	"github.com/BruksfildServices01/scoop-dispatch/internal/timezone"
	ucPayment "github.com/BruksfildServices01/scoop-dispatch/internal/usecase/payment"
)

const (
	JobExpireStaleClaims    = "expire_stale_claims"
	JobExpireMissedServices = "expire_missed_services"
	JobReconcile            = "reconcile_payments"

	// reconcileLookbackDays covers payments that settle a day or two late.
	reconcileLookbackDays = 2
	runTimeout            = 5 * time.Minute
)

// Sweeper is a batch state change that reports how many rows it touched.
type Sweeper interface {
	Execute(ctx context.Context) (int, error)
}

type Reconciler interface {
	Execute(ctx context.Context, start, end time.Time) (*ucPayment.Report, error)
}

// Jobs holds the periodic work run by the scheduler.
type Jobs struct {
	staleClaims Sweeper
	missed      Sweeper
	reconcile   Reconciler
	policy      claiming.Policy
	clock       timezone.Clock
	log         *zap.Logger
}

func NewJobs(
	staleClaims Sweeper,
	missed Sweeper,
	reconcile Reconciler,
	policy claiming.Policy,
	clock timezone.Clock,
	log *zap.Logger,
) *Jobs {
	if clock == nil {
		clock = timezone.SystemClock(policy.Location)
	}
	return &Jobs{
		staleClaims: staleClaims,
		missed:      missed,
		reconcile:   reconcile,
		policy:      policy,
		clock:       clock,
		log:         log,
	}
}

func (j *Jobs) ExpireStaleClaims() {
	j.sweep(JobExpireStaleClaims, j.staleClaims)
}

func (j *Jobs) ExpireMissedServices() {
	j.sweep(JobExpireMissedServices, j.missed)
}

func (j *Jobs) sweep(name string, s Sweeper) {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	n, err := s.Execute(ctx)
	metrics.RecordJobRun(name, err == nil)
	if err != nil {
		j.log.Error("job failed", zap.String("job", name), zap.Int("processed", n), zap.Error(err))
		return
	}
	if n > 0 {
		j.log.Info("job finished", zap.String("job", name), zap.Int("processed", n))
	}
}

// ReconcilePayments checks payments created over the last few local days.
func (j *Jobs) ReconcilePayments() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	now := j.clock()
	start := j.policy.StartOfDay(now).AddDate(0, 0, -reconcileLookbackDays)

	j.log.Info("starting reconciliation", zap.Time("start", start), zap.Time("end", now))

	report, err := j.reconcile.Execute(ctx, start, now)
	metrics.RecordJobRun(JobReconcile, err == nil)
	if err != nil {
		j.log.Error("job failed", zap.String("job", JobReconcile), zap.Error(err))
		return
	}

	j.log.Info("job finished",
		zap.String("job", JobReconcile),
		zap.Int("checked", report.Checked),
		zap.Int("corrected", report.Corrected),
		zap.Int("failed", report.Failed),
	)
}
