package jobpool

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/scoop-dispatch/internal/audit"
	"github.com/BruksfildServices01/scoop-dispatch/internal/domain/lifecycle"
	"github.com/BruksfildServices01/scoop-dispatch/internal/metrics"
	"github.com/BruksfildServices01/scoop-dispatch/internal/models"
)

const sweepBatchSize = 200

// ExpireStaleClaims releases every claim whose arrival deadline has been
// reached, exactly as a late check-in would.
type ExpireStaleClaims struct {
	Deps
}

func NewExpireStaleClaims(d Deps) *ExpireStaleClaims {
	return &ExpireStaleClaims{Deps: d}
}

func (uc *ExpireStaleClaims) Execute(ctx context.Context) (int, error) {
	now := uc.now()

	stale, err := uc.Repo.ListStaleClaims(ctx, now, sweepBatchSize)
	if err != nil {
		return 0, err
	}

	released := 0
	for i := range stale {
		svc := &stale[i]

		var ok bool
		err := uc.Repo.Transaction(ctx, func(tx lifecycle.Repository) error {
			var err error
			ok, err = release(ctx, tx, svc, now)
			return err
		})
		if err != nil {
			return released, err
		}
		if !ok {
			continue
		}

		released++
		uc.Audit.Dispatch(audit.Event{
			Actor:    audit.ActorSystem,
			Action:   "claim_expired",
			Entity:   "service",
			EntityID: &svc.ID,
			Metadata: map[string]any{
				"arrival_deadline": svc.ArrivalDeadline,
				"employee_id":      svc.EmployeeID,
				"source":           "sweep",
			},
		})
	}

	metrics.RecordExpirations("sweep", released)
	if released > 0 {
		zap.L().Info("stale claims released", zap.Int("count", released))
	}
	return released, nil
}

// ExpireMissedServices closes unclaimed services whose claim window ended.
type ExpireMissedServices struct {
	Deps
}

func NewExpireMissedServices(d Deps) *ExpireMissedServices {
	return &ExpireMissedServices{Deps: d}
}

func (uc *ExpireMissedServices) Execute(ctx context.Context) (int, error) {
	now := uc.now()
	cutoff := uc.Policy.ClaimClosedBefore(now)

	missed, err := uc.Repo.ListUnclaimedBefore(ctx, cutoff, sweepBatchSize)
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range missed {
		svc := &missed[i]

		ok, err := uc.expire(ctx, svc, cutoff)
		if err != nil {
			return expired, err
		}
		if !ok {
			continue
		}

		expired++
		uc.Audit.Dispatch(audit.Event{
			Actor:    audit.ActorSystem,
			Action:   "service_missed",
			Entity:   "service",
			EntityID: &svc.ID,
			Metadata: map[string]any{"scheduled_date": svc.ScheduledDate},
		})
	}

	metrics.RecordExpirations("missed", expired)
	if expired > 0 {
		zap.L().Info("missed services expired", zap.Int("count", expired))
	}
	return expired, nil
}

// expire walks a PENDING service through SCHEDULED first so every write
// follows the transition table.
func (uc *ExpireMissedServices) expire(ctx context.Context, svc *models.Service, cutoff time.Time) (bool, error) {
	var ok bool
	err := uc.Repo.Transaction(ctx, func(tx lifecycle.Repository) error {
		if lifecycle.Status(svc.Status) == lifecycle.StatusPending {
			promoted, err := tx.ApplyChange(ctx, lifecycle.Schedule(svc.ID))
			if err != nil || !promoted {
				return err
			}
		}

		var err error
		ok, err = tx.ApplyChange(ctx, lifecycle.ExpireMissed(svc.ID, cutoff))
		return err
	})
	return ok, err
}
