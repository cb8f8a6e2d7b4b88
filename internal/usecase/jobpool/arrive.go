package jobpool

import (
	"context"

	"github.com/BruksfildServices01/scoop-dispatch/internal/audit"
	"github.com/BruksfildServices01/scoop-dispatch/internal/domain/lifecycle"
	"github.com/BruksfildServices01/scoop-dispatch/internal/models"
	"github.com/BruksfildServices01/scoop-dispatch/internal/notify"
)

type ArriveInput struct {
	ServiceID uint
	Location  *lifecycle.GeoPoint
}

type Arrive struct {
	Deps
}

func NewArrive(d Deps) *Arrive {
	return &Arrive{Deps: d}
}

// Execute checks the holder in. A claim whose deadline has been reached is
// released back to the pool instead and deadline_passed is returned; the
// release itself is committed.
func (uc *Arrive) Execute(
	ctx context.Context,
	userID string,
	in ArriveInput,
) (*models.Service, error) {

	now := uc.now()

	var (
		arrived  *models.Service
		stale    *models.Service
		released bool
	)

	err := uc.Repo.Transaction(ctx, func(tx lifecycle.Repository) error {
		emp, svc, err := holdingEmployee(ctx, tx, userID, in.ServiceID)
		if err != nil {
			return err
		}

		change := lifecycle.Arrive(svc.ID, emp.ID, now, in.Location)
		if err := change.Check(lifecycle.Status(svc.Status)); err != nil {
			return err
		}

		if deadlineReached(svc, now) {
			stale = svc
			released, err = release(ctx, tx, svc, now)
			return err
		}

		ok, err := tx.ApplyChange(ctx, change)
		if err != nil {
			return err
		}
		if !ok {
			return lostRace(ctx, tx, svc.ID, emp.ID, lifecycle.StatusArrived)
		}

		if err := tx.CloseClaim(ctx, svc.ID, emp.ID, lifecycle.OutcomeArrived, now); err != nil {
			return err
		}

		arrived, err = tx.GetService(ctx, svc.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if stale != nil {
		return nil, uc.deadlinePassed(userID, stale, released, "check_in")
	}

	uc.record(audit.ActorUser, userID, "service_arrived", arrived, nil)
	uc.publish(notify.ServiceArrived, arrived, now)

	return arrived, nil
}
