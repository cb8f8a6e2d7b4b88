package jobpool

import (
	"context"

	"github.com/BruksfildServices01/scoop-dispatch/internal/audit"
	"github.com/BruksfildServices01/scoop-dispatch/internal/domain/lifecycle"
	"github.com/BruksfildServices01/scoop-dispatch/internal/httperr"
	"github.com/BruksfildServices01/scoop-dispatch/internal/models"
)

type ExtendClaim struct {
	Deps
}

func NewExtendClaim(d Deps) *ExtendClaim {
	return &ExtendClaim{Deps: d}
}

// Execute pushes the arrival deadline forward once per claim. A deadline
// that has already been reached is released like a late check-in.
func (uc *ExtendClaim) Execute(
	ctx context.Context,
	userID string,
	serviceID uint,
) (*models.Service, error) {

	now := uc.now()

	var (
		extended *models.Service
		stale    *models.Service
		released bool
	)

	err := uc.Repo.Transaction(ctx, func(tx lifecycle.Repository) error {
		emp, svc, err := holdingEmployee(ctx, tx, userID, serviceID)
		if err != nil {
			return err
		}

		if lifecycle.Status(svc.Status) != lifecycle.StatusClaimed {
			return httperr.InvalidTransition(svc.Status, string(lifecycle.StatusClaimed))
		}

		if deadlineReached(svc, now) {
			stale = svc
			released, err = release(ctx, tx, svc, now)
			return err
		}

		if svc.ExtensionUsed {
			return httperr.ExtensionAlreadyUsed()
		}

		current := *svc.ArrivalDeadline
		next := uc.Policy.ExtendedDeadline(current)

		ok, err := tx.ExtendDeadline(ctx, svc.ID, emp.ID, current, next, now)
		if err != nil {
			return err
		}
		if !ok {
			return httperr.ExtensionAlreadyUsed()
		}

		if err := tx.MarkClaimExtended(ctx, svc.ID, emp.ID, next); err != nil {
			return err
		}

		extended, err = tx.GetService(ctx, svc.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if stale != nil {
		return nil, uc.deadlinePassed(userID, stale, released, "extend")
	}

	uc.Audit.Dispatch(audit.Event{
		UserID:   userID,
		Action:   "claim_extended",
		Entity:   "service",
		EntityID: &extended.ID,
		Metadata: map[string]any{"arrival_deadline": extended.ArrivalDeadline},
	})

	return extended, nil
}
