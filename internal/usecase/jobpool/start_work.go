package jobpool

import (
	"context"

	"github.com/BruksfildServices01/scoop-dispatch/internal/audit"
	"github.com/BruksfildServices01/scoop-dispatch/internal/domain/lifecycle"
	"github.com/BruksfildServices01/scoop-dispatch/internal/models"
)

type StartWork struct {
	Deps
}

func NewStartWork(d Deps) *StartWork {
	return &StartWork{Deps: d}
}

// Execute moves an arrived service into progress. Work is only admitted
// between 07:00 and 19:00 on the scheduled date.
func (uc *StartWork) Execute(
	ctx context.Context,
	userID string,
	serviceID uint,
) (*models.Service, error) {

	now := uc.now()

	var started *models.Service
	err := uc.Repo.Transaction(ctx, func(tx lifecycle.Repository) error {
		emp, svc, err := holdingEmployee(ctx, tx, userID, serviceID)
		if err != nil {
			return err
		}

		change := lifecycle.Start(svc.ID, emp.ID, now)
		if err := change.Check(lifecycle.Status(svc.Status)); err != nil {
			return err
		}

		if err := uc.Policy.AdmissibleWindow(svc.ScheduledDate).CheckWork(now); err != nil {
			return err
		}

		ok, err := tx.ApplyChange(ctx, change)
		if err != nil {
			return err
		}
		if !ok {
			return lostRace(ctx, tx, svc.ID, emp.ID, lifecycle.StatusInProgress)
		}

		started, err = tx.GetService(ctx, svc.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.record(audit.ActorUser, userID, "service_started", started, nil)
	return started, nil
}
