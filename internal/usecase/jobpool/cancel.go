package jobpool

import (
	"context"

	"github.com/BruksfildServices01/scoop-dispatch/internal/audit"
	"github.com/BruksfildServices01/scoop-dispatch/internal/domain/identity"
	"github.com/BruksfildServices01/scoop-dispatch/internal/domain/lifecycle"
	"github.com/BruksfildServices01/scoop-dispatch/internal/httperr"
	"github.com/BruksfildServices01/scoop-dispatch/internal/models"
	"github.com/BruksfildServices01/scoop-dispatch/internal/notify"
)

type CancelInput struct {
	ServiceID uint
	Reason    string
}

type CancelService struct {
	Deps
}

func NewCancelService(d Deps) *CancelService {
	return &CancelService{Deps: d}
}

// Execute cancels a non-terminal service. Admins may cancel any service,
// customers only their own.
func (uc *CancelService) Execute(
	ctx context.Context,
	actor identity.Principal,
	in CancelInput,
) (*models.Service, error) {

	if in.Reason == "" {
		return nil, httperr.InvalidInput("reason", "reason is required")
	}

	now := uc.now()

	var (
		cancelled *models.Service
		holder    *uint
	)

	err := uc.Repo.Transaction(ctx, func(tx lifecycle.Repository) error {
		svc, err := tx.GetService(ctx, in.ServiceID)
		if err != nil {
			return err
		}

		if !actor.IsAdmin() && svc.Customer.UserID != actor.UserID {
			return httperr.Forbidden()
		}

		change := lifecycle.Cancel(svc.ID, now, in.Reason)
		if err := change.Check(lifecycle.Status(svc.Status)); err != nil {
			return err
		}

		ok, err := tx.ApplyChange(ctx, change)
		if err != nil {
			return err
		}
		if !ok {
			current, err := tx.GetService(ctx, svc.ID)
			if err != nil {
				return err
			}
			return httperr.InvalidTransition(current.Status, string(lifecycle.StatusCancelled))
		}

		holder = svc.EmployeeID
		if holder != nil {
			if err := tx.CloseClaim(ctx, svc.ID, *holder, lifecycle.OutcomeCancelled, now); err != nil {
				return err
			}
		}

		cancelled, err = tx.GetService(ctx, svc.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.record(audit.ActorUser, actor.UserID, "service_cancelled", cancelled, map[string]any{
		"reason":         in.Reason,
		"previous_owner": holder,
	})
	uc.publish(notify.ServiceCancelled, cancelled, now)

	return cancelled, nil
}
