package earnings

import (
	"context"

	"github.com/BruksfildServices01/scoop-dispatch/internal/audit"
	domain "github.com/BruksfildServices01/scoop-dispatch/internal/domain/earnings"
	"github.com/BruksfildServices01/scoop-dispatch/internal/httperr"
	"github.com/BruksfildServices01/scoop-dispatch/internal/models"
)

type MarkEarningPaid struct {
	Deps
}

func NewMarkEarningPaid(d Deps) *MarkEarningPaid {
	return &MarkEarningPaid{Deps: d}
}

// Execute records that the approved earning for a service has been sent.
func (uc *MarkEarningPaid) Execute(
	ctx context.Context,
	serviceID uint,
	actorID string,
) (*models.Earning, error) {

	now := uc.now()

	var earning *models.Earning
	err := uc.Repo.Transaction(ctx, func(tx domain.Repository) error {
		ok, err := tx.SetServicePaymentStatus(ctx, serviceID, domain.PaymentApproved, domain.PaymentPaid)
		if err != nil {
			return err
		}
		if !ok {
			svc, err := tx.GetService(ctx, serviceID)
			if err != nil {
				return err
			}
			if svc.PaymentStatus == domain.PaymentPending {
				return httperr.NotApproved()
			}
			return httperr.InvalidTransition(svc.PaymentStatus, domain.PaymentPaid)
		}

		e, err := tx.GetEarningByService(ctx, serviceID)
		if err != nil {
			return err
		}
		if err := tx.MarkEarningPaid(ctx, e.ID, now); err != nil {
			return err
		}

		earning, err = tx.GetEarning(ctx, e.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.Audit.Dispatch(audit.Event{
		UserID:   actorID,
		Action:   "earning_paid",
		Entity:   "earning",
		EntityID: &earning.ID,
		Metadata: map[string]any{"service_id": serviceID, "paid_via": earning.PaidVia},
	})

	return earning, nil
}
