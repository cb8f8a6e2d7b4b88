package earnings

import (
	"context"

	"github.com/BruksfildServices01/scoop-dispatch/internal/audit"
	domain "github.com/BruksfildServices01/scoop-dispatch/internal/domain/earnings"
	"github.com/BruksfildServices01/scoop-dispatch/internal/domain/lifecycle"
	"github.com/BruksfildServices01/scoop-dispatch/internal/httperr"
	"github.com/BruksfildServices01/scoop-dispatch/internal/models"
)

type ApproveServicePayment struct {
	Deps
}

func NewApproveServicePayment(d Deps) *ApproveServicePayment {
	return &ApproveServicePayment{Deps: d}
}

// Execute creates the Earning for a completed service and flips its payment
// status in one transaction. Either both land or neither does.
func (uc *ApproveServicePayment) Execute(
	ctx context.Context,
	serviceID uint,
	approverID string,
) (*models.Earning, error) {

	now := uc.now()

	var earning *models.Earning
	err := uc.Repo.Transaction(ctx, func(tx domain.Repository) error {
		svc, err := tx.GetService(ctx, serviceID)
		if err != nil {
			return err
		}
		if lifecycle.Status(svc.Status) != lifecycle.StatusCompleted {
			return httperr.NotCompleted()
		}
		if svc.PaymentStatus != domain.PaymentPending {
			return httperr.AlreadyApproved()
		}
		if svc.EmployeeID == nil {
			return httperr.NotCompleted()
		}

		emp, err := tx.GetEmployee(ctx, *svc.EmployeeID)
		if err != nil {
			return err
		}

		ok, err := tx.SetServicePaymentStatus(ctx, svc.ID, domain.PaymentPending, domain.PaymentApproved)
		if err != nil {
			return err
		}
		if !ok {
			return httperr.AlreadyApproved()
		}

		e := &models.Earning{
			ServiceID:  svc.ID,
			EmployeeID: emp.ID,
			Amount:     svc.PotentialEarnings,
			ApprovedAt: now,
			ApprovedBy: approverID,
			PaidVia:    emp.PayoutMethod,
		}
		if err := tx.CreateEarning(ctx, e); err != nil {
			if httperr.IsUniqueViolation(err) {
				return httperr.AlreadyApproved()
			}
			return err
		}

		earning = e
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.Audit.Dispatch(audit.Event{
		UserID:   approverID,
		Action:   "service_payment_approved",
		Entity:   "earning",
		EntityID: &earning.ID,
		Metadata: map[string]any{
			"service_id": earning.ServiceID,
			"amount":     domain.Format(earning.Amount),
		},
	})

	return earning, nil
}
