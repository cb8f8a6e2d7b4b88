package jobpool

import (
	"context"

	"github.com/BruksfildServices01/scoop-dispatch/internal/audit"
	"github.com/BruksfildServices01/scoop-dispatch/internal/domain/coverage"
	"github.com/BruksfildServices01/scoop-dispatch/internal/domain/lifecycle"
	"github.com/BruksfildServices01/scoop-dispatch/internal/httperr"
	"github.com/BruksfildServices01/scoop-dispatch/internal/metrics"
	"github.com/BruksfildServices01/scoop-dispatch/internal/models"
	"github.com/BruksfildServices01/scoop-dispatch/internal/notify"
)

type ClaimService struct {
	Deps
}

func NewClaimService(d Deps) *ClaimService {
	return &ClaimService{Deps: d}
}

// Execute claims one service for the caller. The conditional write inside
// the transaction is the only arbiter between racing employees; every check
// before it only chooses which error the loser sees.
func (uc *ClaimService) Execute(
	ctx context.Context,
	userID string,
	serviceID uint,
) (*models.Service, error) {

	now := uc.now()
	deadline := uc.Policy.ArrivalDeadline(now)

	var claimed *models.Service
	err := uc.Repo.Transaction(ctx, func(tx lifecycle.Repository) error {
		emp, err := tx.GetEmployeeByUserID(ctx, userID)
		if err != nil {
			return err
		}
		if err := coverage.CheckEmployee(emp); err != nil {
			return err
		}

		svc, err := tx.GetService(ctx, serviceID)
		if err != nil {
			return err
		}
		if svc.EmployeeID != nil {
			return httperr.AlreadyClaimed()
		}

		change := lifecycle.Claim(svc.ID, emp.ID, now, deadline)
		if err := change.Check(lifecycle.Status(svc.Status)); err != nil {
			return err
		}

		window := uc.Policy.AdmissibleWindow(svc.ScheduledDate)
		if err := window.CheckClaim(now); err != nil {
			return err
		}

		if !uc.Matcher.IsEligible(ctx, emp, svc.Customer.ZipCode) {
			return httperr.NotEligible()
		}

		ok, err := tx.ApplyChange(ctx, change)
		if err != nil {
			return err
		}
		if !ok {
			return httperr.AlreadyClaimed()
		}

		if err := tx.OpenClaim(ctx, &models.ServiceClaim{
			ServiceID:       svc.ID,
			EmployeeID:      emp.ID,
			ClaimedAt:       now,
			ArrivalDeadline: deadline,
			Outcome:         lifecycle.OutcomeActive,
		}); err != nil {
			return err
		}

		claimed, err = tx.GetService(ctx, svc.ID)
		return err
	})
	if err != nil {
		if httperr.IsBusiness(err, httperr.CodeAlreadyClaimed) {
			metrics.RecordClaim(metrics.ClaimLost)
		} else if _, ok := httperr.AsBusiness(err); ok {
			metrics.RecordClaim(metrics.ClaimRejected)
		}
		return nil, err
	}

	metrics.RecordClaim(metrics.ClaimWon)
	uc.record(audit.ActorUser, userID, "service_claimed", claimed, map[string]any{
		"arrival_deadline": deadline,
	})
	uc.publish(notify.ServiceClaimed, claimed, now)

	return claimed, nil
}
