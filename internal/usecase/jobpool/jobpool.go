package jobpool

import (
	"context"
	"time"

	"github.com/BruksfildServices01/scoop-dispatch/internal/audit"
	"github.com/BruksfildServices01/scoop-dispatch/internal/domain/claiming"
	"github.com/BruksfildServices01/scoop-dispatch/internal/domain/coverage"
	"github.com/BruksfildServices01/scoop-dispatch/internal/domain/lifecycle"
	"github.com/BruksfildServices01/scoop-dispatch/internal/httperr"
	"github.com/BruksfildServices01/scoop-dispatch/internal/metrics"
	"github.com/BruksfildServices01/scoop-dispatch/internal/models"
	"github.com/BruksfildServices01/scoop-dispatch/internal/notify"
	"github.com/BruksfildServices01/scoop-dispatch/internal/timezone"
)

// Deps are the collaborators shared by the job pool use cases. Audit and
// Notify may be nil.
type Deps struct {
	Repo    lifecycle.Repository
	Policy  claiming.Policy
	Matcher *coverage.Matcher
	Clock   timezone.Clock
	Audit   *audit.Dispatcher
	Notify  *notify.Dispatcher
}

func (d Deps) now() time.Time {
	if d.Clock == nil {
		return time.Now().In(d.Policy.Location)
	}
	return d.Clock()
}

func (d Deps) record(actor, userID, action string, svc *models.Service, meta map[string]any) {
	metrics.RecordTransition(svc.Status)
	d.Audit.Dispatch(audit.Event{
		Actor:    actor,
		UserID:   userID,
		Action:   action,
		Entity:   "service",
		EntityID: &svc.ID,
		Metadata: meta,
	})
}

func (d Deps) publish(kind string, svc *models.Service, at time.Time) {
	ev := notify.NewEvent(kind, svc.ID, svc.CustomerID, svc.EmployeeID, at)
	if svc.ArrivalDeadline != nil {
		deadline := svc.ArrivalDeadline.UTC()
		ev.Deadline = &deadline
	}
	d.Notify.Dispatch(ev)
}

// ======================================================
// Shared checks
// ======================================================

// holdingEmployee loads the caller and the service and requires the caller
// to own the current claim.
func holdingEmployee(
	ctx context.Context,
	tx lifecycle.Repository,
	userID string,
	serviceID uint,
) (*models.Employee, *models.Service, error) {

	emp, err := tx.GetEmployeeByUserID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	svc, err := tx.GetService(ctx, serviceID)
	if err != nil {
		return nil, nil, err
	}

	if svc.EmployeeID == nil || *svc.EmployeeID != emp.ID {
		return nil, nil, httperr.NotAssigned()
	}
	return emp, svc, nil
}

// deadlineReached reports whether the claim on svc can no longer be honoured
// at now.
func deadlineReached(svc *models.Service, now time.Time) bool {
	return svc.ArrivalDeadline != nil && !now.Before(*svc.ArrivalDeadline)
}

// release expires a stale claim and puts the service back in the pool. It
// reports false when the row had already moved on.
func release(
	ctx context.Context,
	tx lifecycle.Repository,
	svc *models.Service,
	now time.Time,
) (bool, error) {

	holder := svc.EmployeeID

	ok, err := tx.ApplyChange(ctx, lifecycle.Expire(svc.ID, now))
	if err != nil || !ok {
		return false, err
	}

	if holder != nil {
		if err := tx.CloseClaim(ctx, svc.ID, *holder, lifecycle.OutcomeExpired, now); err != nil {
			return false, err
		}
	}
	return true, nil
}

// deadlinePassed reports a claim that ran out while its holder was acting on
// it. released is false when a concurrent sweep got there first.
func (d Deps) deadlinePassed(userID string, svc *models.Service, released bool, source string) error {
	deadline := *svc.ArrivalDeadline
	if released {
		metrics.RecordExpirations(source, 1)
		d.Audit.Dispatch(audit.Event{
			Actor:    audit.ActorSystem,
			UserID:   userID,
			Action:   "claim_expired",
			Entity:   "service",
			EntityID: &svc.ID,
			Metadata: map[string]any{"arrival_deadline": deadline, "source": source},
		})
	}
	return httperr.DeadlinePassed(deadline)
}

// lostRace explains a conditional write that matched no row by re-reading
// the service.
func lostRace(
	ctx context.Context,
	tx lifecycle.Repository,
	serviceID uint,
	employeeID uint,
	to lifecycle.Status,
) error {

	svc, err := tx.GetService(ctx, serviceID)
	if err != nil {
		return err
	}
	if svc.EmployeeID == nil || *svc.EmployeeID != employeeID {
		return httperr.NotAssigned()
	}
	return httperr.InvalidTransition(svc.Status, string(to))
}
