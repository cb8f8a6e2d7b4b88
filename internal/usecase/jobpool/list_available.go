package jobpool

import (
	"context"
	"iter"
	"time"

	"github.com/BruksfildServices01/scoop-dispatch/internal/domain/coverage"
	"github.com/BruksfildServices01/scoop-dispatch/internal/models"
)

type ListAvailable struct {
	Deps
}

func NewListAvailable(d Deps) *ListAvailable {
	return &ListAvailable{Deps: d}
}

// Execute checks the caller up front and returns a lazy sequence of the
// unowned services scheduled from now on that the caller covers. Each
// element is read from the store while the caller ranges over it.
func (uc *ListAvailable) Execute(
	ctx context.Context,
	userID string,
) (iter.Seq2[models.Service, error], error) {
	return uc.list(ctx, userID, false)
}

// ClaimableNow narrows Execute to services whose claim window is open at
// the current instant.
func (uc *ListAvailable) ClaimableNow(
	ctx context.Context,
	userID string,
) (iter.Seq2[models.Service, error], error) {
	return uc.list(ctx, userID, true)
}

func (uc *ListAvailable) list(
	ctx context.Context,
	userID string,
	openOnly bool,
) (iter.Seq2[models.Service, error], error) {

	emp, err := uc.Repo.GetEmployeeByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := coverage.CheckEmployee(emp); err != nil {
		return nil, err
	}

	now := uc.now()
	var until time.Time
	if openOnly {
		until = uc.Policy.ListingHorizon(now)
	}

	return func(yield func(models.Service, error) bool) {
		for c, err := range uc.Repo.IterateClaimable(ctx, now, until) {
			if err != nil {
				yield(models.Service{}, err)
				return
			}
			if openOnly && !uc.Policy.AdmissibleWindow(c.Service.ScheduledDate).AdmitsClaim(now) {
				continue
			}
			if !uc.Matcher.IsEligible(ctx, emp, c.CustomerZip) {
				continue
			}
			if !yield(c.Service, nil) {
				return
			}
		}
	}, nil
}
