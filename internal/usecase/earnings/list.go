package earnings

import (
	"context"
	"time"

	"github.com/BruksfildServices01/scoop-dispatch/internal/models"
)

// Summary totals a list of earnings with their adjustments, in minor units.
type Summary struct {
	Total       int64 `json:"total"`
	Paid        int64 `json:"paid"`
	Outstanding int64 `json:"outstanding"`
}

// Net is the stamped amount plus every adjustment.
func Net(e models.Earning) int64 {
	n := e.Amount
	for _, a := range e.Adjustments {
		n += a.Amount
	}
	return n
}

func Summarize(list []models.Earning) Summary {
	var s Summary
	for _, e := range list {
		n := Net(e)
		s.Total += n
		if e.PaidAt != nil {
			s.Paid += n
		} else {
			s.Outstanding += n
		}
	}
	return s
}

type ListEarnings struct {
	Deps
}

func NewListEarnings(d Deps) *ListEarnings {
	return &ListEarnings{Deps: d}
}

// Execute lists the caller's earnings approved in [from, to). Zero bounds
// are open.
func (uc *ListEarnings) Execute(
	ctx context.Context,
	userID string,
	from time.Time,
	to time.Time,
) ([]models.Earning, Summary, error) {

	emp, err := uc.Repo.GetEmployeeByUserID(ctx, userID)
	if err != nil {
		return nil, Summary{}, err
	}

	list, err := uc.Repo.ListEarnings(ctx, emp.ID, from, to)
	if err != nil {
		return nil, Summary{}, err
	}
	return list, Summarize(list), nil
}
