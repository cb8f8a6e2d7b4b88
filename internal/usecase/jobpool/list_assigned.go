package jobpool

import (
	"context"

	"github.com/BruksfildServices01/scoop-dispatch/internal/domain/lifecycle"
	"github.com/BruksfildServices01/scoop-dispatch/internal/models"
)

// ListAssigned returns the services the caller currently holds.
type ListAssigned struct {
	Deps
}

func NewListAssigned(d Deps) *ListAssigned {
	return &ListAssigned{Deps: d}
}

func (uc *ListAssigned) Execute(ctx context.Context, userID string) ([]models.Service, error) {
	emp, err := uc.Repo.GetEmployeeByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return uc.Repo.ListForEmployee(ctx, emp.ID, lifecycle.HeldStatuses())
}
