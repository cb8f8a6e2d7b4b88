package jobpool

import (
	"context"

	"github.com/BruksfildServices01/scoop-dispatch/internal/audit"
	"github.com/BruksfildServices01/scoop-dispatch/internal/domain/coverage"
	"github.com/BruksfildServices01/scoop-dispatch/internal/domain/lifecycle"
	"github.com/BruksfildServices01/scoop-dispatch/internal/httperr"
	"github.com/BruksfildServices01/scoop-dispatch/internal/models"
)

const maxRadiusMiles = 50

type AreaInput struct {
	ZipCode string  `json:"zip_code"`
	Radius  float64 `json:"radius"`
	Active  *bool   `json:"active"`
}

type ServiceAreas struct {
	Deps
}

func NewServiceAreas(d Deps) *ServiceAreas {
	return &ServiceAreas{Deps: d}
}

func (uc *ServiceAreas) Get(ctx context.Context, userID string) ([]models.ServiceArea, error) {
	emp, err := uc.Repo.GetEmployeeByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return emp.ServiceAreas, nil
}

// Replace swaps the caller's whole coverage set.
func (uc *ServiceAreas) Replace(
	ctx context.Context,
	userID string,
	in []AreaInput,
) ([]models.ServiceArea, error) {

	areas := make([]models.ServiceArea, 0, len(in))
	seen := map[string]bool{}
	for _, a := range in {
		zip := coverage.NormalizeZip(a.ZipCode)
		if zip == "" {
			return nil, httperr.InvalidInput("zip_code", "zip_code is required")
		}
		if seen[zip] {
			return nil, httperr.InvalidInput("zip_code", "duplicate zip_code "+zip)
		}
		if a.Radius < 0 || a.Radius > maxRadiusMiles {
			return nil, httperr.InvalidInput("radius", "radius must be between 0 and 50 miles")
		}
		seen[zip] = true

		active := true
		if a.Active != nil {
			active = *a.Active
		}
		areas = append(areas, models.ServiceArea{ZipCode: zip, Radius: a.Radius, Active: active})
	}

	var out []models.ServiceArea
	err := uc.Repo.Transaction(ctx, func(tx lifecycle.Repository) error {
		emp, err := tx.GetEmployeeByUserID(ctx, userID)
		if err != nil {
			return err
		}
		if err := tx.ReplaceServiceAreas(ctx, emp.ID, areas); err != nil {
			return err
		}

		emp, err = tx.GetEmployeeByUserID(ctx, userID)
		if err != nil {
			return err
		}
		out = emp.ServiceAreas
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.Audit.Dispatch(audit.Event{
		UserID:   userID,
		Action:   "service_areas_replaced",
		Entity:   "employee",
		Metadata: map[string]any{"count": len(out)},
	})
	return out, nil
}
