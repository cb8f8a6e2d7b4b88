package earnings

import (
	"context"
	"fmt"
	"time"

	"github.com/BruksfildServices01/scoop-dispatch/internal/audit"
	"github.com/BruksfildServices01/scoop-dispatch/internal/domain/claiming"
	"github.com/BruksfildServices01/scoop-dispatch/internal/domain/lifecycle"
	"github.com/BruksfildServices01/scoop-dispatch/internal/models"
)

type GenerateCycleInput struct {
	SubscriptionID uint
	// FirstDate is the first visit; the rest follow weekly at the same
	// local time.
	FirstDate time.Time
}

type GenerateCycle struct {
	Deps
	compute  *ComputeServiceEarnings
	services lifecycle.Repository
	window   claiming.Policy
}

func NewGenerateCycle(
	d Deps,
	services lifecycle.Repository,
	window claiming.Policy,
) *GenerateCycle {
	return &GenerateCycle{
		Deps:     d,
		compute:  NewComputeServiceEarnings(d),
		services: services,
		window:   window,
	}
}

// Execute creates one billing period of services, each stamped with the
// same potential earnings.
func (uc *GenerateCycle) Execute(
	ctx context.Context,
	in GenerateCycleInput,
) ([]models.Service, error) {

	dates := uc.visitDates(in.FirstDate)
	for _, d := range dates {
		if err := uc.window.ValidateScheduledDate(d); err != nil {
			return nil, err
		}
	}

	sub, err := uc.Repo.GetSubscription(ctx, in.SubscriptionID)
	if err != nil {
		return nil, err
	}

	amount, err := uc.compute.Execute(ctx, sub.ID)
	if err != nil {
		return nil, err
	}

	batch := make([]models.Service, len(dates))
	for i, d := range dates {
		batch[i] = models.Service{
			CustomerID:        sub.CustomerID,
			SubscriptionID:    sub.ID,
			ServicePlanID:     sub.ServicePlanID,
			Status:            string(lifecycle.InitialStatus()),
			ScheduledDate:     d,
			PotentialEarnings: amount,
			PaymentStatus:     "PENDING",
		}
	}

	err = uc.services.Transaction(ctx, func(tx lifecycle.Repository) error {
		if err := tx.CreateServices(ctx, batch); err != nil {
			return err
		}
		for i := range batch {
			ok, err := tx.ApplyChange(ctx, lifecycle.Schedule(batch[i].ID))
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("schedule service %d: row not pending", batch[i].ID)
			}
			batch[i].Status = string(lifecycle.StatusScheduled)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.Audit.Dispatch(audit.Event{
		Actor:    audit.ActorSystem,
		Action:   "cycle_generated",
		Entity:   "subscription",
		EntityID: &sub.ID,
		Metadata: map[string]any{
			"services":           len(batch),
			"potential_earnings": amount,
		},
	})

	return batch, nil
}

func (uc *GenerateCycle) visitDates(first time.Time) []time.Time {
	n := int(uc.Policy.ServicesPerCycle)
	if n <= 0 {
		n = 1
	}

	local := first.In(uc.window.Location)
	y, m, d := local.Date()
	h, mi, s := local.Clock()

	out := make([]time.Time, n)
	for i := range out {
		out[i] = time.Date(y, m, d+7*i, h, mi, s, 0, uc.window.Location)
	}
	return out
}
