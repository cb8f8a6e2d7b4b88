package earnings

import (
	"context"

	domain "github.com/BruksfildServices01/scoop-dispatch/internal/domain/earnings"
	"github.com/BruksfildServices01/scoop-dispatch/internal/httperr"
)

type ComputeServiceEarnings struct {
	Deps
}

func NewComputeServiceEarnings(d Deps) *ComputeServiceEarnings {
	return &ComputeServiceEarnings{Deps: d}
}

// Execute returns the per-service worker share funded by the latest settled
// payment of the subscription, in minor units.
func (uc *ComputeServiceEarnings) Execute(ctx context.Context, subscriptionID uint) (int64, error) {
	sub, err := uc.Repo.GetSubscription(ctx, subscriptionID)
	if err != nil {
		return 0, err
	}

	pay, err := uc.Repo.LatestPaidPayment(ctx, sub.ID)
	if err != nil {
		return 0, err
	}
	if pay == nil {
		return 0, httperr.NoCompletedPayment()
	}

	referral, err := uc.Repo.HasActiveReferral(ctx, sub.CustomerID)
	if err != nil {
		return 0, err
	}

	return uc.Policy.PerService(domain.Input{
		PaymentAmount: pay.Amount,
		ProcessorFee:  pay.ProcessorFee,
		HasReferral:   referral,
	}), nil
}
