package earnings

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/scoop-dispatch/internal/audit"
	domain "github.com/BruksfildServices01/scoop-dispatch/internal/domain/earnings"
	"github.com/BruksfildServices01/scoop-dispatch/internal/httperr"
	"github.com/BruksfildServices01/scoop-dispatch/internal/models"
)

type AdjustInput struct {
	EarningID uint
	// Amount is a signed correction in minor units.
	Amount int64
	Reason string
}

type AdjustEarning struct {
	Deps
}

func NewAdjustEarning(d Deps) *AdjustEarning {
	return &AdjustEarning{Deps: d}
}

// Execute appends a correction. The stamped Earning amount is never edited.
func (uc *AdjustEarning) Execute(
	ctx context.Context,
	actorID string,
	in AdjustInput,
) (*models.Earning, error) {

	reason := strings.TrimSpace(in.Reason)
	if in.Amount == 0 {
		return nil, httperr.InvalidInput("amount", "amount must not be zero")
	}
	if reason == "" {
		return nil, httperr.InvalidInput("reason", "reason is required")
	}

	var earning *models.Earning
	err := uc.Repo.Transaction(ctx, func(tx domain.Repository) error {
		e, err := tx.GetEarning(ctx, in.EarningID)
		if err != nil {
			return err
		}

		if err := tx.CreateAdjustment(ctx, &models.EarningAdjustment{
			EarningID: e.ID,
			Amount:    in.Amount,
			Reason:    reason,
			CreatedBy: actorID,
		}); err != nil {
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
		Action:   "earning_adjusted",
		Entity:   "earning",
		EntityID: &earning.ID,
		Metadata: map[string]any{"amount": domain.Format(in.Amount), "reason": reason},
	})

	return earning, nil
}
