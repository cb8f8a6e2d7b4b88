package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/scoop-dispatch/internal/audit"
	"github.com/BruksfildServices01/scoop-dispatch/internal/domain/identity"
	domain "github.com/BruksfildServices01/scoop-dispatch/internal/domain/payment"
	"github.com/BruksfildServices01/scoop-dispatch/internal/httperr"
	"github.com/BruksfildServices01/scoop-dispatch/internal/models"
	"github.com/BruksfildServices01/scoop-dispatch/internal/timezone"
)

const (
	retryBackoff      = 24 * time.Hour
	manualHandlingMsg = "manual handling required"
)

type RetryResult struct {
	Retry *models.PaymentRetry `json:"retry"`
	// ClientSecret lets the customer finish the new intent.
	ClientSecret string `json:"client_secret,omitempty"`
}

type RetryPayment struct {
	repo      domain.Repository
	processor domain.Processor
	clock     timezone.Clock
	audit     *audit.Dispatcher
}

func NewRetryPayment(
	repo domain.Repository,
	processor domain.Processor,
	clock timezone.Clock,
	audit *audit.Dispatcher,
) *RetryPayment {
	if clock == nil {
		clock = time.Now
	}
	return &RetryPayment{
		repo:      repo,
		processor: processor,
		clock:     clock,
		audit:     audit,
	}
}

// Execute records a new attempt for a failed payment and asks the processor
// for a fresh intent for the same customer and amount. The attempt row is
// kept even when the processor cannot be reached.
func (uc *RetryPayment) Execute(
	ctx context.Context,
	actor identity.Principal,
	paymentID uint,
) (*RetryResult, error) {

	now := uc.clock()

	pay, err := uc.repo.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	customer, err := uc.repo.GetCustomer(ctx, pay.CustomerID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && customer.UserID != actor.UserID {
		return nil, httperr.Forbidden()
	}

	if pay.Status != domain.StatusFailed {
		return nil, httperr.NotFailed()
	}

	retry := &models.PaymentRetry{
		PaymentID:   pay.ID,
		Status:      domain.RetryPending,
		RequestedBy: actor.UserID,
	}
	if pay.ProcessorIntentID == "" {
		retry.LastError = manualHandlingMsg
	}

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		count, err := tx.CountRetries(ctx, pay.ID)
		if err != nil {
			return err
		}
		retry.RetryCount = int(count) + 1
		return tx.CreateRetry(ctx, retry)
	})
	if httperr.IsUniqueViolation(err) {
		return nil, httperr.RetryInProgress()
	}
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   actor.UserID,
		Action:   "payment_retry_requested",
		Entity:   "payment",
		EntityID: &pay.ID,
		Metadata: map[string]any{"retry_count": retry.RetryCount},
	})

	if pay.ProcessorIntentID == "" {
		return nil, httperr.CannotRetryWithoutOriginalIntent()
	}

	intent, err := uc.processor.CreateIntent(ctx, domain.IntentRequest{
		Reference:     uuid.NewString(),
		CustomerID:    customer.ProcessorCustomerID,
		CustomerEmail: customer.Email,
		Amount:        pay.Amount,
		Currency:      pay.Currency,
		Description:   fmt.Sprintf("Payment %d retry %d", pay.ID, retry.RetryCount),
	})
	if err != nil {
		next := now.Add(retryBackoff).UTC()
		retry.LastError = err.Error()
		retry.NextRetryDate = &next
		if uerr := uc.repo.UpdateRetry(ctx, retry.ID, map[string]any{
			"last_error":      retry.LastError,
			"next_retry_date": next,
		}); uerr != nil {
			zap.L().Error("record retry failure", zap.Uint("retry_id", retry.ID), zap.Error(uerr))
		}
		zap.L().Warn("processor rejected retry",
			zap.String("dependency", "payment_processor"),
			zap.Uint("payment_id", pay.ID),
			zap.Error(err),
		)
		return nil, httperr.ProcessorError(err)
	}

	retry.ProcessorIntentID = intent.ID
	if err := uc.repo.UpdateRetry(ctx, retry.ID, map[string]any{
		"processor_intent_id": intent.ID,
	}); err != nil {
		return nil, err
	}

	return &RetryResult{Retry: retry, ClientSecret: intent.ClientSecret}, nil
}
