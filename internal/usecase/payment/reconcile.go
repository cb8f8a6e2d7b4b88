package payment

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/scoop-dispatch/internal/audit"
	domain "github.com/BruksfildServices01/scoop-dispatch/internal/domain/payment"
	"github.com/BruksfildServices01/scoop-dispatch/internal/metrics"
	"github.com/BruksfildServices01/scoop-dispatch/internal/models"
	"github.com/BruksfildServices01/scoop-dispatch/internal/timezone"
)

type Report struct {
	Checked           int    `json:"checked"`
	Corrected         int    `json:"corrected"`
	DriftedPaymentIDs []uint `json:"drifted_payment_ids"`
	// Failed counts payments the processor could not be asked about.
	Failed int `json:"failed"`
}

type Reconcile struct {
	repo      domain.Repository
	processor domain.Processor
	clock     timezone.Clock
}

func NewReconcile(
	repo domain.Repository,
	processor domain.Processor,
	clock timezone.Clock,
) *Reconcile {
	if clock == nil {
		clock = time.Now
	}
	return &Reconcile{
		repo:      repo,
		processor: processor,
		clock:     clock,
	}
}

// Execute compares payments created in [start, end) with the processor and
// corrects local status drift. Amounts are never touched and running it
// twice changes nothing the second time.
func (uc *Reconcile) Execute(ctx context.Context, start, end time.Time) (*Report, error) {
	payments, err := uc.repo.ListPaymentsCreatedBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}

	report := &Report{DriftedPaymentIDs: []uint{}}
	for i := range payments {
		pay := &payments[i]

		remote, via, err := uc.remoteRecord(ctx, pay)
		if err != nil {
			report.Failed++
			zap.L().Warn("reconcile lookup failed",
				zap.String("dependency", "payment_processor"),
				zap.Uint("payment_id", pay.ID),
				zap.Error(err),
			)
			continue
		}
		report.Checked++

		if !domain.Drifted(pay.Status, remote) {
			continue
		}

		corrected, err := uc.correct(ctx, pay, remote, via)
		if err != nil {
			return report, err
		}
		if corrected {
			report.Corrected++
			report.DriftedPaymentIDs = append(report.DriftedPaymentIDs, pay.ID)
		}
	}

	metrics.RecordReconcileCorrections(report.Corrected)
	zap.L().Info("reconcile finished",
		zap.Time("start", start),
		zap.Time("end", end),
		zap.Int("checked", report.Checked),
		zap.Int("corrected", report.Corrected),
		zap.Int("failed", report.Failed),
	)
	return report, nil
}

// remoteRecord asks about pending retry intents first, since a settled retry
// settles the payment, then about the payment's own intent.
func (uc *Reconcile) remoteRecord(
	ctx context.Context,
	pay *models.Payment,
) (*domain.Record, *models.PaymentRetry, error) {

	retries, err := uc.repo.ListRetries(ctx, pay.ID, domain.RetryPending)
	if err != nil {
		return nil, nil, err
	}
	for i := range retries {
		r := &retries[i]
		if r.ProcessorIntentID == "" {
			continue
		}
		rec, err := uc.processor.Lookup(ctx, r.ProcessorIntentID)
		if err != nil {
			return nil, nil, err
		}
		if rec != nil && rec.Status == domain.StatusPaid {
			return rec, r, nil
		}
	}

	if pay.ProcessorIntentID == "" {
		return nil, nil, nil
	}
	rec, err := uc.processor.Lookup(ctx, pay.ProcessorIntentID)
	return rec, nil, err
}

func (uc *Reconcile) correct(
	ctx context.Context,
	pay *models.Payment,
	remote *domain.Record,
	via *models.PaymentRetry,
) (bool, error) {

	at := uc.clock()
	if remote.SettledAt != nil {
		at = *remote.SettledAt
	}

	var corrected bool
	err := uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		ok, err := tx.CorrectStatus(ctx, pay.ID, pay.Status, remote.Status, at)
		if err != nil || !ok {
			return err
		}

		meta := map[string]any{
			"old_status": pay.Status,
			"new_status": remote.Status,
			"reference":  remote.Reference,
		}
		if via != nil {
			meta["retry_id"] = via.ID
			if err := tx.UpdateRetry(ctx, via.ID, map[string]any{"status": domain.RetrySucceeded}); err != nil {
				return err
			}
		}

		entry := audit.Entry(audit.Event{
			Actor:    audit.ActorSystem,
			UserID:   domain.ActorSystem,
			Action:   "payment_status_reconciled",
			Entity:   "payment",
			EntityID: &pay.ID,
			Metadata: meta,
		})
		if err := tx.RecordAudit(ctx, &entry); err != nil {
			return err
		}

		corrected = true
		return nil
	})
	return corrected, err
}
