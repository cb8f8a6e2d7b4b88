package payment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/scoop-dispatch/internal/models"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(tx Repository) error) error

	GetPayment(ctx context.Context, id uint) (*models.Payment, error)
	GetCustomer(ctx context.Context, id uint) (*models.Customer, error)
	ListPaymentsCreatedBetween(ctx context.Context, start, end time.Time) ([]models.Payment, error)

	CountRetries(ctx context.Context, paymentID uint) (int64, error)
	ListRetries(ctx context.Context, paymentID uint, status string) ([]models.PaymentRetry, error)
	CreateRetry(ctx context.Context, r *models.PaymentRetry) error
	UpdateRetry(ctx context.Context, id uint, fields map[string]any) error

	// CorrectStatus rewrites status and timestamps only when the row still
	// holds from. Amount columns are never touched.
	CorrectStatus(ctx context.Context, paymentID uint, from, to string, at time.Time) (bool, error)

	RecordAudit(ctx context.Context, log *models.AuditLog) error
}
