package earnings

import (
	"context"
	"time"

	"github.com/BruksfildServices01/scoop-dispatch/internal/models"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(tx Repository) error) error

	// -------- Funding --------
	GetSubscription(ctx context.Context, id uint) (*models.Subscription, error)
	LatestPaidPayment(ctx context.Context, subscriptionID uint) (*models.Payment, error)
	HasActiveReferral(ctx context.Context, customerID uint) (bool, error)

	// -------- Service payout --------
	GetService(ctx context.Context, id uint) (*models.Service, error)
	GetEmployee(ctx context.Context, id uint) (*models.Employee, error)
	GetEmployeeByUserID(ctx context.Context, userID string) (*models.Employee, error)
	// SetServicePaymentStatus moves payment_status from -> to and reports
	// whether the row was still in from.
	SetServicePaymentStatus(ctx context.Context, serviceID uint, from, to string) (bool, error)

	// -------- Earning --------
	CreateEarning(ctx context.Context, e *models.Earning) error
	GetEarning(ctx context.Context, id uint) (*models.Earning, error)
	GetEarningByService(ctx context.Context, serviceID uint) (*models.Earning, error)
	MarkEarningPaid(ctx context.Context, earningID uint, at time.Time) error
	CreateAdjustment(ctx context.Context, adj *models.EarningAdjustment) error
	ListEarnings(ctx context.Context, employeeID uint, from, to time.Time) ([]models.Earning, error)
}
