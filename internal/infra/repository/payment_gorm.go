package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/scoop-dispatch/internal/domain/payment"
	"github.com/BruksfildServices01/scoop-dispatch/internal/models"
)

type PaymentGormRepository struct {
	db *gorm.DB
}

var _ payment.Repository = (*PaymentGormRepository)(nil)

func NewPaymentGormRepository(db *gorm.DB) *PaymentGormRepository {
	return &PaymentGormRepository{db: db}
}

func (r *PaymentGormRepository) Transaction(
	ctx context.Context,
	fn func(tx payment.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PaymentGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Payment
// --------------------------------------------------

func (r *PaymentGormRepository) GetPayment(
	ctx context.Context,
	id uint,
) (*models.Payment, error) {

	var p models.Payment
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, notFound(err, "payment")
	}
	return &p, nil
}

func (r *PaymentGormRepository) GetCustomer(
	ctx context.Context,
	id uint,
) (*models.Customer, error) {

	var c models.Customer
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, notFound(err, "customer")
	}
	return &c, nil
}

func (r *PaymentGormRepository) ListPaymentsCreatedBetween(
	ctx context.Context,
	start time.Time,
	end time.Time,
) ([]models.Payment, error) {

	var list []models.Payment
	err := r.db.WithContext(ctx).
		Where("created_at >= ? AND created_at < ?", start.UTC(), end.UTC()).
		Order("id ASC").
		Find(&list).Error
	return list, err
}

// CorrectStatus stamps paid_at or failed_at to match the new status.
func (r *PaymentGormRepository) CorrectStatus(
	ctx context.Context,
	paymentID uint,
	from string,
	to string,
	at time.Time,
) (bool, error) {

	updates := map[string]any{"status": to}
	switch to {
	case payment.StatusPaid:
		updates["paid_at"] = at.UTC()
		updates["failed_at"] = nil
	case payment.StatusFailed:
		updates["failed_at"] = at.UTC()
	}

	res := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("id = ? AND status = ?", paymentID, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// --------------------------------------------------
// Retry
// --------------------------------------------------

func (r *PaymentGormRepository) CountRetries(
	ctx context.Context,
	paymentID uint,
) (int64, error) {

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PaymentRetry{}).
		Where("payment_id = ?", paymentID).
		Count(&count).Error
	return count, err
}

func (r *PaymentGormRepository) ListRetries(
	ctx context.Context,
	paymentID uint,
	status string,
) ([]models.PaymentRetry, error) {

	q := r.db.WithContext(ctx).Where("payment_id = ?", paymentID)
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var list []models.PaymentRetry
	err := q.Order("retry_count DESC").Find(&list).Error
	return list, err
}

func (r *PaymentGormRepository) CreateRetry(
	ctx context.Context,
	retry *models.PaymentRetry,
) error {
	return r.db.WithContext(ctx).Create(retry).Error
}

func (r *PaymentGormRepository) UpdateRetry(
	ctx context.Context,
	id uint,
	fields map[string]any,
) error {
	return r.db.WithContext(ctx).
		Model(&models.PaymentRetry{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// --------------------------------------------------
// Audit
// --------------------------------------------------

func (r *PaymentGormRepository) RecordAudit(
	ctx context.Context,
	log *models.AuditLog,
) error {
	return r.db.WithContext(ctx).Create(log).Error
}
