package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/scoop-dispatch/internal/domain/earnings"
	"github.com/BruksfildServices01/scoop-dispatch/internal/domain/payment"
	"github.com/BruksfildServices01/scoop-dispatch/internal/models"
)

type EarningsGormRepository struct {
	db *gorm.DB
}

var _ earnings.Repository = (*EarningsGormRepository)(nil)

func NewEarningsGormRepository(db *gorm.DB) *EarningsGormRepository {
	return &EarningsGormRepository{db: db}
}

func (r *EarningsGormRepository) Transaction(
	ctx context.Context,
	fn func(tx earnings.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&EarningsGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Funding
// --------------------------------------------------

func (r *EarningsGormRepository) GetSubscription(
	ctx context.Context,
	id uint,
) (*models.Subscription, error) {

	var sub models.Subscription
	if err := r.db.WithContext(ctx).First(&sub, id).Error; err != nil {
		return nil, notFound(err, "subscription")
	}
	return &sub, nil
}

// LatestPaidPayment returns the most recent settled payment, or nil when the
// subscription has none.
func (r *EarningsGormRepository) LatestPaidPayment(
	ctx context.Context,
	subscriptionID uint,
) (*models.Payment, error) {

	var list []models.Payment
	if err := r.db.WithContext(ctx).
		Where("subscription_id = ? AND status = ?", subscriptionID, payment.StatusPaid).
		Order("paid_at DESC, id DESC").
		Limit(1).
		Find(&list).Error; err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return &list[0], nil
}

func (r *EarningsGormRepository) HasActiveReferral(
	ctx context.Context,
	customerID uint,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Referral{}).
		Where("referred_customer_id = ? AND status = ?", customerID, "ACTIVE").
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// --------------------------------------------------
// Service payout
// --------------------------------------------------

func (r *EarningsGormRepository) GetService(
	ctx context.Context,
	id uint,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).First(&svc, id).Error; err != nil {
		return nil, notFound(err, "service")
	}
	return &svc, nil
}

func (r *EarningsGormRepository) GetEmployee(
	ctx context.Context,
	id uint,
) (*models.Employee, error) {

	var emp models.Employee
	if err := r.db.WithContext(ctx).First(&emp, id).Error; err != nil {
		return nil, notFound(err, "employee")
	}
	return &emp, nil
}

func (r *EarningsGormRepository) GetEmployeeByUserID(
	ctx context.Context,
	userID string,
) (*models.Employee, error) {

	var emp models.Employee
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&emp).Error; err != nil {
		return nil, notFound(err, "employee")
	}
	return &emp, nil
}

func (r *EarningsGormRepository) SetServicePaymentStatus(
	ctx context.Context,
	serviceID uint,
	from string,
	to string,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Service{}).
		Where("id = ? AND payment_status = ?", serviceID, from).
		Update("payment_status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// --------------------------------------------------
// Earning
// --------------------------------------------------

func (r *EarningsGormRepository) CreateEarning(
	ctx context.Context,
	e *models.Earning,
) error {
	e.ApprovedAt = e.ApprovedAt.UTC()
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *EarningsGormRepository) GetEarning(
	ctx context.Context,
	id uint,
) (*models.Earning, error) {

	var e models.Earning
	if err := r.db.WithContext(ctx).
		Preload("Adjustments").
		First(&e, id).Error; err != nil {
		return nil, notFound(err, "earning")
	}
	return &e, nil
}

func (r *EarningsGormRepository) GetEarningByService(
	ctx context.Context,
	serviceID uint,
) (*models.Earning, error) {

	var e models.Earning
	if err := r.db.WithContext(ctx).
		Preload("Adjustments").
		Where("service_id = ?", serviceID).
		First(&e).Error; err != nil {
		return nil, notFound(err, "earning")
	}
	return &e, nil
}

func (r *EarningsGormRepository) MarkEarningPaid(
	ctx context.Context,
	earningID uint,
	at time.Time,
) error {
	return r.db.WithContext(ctx).
		Model(&models.Earning{}).
		Where("id = ? AND paid_at IS NULL", earningID).
		Update("paid_at", at.UTC()).Error
}

func (r *EarningsGormRepository) CreateAdjustment(
	ctx context.Context,
	adj *models.EarningAdjustment,
) error {
	return r.db.WithContext(ctx).Create(adj).Error
}

// ListEarnings returns an employee's earnings approved in [from, to). Zero
// bounds are open.
func (r *EarningsGormRepository) ListEarnings(
	ctx context.Context,
	employeeID uint,
	from time.Time,
	to time.Time,
) ([]models.Earning, error) {

	q := r.db.WithContext(ctx).
		Preload("Adjustments").
		Where("employee_id = ?", employeeID)
	if !from.IsZero() {
		q = q.Where("approved_at >= ?", from.UTC())
	}
	if !to.IsZero() {
		q = q.Where("approved_at < ?", to.UTC())
	}

	var list []models.Earning
	err := q.Order("approved_at DESC").Find(&list).Error
	return list, err
}
