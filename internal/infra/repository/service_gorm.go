package repository

import (
	"context"
	"errors"
	"iter"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/scoop-dispatch/internal/domain/lifecycle"
	"github.com/BruksfildServices01/scoop-dispatch/internal/models"
)

const claimableBatchSize = 100

var errStopIteration = errors.New("iteration stopped")

type ServiceGormRepository struct {
	db *gorm.DB
}

var _ lifecycle.Repository = (*ServiceGormRepository)(nil)

func NewServiceGormRepository(db *gorm.DB) *ServiceGormRepository {
	return &ServiceGormRepository{db: db}
}

func (r *ServiceGormRepository) Transaction(
	ctx context.Context,
	fn func(tx lifecycle.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ServiceGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Employee
// --------------------------------------------------

func (r *ServiceGormRepository) GetEmployeeByUserID(
	ctx context.Context,
	userID string,
) (*models.Employee, error) {

	var emp models.Employee
	if err := r.db.WithContext(ctx).
		Preload("ServiceAreas").
		Where("user_id = ?", userID).
		First(&emp).Error; err != nil {
		return nil, notFound(err, "employee")
	}
	return &emp, nil
}

func (r *ServiceGormRepository) ReplaceServiceAreas(
	ctx context.Context,
	employeeID uint,
	areas []models.ServiceArea,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("employee_id = ?", employeeID).
			Delete(&models.ServiceArea{}).Error; err != nil {
			return err
		}
		if len(areas) == 0 {
			return nil
		}
		for i := range areas {
			areas[i].ID = 0
			areas[i].EmployeeID = employeeID
		}
		return tx.Create(&areas).Error
	})
}

// --------------------------------------------------
// Service (read)
// --------------------------------------------------

func (r *ServiceGormRepository) GetService(
	ctx context.Context,
	id uint,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).
		Preload("Customer").
		First(&svc, id).Error; err != nil {
		return nil, notFound(err, "service")
	}
	return &svc, nil
}

// IterateClaimable walks unowned pool services scheduled in [from, to); a
// zero to leaves the range open. Rows are fetched in batches as the caller
// ranges, so each batch reflects the store at the moment it is read.
func (r *ServiceGormRepository) IterateClaimable(
	ctx context.Context,
	from time.Time,
	to time.Time,
) iter.Seq2[lifecycle.Candidate, error] {

	return func(yield func(lifecycle.Candidate, error) bool) {
		var batch []models.Service

		q := r.db.WithContext(ctx).
			Preload("Customer").
			Where(
				"status IN ? AND employee_id IS NULL AND scheduled_date >= ?",
				lifecycle.Strings(lifecycle.PoolStatuses()),
				from.UTC(),
			)
		if !to.IsZero() {
			q = q.Where("scheduled_date < ?", to.UTC())
		}

		res := q.FindInBatches(&batch, claimableBatchSize, func(_ *gorm.DB, _ int) error {
			for _, svc := range batch {
				c := lifecycle.Candidate{Service: svc, CustomerZip: svc.Customer.ZipCode}
				if !yield(c, nil) {
					return errStopIteration
				}
			}
			return nil
		})

		if res.Error != nil && !errors.Is(res.Error, errStopIteration) {
			yield(lifecycle.Candidate{}, res.Error)
		}
	}
}

func (r *ServiceGormRepository) ListStaleClaims(
	ctx context.Context,
	now time.Time,
	limit int,
) ([]models.Service, error) {

	var list []models.Service
	err := r.db.WithContext(ctx).
		Where("status = ? AND arrival_deadline <= ?", string(lifecycle.StatusClaimed), now.UTC()).
		Order("arrival_deadline ASC").
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *ServiceGormRepository) ListUnclaimedBefore(
	ctx context.Context,
	before time.Time,
	limit int,
) ([]models.Service, error) {

	var list []models.Service
	err := r.db.WithContext(ctx).
		Where(
			"status IN ? AND employee_id IS NULL AND scheduled_date < ?",
			lifecycle.Strings(lifecycle.PoolStatuses()),
			before.UTC(),
		).
		Order("scheduled_date ASC").
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *ServiceGormRepository) ListForEmployee(
	ctx context.Context,
	employeeID uint,
	statuses []lifecycle.Status,
) ([]models.Service, error) {

	q := r.db.WithContext(ctx).
		Preload("Customer").
		Where("employee_id = ?", employeeID)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", lifecycle.Strings(statuses))
	}

	var list []models.Service
	err := q.Order("scheduled_date ASC").Find(&list).Error
	return list, err
}

// --------------------------------------------------
// Service (write)
// --------------------------------------------------

func (r *ServiceGormRepository) CreateServices(
	ctx context.Context,
	services []models.Service,
) error {
	for i := range services {
		services[i].ScheduledDate = services[i].ScheduledDate.UTC()
	}
	return r.db.WithContext(ctx).
		Omit("Customer").
		Create(&services).Error
}

func (r *ServiceGormRepository) ApplyChange(
	ctx context.Context,
	c lifecycle.Change,
) (bool, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Service{}).
		Where("id = ? AND status IN ?", c.ServiceID, lifecycle.Strings(c.From))

	if c.Unclaimed {
		q = q.Where("employee_id IS NULL")
	}
	if c.HolderID != nil {
		q = q.Where("employee_id = ?", *c.HolderID)
	}
	if c.DeadlineAfter != nil {
		q = q.Where("arrival_deadline > ?", c.DeadlineAfter.UTC())
	}
	if c.DeadlineReached != nil {
		q = q.Where("arrival_deadline <= ?", c.DeadlineReached.UTC())
	}
	if c.ScheduledBefore != nil {
		q = q.Where("scheduled_date < ?", c.ScheduledBefore.UTC())
	}

	updates := map[string]any{"status": string(c.StoredStatus())}
	for k, v := range c.Fields {
		if t, ok := v.(time.Time); ok {
			v = t.UTC()
		}
		updates[k] = v
	}

	res := q.Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *ServiceGormRepository) ExtendDeadline(
	ctx context.Context,
	serviceID uint,
	employeeID uint,
	current time.Time,
	next time.Time,
	now time.Time,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Service{}).
		Where(
			"id = ? AND status = ? AND employee_id = ? AND extension_used = ? AND arrival_deadline = ? AND arrival_deadline > ?",
			serviceID,
			string(lifecycle.StatusClaimed),
			employeeID,
			false,
			current.UTC(),
			now.UTC(),
		).
		Updates(map[string]any{
			"arrival_deadline": next.UTC(),
			"extension_used":   true,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// --------------------------------------------------
// Claim attempts
// --------------------------------------------------

func (r *ServiceGormRepository) OpenClaim(
	ctx context.Context,
	claim *models.ServiceClaim,
) error {
	claim.ClaimedAt = claim.ClaimedAt.UTC()
	claim.ArrivalDeadline = claim.ArrivalDeadline.UTC()
	return r.db.WithContext(ctx).Create(claim).Error
}

func (r *ServiceGormRepository) CloseClaim(
	ctx context.Context,
	serviceID uint,
	employeeID uint,
	outcome string,
	at time.Time,
) error {
	closedAt := at.UTC()
	updates := map[string]any{"outcome": outcome}
	if outcome != lifecycle.OutcomeArrived {
		updates["closed_at"] = closedAt
	}

	open := []string{lifecycle.OutcomeActive, lifecycle.OutcomeArrived}
	return r.db.WithContext(ctx).
		Model(&models.ServiceClaim{}).
		Where("service_id = ? AND employee_id = ? AND outcome IN ?", serviceID, employeeID, open).
		Updates(updates).Error
}

func (r *ServiceGormRepository) MarkClaimExtended(
	ctx context.Context,
	serviceID uint,
	employeeID uint,
	deadline time.Time,
) error {
	return r.db.WithContext(ctx).
		Model(&models.ServiceClaim{}).
		Where("service_id = ? AND employee_id = ? AND outcome = ?", serviceID, employeeID, lifecycle.OutcomeActive).
		Updates(map[string]any{
			"arrival_deadline": deadline.UTC(),
			"extended":         true,
		}).Error
}
