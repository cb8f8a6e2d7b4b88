package jobpool

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/scoop-dispatch/internal/domain/claiming"
	"github.com/BruksfildServices01/scoop-dispatch/internal/domain/coverage"
	"github.com/BruksfildServices01/scoop-dispatch/internal/infra/repository"
	"github.com/BruksfildServices01/scoop-dispatch/internal/models"
	"github.com/BruksfildServices01/scoop-dispatch/internal/testutil"
)

// Sunday evening before a Monday service, in UTC so the store compares
// instants lexically.
var (
	claimOpen = time.Date(2024, 6, 9, 18, 30, 0, 0, time.UTC)
	monday    = time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
)

type fixture struct {
	t    *testing.T
	db   *gorm.DB
	now  time.Time
	deps Deps
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewTestDB(t,
		&models.Customer{},
		&models.Employee{},
		&models.ServiceArea{},
		&models.Service{},
		&models.ServiceClaim{},
	)

	f := &fixture{t: t, db: db, now: claimOpen}
	f.deps = Deps{
		Repo:    repository.NewServiceGormRepository(db),
		Policy:  claiming.NewPolicy(time.UTC, 0, 0),
		Matcher: coverage.NewMatcher(nil),
		Clock:   func() time.Time { return f.now },
	}
	return f
}

func (f *fixture) employee(userID string, zips ...string) models.Employee {
	f.t.Helper()
	emp := models.Employee{UserID: userID, Name: userID, Status: coverage.EmployeeActive}
	require.NoError(f.t, f.db.Create(&emp).Error)
	for _, z := range zips {
		require.NoError(f.t, f.db.Create(&models.ServiceArea{EmployeeID: emp.ID, ZipCode: z, Active: true}).Error)
	}
	return emp
}

func (f *fixture) service(zip string, at time.Time, status string) models.Service {
	f.t.Helper()
	cust := models.Customer{UserID: "cust-" + zip, Name: "Customer " + zip, ZipCode: zip}
	require.NoError(f.t, f.db.Create(&cust).Error)

	svc := models.Service{
		CustomerID:        cust.ID,
		Status:            status,
		ScheduledDate:     at,
		PotentialEarnings: 909,
		PaymentStatus:     "PENDING",
	}
	require.NoError(f.t, f.db.Omit("Customer").Create(&svc).Error)
	return svc
}

func (f *fixture) reload(id uint) models.Service {
	f.t.Helper()
	var svc models.Service
	require.NoError(f.t, f.db.First(&svc, id).Error)
	return svc
}

func (f *fixture) claims(serviceID uint) []models.ServiceClaim {
	f.t.Helper()
	var list []models.ServiceClaim
	require.NoError(f.t, f.db.Where("service_id = ?", serviceID).Order("id").Find(&list).Error)
	return list
}

// claimed seeds a Monday service held by a fresh employee.
func (f *fixture) claimed(userID string) (models.Employee, models.Service) {
	f.t.Helper()
	emp := f.employee(userID, "10001")
	svc := f.service("10001", monday, "SCHEDULED")

	_, err := NewClaimService(f.deps).Execute(context.Background(), userID, svc.ID)
	require.NoError(f.t, err)
	return emp, f.reload(svc.ID)
}
