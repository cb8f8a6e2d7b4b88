package lifecycle

import (
	"context"
	"iter"
	"time"

	"github.com/BruksfildServices01/scoop-dispatch/internal/models"
)

// Candidate is a pool row together with the customer postal code the
// matcher needs.
type Candidate struct {
	Service     models.Service
	CustomerZip string
}

type Repository interface {
	// Transaction runs fn against a repository bound to one store
	// transaction.
	Transaction(ctx context.Context, fn func(tx Repository) error) error

	// -------- Employee --------
	GetEmployeeByUserID(ctx context.Context, userID string) (*models.Employee, error)
	ReplaceServiceAreas(ctx context.Context, employeeID uint, areas []models.ServiceArea) error

	// -------- Service (read) --------
	GetService(ctx context.Context, id uint) (*models.Service, error)
	IterateClaimable(ctx context.Context, from, to time.Time) iter.Seq2[Candidate, error]
	ListStaleClaims(ctx context.Context, now time.Time, limit int) ([]models.Service, error)
	ListUnclaimedBefore(ctx context.Context, before time.Time, limit int) ([]models.Service, error)
	ListForEmployee(ctx context.Context, employeeID uint, statuses []Status) ([]models.Service, error)

	// -------- Service (write) --------
	CreateServices(ctx context.Context, services []models.Service) error
	// ApplyChange is the only status write. It reports whether the row
	// matched every condition of c.
	ApplyChange(ctx context.Context, c Change) (bool, error)
	// ExtendDeadline moves a held claim's deadline once.
	ExtendDeadline(ctx context.Context, serviceID, employeeID uint, current, next, now time.Time) (bool, error)

	// -------- Claim attempts --------
	OpenClaim(ctx context.Context, claim *models.ServiceClaim) error
	CloseClaim(ctx context.Context, serviceID, employeeID uint, outcome string, at time.Time) error
	MarkClaimExtended(ctx context.Context, serviceID, employeeID uint, deadline time.Time) error
}
