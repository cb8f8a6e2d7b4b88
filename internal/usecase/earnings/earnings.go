package earnings

import (
	"time"

	"github.com/BruksfildServices01/scoop-dispatch/internal/audit"
	domain "github.com/BruksfildServices01/scoop-dispatch/internal/domain/earnings"
	"github.com/BruksfildServices01/scoop-dispatch/internal/timezone"
)

// Deps are shared by the payout use cases. Audit may be nil.
type Deps struct {
	Repo   domain.Repository
	Policy domain.Policy
	Clock  timezone.Clock
	Audit  *audit.Dispatcher
}

func (d Deps) now() time.Time {
	if d.Clock == nil {
		return time.Now()
	}
	return d.Clock()
}
