package notify

import (
	"time"

	"github.com/google/uuid"
)

// Routing keys.
const (
	ServiceClaimed   = "service.claimed"
	ServiceArrived   = "service.arrived"
	ServiceCompleted = "service.completed"
	ServiceCancelled = "service.cancelled"
)

// Event is the customer-facing notification request handed to the
// messaging collaborator.
type Event struct {
	ID         uuid.UUID  `json:"id"`
	Type       string     `json:"type"`
	ServiceID  uint       `json:"service_id"`
	CustomerID uint       `json:"customer_id"`
	EmployeeID *uint      `json:"employee_id,omitempty"`
	Deadline   *time.Time `json:"arrival_deadline,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
}

func NewEvent(kind string, serviceID, customerID uint, employeeID *uint, at time.Time) Event {
	return Event{
		ID:         uuid.New(),
		Type:       kind,
		ServiceID:  serviceID,
		CustomerID: customerID,
		EmployeeID: employeeID,
		OccurredAt: at.UTC(),
	}
}
