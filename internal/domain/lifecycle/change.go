package lifecycle

import (
	"time"

	"github.com/BruksfildServices01/scoop-dispatch/internal/httperr"
)

// Change is a conditional status write. It lands only if the row is still in
// one of From and every guard holds; the affected row count decides success.
// Every status write in the repository goes through a Change.
type Change struct {
	ServiceID uint
	From      []Status
	To        Status

	// Unclaimed requires employee_id IS NULL.
	Unclaimed bool
	// HolderID requires employee_id = *HolderID.
	HolderID *uint
	// DeadlineAfter requires arrival_deadline > *DeadlineAfter.
	DeadlineAfter *time.Time
	// DeadlineReached requires arrival_deadline <= *DeadlineReached.
	DeadlineReached *time.Time
	// ScheduledBefore requires scheduled_date < *ScheduledBefore.
	ScheduledBefore *time.Time

	// Requeue stores SCHEDULED instead of To: the claim attempt ends in To
	// while the underlying work goes back to the pool.
	Requeue bool

	Fields map[string]any
}

// StoredStatus is the value written to the status column.
func (c Change) StoredStatus() Status {
	if c.Requeue {
		return StatusScheduled
	}
	return c.To
}

// Check validates the change against a status read earlier in the same
// unit of work.
func (c Change) Check(current Status) error {
	if !Contains(c.From, current) {
		return httperr.InvalidTransition(string(current), string(c.To))
	}
	return nil
}

func newChange(serviceID uint, to Status, from ...Status) Change {
	for _, f := range from {
		if !CanTransition(f, to) {
			panic("lifecycle: illegal change " + string(f) + " -> " + string(to))
		}
	}
	return Change{
		ServiceID: serviceID,
		From:      from,
		To:        to,
		Fields:    map[string]any{},
	}
}

// ===============================
// Domain Actions
// ===============================

func Schedule(serviceID uint) Change {
	return newChange(serviceID, StatusScheduled, StatusPending)
}

func Claim(serviceID, employeeID uint, now, deadline time.Time) Change {
	c := newChange(serviceID, StatusClaimed, StatusScheduled)
	// PENDING -> SCHEDULED -> CLAIMED collapsed into one write.
	c.From = PoolStatuses()
	c.Unclaimed = true
	c.Fields["employee_id"] = employeeID
	c.Fields["claimed_at"] = now
	c.Fields["arrival_deadline"] = deadline
	c.Fields["extension_used"] = false
	return c
}

type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func Arrive(serviceID, employeeID uint, now time.Time, geo *GeoPoint) Change {
	c := newChange(serviceID, StatusArrived, StatusClaimed)
	c.HolderID = &employeeID
	c.DeadlineAfter = &now
	c.Fields["arrived_at"] = now
	if geo != nil {
		c.Fields["arrival_lat"] = geo.Lat
		c.Fields["arrival_lng"] = geo.Lng
	}
	return c
}

// Expire releases a claim whose arrival deadline has been reached.
func Expire(serviceID uint, now time.Time) Change {
	c := newChange(serviceID, StatusExpired, StatusClaimed)
	c.DeadlineReached = &now
	c.Requeue = true
	c.Fields["employee_id"] = nil
	c.Fields["claimed_at"] = nil
	c.Fields["arrival_deadline"] = nil
	c.Fields["extension_used"] = false
	return c
}

// ExpireMissed closes a service nobody claimed before its window ended.
func ExpireMissed(serviceID uint, windowClosed time.Time) Change {
	c := newChange(serviceID, StatusExpired, StatusScheduled)
	c.Unclaimed = true
	c.ScheduledBefore = &windowClosed
	return c
}

func Start(serviceID, employeeID uint, now time.Time) Change {
	c := newChange(serviceID, StatusInProgress, StatusArrived)
	c.HolderID = &employeeID
	c.Fields["started_at"] = now
	return c
}

func Complete(serviceID, employeeID uint, now time.Time, photoKey string) Change {
	c := newChange(serviceID, StatusCompleted, StatusInProgress)
	c.HolderID = &employeeID
	c.Fields["completed_at"] = now
	if photoKey != "" {
		c.Fields["completion_photo_key"] = photoKey
	}
	return c
}

func Cancel(serviceID uint, now time.Time, reason string) Change {
	c := newChange(serviceID, StatusCancelled, NonTerminal()...)
	c.Fields["employee_id"] = nil
	c.Fields["claimed_at"] = nil
	c.Fields["arrival_deadline"] = nil
	c.Fields["extension_used"] = false
	c.Fields["cancelled_at"] = now
	c.Fields["cancellation_reason"] = reason
	return c
}
