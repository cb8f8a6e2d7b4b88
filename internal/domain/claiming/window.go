package claiming

import (
	"time"

	"github.com/BruksfildServices01/scoop-dispatch/internal/httperr"
)

const (
	// Claiming opens the evening before and closes at the end of the work day.
	ClaimOpenHour  = 18
	ClaimCloseHour = 19

	WorkStartHour = 7
	WorkEndHour   = 19

	DefaultGracePeriod = 15 * time.Minute
	DefaultExtension   = 15 * time.Minute
)

// Window holds the admissible instants for one scheduled date. Bounds are
// inclusive.
type Window struct {
	ClaimStart time.Time `json:"claim_start"`
	ClaimEnd   time.Time `json:"claim_end"`
	WorkStart  time.Time `json:"work_start"`
	WorkEnd    time.Time `json:"work_end"`
}

func (w Window) AdmitsClaim(t time.Time) bool {
	return !t.Before(w.ClaimStart) && !t.After(w.ClaimEnd)
}

func (w Window) AdmitsWork(t time.Time) bool {
	return !t.Before(w.WorkStart) && !t.After(w.WorkEnd)
}

// CheckClaim reports outside_claiming_window with ClaimStart as the next
// available time.
func (w Window) CheckClaim(t time.Time) error {
	if !w.AdmitsClaim(t) {
		return httperr.OutsideClaimingWindow(w.ClaimStart)
	}
	return nil
}

func (w Window) CheckWork(t time.Time) error {
	if !w.AdmitsWork(t) {
		return httperr.OutsideWorkWindow(w.WorkStart, w.WorkEnd)
	}
	return nil
}

type Policy struct {
	Location  *time.Location
	Grace     time.Duration
	Extension time.Duration
}

func NewPolicy(loc *time.Location, grace, extension time.Duration) Policy {
	if loc == nil {
		loc = time.UTC
	}
	if grace <= 0 {
		grace = DefaultGracePeriod
	}
	if extension <= 0 {
		extension = DefaultExtension
	}
	return Policy{Location: loc, Grace: grace, Extension: extension}
}

// AdmissibleWindow computes the windows in local time. Day arithmetic goes
// through time.Date so DST changes keep the wall-clock hours.
func (p Policy) AdmissibleWindow(scheduled time.Time) Window {
	local := scheduled.In(p.Location)
	y, m, d := local.Date()

	at := func(day, hour int) time.Time {
		return time.Date(y, m, day, hour, 0, 0, 0, p.Location)
	}

	return Window{
		ClaimStart: at(d-1, ClaimOpenHour),
		ClaimEnd:   at(d, ClaimCloseHour),
		WorkStart:  at(d, WorkStartHour),
		WorkEnd:    at(d, WorkEndHour),
	}
}

func (p Policy) ArrivalDeadline(claimedAt time.Time) time.Time {
	return claimedAt.Add(p.Grace)
}

func (p Policy) ExtendedDeadline(current time.Time) time.Time {
	return current.Add(p.Extension)
}

// ValidateScheduledDate is the creation-time integrity check: the scheduled
// instant itself has to sit inside the work window.
func (p Policy) ValidateScheduledDate(scheduled time.Time) error {
	w := p.AdmissibleWindow(scheduled)
	return w.CheckWork(scheduled)
}

// StartOfDay is local midnight of t's date.
func (p Policy) StartOfDay(t time.Time) time.Time {
	y, m, d := t.In(p.Location).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, p.Location)
}

// ClaimClosedBefore is local midnight of the earliest day whose claim window
// has not yet ended at now. Services scheduled before it can no longer be
// claimed.
func (p Policy) ClaimClosedBefore(now time.Time) time.Time {
	today := p.StartOfDay(now)
	if now.After(p.AdmissibleWindow(today).ClaimEnd) {
		y, m, d := today.Date()
		return time.Date(y, m, d+1, 0, 0, 0, 0, p.Location)
	}
	return today
}

// ListingHorizon bounds the scheduled dates whose claim window can be open at
// now: today and tomorrow.
func (p Policy) ListingHorizon(now time.Time) time.Time {
	y, m, d := p.StartOfDay(now).Date()
	return time.Date(y, m, d+2, 0, 0, 0, 0, p.Location)
}
