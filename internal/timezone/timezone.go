package timezone

import (
	"time"
	_ "time/tzdata"
)

const DefaultTimezone = "America/New_York"

// Clock returns the current instant. Use cases take one so business-time
// rules can be tested at fixed instants.
type Clock func() time.Time

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}

func SystemClock(loc *time.Location) Clock {
	return func() time.Time {
		return time.Now().In(loc)
	}
}

func Fixed(t time.Time) Clock {
	return func() time.Time {
		return t
	}
}
