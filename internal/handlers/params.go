package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/scoop-dispatch/internal/httperr"
)

const dateLayout = "2006-01-02"

// idParam writes a 400 and returns false when :name is not a positive id.
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "Invalid id.")
		return 0, false
	}
	return uint(id), true
}

// parseDateIn parses a YYYY-MM-DD date as local midnight. Empty input is
// the zero time.
func parseDateIn(loc *time.Location, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation(dateLayout, s, loc)
}

// dateRange reads ?from=&to= as a half-open range; to covers its whole day.
func dateRange(c *gin.Context, loc *time.Location) (time.Time, time.Time, bool) {
	from, err := parseDateIn(loc, c.Query("from"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Invalid from date.")
		return time.Time{}, time.Time{}, false
	}
	to, err := parseDateIn(loc, c.Query("to"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Invalid to date.")
		return time.Time{}, time.Time{}, false
	}
	if !to.IsZero() {
		to = to.AddDate(0, 0, 1)
	}
	return from, to, true
}
