package coverage

import (
	"context"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/scoop-dispatch/internal/httperr"
	"github.com/BruksfildServices01/scoop-dispatch/internal/models"
)

const (
	EmployeeActive   = "ACTIVE"
	EmployeeInactive = "INACTIVE"

	earthRadiusMiles = 3958.8
)

type Point struct {
	Lat float64
	Lng float64
}

// Geocoder resolves a postal code to coordinates.
type Geocoder interface {
	Locate(ctx context.Context, zipCode string) (Point, error)
}

// Matcher answers whether one employee may see one service. It never ranks
// employees against each other.
type Matcher struct {
	geo Geocoder
}

// NewMatcher accepts a nil geocoder; radius checks then always pass.
func NewMatcher(geo Geocoder) *Matcher {
	return &Matcher{geo: geo}
}

// CheckEmployee reports conditions that keep an employee out of the pool
// entirely, as opposed to a single service being out of reach.
func CheckEmployee(emp *models.Employee) error {
	if emp.Status != EmployeeActive {
		return httperr.EmployeeInactive()
	}
	if len(ActiveAreas(emp)) == 0 {
		return httperr.OnboardingIncomplete()
	}
	return nil
}

func ActiveAreas(emp *models.Employee) []models.ServiceArea {
	var out []models.ServiceArea
	for _, a := range emp.ServiceAreas {
		if a.Active {
			out = append(out, a)
		}
	}
	return out
}

func (m *Matcher) IsEligible(ctx context.Context, emp *models.Employee, customerZip string) bool {
	if emp.Status != EmployeeActive {
		return false
	}

	areas := ActiveAreas(emp)
	if len(areas) == 0 {
		return false
	}

	zip := NormalizeZip(customerZip)
	if zip == "" {
		return true
	}

	for _, a := range areas {
		if NormalizeZip(a.ZipCode) == zip {
			return true
		}
	}

	for _, a := range areas {
		if a.Radius <= 0 {
			continue
		}
		if m.withinRadius(ctx, a, zip) {
			return true
		}
	}

	return false
}

// withinRadius fails open: an unresolved distance offers the job.
func (m *Matcher) withinRadius(ctx context.Context, area models.ServiceArea, zip string) bool {
	if m.geo == nil {
		return true
	}

	anchor, err := m.geo.Locate(ctx, NormalizeZip(area.ZipCode))
	if err != nil {
		zap.L().Warn("geocode failed, offering job",
			zap.String("dependency", "geocoder"),
			zap.String("zip", area.ZipCode),
			zap.Error(err),
		)
		return true
	}

	target, err := m.geo.Locate(ctx, zip)
	if err != nil {
		zap.L().Warn("geocode failed, offering job",
			zap.String("dependency", "geocoder"),
			zap.String("zip", zip),
			zap.Error(err),
		)
		return true
	}

	return DistanceMiles(anchor, target) <= area.Radius
}

// NormalizeZip keeps the five digit prefix of US postal codes.
func NormalizeZip(zip string) string {
	zip = strings.TrimSpace(zip)
	if i := strings.IndexByte(zip, '-'); i >= 0 {
		zip = zip[:i]
	}
	return zip
}

// DistanceMiles is the haversine great-circle distance.
func DistanceMiles(a, b Point) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(b.Lat - a.Lat)
	dLng := toRad(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*math.Sin(dLng/2)*math.Sin(dLng/2)

	return 2 * earthRadiusMiles * math.Asin(math.Sqrt(h))
}
