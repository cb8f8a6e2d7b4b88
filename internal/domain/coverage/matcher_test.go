package coverage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/scoop-dispatch/internal/httperr"
	"github.com/BruksfildServices01/scoop-dispatch/internal/models"
)

type geocoderStub struct {
	points map[string]Point
	err    error
	calls  int
}

func (g *geocoderStub) Locate(ctx context.Context, zip string) (Point, error) {
	g.calls++
	if g.err != nil {
		return Point{}, g.err
	}
	p, ok := g.points[zip]
	if !ok {
		return Point{}, errors.New("unknown zip")
	}
	return p, nil
}

func employeeWith(areas ...models.ServiceArea) *models.Employee {
	return &models.Employee{ID: 1, Status: EmployeeActive, ServiceAreas: areas}
}

func TestExactZipMatch(t *testing.T) {
	m := NewMatcher(nil)
	emp := employeeWith(models.ServiceArea{ZipCode: "10001", Active: true})

	require.True(t, m.IsEligible(context.Background(), emp, "10001"))
	require.True(t, m.IsEligible(context.Background(), emp, "10001-1234"))
	require.False(t, m.IsEligible(context.Background(), emp, "10002"))
}

func TestInactiveAreaIgnored(t *testing.T) {
	m := NewMatcher(nil)
	emp := employeeWith(
		models.ServiceArea{ZipCode: "10001", Active: false},
		models.ServiceArea{ZipCode: "10005", Active: true},
	)

	require.False(t, m.IsEligible(context.Background(), emp, "10001"))
	require.True(t, m.IsEligible(context.Background(), emp, "10005"))
}

func TestMissingCustomerZipIsEligibleForActiveEmployees(t *testing.T) {
	m := NewMatcher(nil)
	emp := employeeWith(models.ServiceArea{ZipCode: "10001", Active: true})

	require.True(t, m.IsEligible(context.Background(), emp, ""))

	emp.Status = EmployeeInactive
	require.False(t, m.IsEligible(context.Background(), emp, ""))
}

func TestNoAreasIsOnboardingIncomplete(t *testing.T) {
	m := NewMatcher(nil)
	emp := employeeWith()

	require.False(t, m.IsEligible(context.Background(), emp, ""))
	require.True(t, httperr.IsBusiness(CheckEmployee(emp), httperr.CodeOnboardingIncomplete))

	emp.ServiceAreas = []models.ServiceArea{{ZipCode: "10001", Active: true}}
	require.NoError(t, CheckEmployee(emp))

	emp.Status = EmployeeInactive
	require.True(t, httperr.IsBusiness(CheckEmployee(emp), httperr.CodeEmployeeInactive))
}

func TestRadiusRefinement(t *testing.T) {
	geo := &geocoderStub{points: map[string]Point{
		"10001": {Lat: 40.7506, Lng: -73.9972},
		"10011": {Lat: 40.7418, Lng: -74.0002}, // ~0.6 mi
		"19104": {Lat: 39.9600, Lng: -75.1900}, // Philadelphia
	}}
	m := NewMatcher(geo)
	emp := employeeWith(models.ServiceArea{ZipCode: "10001", Radius: 5, Active: true})

	require.True(t, m.IsEligible(context.Background(), emp, "10011"))
	require.False(t, m.IsEligible(context.Background(), emp, "19104"))
}

func TestRadiusFailsOpenOnGeocodeError(t *testing.T) {
	geo := &geocoderStub{err: errors.New("geocoder down")}
	m := NewMatcher(geo)

	withRadius := employeeWith(models.ServiceArea{ZipCode: "10001", Radius: 5, Active: true})
	require.True(t, m.IsEligible(context.Background(), withRadius, "94105"))

	withoutRadius := employeeWith(models.ServiceArea{ZipCode: "10001", Active: true})
	require.False(t, m.IsEligible(context.Background(), withoutRadius, "94105"))
}

func TestDistanceMiles(t *testing.T) {
	nyc := Point{Lat: 40.7128, Lng: -74.0060}
	la := Point{Lat: 34.0522, Lng: -118.2437}

	d := DistanceMiles(nyc, la)
	require.InDelta(t, 2445, d, 15)
	require.InDelta(t, 0, DistanceMiles(nyc, nyc), 1e-9)
}
