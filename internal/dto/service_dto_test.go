package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/scoop-dispatch/internal/domain/claiming"
	"github.com/BruksfildServices01/scoop-dispatch/internal/models"
)

func TestServiceDTOHidesAddressFromNonHolders(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	policy := claiming.NewPolicy(loc, 0, 0)

	svc := models.Service{
		ID:                7,
		Status:            "SCHEDULED",
		ScheduledDate:     time.Date(2024, 6, 10, 13, 0, 0, 0, time.UTC),
		PotentialEarnings: 909,
		Customer:          models.Customer{Name: "Dana", ZipCode: "10001", Address: "1 Main St"},
	}

	out := NewServiceDTO(svc, policy, false)
	require.Empty(t, out.Address)
	require.Equal(t, "9.09", out.PotentialEarnings)
	require.Equal(t, 9, out.ScheduledDate.Hour())
	require.Equal(t, time.Date(2024, 6, 9, 18, 0, 0, 0, loc), out.Window.ClaimStart)

	require.Equal(t, "1 Main St", NewServiceDTO(svc, policy, true).Address)
}

func TestEarningDTOFormatsAdjustments(t *testing.T) {
	e := models.Earning{
		ID:          1,
		Amount:      909,
		Adjustments: []models.EarningAdjustment{{ID: 2, Amount: -100, Reason: "late"}},
	}
	out := NewEarningDTO(e, 809)
	require.Equal(t, "9.09", out.Amount)
	require.Equal(t, "8.09", out.Net)
	require.Equal(t, "-1.00", out.Adjustments[0].Amount)
}
