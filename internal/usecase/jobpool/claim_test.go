package jobpool

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/scoop-dispatch/internal/domain/lifecycle"
	"github.com/BruksfildServices01/scoop-dispatch/internal/httperr"
)

func TestClaimSetsDeadlineAndOpensAttempt(t *testing.T) {
	f := newFixture(t)
	emp := f.employee("emp-1", "10001")
	svc := f.service("10001", monday, "SCHEDULED")

	got, err := NewClaimService(f.deps).Execute(context.Background(), "emp-1", svc.ID)
	require.NoError(t, err)

	require.Equal(t, string(lifecycle.StatusClaimed), got.Status)
	require.Equal(t, emp.ID, *got.EmployeeID)
	require.True(t, got.ClaimedAt.Equal(claimOpen))
	require.True(t, got.ArrivalDeadline.Equal(claimOpen.Add(15*time.Minute)))
	require.False(t, got.ExtensionUsed)

	attempts := f.claims(svc.ID)
	require.Len(t, attempts, 1)
	require.Equal(t, lifecycle.OutcomeActive, attempts[0].Outcome)
	require.Equal(t, emp.ID, attempts[0].EmployeeID)
}

func TestClaimFromPendingCollapsesThroughScheduled(t *testing.T) {
	f := newFixture(t)
	f.employee("emp-1", "10001")
	svc := f.service("10001", monday, "PENDING")

	got, err := NewClaimService(f.deps).Execute(context.Background(), "emp-1", svc.ID)
	require.NoError(t, err)
	require.Equal(t, string(lifecycle.StatusClaimed), got.Status)
}

func TestSecondClaimIsAlreadyClaimed(t *testing.T) {
	f := newFixture(t)
	f.employee("emp-1", "10001")
	f.employee("emp-2", "10001")
	svc := f.service("10001", monday, "SCHEDULED")

	uc := NewClaimService(f.deps)
	_, err := uc.Execute(context.Background(), "emp-1", svc.ID)
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), "emp-2", svc.ID)
	require.True(t, httperr.IsBusiness(err, httperr.CodeAlreadyClaimed))
}

func TestConcurrentClaimsHaveExactlyOneWinner(t *testing.T) {
	f := newFixture(t)
	svc := f.service("10001", monday, "SCHEDULED")

	const workers = 8
	users := make([]string, workers)
	for i := range users {
		users[i] = "emp-" + string(rune('a'+i))
		f.employee(users[i], "10001")
	}

	uc := NewClaimService(f.deps)

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		wins   int
		losses int
		other  []error
	)
	for _, u := range users {
		wg.Add(1)
		go func(userID string) {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), userID, svc.ID)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case httperr.IsBusiness(err, httperr.CodeAlreadyClaimed):
				losses++
			default:
				other = append(other, err)
			}
		}(u)
	}
	wg.Wait()

	require.Empty(t, other)
	require.Equal(t, 1, wins)
	require.Equal(t, workers-1, losses)
	require.Len(t, f.claims(svc.ID), 1)
}

func TestClaimOutsideWindowReportsNextAvailable(t *testing.T) {
	f := newFixture(t)
	f.employee("emp-1", "10001")
	svc := f.service("10001", monday, "SCHEDULED")
	f.now = time.Date(2024, 6, 9, 17, 59, 0, 0, time.UTC)

	_, err := NewClaimService(f.deps).Execute(context.Background(), "emp-1", svc.ID)
	be, ok := httperr.AsBusiness(err)
	require.True(t, ok)
	require.Equal(t, httperr.CodeOutsideClaimingWindow, be.Code)
	require.Equal(t, time.Date(2024, 6, 9, 18, 0, 0, 0, time.UTC), be.Details["next_available_at"])

	require.Equal(t, string(lifecycle.StatusScheduled), f.reload(svc.ID).Status)
}

func TestClaimOutOfAreaIsNotEligible(t *testing.T) {
	f := newFixture(t)
	f.employee("emp-1", "10001")
	svc := f.service("94110", monday, "SCHEDULED")

	_, err := NewClaimService(f.deps).Execute(context.Background(), "emp-1", svc.ID)
	require.True(t, httperr.IsBusiness(err, httperr.CodeNotEligible))
}

func TestClaimWithoutAreasIsOnboardingIncomplete(t *testing.T) {
	f := newFixture(t)
	f.employee("emp-1")
	svc := f.service("10001", monday, "SCHEDULED")

	_, err := NewClaimService(f.deps).Execute(context.Background(), "emp-1", svc.ID)
	require.True(t, httperr.IsBusiness(err, httperr.CodeOnboardingIncomplete))
}

func TestClaimUnknownService(t *testing.T) {
	f := newFixture(t)
	f.employee("emp-1", "10001")

	_, err := NewClaimService(f.deps).Execute(context.Background(), "emp-1", 404)
	require.True(t, httperr.IsBusiness(err, httperr.CodeNotFound))
}

func TestClaimTerminalServiceIsInvalidTransition(t *testing.T) {
	f := newFixture(t)
	f.employee("emp-1", "10001")
	svc := f.service("10001", monday, "CANCELLED")

	_, err := NewClaimService(f.deps).Execute(context.Background(), "emp-1", svc.ID)
	require.True(t, httperr.IsBusiness(err, httperr.CodeInvalidTransition))
}

func TestListAvailableFiltersPoolByCoverage(t *testing.T) {
	f := newFixture(t)
	f.employee("emp-1", "10001")
	f.employee("emp-2", "10001")

	open := f.service("10001", monday, "SCHEDULED")
	pending := f.service("10001", monday.Add(24*time.Hour), "PENDING")
	f.service("94110", monday, "SCHEDULED")
	f.service("10001", claimOpen.Add(-time.Hour), "SCHEDULED")
	taken := f.service("10001", monday, "SCHEDULED")

	_, err := NewClaimService(f.deps).Execute(context.Background(), "emp-2", taken.ID)
	require.NoError(t, err)

	seq, err := NewListAvailable(f.deps).Execute(context.Background(), "emp-1")
	require.NoError(t, err)

	var ids []uint
	for svc, err := range seq {
		require.NoError(t, err)
		ids = append(ids, svc.ID)
	}
	require.ElementsMatch(t, []uint{open.ID, pending.ID}, ids)
}

func TestListAvailableClaimableNow(t *testing.T) {
	f := newFixture(t)
	f.employee("emp-1", "10001")

	open := f.service("10001", monday, "SCHEDULED")
	f.service("10001", monday.Add(24*time.Hour), "SCHEDULED")
	f.service("10001", monday.Add(72*time.Hour), "PENDING")

	seq, err := NewListAvailable(f.deps).ClaimableNow(context.Background(), "emp-1")
	require.NoError(t, err)

	var ids []uint
	for svc, err := range seq {
		require.NoError(t, err)
		ids = append(ids, svc.ID)
	}
	require.Equal(t, []uint{open.ID}, ids)
}

func TestListAvailableRejectsInactiveEmployee(t *testing.T) {
	f := newFixture(t)
	emp := f.employee("emp-1", "10001")
	require.NoError(t, f.db.Model(&emp).Update("status", "INACTIVE").Error)

	_, err := NewListAvailable(f.deps).Execute(context.Background(), "emp-1")
	require.True(t, httperr.IsBusiness(err, httperr.CodeEmployeeInactive))
}
