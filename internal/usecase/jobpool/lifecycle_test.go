package jobpool

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/scoop-dispatch/internal/domain/identity"
	"github.com/BruksfildServices01/scoop-dispatch/internal/domain/lifecycle"
	"github.com/BruksfildServices01/scoop-dispatch/internal/httperr"
	"github.com/BruksfildServices01/scoop-dispatch/internal/models"
)

func TestArriveBeforeDeadline(t *testing.T) {
	f := newFixture(t)
	_, svc := f.claimed("emp-1")
	f.now = claimOpen.Add(10 * time.Minute)

	got, err := NewArrive(f.deps).Execute(context.Background(), "emp-1", ArriveInput{
		ServiceID: svc.ID,
		Location:  &lifecycle.GeoPoint{Lat: 40.75, Lng: -73.99},
	})
	require.NoError(t, err)
	require.Equal(t, string(lifecycle.StatusArrived), got.Status)
	require.True(t, got.ArrivedAt.Equal(f.now))
	require.InDelta(t, 40.75, *got.ArrivalLat, 1e-9)

	require.Equal(t, lifecycle.OutcomeArrived, f.claims(svc.ID)[0].Outcome)
}

func TestArriveAfterDeadlineReleasesClaim(t *testing.T) {
	f := newFixture(t)
	_, svc := f.claimed("emp-1")
	f.now = claimOpen.Add(15 * time.Minute)

	_, err := NewArrive(f.deps).Execute(context.Background(), "emp-1", ArriveInput{ServiceID: svc.ID})
	be, ok := httperr.AsBusiness(err)
	require.True(t, ok)
	require.Equal(t, httperr.CodeDeadlinePassed, be.Code)

	got := f.reload(svc.ID)
	require.Equal(t, string(lifecycle.StatusScheduled), got.Status)
	require.Nil(t, got.EmployeeID)
	require.Nil(t, got.ArrivalDeadline)

	attempts := f.claims(svc.ID)
	require.Len(t, attempts, 1)
	require.Equal(t, lifecycle.OutcomeExpired, attempts[0].Outcome)
	require.NotNil(t, attempts[0].ClosedAt)
}

func TestReleasedServiceCanBeClaimedAgain(t *testing.T) {
	f := newFixture(t)
	_, svc := f.claimed("emp-1")
	f.employee("emp-2", "10001")
	f.now = claimOpen.Add(20 * time.Minute)

	_, err := NewArrive(f.deps).Execute(context.Background(), "emp-1", ArriveInput{ServiceID: svc.ID})
	require.Error(t, err)

	got, err := NewClaimService(f.deps).Execute(context.Background(), "emp-2", svc.ID)
	require.NoError(t, err)
	require.Equal(t, string(lifecycle.StatusClaimed), got.Status)
	require.Len(t, f.claims(svc.ID), 2)
}

func TestArriveByOtherEmployeeIsNotAssigned(t *testing.T) {
	f := newFixture(t)
	_, svc := f.claimed("emp-1")
	f.employee("emp-2", "10001")

	_, err := NewArrive(f.deps).Execute(context.Background(), "emp-2", ArriveInput{ServiceID: svc.ID})
	require.True(t, httperr.IsBusiness(err, httperr.CodeNotAssigned))
}

func TestExtendClaimOnlyOnce(t *testing.T) {
	f := newFixture(t)
	_, svc := f.claimed("emp-1")
	f.now = claimOpen.Add(5 * time.Minute)

	uc := NewExtendClaim(f.deps)
	got, err := uc.Execute(context.Background(), "emp-1", svc.ID)
	require.NoError(t, err)
	require.True(t, got.ArrivalDeadline.Equal(claimOpen.Add(30*time.Minute)))
	require.True(t, got.ExtensionUsed)
	require.True(t, f.claims(svc.ID)[0].Extended)

	_, err = uc.Execute(context.Background(), "emp-1", svc.ID)
	require.True(t, httperr.IsBusiness(err, httperr.CodeExtensionAlreadyUsed))

	// The extended deadline is what check-in honours.
	f.now = claimOpen.Add(25 * time.Minute)
	arrived, err := NewArrive(f.deps).Execute(context.Background(), "emp-1", ArriveInput{ServiceID: svc.ID})
	require.NoError(t, err)
	require.Equal(t, string(lifecycle.StatusArrived), arrived.Status)
}

func TestExtendAfterDeadlineReleases(t *testing.T) {
	f := newFixture(t)
	_, svc := f.claimed("emp-1")
	f.now = claimOpen.Add(16 * time.Minute)

	_, err := NewExtendClaim(f.deps).Execute(context.Background(), "emp-1", svc.ID)
	require.True(t, httperr.IsBusiness(err, httperr.CodeDeadlinePassed))
	require.Equal(t, string(lifecycle.StatusScheduled), f.reload(svc.ID).Status)
}

func TestStartWorkHonoursWorkWindow(t *testing.T) {
	f := newFixture(t)
	_, svc := f.claimed("emp-1")

	f.now = claimOpen.Add(10 * time.Minute)
	_, err := NewArrive(f.deps).Execute(context.Background(), "emp-1", ArriveInput{ServiceID: svc.ID})
	require.NoError(t, err)

	uc := NewStartWork(f.deps)
	_, err = uc.Execute(context.Background(), "emp-1", svc.ID)
	require.True(t, httperr.IsBusiness(err, httperr.CodeOutsideWorkWindow))

	f.now = time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)
	got, err := uc.Execute(context.Background(), "emp-1", svc.ID)
	require.NoError(t, err)
	require.Equal(t, string(lifecycle.StatusInProgress), got.Status)
}

type photoStoreStub struct {
	keys    []string
	types   []string
	deleted []string
	onPut   func()
}

func (s *photoStoreStub) Put(ctx context.Context, key string, body []byte, contentType string) error {
	s.keys = append(s.keys, key)
	s.types = append(s.types, contentType)
	if s.onPut != nil {
		s.onPut()
	}
	return nil
}

func (s *photoStoreStub) Delete(ctx context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	return nil
}

func pngPhoto(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 32, 24))))
	return &buf
}

func inProgress(t *testing.T, f *fixture) uint {
	t.Helper()
	_, svc := f.claimed("emp-1")

	f.now = claimOpen.Add(10 * time.Minute)
	_, err := NewArrive(f.deps).Execute(context.Background(), "emp-1", ArriveInput{ServiceID: svc.ID})
	require.NoError(t, err)

	f.now = time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)
	_, err = NewStartWork(f.deps).Execute(context.Background(), "emp-1", svc.ID)
	require.NoError(t, err)
	return svc.ID
}

func TestCompleteStoresPhotoAndClosesAttempt(t *testing.T) {
	f := newFixture(t)
	id := inProgress(t, f)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 32, 24))))

	photos := &photoStoreStub{}
	f.now = time.Date(2024, 6, 10, 8, 40, 0, 0, time.UTC)
	got, err := NewCompleteService(f.deps, photos).Execute(context.Background(), "emp-1", CompleteInput{
		ServiceID: id,
		Photo:     &buf,
	})
	require.NoError(t, err)

	require.Equal(t, string(lifecycle.StatusCompleted), got.Status)
	require.True(t, got.CompletedAt.Equal(f.now))
	require.Len(t, photos.keys, 1)
	require.Equal(t, photos.keys[0], got.CompletionPhotoKey)
	require.Equal(t, "image/webp", photos.types[0])
	require.Equal(t, lifecycle.OutcomeCompleted, f.claims(id)[0].Outcome)
}

func TestCompleteHonoursWorkWindow(t *testing.T) {
	f := newFixture(t)
	id := inProgress(t, f)

	photos := &photoStoreStub{}
	uc := NewCompleteService(f.deps, photos)

	f.now = time.Date(2024, 6, 10, 19, 30, 0, 0, time.UTC)
	_, err := uc.Execute(context.Background(), "emp-1", CompleteInput{ServiceID: id, Photo: pngPhoto(t)})
	require.True(t, httperr.IsBusiness(err, httperr.CodeOutsideWorkWindow))

	f.now = time.Date(2024, 6, 12, 23, 0, 0, 0, time.UTC)
	_, err = uc.Execute(context.Background(), "emp-1", CompleteInput{ServiceID: id})
	require.True(t, httperr.IsBusiness(err, httperr.CodeOutsideWorkWindow))

	require.Empty(t, photos.keys)
	require.Equal(t, string(lifecycle.StatusInProgress), f.reload(id).Status)
}

func TestCompleteDiscardsPhotoWhenWriteLoses(t *testing.T) {
	f := newFixture(t)
	id := inProgress(t, f)

	photos := &photoStoreStub{onPut: func() {
		require.NoError(t, f.db.Model(&models.Service{}).Where("id = ?", id).
			Updates(map[string]any{"status": "CANCELLED", "employee_id": nil}).Error)
	}}

	f.now = time.Date(2024, 6, 10, 8, 40, 0, 0, time.UTC)
	_, err := NewCompleteService(f.deps, photos).Execute(context.Background(), "emp-1", CompleteInput{
		ServiceID: id,
		Photo:     pngPhoto(t),
	})
	require.True(t, httperr.IsBusiness(err, httperr.CodeNotAssigned))
	require.Len(t, photos.keys, 1)
	require.Equal(t, photos.keys, photos.deleted)
	require.Empty(t, f.reload(id).CompletionPhotoKey)
}

func TestCompleteRequiresWorkInProgress(t *testing.T) {
	f := newFixture(t)
	_, svc := f.claimed("emp-1")

	_, err := NewCompleteService(f.deps, nil).Execute(context.Background(), "emp-1", CompleteInput{ServiceID: svc.ID})
	be, ok := httperr.AsBusiness(err)
	require.True(t, ok)
	require.Equal(t, httperr.CodeInvalidTransition, be.Code)
	require.Equal(t, "CLAIMED", be.Details["current"])
}

func TestCancelByCustomerReleasesHolder(t *testing.T) {
	f := newFixture(t)
	_, svc := f.claimed("emp-1")

	customer := identity.Principal{UserID: "cust-10001", Role: identity.RoleCustomer}
	got, err := NewCancelService(f.deps).Execute(context.Background(), customer, CancelInput{
		ServiceID: svc.ID,
		Reason:    "moving house",
	})
	require.NoError(t, err)
	require.Equal(t, string(lifecycle.StatusCancelled), got.Status)
	require.Nil(t, got.EmployeeID)
	require.Nil(t, got.ClaimedAt)
	require.Nil(t, got.ArrivalDeadline)
	require.False(t, got.ExtensionUsed)
	require.Equal(t, "moving house", got.CancellationReason)
	require.Equal(t, lifecycle.OutcomeCancelled, f.claims(svc.ID)[0].Outcome)

	_, err = NewCancelService(f.deps).Execute(context.Background(), customer, CancelInput{ServiceID: svc.ID, Reason: "again"})
	require.True(t, httperr.IsBusiness(err, httperr.CodeInvalidTransition))
}

func TestCancelByStrangerIsForbidden(t *testing.T) {
	f := newFixture(t)
	svc := f.service("10001", monday, "SCHEDULED")

	stranger := identity.Principal{UserID: "someone-else", Role: identity.RoleCustomer}
	_, err := NewCancelService(f.deps).Execute(context.Background(), stranger, CancelInput{ServiceID: svc.ID, Reason: "x"})
	require.True(t, httperr.IsBusiness(err, httperr.CodeForbidden))

	admin := identity.Principal{UserID: "ops", Role: identity.RoleAdmin}
	_, err = NewCancelService(f.deps).Execute(context.Background(), admin, CancelInput{ServiceID: svc.ID, Reason: "x"})
	require.NoError(t, err)
}

func TestExpireStaleClaimsSweep(t *testing.T) {
	f := newFixture(t)
	_, stale := f.claimed("emp-1")

	f.now = claimOpen.Add(10 * time.Minute)
	_, fresh := f.claimed("emp-2")

	f.now = claimOpen.Add(20 * time.Minute)
	n, err := NewExpireStaleClaims(f.deps).Execute(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, n)

	require.Equal(t, string(lifecycle.StatusScheduled), f.reload(stale.ID).Status)
	require.Equal(t, string(lifecycle.StatusClaimed), f.reload(fresh.ID).Status)

	n, err = NewExpireStaleClaims(f.deps).Execute(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, n)
}

func TestExpireMissedServicesSweep(t *testing.T) {
	f := newFixture(t)
	missed := f.service("10001", monday, "SCHEDULED")
	pending := f.service("10002", monday, "PENDING")
	tomorrow := f.service("10001", monday.Add(24*time.Hour), "SCHEDULED")

	f.now = time.Date(2024, 6, 10, 18, 0, 0, 0, time.UTC)
	n, err := NewExpireMissedServices(f.deps).Execute(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, n)

	f.now = time.Date(2024, 6, 10, 19, 30, 0, 0, time.UTC)
	n, err = NewExpireMissedServices(f.deps).Execute(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, n)

	require.Equal(t, string(lifecycle.StatusExpired), f.reload(missed.ID).Status)
	require.Equal(t, string(lifecycle.StatusExpired), f.reload(pending.ID).Status)
	require.Equal(t, string(lifecycle.StatusScheduled), f.reload(tomorrow.ID).Status)
}

func TestReplaceServiceAreas(t *testing.T) {
	f := newFixture(t)
	f.employee("emp-1", "10001")
	uc := NewServiceAreas(f.deps)

	inactive := false
	areas, err := uc.Replace(context.Background(), "emp-1", []AreaInput{
		{ZipCode: "11201-0001", Radius: 3},
		{ZipCode: "11215", Active: &inactive},
	})
	require.NoError(t, err)
	require.Len(t, areas, 2)

	got, err := uc.Get(context.Background(), "emp-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	zips := []string{got[0].ZipCode, got[1].ZipCode}
	require.ElementsMatch(t, []string{"11201", "11215"}, zips)

	_, err = uc.Replace(context.Background(), "emp-1", []AreaInput{{ZipCode: "11201", Radius: -1}})
	require.True(t, httperr.IsBusiness(err, httperr.CodeInvalidInput))
}

func TestListAssigned(t *testing.T) {
	f := newFixture(t)
	_, svc := f.claimed("emp-1")

	list, err := NewListAssigned(f.deps).Execute(context.Background(), "emp-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, svc.ID, list[0].ID)
}
