package mercadopago

import (
	"context"
	"errors"
	"testing"
	"time"

	mppayment "github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/scoop-dispatch/internal/domain/payment"
)

type preferenceStub struct {
	got preference.Request
	err error
}

func (s *preferenceStub) Create(ctx context.Context, req preference.Request) (*preference.Response, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return &preference.Response{ID: "pref-1", InitPoint: "https://checkout.example/pref-1"}, nil
}

type searchStub struct {
	results []mppayment.Response
}

func (s *searchStub) Search(ctx context.Context, req mppayment.SearchRequest) (*mppayment.SearchResponse, error) {
	return &mppayment.SearchResponse{Results: s.results}, nil
}

func TestCreateIntent(t *testing.T) {
	prefs := &preferenceStub{}
	p := &Processor{preferences: prefs, payments: &searchStub{}}

	intent, err := p.CreateIntent(context.Background(), payment.IntentRequest{
		Reference:     "ref-1",
		CustomerEmail: "dana@example.com",
		Amount:        5000,
		Currency:      "USD",
		Description:   "Weekly service",
	})
	require.NoError(t, err)
	require.Equal(t, "ref-1", intent.ID)
	require.Equal(t, "https://checkout.example/pref-1", intent.ClientSecret)

	require.Equal(t, "ref-1", prefs.got.ExternalReference)
	require.Len(t, prefs.got.Items, 1)
	require.InDelta(t, 50.0, prefs.got.Items[0].UnitPrice, 1e-9)
	require.Equal(t, "dana@example.com", prefs.got.Payer.Email)
}

func TestCreateIntentPropagatesErrors(t *testing.T) {
	p := &Processor{preferences: &preferenceStub{err: errors.New("boom")}, payments: &searchStub{}}

	_, err := p.CreateIntent(context.Background(), payment.IntentRequest{Reference: "ref-1", Amount: 100})
	require.Error(t, err)
}

func TestLookupPrefersSettledAttempt(t *testing.T) {
	p := &Processor{
		preferences: &preferenceStub{},
		payments: &searchStub{results: []mppayment.Response{
			{Status: "rejected", ExternalReference: "ref-1"},
			{Status: "approved", ExternalReference: "ref-1"},
		}},
	}

	rec, err := p.Lookup(context.Background(), "ref-1")
	require.NoError(t, err)
	require.Equal(t, payment.StatusPaid, rec.Status)
}

func TestLookupCarriesApprovalTime(t *testing.T) {
	approved := time.Date(2024, 6, 10, 14, 5, 0, 0, time.FixedZone("BRT", -3*60*60))
	p := &Processor{
		preferences: &preferenceStub{},
		payments: &searchStub{results: []mppayment.Response{
			{Status: "approved", ExternalReference: "ref-1", DateApproved: approved},
		}},
	}

	rec, err := p.Lookup(context.Background(), "ref-1")
	require.NoError(t, err)
	require.NotNil(t, rec.SettledAt)
	require.True(t, rec.SettledAt.Equal(approved))
	require.Equal(t, time.UTC, rec.SettledAt.Location())

	p.payments = &searchStub{results: []mppayment.Response{{Status: "rejected", ExternalReference: "ref-1"}}}
	rec, err = p.Lookup(context.Background(), "ref-1")
	require.NoError(t, err)
	require.Nil(t, rec.SettledAt)
}

func TestLookupWithoutResults(t *testing.T) {
	p := &Processor{preferences: &preferenceStub{}, payments: &searchStub{}}

	rec, err := p.Lookup(context.Background(), "ref-1")
	require.NoError(t, err)
	require.Nil(t, rec)
}

func TestMapStatus(t *testing.T) {
	require.Equal(t, payment.StatusPaid, MapStatus("approved"))
	require.Equal(t, payment.StatusPending, MapStatus("in_process"))
	require.Equal(t, payment.StatusFailed, MapStatus("rejected"))
	require.Equal(t, "refunded", MapStatus("refunded"))
}

func TestCreateIntentFallsBackToDefaultCurrency(t *testing.T) {
	prefs := &preferenceStub{}
	p := &Processor{preferences: prefs, payments: &searchStub{}, currency: "USD"}

	_, err := p.CreateIntent(context.Background(), payment.IntentRequest{Reference: "ref-2", Amount: 100})
	require.NoError(t, err)
	require.Equal(t, "USD", prefs.got.Items[0].CurrencyID)
}

func TestNewWithoutTokenIsNotConfigured(t *testing.T) {
	_, err := New("", "USD")
	require.ErrorIs(t, err, ErrNotConfigured)

	_, err = Disabled{}.CreateIntent(context.Background(), payment.IntentRequest{})
	require.ErrorIs(t, err, ErrNotConfigured)
	_, err = Disabled{}.Lookup(context.Background(), "ref")
	require.ErrorIs(t, err, ErrNotConfigured)
}
