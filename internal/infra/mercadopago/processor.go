package mercadopago

import (
	"context"
	"errors"
	"fmt"

	"github.com/mercadopago/sdk-go/pkg/config"
	mppayment "github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/scoop-dispatch/internal/domain/payment"
)

type preferenceCreator interface {
	Create(ctx context.Context, request preference.Request) (*preference.Response, error)
}

type paymentSearcher interface {
	Search(ctx context.Context, request mppayment.SearchRequest) (*mppayment.SearchResponse, error)
}

// Processor creates checkout preferences as payment intents and looks
// payments up by external reference.
type Processor struct {
	preferences preferenceCreator
	payments    paymentSearcher
	// currency is used when a request carries none.
	currency string
}

var _ payment.Processor = (*Processor)(nil)

// ErrNotConfigured is returned by Disabled.
var ErrNotConfigured = errors.New("payment processor not configured")

// Disabled stands in when no access token is set. Retries surface
// processor_error and reconciliation counts every lookup as failed.
type Disabled struct{}

func (Disabled) CreateIntent(context.Context, payment.IntentRequest) (*payment.Intent, error) {
	return nil, ErrNotConfigured
}

func (Disabled) Lookup(context.Context, string) (*payment.Record, error) {
	return nil, ErrNotConfigured
}

func New(accessToken, currency string) (*Processor, error) {
	if accessToken == "" {
		return nil, ErrNotConfigured
	}
	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}
	return &Processor{
		preferences: preference.NewClient(cfg),
		payments:    mppayment.NewClient(cfg),
		currency:    currency,
	}, nil
}

// CreateIntent returns the external reference as the intent id so a later
// Lookup can find the resulting payment.
func (p *Processor) CreateIntent(ctx context.Context, req payment.IntentRequest) (*payment.Intent, error) {
	unit := decimal.New(req.Amount, -2).InexactFloat64()
	currency := req.Currency
	if currency == "" {
		currency = p.currency
	}

	pref := preference.Request{
		ExternalReference: req.Reference,
		Items: []preference.ItemRequest{
			{
				Title:      req.Description,
				Quantity:   1,
				UnitPrice:  unit,
				CurrencyID: currency,
			},
		},
	}
	if req.CustomerEmail != "" {
		pref.Payer = &preference.PayerRequest{Email: req.CustomerEmail}
	}

	res, err := p.preferences.Create(ctx, pref)
	if err != nil {
		return nil, err
	}

	return &payment.Intent{
		ID:           req.Reference,
		ClientSecret: res.InitPoint,
	}, nil
}

// Lookup returns nil when the processor has no payment for reference.
func (p *Processor) Lookup(ctx context.Context, reference string) (*payment.Record, error) {
	res, err := p.payments.Search(ctx, mppayment.SearchRequest{
		Filters: map[string]string{"external_reference": reference},
		Limit:   10,
	})
	if err != nil {
		return nil, err
	}

	var best *payment.Record
	for _, r := range res.Results {
		status := MapStatus(r.Status)
		if best == nil || rank(status) > rank(best.Status) {
			best = &payment.Record{Reference: reference, Status: status}
			if status == payment.StatusPaid && !r.DateApproved.IsZero() {
				approved := r.DateApproved.UTC()
				best.SettledAt = &approved
			}
		}
	}
	return best, nil
}

// MapStatus folds processor payment statuses onto local ones. Unmapped
// statuses pass through and are ignored by drift detection.
func MapStatus(s string) string {
	switch s {
	case "approved", "authorized":
		return payment.StatusPaid
	case "pending", "in_process", "in_mediation":
		return payment.StatusPending
	case "rejected", "cancelled":
		return payment.StatusFailed
	}
	return s
}

// rank prefers a settled attempt over failed ones for the same reference.
func rank(status string) int {
	switch status {
	case payment.StatusPaid:
		return 3
	case payment.StatusPending:
		return 2
	case payment.StatusFailed:
		return 1
	}
	return 0
}
