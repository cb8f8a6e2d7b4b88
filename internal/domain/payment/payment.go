package payment

import (
	"context"
	"time"
)

// Payment status.
const (
	StatusPending = "PENDING"
	StatusPaid    = "PAID"
	StatusFailed  = "FAILED"
)

// PaymentRetry status.
const (
	RetryPending   = "PENDING"
	RetrySucceeded = "SUCCEEDED"
	RetryFailed    = "FAILED"
)

const ActorSystem = "SYSTEM"

type IntentRequest struct {
	// Reference is our idempotent key for the new intent.
	Reference     string
	CustomerID    string
	CustomerEmail string
	Amount        int64
	Currency      string
	Description   string
}

type Intent struct {
	ID           string
	ClientSecret string
}

// Record is the processor's authoritative view of one payment.
type Record struct {
	Reference string
	Status    string
	SettledAt *time.Time
}

// Processor is the payment processor boundary.
type Processor interface {
	CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error)
	Lookup(ctx context.Context, reference string) (*Record, error)
}

// Drifted reports whether local status disagrees with the processor.
// Unknown processor statuses never count as drift.
func Drifted(local string, remote *Record) bool {
	if remote == nil {
		return false
	}
	switch remote.Status {
	case StatusPending, StatusPaid, StatusFailed:
		return remote.Status != local
	}
	return false
}
