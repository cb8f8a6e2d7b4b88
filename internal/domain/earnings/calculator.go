package earnings

import "github.com/shopspring/decimal"

// Service payment status.
const (
	PaymentPending  = "PENDING"
	PaymentApproved = "APPROVED"
	PaymentPaid     = "PAID"
)

const (
	DefaultWorkerSharePercent = 75
	DefaultServicesPerCycle   = 4
	DefaultReferralPayout     = 500
)

// Policy splits a subscription payment across the services it funds.
// Amounts are minor units.
type Policy struct {
	WorkerSharePercent int64
	ServicesPerCycle   int64
	ReferralPayout     int64
}

func DefaultPolicy() Policy {
	return Policy{
		WorkerSharePercent: DefaultWorkerSharePercent,
		ServicesPerCycle:   DefaultServicesPerCycle,
		ReferralPayout:     DefaultReferralPayout,
	}
}

type Input struct {
	PaymentAmount int64
	ProcessorFee  int64
	HasReferral   bool
}

func (p Policy) Net(in Input) int64 {
	net := in.PaymentAmount - in.ProcessorFee
	if in.HasReferral {
		net -= p.ReferralPayout
	}
	if net < 0 {
		return 0
	}
	return net
}

// PerService returns the worker share of one service, rounded half-up to
// the minor unit.
func (p Policy) PerService(in Input) int64 {
	services := p.ServicesPerCycle
	if services <= 0 {
		services = DefaultServicesPerCycle
	}

	share := decimal.NewFromInt(p.Net(in)).
		Mul(decimal.NewFromInt(p.WorkerSharePercent)).
		Div(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(services))

	// Round is half away from zero, which is half-up for non-negative shares.
	return share.Round(0).IntPart()
}

// Format renders minor units as a currency amount with two decimals.
func Format(minor int64) string {
	return decimal.New(minor, -2).StringFixed(2)
}
