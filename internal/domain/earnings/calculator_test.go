package earnings

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPerServiceWithoutReferral(t *testing.T) {
	p := DefaultPolicy()
	in := Input{PaymentAmount: 5000, ProcessorFee: 150}

	require.Equal(t, int64(4850), p.Net(in))
	require.Equal(t, int64(909), p.PerService(in))
	require.Equal(t, "9.09", Format(p.PerService(in)))
}

func TestPerServiceWithReferral(t *testing.T) {
	p := DefaultPolicy()
	in := Input{PaymentAmount: 5000, ProcessorFee: 150, HasReferral: true}

	require.Equal(t, int64(4350), p.Net(in))
	// 4350 * 0.75 / 4 = 815.625
	require.Equal(t, int64(816), p.PerService(in))
}

func TestPerServiceRoundsHalfUp(t *testing.T) {
	p := DefaultPolicy()

	// 8 * 0.75 / 4 = 1.5
	require.Equal(t, int64(2), p.PerService(Input{PaymentAmount: 8}))
	// 24 * 0.75 / 4 = 4.5
	require.Equal(t, int64(5), p.PerService(Input{PaymentAmount: 24}))
	// 4 * 0.75 / 4 = 0.75
	require.Equal(t, int64(1), p.PerService(Input{PaymentAmount: 4}))
}

func TestNetNeverNegative(t *testing.T) {
	p := DefaultPolicy()
	in := Input{PaymentAmount: 400, ProcessorFee: 50, HasReferral: true}

	require.Equal(t, int64(0), p.Net(in))
	require.Equal(t, int64(0), p.PerService(in))
}

func TestPerServiceIsDeterministic(t *testing.T) {
	p := DefaultPolicy()
	in := Input{PaymentAmount: 12999, ProcessorFee: 407}

	first := p.PerService(in)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, p.PerService(in))
	}
}
