package payment

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDrifted(t *testing.T) {
	require.True(t, Drifted(StatusPending, &Record{Status: StatusPaid}))
	require.True(t, Drifted(StatusFailed, &Record{Status: StatusPaid}))
	require.False(t, Drifted(StatusPaid, &Record{Status: StatusPaid}))
	require.False(t, Drifted(StatusPending, &Record{Status: "refunded"}))
	require.False(t, Drifted(StatusPending, nil))
}
