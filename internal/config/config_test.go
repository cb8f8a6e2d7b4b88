package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.Addr())
	require.Equal(t, "America/New_York", cfg.BusinessTimezone)
	require.Equal(t, 15*time.Minute, cfg.ClaimGrace())
	require.Equal(t, 15*time.Minute, cfg.ClaimExtension())
	require.Equal(t, int64(75), cfg.WorkerSharePercent)
	require.Equal(t, int64(4), cfg.ServicesPerCycle)
	require.Equal(t, int64(500), cfg.ReferralPayoutCents)
	require.Equal(t, 168*time.Hour, cfg.GeocodeCacheTTL)
	require.False(t, cfg.IsProduction())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CLAIM_GRACE_MINUTES", "20")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, ":9090", cfg.Addr())
	require.Equal(t, 20*time.Minute, cfg.ClaimGrace())
	require.True(t, cfg.IsProduction())
}

func TestLoadRejectsBadShare(t *testing.T) {
	t.Setenv("WORKER_SHARE_PERCENT", "120")

	_, err := Load()
	require.Error(t, err)
}
