package geo

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/scoop-dispatch/internal/domain/coverage"
	"github.com/BruksfildServices01/scoop-dispatch/internal/models"
	"github.com/BruksfildServices01/scoop-dispatch/internal/testutil"
)

func TestStoreGeocoder(t *testing.T) {
	db := testutil.NewTestDB(t, &models.ZipCoordinate{})
	require.NoError(t, db.Create(&models.ZipCoordinate{ZipCode: "10001", Latitude: 40.7506, Longitude: -73.9972}).Error)

	g := NewStoreGeocoder(db)

	p, err := g.Locate(context.Background(), " 10001-1234 ")
	require.NoError(t, err)
	require.InDelta(t, 40.7506, p.Lat, 1e-9)

	_, err = g.Locate(context.Background(), "99999")
	require.ErrorIs(t, err, ErrUnknownZip)
}

func TestCachedGeocoderFallsBackWhenRedisIsDown(t *testing.T) {
	db := testutil.NewTestDB(t, &models.ZipCoordinate{})
	require.NoError(t, db.Create(&models.ZipCoordinate{ZipCode: "11201", Latitude: 40.6943, Longitude: -73.9903}).Error)

	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })

	g := NewCachedGeocoder(NewStoreGeocoder(db), rdb, time.Hour)

	p, err := g.Locate(context.Background(), "11201")
	require.NoError(t, err)
	require.InDelta(t, -73.9903, p.Lng, 1e-9)
}

func TestPointEncoding(t *testing.T) {
	p, ok := decodePoint(encodePoint(coverage.Point{Lat: 40.75, Lng: -73.99}))
	require.True(t, ok)
	require.InDelta(t, 40.75, p.Lat, 1e-6)
	require.InDelta(t, -73.99, p.Lng, 1e-6)

	_, ok = decodePoint("garbage")
	require.False(t, ok)
}
