package geo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/scoop-dispatch/internal/domain/coverage"
)

const keyPrefix = "geo:zip:"

// CachedGeocoder keeps resolved coordinates in redis in front of another
// Geocoder. A redis failure degrades to the underlying lookup.
type CachedGeocoder struct {
	next coverage.Geocoder
	rdb  *redis.Client
	ttl  time.Duration
}

var _ coverage.Geocoder = (*CachedGeocoder)(nil)

func NewCachedGeocoder(next coverage.Geocoder, rdb *redis.Client, ttl time.Duration) *CachedGeocoder {
	return &CachedGeocoder{next: next, rdb: rdb, ttl: ttl}
}

// NewRedisClient parses a redis:// URL.
func NewRedisClient(rawURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return redis.NewClient(opts), nil
}

func (g *CachedGeocoder) Locate(ctx context.Context, zipCode string) (coverage.Point, error) {
	key := keyPrefix + coverage.NormalizeZip(zipCode)

	raw, err := g.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		if p, ok := decodePoint(raw); ok {
			return p, nil
		}
	case !errors.Is(err, redis.Nil):
		zap.L().Warn("geocode cache read failed", zap.String("zip", zipCode), zap.Error(err))
	}

	p, err := g.next.Locate(ctx, zipCode)
	if err != nil {
		return coverage.Point{}, err
	}

	if err := g.rdb.Set(ctx, key, encodePoint(p), g.ttl).Err(); err != nil {
		zap.L().Warn("geocode cache write failed", zap.String("zip", zipCode), zap.Error(err))
	}
	return p, nil
}

func encodePoint(p coverage.Point) string {
	return strconv.FormatFloat(p.Lat, 'f', 6, 64) + "," + strconv.FormatFloat(p.Lng, 'f', 6, 64)
}

func decodePoint(raw string) (coverage.Point, bool) {
	lat, lng, ok := strings.Cut(raw, ",")
	if !ok {
		return coverage.Point{}, false
	}
	la, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return coverage.Point{}, false
	}
	ln, err := strconv.ParseFloat(lng, 64)
	if err != nil {
		return coverage.Point{}, false
	}
	return coverage.Point{Lat: la, Lng: ln}, true
}
