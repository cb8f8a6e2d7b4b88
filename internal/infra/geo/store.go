package geo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/scoop-dispatch/internal/domain/coverage"
	"github.com/BruksfildServices01/scoop-dispatch/internal/models"
)

var ErrUnknownZip = errors.New("unknown zip code")

// StoreGeocoder resolves postal codes from the zip_coordinates table.
type StoreGeocoder struct {
	db *gorm.DB
}

var _ coverage.Geocoder = (*StoreGeocoder)(nil)

func NewStoreGeocoder(db *gorm.DB) *StoreGeocoder {
	return &StoreGeocoder{db: db}
}

func (g *StoreGeocoder) Locate(ctx context.Context, zipCode string) (coverage.Point, error) {
	var zc models.ZipCoordinate
	err := g.db.WithContext(ctx).
		Where("zip_code = ?", coverage.NormalizeZip(zipCode)).
		First(&zc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return coverage.Point{}, fmt.Errorf("%w: %s", ErrUnknownZip, zipCode)
	}
	if err != nil {
		return coverage.Point{}, err
	}
	return coverage.Point{Lat: zc.Latitude, Lng: zc.Longitude}, nil
}
