package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nithinv16/DukaaOnWebsite/internal/geo"
	"github.com/nithinv16/DukaaOnWebsite/internal/geolocation"
	"github.com/nithinv16/DukaaOnWebsite/internal/models"
)

// GeolocationCacheStore is a geolocation.CacheStore backed by ip_geolocation_cache.
// ttl only sets expires_at for PurgeExpired; freshness is still the caller's check.
type GeolocationCacheStore struct {
	db  *gorm.DB
	ttl time.Duration
}

var _ geolocation.CacheStore = (*GeolocationCacheStore)(nil)

func NewGeolocationCacheStore(db *DB, ttl time.Duration) *GeolocationCacheStore {
	return &GeolocationCacheStore{db: db.DB, ttl: ttl}
}

func (s *GeolocationCacheStore) Get(ctx context.Context, key string) (*geolocation.CachedLocation, error) {
	var row models.IPGeolocationCache
	err := s.db.WithContext(ctx).Where("cache_key = ?", key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read geolocation cache: %w", err)
	}

	return &geolocation.CachedLocation{
		Location: geolocation.Location{
			Coordinates: geo.Coordinates{Latitude: row.Lat, Longitude: row.Lng},
			City:        row.City,
			State:       row.State,
			Country:     row.Country,
		},
		Timestamp: row.StoredAt,
	}, nil
}

func (s *GeolocationCacheStore) Set(ctx context.Context, key string, entry geolocation.CachedLocation) error {
	row := models.IPGeolocationCache{
		CacheKey:  key,
		Lat:       entry.Location.Latitude,
		Lng:       entry.Location.Longitude,
		City:      entry.Location.City,
		State:     entry.Location.State,
		Country:   entry.Location.Country,
		StoredAt:  entry.Timestamp,
		ExpiresAt: time.UnixMilli(entry.Timestamp).Add(s.ttl),
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cache_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"lat", "lng", "city", "state", "country", "stored_at", "expires_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("write geolocation cache: %w", err)
	}
	return nil
}

func (s *GeolocationCacheStore) Clear(ctx context.Context, key string) error {
	err := s.db.WithContext(ctx).Where("cache_key = ?", key).Delete(&models.IPGeolocationCache{}).Error
	if err != nil {
		return fmt.Errorf("clear geolocation cache: %w", err)
	}
	return nil
}

// PurgeExpired deletes rows past expires_at and reports how many went
func (s *GeolocationCacheStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&models.IPGeolocationCache{})
	if res.Error != nil {
		return 0, fmt.Errorf("purge geolocation cache: %w", res.Error)
	}
	return res.RowsAffected, nil
}
