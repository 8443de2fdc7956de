package models

import (
	"time"
)

// IPGeolocationCache represents a cached IP lookup
// DB: ip_geolocation_cache
type IPGeolocationCache struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CacheKey  string    `gorm:"size:255;not null;uniqueIndex" json:"cache_key"`
	Lat       float64   `gorm:"type:double precision;not null" json:"lat"`
	Lng       float64   `gorm:"type:double precision;not null" json:"lng"`
	City      string    `gorm:"size:255" json:"city"`
	State     string    `gorm:"size:255" json:"state"`
	Country   string    `gorm:"size:255" json:"country"`
	StoredAt  int64     `gorm:"not null" json:"stored_at"` // epoch ms
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
}

func (IPGeolocationCache) TableName() string {
	return "ip_geolocation_cache"
}
