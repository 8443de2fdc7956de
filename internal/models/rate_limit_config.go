package models

import (
	"time"
)

// RateLimitConfig represents a per-endpoint rate limit override
// DB: rate_limit_configs
type RateLimitConfig struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Endpoint      string    `gorm:"size:255;not null;index" json:"endpoint"`
	Description   *string   `gorm:"type:text" json:"description,omitempty"`
	MaxRequests   int       `gorm:"default:5" json:"max_requests"`
	WindowSeconds int       `gorm:"column:window_seconds;default:60" json:"window_seconds"`
	IsEnabled     bool      `gorm:"default:true" json:"is_enabled"`
	Priority      int       `gorm:"default:0" json:"priority"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (RateLimitConfig) TableName() string {
	return "rate_limit_configs"
}
