package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/nithinv16/DukaaOnWebsite/internal/models"
)

// RateLimitConfigRepository reads rate_limit_configs
type RateLimitConfigRepository struct {
	db *gorm.DB
}

func NewRateLimitConfigRepository(db *DB) *RateLimitConfigRepository {
	return &RateLimitConfigRepository{db: db.DB}
}

// ForEndpoint returns the highest-priority enabled override, or (nil, nil)
func (r *RateLimitConfigRepository) ForEndpoint(ctx context.Context, endpoint string) (*models.RateLimitConfig, error) {
	var cfg models.RateLimitConfig
	err := r.db.WithContext(ctx).
		Where("endpoint = ? AND is_enabled = ?", endpoint, true).
		Order("priority DESC").
		First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load rate limit config: %w", err)
	}
	return &cfg, nil
}
