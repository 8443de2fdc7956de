package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/nithinv16/DukaaOnWebsite/internal/geo"
	"github.com/nithinv16/DukaaOnWebsite/internal/models"
)

// SellerFilter narrows the candidate fetch. Zero values mean no filter.
type SellerFilter struct {
	SellerType string
	Bounds     *geo.BoundingBox
}

// SellerRepository reads seller_details
type SellerRepository struct {
	db *gorm.DB
}

func NewSellerRepository(db *DB) *SellerRepository {
	return &SellerRepository{db: db.DB}
}

// ListCandidates returns every seller with both coordinates set, ordered by id
func (r *SellerRepository) ListCandidates(ctx context.Context, filter SellerFilter) ([]models.SellerDetail, error) {
	var sellers []models.SellerDetail

	query := r.db.WithContext(ctx).
		Model(&models.SellerDetail{}).
		Where("latitude IS NOT NULL AND longitude IS NOT NULL")

	if filter.SellerType != "" {
		query = query.Where("seller_type = ?", filter.SellerType)
	}

	// Bounding box 사전 필터 (반경을 포함하는 사각형)
	if b := filter.Bounds; b != nil {
		query = query.Where("latitude BETWEEN ? AND ?", b.MinLat, b.MaxLat)
		if !b.FullLongitude {
			if b.MinLng <= b.MaxLng {
				query = query.Where("longitude BETWEEN ? AND ?", b.MinLng, b.MaxLng)
			} else {
				// antimeridian wrap
				query = query.Where("(longitude >= ? OR longitude <= ?)", b.MinLng, b.MaxLng)
			}
		}
	}

	if err := query.Order("id ASC").Find(&sellers).Error; err != nil {
		return nil, fmt.Errorf("list seller candidates: %w", err)
	}
	return sellers, nil
}

// GetByUserID returns (nil, nil) when no seller has that user id
func (r *SellerRepository) GetByUserID(ctx context.Context, userID string) (*models.SellerDetail, error) {
	var seller models.SellerDetail
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&seller).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get seller %s: %w", userID, err)
	}
	return &seller, nil
}
