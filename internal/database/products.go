package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/nithinv16/DukaaOnWebsite/internal/models"
)

// ProductRepository reads products
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *DB) *ProductRepository {
	return &ProductRepository{db: db.DB}
}

// ListBySeller returns the newest products of a seller
func (r *ProductRepository) ListBySeller(ctx context.Context, sellerID string, limit int) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Select("id", "name", "image_url", "category", "subcategory", "brand", "description", "created_at").
		Where("seller_id = ?", sellerID).
		Order("created_at DESC").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("list products for %s: %w", sellerID, err)
	}
	return products, nil
}
