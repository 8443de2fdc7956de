package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/nithinv16/DukaaOnWebsite/internal/models"
)

// EnquiryFilter for the admin listing
type EnquiryFilter struct {
	Status      string
	EnquiryType string
	SellerID    string
	Offset      int
	Limit       int
}

// EnquiryRepository writes and lists enquiry_messages
type EnquiryRepository struct {
	db *gorm.DB
}

func NewEnquiryRepository(db *DB) *EnquiryRepository {
	return &EnquiryRepository{db: db.DB}
}

func (r *EnquiryRepository) Create(ctx context.Context, enquiry *models.EnquiryMessage) error {
	if err := r.db.WithContext(ctx).Create(enquiry).Error; err != nil {
		return fmt.Errorf("insert enquiry: %w", err)
	}
	return nil
}

// List returns a page of enquiries, newest first, and the total matching count
func (r *EnquiryRepository) List(ctx context.Context, filter EnquiryFilter) ([]models.EnquiryMessage, int64, error) {
	var (
		enquiries []models.EnquiryMessage
		total     int64
	)

	query := r.db.WithContext(ctx).Model(&models.EnquiryMessage{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.EnquiryType != "" {
		query = query.Where("enquiry_type = ?", filter.EnquiryType)
	}
	if filter.SellerID != "" {
		query = query.Where("seller_id = ?", filter.SellerID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count enquiries: %w", err)
	}

	err := query.Order("created_at DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&enquiries).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list enquiries: %w", err)
	}
	return enquiries, total, nil
}
