package services

import (
	"context"

	"github.com/nithinv16/DukaaOnWebsite/internal/models"
)

// ProductListLimit caps how many products a seller page shows
const ProductListLimit = 50

type ProductStore interface {
	ListBySeller(ctx context.Context, sellerID string, limit int) ([]models.Product, error)
}

// ProductView keeps the column names of the products table
type ProductView struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	ImageURL    *string `json:"image_url"`
	Category    *string `json:"category"`
	Subcategory *string `json:"subcategory"`
	Brand       *string `json:"brand"`
	Description *string `json:"description"`
}

type ProductService struct {
	store ProductStore
}

func NewProductService(store ProductStore) *ProductService {
	return &ProductService{store: store}
}

// ListBySeller returns up to ProductListLimit products, newest first
func (s *ProductService) ListBySeller(ctx context.Context, sellerID string) ([]ProductView, error) {
	if sellerID == "" {
		return nil, &ValidationError{Message: "seller_id parameter is required"}
	}

	products, err := s.store.ListBySeller(ctx, sellerID, ProductListLimit)
	if err != nil {
		return nil, &StoreError{Message: "Failed to fetch products", Err: err}
	}

	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, ProductView{
			ID:          p.ID.String(),
			Name:        p.Name,
			ImageURL:    p.ImageURL,
			Category:    p.Category,
			Subcategory: p.Subcategory,
			Brand:       p.Brand,
			Description: p.Description,
		})
	}
	return views, nil
}
