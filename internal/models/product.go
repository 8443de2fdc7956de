package models

// Product represents a seller's catalogue entry
// DB: products
type Product struct {
	UUIDModel
	SellerID    string  `gorm:"column:seller_id;size:64;not null;index:idx_products_seller" json:"seller_id"`
	Name        string  `gorm:"column:name;size:255;not null" json:"name"`
	ImageURL    *string `gorm:"column:image_url;type:text" json:"image_url,omitempty"`
	Category    *string `gorm:"column:category;size:100" json:"category,omitempty"`
	Subcategory *string `gorm:"column:subcategory;size:100" json:"subcategory,omitempty"`
	Brand       *string `gorm:"column:brand;size:100" json:"brand,omitempty"`
	Description *string `gorm:"column:description;type:text" json:"description,omitempty"`
}

func (Product) TableName() string {
	return "products"
}
