package models

import (
	"encoding/json"
)

// Seller types stored in seller_details.seller_type
const (
	SellerTypeWholesaler   = "wholesaler"
	SellerTypeManufacturer = "manufacturer"
)

// SellerDetail represents a seller profile
// DB: seller_details
//
// address and tags are jsonb but older rows hold JSON-encoded strings,
// so both are kept raw and normalised by the service layer.
type SellerDetail struct {
	UUIDModel
	UserID          string          `gorm:"column:user_id;size:64;not null;uniqueIndex:seller_details_user_id_key" json:"user_id"`
	BusinessName    string          `gorm:"column:business_name;size:255" json:"business_name"`
	SellerType      string          `gorm:"column:seller_type;size:20;index:idx_seller_details_type" json:"seller_type"`
	Description     *string         `gorm:"column:description;type:text" json:"description,omitempty"`
	LocationAddress *string         `gorm:"column:location_address;type:text" json:"location_address,omitempty"`
	Address         json.RawMessage `gorm:"column:address;type:jsonb" json:"address,omitempty" swaggertype:"object"`
	Latitude        *float64        `gorm:"column:latitude;type:double precision" json:"latitude,omitempty"`
	Longitude       *float64        `gorm:"column:longitude;type:double precision" json:"longitude,omitempty"`
	Tags            json.RawMessage `gorm:"column:tags;type:jsonb" json:"tags,omitempty" swaggertype:"array,string"`
	ImageURL        *string         `gorm:"column:image_url;type:text" json:"image_url,omitempty"`
}

func (SellerDetail) TableName() string {
	return "seller_details"
}

// HasCoordinates reports whether the row can take part in proximity search
func (s *SellerDetail) HasCoordinates() bool {
	return s.Latitude != nil && s.Longitude != nil
}
