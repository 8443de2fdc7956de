package models

// Enquiry types
const (
	EnquiryTypeSeller  = "seller"
	EnquiryTypeGeneral = "general"
	EnquiryTypeContact = "contact"
)

// EnquiryStatusNew is the status of every freshly stored enquiry
const EnquiryStatusNew = "new"

// EnquiryMessage represents a visitor enquiry. Rows are written once.
// DB: enquiry_messages
type EnquiryMessage struct {
	UUIDModel
	SellerID        *string `gorm:"column:seller_id;size:64;index:idx_enquiry_seller" json:"seller_id,omitempty"`
	VisitorName     string  `gorm:"column:visitor_name;size:255;not null" json:"visitor_name"`
	VisitorEmail    string  `gorm:"column:visitor_email;size:255;not null" json:"visitor_email"`
	VisitorPhone    string  `gorm:"column:visitor_phone;size:32;not null" json:"visitor_phone"`
	VisitorLocation string  `gorm:"column:visitor_location;size:255;not null" json:"visitor_location"`
	Message         string  `gorm:"column:message;type:text;not null" json:"message"`
	EnquiryType     string  `gorm:"column:enquiry_type;size:20;not null;default:seller;index:idx_enquiry_type" json:"enquiry_type"`
	StakeholderType *string `gorm:"column:stakeholder_type;size:32" json:"stakeholder_type,omitempty"`
	Status          string  `gorm:"column:status;size:20;not null;default:new;index:idx_enquiry_status" json:"status"`
}

func (EnquiryMessage) TableName() string {
	return "enquiry_messages"
}
