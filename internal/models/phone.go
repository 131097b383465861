// internal/models/phone.go
package models

import (
	"github.com/google/uuid"
)

type Phone struct {
	BaseModel
	SellerID    uuid.UUID `json:"seller_id" gorm:"type:uuid;not null;index"`
	Title       string    `json:"title" gorm:"size:255;not null"`
	Brand       string    `json:"brand" gorm:"size:100;index"`
	Description string    `json:"description" gorm:"type:text"`
	Price       float64   `json:"price" gorm:"type:decimal(10,2);not null"`
	Stock       int       `json:"stock" gorm:"default:0"`
	SalesCount  *int64    `json:"sales_count" gorm:"default:0"`
	Rating      float64   `json:"rating" gorm:"type:decimal(3,2);default:0"`
	ReviewCount int64     `json:"review_count" gorm:"default:0"`
	IsDisabled  bool      `json:"is_disabled" gorm:"default:false;index"`
	ImageURL    string    `json:"image_url" gorm:"size:512"`

	// Relationships
	Seller  User     `json:"seller,omitempty" gorm:"foreignKey:SellerID"`
	Reviews []Review `json:"reviews,omitempty" gorm:"foreignKey:PhoneID"`
}

// Sales returns the sales counter, treating an unset column as zero.
func (p *Phone) Sales() int64 {
	if p.SalesCount == nil {
		return 0
	}
	return *p.SalesCount
}

// Reviews live and die with their phone: one review per reviewer per phone,
// hidden reviews stay addressable by id for moderation.
type Review struct {
	ChildModel
	PhoneID    uuid.UUID `json:"phone_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_reviews_phone_reviewer"`
	ReviewerID uuid.UUID `json:"reviewer_id" gorm:"type:uuid;not null;uniqueIndex:idx_reviews_phone_reviewer"`
	Rating     int       `json:"rating" gorm:"not null"`
	Comment    string    `json:"comment" gorm:"type:text"`
	IsHidden   bool      `json:"is_hidden" gorm:"default:false"`
}
