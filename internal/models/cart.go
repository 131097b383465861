// internal/models/cart.go
package models

import (
	"github.com/google/uuid"
)

// One cart per user, created lazily on first access and never deleted,
// only cleared.
type Cart struct {
	BaseModel
	UserID uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;uniqueIndex"`
	Items  []CartItem `json:"items" gorm:"foreignKey:CartID"`
}

// ItemFor returns the cart line for a phone, or nil.
func (c *Cart) ItemFor(phoneID uuid.UUID) *CartItem {
	for i := range c.Items {
		if c.Items[i].PhoneID == phoneID {
			return &c.Items[i]
		}
	}
	return nil
}

type CartItem struct {
	ChildModel
	CartID   uuid.UUID `json:"cart_id" gorm:"type:uuid;not null;index"`
	PhoneID  uuid.UUID `json:"phone_id" gorm:"type:uuid;not null;index"`
	Quantity int       `json:"quantity" gorm:"not null"`
	// Price is snapshotted when the line is added; checkout charges this
	// value, not the live phone price.
	Price float64 `json:"price" gorm:"type:decimal(10,2);not null"`
}
