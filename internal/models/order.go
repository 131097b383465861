// internal/models/order.go
package models

import (
	"github.com/google/uuid"
)

// Orders are append-only: created by checkout, never updated. Line items
// are snapshots of the cart at checkout time and are never re-derived from
// live phone state.
type Order struct {
	BaseModel
	UserID      uuid.UUID   `json:"user_id" gorm:"type:uuid;not null;index"`
	TotalAmount float64     `json:"total_amount" gorm:"type:decimal(10,2);not null"`
	Address     string      `json:"address" gorm:"size:512;not null"`
	Items       []OrderItem `json:"items" gorm:"foreignKey:OrderID"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

type OrderItem struct {
	ChildModel
	OrderID  uuid.UUID `json:"order_id" gorm:"type:uuid;not null;index"`
	PhoneID  uuid.UUID `json:"phone_id" gorm:"type:uuid;not null;index"`
	Title    string    `json:"title" gorm:"size:255;not null"`
	Quantity int       `json:"quantity" gorm:"not null"`
	Price    float64   `json:"price" gorm:"type:decimal(10,2);not null"`
}
