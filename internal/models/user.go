// internal/models/user.go
package models

import (
	"time"

	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

type User struct {
	BaseModel
	Username     string         `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Email        string         `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string         `json:"-" gorm:"size:255;not null"`
	Role         UserRole       `json:"role" gorm:"type:varchar(20);default:'customer'"`
	IsDisabled   bool           `json:"is_disabled" gorm:"default:false"`
	Wishlist     pq.StringArray `json:"wishlist" gorm:"type:text[]"`
	ProfileData  JSONB          `json:"profile_data" gorm:"type:jsonb"`
	LastLoginAt  *time.Time     `json:"last_login_at"`

	// Relationships
	Phones []Phone `json:"phones,omitempty" gorm:"foreignKey:SellerID"`
	Orders []Order `json:"orders,omitempty" gorm:"foreignKey:UserID"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

// WishlistContains reports whether the phone id is already on the wishlist.
func (u *User) WishlistContains(phoneID string) bool {
	for _, id := range u.Wishlist {
		if id == phoneID {
			return true
		}
	}
	return false
}

// RemoveFromWishlist strips every occurrence of the given phone ids and
// reports whether anything changed.
func (u *User) RemoveFromWishlist(phoneIDs ...string) bool {
	if len(u.Wishlist) == 0 {
		return false
	}

	drop := make(map[string]bool, len(phoneIDs))
	for _, id := range phoneIDs {
		drop[id] = true
	}

	kept := u.Wishlist[:0]
	changed := false
	for _, id := range u.Wishlist {
		if drop[id] {
			changed = true
			continue
		}
		kept = append(kept, id)
	}
	u.Wishlist = kept
	return changed
}
