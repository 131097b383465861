// internal/services/cascade_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/phonebay/phonebay-backend/internal/models"
)

func TestDeletePhoneCascades(t *testing.T) {
	db := newTestDB(t)
	cascade := NewCascadeService(db, nil, nil)

	seller := createTestUser(t, db, "seller")
	buyer := createTestUser(t, db, "buyer")
	fan := createTestUser(t, db, "fan")
	phone := createTestPhone(t, db, seller.ID, "Pixel 9", 799, 5)
	other := createTestPhone(t, db, seller.ID, "Galaxy S25", 899, 5)

	// The phone is referenced from a cart, a wishlist and a review.
	addCartItem(t, db, buyer.ID, phone, 1)
	addCartItem(t, db, buyer.ID, other, 1)

	userService := NewUserService(db, cascade)
	_, err := userService.AddToWishlist(fan.ID, phone.ID)
	require.NoError(t, err)
	_, err = userService.AddToWishlist(fan.ID, other.ID)
	require.NoError(t, err)

	_, err = NewReviewService(db).AddReview(phone.ID, buyer.ID, &AddReviewRequest{Rating: 4})
	require.NoError(t, err)

	require.NoError(t, cascade.DeletePhone(phone.ID, &seller.ID))

	// The phone itself is gone.
	err = db.First(&models.Phone{}, "id = ?", phone.ID).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// Cart lines for the phone are removed; other lines survive.
	var cartItems []models.CartItem
	require.NoError(t, db.Find(&cartItems).Error)
	require.Len(t, cartItems, 1)
	assert.Equal(t, other.ID, cartItems[0].PhoneID)

	// Wishlists no longer mention the phone.
	var reloaded models.User
	require.NoError(t, db.First(&reloaded, "id = ?", fan.ID).Error)
	assert.False(t, reloaded.WishlistContains(phone.ID.String()))
	assert.True(t, reloaded.WishlistContains(other.ID.String()))

	// Reviews died with the phone.
	var reviewCount int64
	db.Model(&models.Review{}).Where("phone_id = ?", phone.ID).Count(&reviewCount)
	assert.Zero(t, reviewCount)
}

func TestDeletePhoneIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	cascade := NewCascadeService(db, nil, nil)

	seller := createTestUser(t, db, "seller")
	phone := createTestPhone(t, db, seller.ID, "Pixel 9", 799, 5)

	require.NoError(t, cascade.DeletePhone(phone.ID, &seller.ID))
	require.NoError(t, cascade.DeletePhone(phone.ID, &seller.ID))

	// A never-existing id also deletes cleanly.
	require.NoError(t, cascade.DeletePhone(uuid.New(), &seller.ID))
}

func TestDeleteMissingPhoneStillSweepsReferences(t *testing.T) {
	db := newTestDB(t)
	cascade := NewCascadeService(db, nil, nil)

	seller := createTestUser(t, db, "seller")
	fan := createTestUser(t, db, "fan")
	phone := createTestPhone(t, db, seller.ID, "Pixel 9", 799, 5)

	userService := NewUserService(db, cascade)
	_, err := userService.AddToWishlist(fan.ID, phone.ID)
	require.NoError(t, err)

	// Simulate a partial earlier run: the phone row is gone but the
	// wishlist reference survived.
	require.NoError(t, db.Unscoped().Delete(&models.Phone{}, "id = ?", phone.ID).Error)

	require.NoError(t, cascade.DeletePhone(phone.ID, &seller.ID))

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, "id = ?", fan.ID).Error)
	assert.False(t, reloaded.WishlistContains(phone.ID.String()))
}

func TestDeleteUserCascades(t *testing.T) {
	db := newTestDB(t)
	cascade := NewCascadeService(db, nil, nil)

	seller := createTestUser(t, db, "seller")
	buyer := createTestUser(t, db, "buyer")
	otherSeller := createTestUser(t, db, "other_seller")
	listing := createTestPhone(t, db, seller.ID, "Pixel 9", 799, 5)
	foreign := createTestPhone(t, db, otherSeller.ID, "Galaxy S25", 899, 5)

	// The seller also acts as a customer elsewhere.
	addCartItem(t, db, seller.ID, foreign, 1)
	_, err := NewOrderService(db, nil).Checkout(seller.ID, &CheckoutRequest{Address: "1 Main Street, Springfield"})
	require.NoError(t, err)

	_, err = NewReviewService(db).AddReview(foreign.ID, seller.ID, &AddReviewRequest{Rating: 5})
	require.NoError(t, err)

	// The buyer holds references to the seller's listing.
	addCartItem(t, db, buyer.ID, listing, 1)
	userService := NewUserService(db, cascade)
	_, err = userService.AddToWishlist(buyer.ID, listing.ID)
	require.NoError(t, err)

	require.NoError(t, cascade.DeleteUser(seller.ID, nil))

	// The account and its listing are gone.
	assert.ErrorIs(t, db.First(&models.User{}, "id = ?", seller.ID).Error, gorm.ErrRecordNotFound)
	assert.ErrorIs(t, db.First(&models.Phone{}, "id = ?", listing.ID).Error, gorm.ErrRecordNotFound)

	// So are the seller's orders and authored reviews.
	var orderCount int64
	db.Model(&models.Order{}).Where("user_id = ?", seller.ID).Count(&orderCount)
	assert.Zero(t, orderCount)

	var reviewCount int64
	db.Model(&models.Review{}).Where("reviewer_id = ?", seller.ID).Count(&reviewCount)
	assert.Zero(t, reviewCount)

	// The buyer's references to the dead listing were swept.
	var cartItemCount int64
	db.Model(&models.CartItem{}).Where("phone_id = ?", listing.ID).Count(&cartItemCount)
	assert.Zero(t, cartItemCount)

	var reloadedBuyer models.User
	require.NoError(t, db.First(&reloadedBuyer, "id = ?", buyer.ID).Error)
	assert.False(t, reloadedBuyer.WishlistContains(listing.ID.String()))

	// Re-running is a no-op.
	require.NoError(t, cascade.DeleteUser(seller.ID, nil))
}

func TestDeleteUserKeepsOtherSellersData(t *testing.T) {
	db := newTestDB(t)
	cascade := NewCascadeService(db, nil, nil)

	seller := createTestUser(t, db, "seller")
	bystander := createTestUser(t, db, "bystander")
	createTestPhone(t, db, seller.ID, "Pixel 9", 799, 5)
	kept := createTestPhone(t, db, bystander.ID, "Galaxy S25", 899, 5)

	require.NoError(t, cascade.DeleteUser(seller.ID, nil))

	assert.NoError(t, db.First(&models.Phone{}, "id = ?", kept.ID).Error)
	assert.NoError(t, db.First(&models.User{}, "id = ?", bystander.ID).Error)
}
