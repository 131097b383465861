// internal/services/cart_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phonebay/phonebay-backend/internal/apperrors"
	"github.com/phonebay/phonebay-backend/internal/models"
)

func TestGetCartCreatesLazily(t *testing.T) {
	db := newTestDB(t)
	cartService := NewCartService(db)
	buyer := createTestUser(t, db, "buyer")

	cart, err := cartService.GetCart(buyer.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	// A second call returns the same cart.
	again, err := cartService.GetCart(buyer.ID)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID)

	var count int64
	db.Model(&models.Cart{}).Where("user_id = ?", buyer.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestAddToCartSnapshotsPrice(t *testing.T) {
	db := newTestDB(t)
	cartService := NewCartService(db)

	seller := createTestUser(t, db, "seller")
	buyer := createTestUser(t, db, "buyer")
	phone := createTestPhone(t, db, seller.ID, "Pixel 9", 799, 5)

	cart, err := cartService.AddToCart(buyer.ID, &AddToCartRequest{PhoneID: phone.ID, Quantity: 1})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.InDelta(t, 799, cart.Items[0].Price, 0.001)

	// The snapshot survives a price change.
	require.NoError(t, db.Model(&models.Phone{}).Where("id = ?", phone.ID).
		Update("price", 999).Error)

	cart, err = cartService.GetCart(buyer.ID)
	require.NoError(t, err)
	assert.InDelta(t, 799, cart.Items[0].Price, 0.001)
}

func TestAddToCartTopsUpExistingLine(t *testing.T) {
	db := newTestDB(t)
	cartService := NewCartService(db)

	seller := createTestUser(t, db, "seller")
	buyer := createTestUser(t, db, "buyer")
	phone := createTestPhone(t, db, seller.ID, "Pixel 9", 799, 5)

	_, err := cartService.AddToCart(buyer.ID, &AddToCartRequest{PhoneID: phone.ID, Quantity: 2})
	require.NoError(t, err)

	cart, err := cartService.AddToCart(buyer.ID, &AddToCartRequest{PhoneID: phone.ID, Quantity: 3})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)

	// The combined quantity may not exceed stock.
	_, err = cartService.AddToCart(buyer.ID, &AddToCartRequest{PhoneID: phone.ID, Quantity: 1})
	require.Error(t, err)
	assert.True(t, apperrors.IsBadRequest(err))
	assert.Contains(t, err.Error(), "Insufficient stock")
}

func TestAddToCartValidation(t *testing.T) {
	db := newTestDB(t)
	cartService := NewCartService(db)

	seller := createTestUser(t, db, "seller")
	buyer := createTestUser(t, db, "buyer")
	phone := createTestPhone(t, db, seller.ID, "Pixel 9", 799, 5)

	// Unknown phone.
	_, err := cartService.AddToCart(buyer.ID, &AddToCartRequest{PhoneID: uuid.New(), Quantity: 1})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))

	// Disabled phone.
	require.NoError(t, db.Model(&models.Phone{}).Where("id = ?", phone.ID).
		Update("is_disabled", true).Error)
	_, err = cartService.AddToCart(buyer.ID, &AddToCartRequest{PhoneID: phone.ID, Quantity: 1})
	require.Error(t, err)
	assert.True(t, apperrors.IsBadRequest(err))

	// Zero quantity fails struct validation.
	_, err = cartService.AddToCart(buyer.ID, &AddToCartRequest{PhoneID: phone.ID, Quantity: 0})
	require.Error(t, err)
	assert.True(t, apperrors.IsBadRequest(err))
}

func TestUpdateCartItem(t *testing.T) {
	db := newTestDB(t)
	cartService := NewCartService(db)

	seller := createTestUser(t, db, "seller")
	buyer := createTestUser(t, db, "buyer")
	phone := createTestPhone(t, db, seller.ID, "Pixel 9", 799, 5)

	_, err := cartService.AddToCart(buyer.ID, &AddToCartRequest{PhoneID: phone.ID, Quantity: 1})
	require.NoError(t, err)

	cart, err := cartService.UpdateCartItem(buyer.ID, phone.ID, &UpdateCartItemRequest{Quantity: 4})
	require.NoError(t, err)
	assert.Equal(t, 4, cart.Items[0].Quantity)

	// Beyond stock.
	_, err = cartService.UpdateCartItem(buyer.ID, phone.ID, &UpdateCartItemRequest{Quantity: 6})
	require.Error(t, err)
	assert.True(t, apperrors.IsBadRequest(err))

	// A phone that was never carted.
	_, err = cartService.UpdateCartItem(buyer.ID, uuid.New(), &UpdateCartItemRequest{Quantity: 1})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestRemoveFromCart(t *testing.T) {
	db := newTestDB(t)
	cartService := NewCartService(db)

	seller := createTestUser(t, db, "seller")
	buyer := createTestUser(t, db, "buyer")
	phone := createTestPhone(t, db, seller.ID, "Pixel 9", 799, 5)

	_, err := cartService.AddToCart(buyer.ID, &AddToCartRequest{PhoneID: phone.ID, Quantity: 1})
	require.NoError(t, err)

	cart, err := cartService.RemoveFromCart(buyer.ID, phone.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	_, err = cartService.RemoveFromCart(buyer.ID, phone.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}
