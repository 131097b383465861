// internal/services/order_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phonebay/phonebay-backend/internal/apperrors"
	"github.com/phonebay/phonebay-backend/internal/models"
	"github.com/phonebay/phonebay-backend/internal/utils"
)

func TestCheckoutCreatesOrderAndDecrementsStock(t *testing.T) {
	db := newTestDB(t)
	seller := createTestUser(t, db, "seller")
	buyer := createTestUser(t, db, "buyer")
	phoneA := createTestPhone(t, db, seller.ID, "Pixel 9", 799, 5)
	phoneB := createTestPhone(t, db, seller.ID, "Galaxy S25", 899, 3)

	addCartItem(t, db, buyer.ID, phoneA, 2)
	addCartItem(t, db, buyer.ID, phoneB, 1)

	orderService := NewOrderService(db, nil)
	order, err := orderService.Checkout(buyer.ID, &CheckoutRequest{Address: "1 Main Street, Springfield"})
	require.NoError(t, err)
	require.NotNil(t, order)

	assert.Equal(t, buyer.ID, order.UserID)
	assert.InDelta(t, 2*799+899, order.TotalAmount, 0.001)
	require.Len(t, order.Items, 2)

	// Inventory moved: stock down, sales up.
	assert.Equal(t, 3, reloadPhone(t, db, phoneA.ID).Stock)
	assert.Equal(t, int64(2), reloadPhone(t, db, phoneA.ID).Sales())
	assert.Equal(t, 2, reloadPhone(t, db, phoneB.ID).Stock)
	assert.Equal(t, int64(1), reloadPhone(t, db, phoneB.ID).Sales())

	// Cart is cleared, not deleted.
	cart, err := NewCartService(db).GetCart(buyer.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	// The order is durable.
	var persisted models.Order
	require.NoError(t, db.Preload("Items").First(&persisted, "id = ?", order.ID).Error)
	assert.Len(t, persisted.Items, 2)
}

func TestCheckoutTreatsNullSalesCountAsZero(t *testing.T) {
	db := newTestDB(t)
	seller := createTestUser(t, db, "seller")
	buyer := createTestUser(t, db, "buyer")
	phone := createTestPhone(t, db, seller.ID, "Pixel 9", 799, 5)

	// Legacy rows can carry NULL instead of 0.
	require.NoError(t, db.Model(&models.Phone{}).Where("id = ?", phone.ID).
		UpdateColumn("sales_count", nil).Error)

	addCartItem(t, db, buyer.ID, phone, 3)

	_, err := NewOrderService(db, nil).Checkout(buyer.ID, &CheckoutRequest{Address: "1 Main Street, Springfield"})
	require.NoError(t, err)

	assert.Equal(t, int64(3), reloadPhone(t, db, phone.ID).Sales())
}

func TestCheckoutChargesCartSnapshotPrice(t *testing.T) {
	db := newTestDB(t)
	seller := createTestUser(t, db, "seller")
	buyer := createTestUser(t, db, "buyer")
	phone := createTestPhone(t, db, seller.ID, "Pixel 9", 799, 5)

	addCartItem(t, db, buyer.ID, phone, 1)

	// Seller raises the price after the buyer carted it.
	require.NoError(t, db.Model(&models.Phone{}).Where("id = ?", phone.ID).
		Update("price", 999).Error)

	order, err := NewOrderService(db, nil).Checkout(buyer.ID, &CheckoutRequest{Address: "1 Main Street, Springfield"})
	require.NoError(t, err)

	assert.InDelta(t, 799, order.TotalAmount, 0.001)
	require.Len(t, order.Items, 1)
	assert.InDelta(t, 799, order.Items[0].Price, 0.001)
}

func TestCheckoutInsufficientStockLeavesStateUntouched(t *testing.T) {
	db := newTestDB(t)
	seller := createTestUser(t, db, "seller")
	buyer := createTestUser(t, db, "buyer")
	phone := createTestPhone(t, db, seller.ID, "Pixel 9", 799, 2)

	addCartItem(t, db, buyer.ID, phone, 2)

	// Someone else buys out the stock after the item was carted.
	require.NoError(t, db.Model(&models.Phone{}).Where("id = ?", phone.ID).
		Update("stock", 1).Error)

	_, err := NewOrderService(db, nil).Checkout(buyer.ID, &CheckoutRequest{Address: "1 Main Street, Springfield"})
	require.Error(t, err)
	assert.True(t, apperrors.IsBadRequest(err))
	assert.Contains(t, err.Error(), "Insufficient stock")

	// Validation failed before any write: no order, cart intact, stock
	// untouched.
	var orderCount int64
	db.Model(&models.Order{}).Count(&orderCount)
	assert.Zero(t, orderCount)

	cart, err := NewCartService(db).GetCart(buyer.ID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, 1, reloadPhone(t, db, phone.ID).Stock)
}

func TestCheckoutEmptyCart(t *testing.T) {
	db := newTestDB(t)
	buyer := createTestUser(t, db, "buyer")

	// Cart exists but has no lines.
	_, err := NewCartService(db).GetCart(buyer.ID)
	require.NoError(t, err)

	_, err = NewOrderService(db, nil).Checkout(buyer.ID, &CheckoutRequest{Address: "1 Main Street, Springfield"})
	require.Error(t, err)
	assert.True(t, apperrors.IsBadRequest(err))
	assert.Contains(t, err.Error(), "Cart is empty")
}

func TestCheckoutWithoutCart(t *testing.T) {
	db := newTestDB(t)
	buyer := createTestUser(t, db, "buyer")

	_, err := NewOrderService(db, nil).Checkout(buyer.ID, &CheckoutRequest{Address: "1 Main Street, Springfield"})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestCheckoutRejectsDisabledPhone(t *testing.T) {
	db := newTestDB(t)
	seller := createTestUser(t, db, "seller")
	buyer := createTestUser(t, db, "buyer")
	phone := createTestPhone(t, db, seller.ID, "Pixel 9", 799, 5)

	addCartItem(t, db, buyer.ID, phone, 1)

	require.NoError(t, db.Model(&models.Phone{}).Where("id = ?", phone.ID).
		Update("is_disabled", true).Error)

	_, err := NewOrderService(db, nil).Checkout(buyer.ID, &CheckoutRequest{Address: "1 Main Street, Springfield"})
	require.Error(t, err)
	assert.True(t, apperrors.IsBadRequest(err))

	var orderCount int64
	db.Model(&models.Order{}).Count(&orderCount)
	assert.Zero(t, orderCount)
}

func TestGetOrderEnforcesOwnership(t *testing.T) {
	db := newTestDB(t)
	seller := createTestUser(t, db, "seller")
	buyer := createTestUser(t, db, "buyer")
	stranger := createTestUser(t, db, "stranger")
	phone := createTestPhone(t, db, seller.ID, "Pixel 9", 799, 5)

	addCartItem(t, db, buyer.ID, phone, 1)

	orderService := NewOrderService(db, nil)
	order, err := orderService.Checkout(buyer.ID, &CheckoutRequest{Address: "1 Main Street, Springfield"})
	require.NoError(t, err)

	_, err = orderService.GetOrder(order.ID, buyer.ID)
	assert.NoError(t, err)

	_, err = orderService.GetOrder(order.ID, stranger.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorized(err))

	_, err = orderService.GetOrder(uuid.New(), buyer.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestGetUserOrders(t *testing.T) {
	db := newTestDB(t)
	seller := createTestUser(t, db, "seller")
	buyer := createTestUser(t, db, "buyer")
	phone := createTestPhone(t, db, seller.ID, "Pixel 9", 799, 10)

	orderService := NewOrderService(db, nil)
	for i := 0; i < 3; i++ {
		addCartItem(t, db, buyer.ID, phone, 1)
		_, err := orderService.Checkout(buyer.ID, &CheckoutRequest{Address: "1 Main Street, Springfield"})
		require.NoError(t, err)
	}

	orders, total, err := orderService.GetUserOrders(buyer.ID, utils.PaginationParams{
		Page: 1, Limit: 2, Sort: "created_at", Order: "desc",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, orders, 2)
}
