// internal/services/service_test.go
package services

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/phonebay/phonebay-backend/internal/models"
)

// newTestDB opens an isolated in-memory database and migrates the full
// schema. Each test gets its own database, named after the test so shared
// cache connections stay within one test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps the shared-cache memory database alive for
	// the duration of the test.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Phone{},
		&models.Review{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.AuditLog{},
	))

	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Role:     models.UserRoleCustomer,
	}
	require.NoError(t, user.SetPassword("Sup3r$ecret"))
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestPhone(t *testing.T, db *gorm.DB, sellerID uuid.UUID, title string, price float64, stock int) *models.Phone {
	t.Helper()

	phone := &models.Phone{
		SellerID: sellerID,
		Title:    title,
		Brand:    "Acme",
		Price:    price,
		Stock:    stock,
	}
	require.NoError(t, db.Create(phone).Error)
	return phone
}

func addCartItem(t *testing.T, db *gorm.DB, userID uuid.UUID, phone *models.Phone, quantity int) *models.Cart {
	t.Helper()

	cartService := NewCartService(db)
	cart, err := cartService.AddToCart(userID, &AddToCartRequest{
		PhoneID:  phone.ID,
		Quantity: quantity,
	})
	require.NoError(t, err)
	return cart
}

func reloadPhone(t *testing.T, db *gorm.DB, id uuid.UUID) *models.Phone {
	t.Helper()

	var phone models.Phone
	require.NoError(t, db.First(&phone, "id = ?", id).Error)
	return &phone
}
