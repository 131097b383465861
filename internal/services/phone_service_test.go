// internal/services/phone_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/phonebay/phonebay-backend/internal/apperrors"
	"github.com/phonebay/phonebay-backend/internal/models"
	"github.com/phonebay/phonebay-backend/internal/utils"
)

func newPhoneService(db *gorm.DB) *PhoneService {
	return NewPhoneService(db, NewCascadeService(db, nil, nil))
}

func TestCreatePhone(t *testing.T) {
	db := newTestDB(t)
	phoneService := newPhoneService(db)
	seller := createTestUser(t, db, "seller")

	phone, err := phoneService.CreatePhone(seller.ID, &CreatePhoneRequest{
		Title: "Pixel 9",
		Brand: "Google",
		Price: 799,
		Stock: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, seller.ID, phone.SellerID)
	assert.Equal(t, int64(0), phone.Sales())

	// Disabled accounts cannot list.
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", seller.ID).
		Update("is_disabled", true).Error)
	_, err = phoneService.CreatePhone(seller.ID, &CreatePhoneRequest{
		Title: "Galaxy S25",
		Brand: "Samsung",
		Price: 899,
		Stock: 3,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsBadRequest(err))
}

func TestGetPhoneHidesDisabledListings(t *testing.T) {
	db := newTestDB(t)
	phoneService := newPhoneService(db)

	seller := createTestUser(t, db, "seller")
	stranger := createTestUser(t, db, "stranger")
	admin := createTestUser(t, db, "admin")
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", admin.ID).
		Update("role", models.UserRoleAdmin).Error)

	phone := createTestPhone(t, db, seller.ID, "Pixel 9", 799, 5)
	require.NoError(t, db.Model(&models.Phone{}).Where("id = ?", phone.ID).
		Update("is_disabled", true).Error)

	// Anonymous viewers and strangers get a 404, not a 403: disabled
	// listings do not leak their existence.
	_, err := phoneService.GetPhone(phone.ID, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))

	_, err = phoneService.GetPhone(phone.ID, &stranger.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))

	// The seller and admins still see it.
	got, err := phoneService.GetPhone(phone.ID, &seller.ID)
	require.NoError(t, err)
	assert.True(t, got.IsDisabled)

	_, err = phoneService.GetPhone(phone.ID, &admin.ID)
	assert.NoError(t, err)
}

func TestGetPhoneFiltersReviewsForViewer(t *testing.T) {
	db := newTestDB(t)
	phoneService := newPhoneService(db)
	reviewService := NewReviewService(db)

	seller := createTestUser(t, db, "seller")
	buyer := createTestUser(t, db, "buyer")
	phone := createTestPhone(t, db, seller.ID, "Pixel 9", 799, 5)

	review, err := reviewService.AddReview(phone.ID, buyer.ID, &AddReviewRequest{Rating: 1})
	require.NoError(t, err)
	_, err = reviewService.ToggleVisibility(phone.ID, review.ID, seller.ID, true)
	require.NoError(t, err)

	anon, err := phoneService.GetPhone(phone.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, anon.Reviews)

	asSeller, err := phoneService.GetPhone(phone.ID, &seller.ID)
	require.NoError(t, err)
	assert.Len(t, asSeller.Reviews, 1)
}

func TestUpdatePhoneOwnership(t *testing.T) {
	db := newTestDB(t)
	phoneService := newPhoneService(db)

	seller := createTestUser(t, db, "seller")
	stranger := createTestUser(t, db, "stranger")
	phone := createTestPhone(t, db, seller.ID, "Pixel 9", 799, 5)

	_, err := phoneService.UpdatePhone(phone.ID, stranger.ID, &UpdatePhoneRequest{Title: "Hijacked"})
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorized(err))

	newStock := 8
	updated, err := phoneService.UpdatePhone(phone.ID, seller.ID, &UpdatePhoneRequest{Stock: &newStock})
	require.NoError(t, err)
	assert.Equal(t, 8, reloadPhone(t, db, updated.ID).Stock)
}

func TestSearchPhonesExcludesDisabled(t *testing.T) {
	db := newTestDB(t)
	phoneService := newPhoneService(db)

	seller := createTestUser(t, db, "seller")
	createTestPhone(t, db, seller.ID, "Pixel 9", 799, 5)
	hidden := createTestPhone(t, db, seller.ID, "Galaxy S25", 899, 5)
	require.NoError(t, db.Model(&models.Phone{}).Where("id = ?", hidden.ID).
		Update("is_disabled", true).Error)

	phones, total, err := phoneService.SearchPhones(PhoneSearchParams{
		PaginationParams: utils.PaginationParams{Page: 1, Limit: 20, Sort: "created_at", Order: "desc"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, phones, 1)
	assert.Equal(t, "Pixel 9", phones[0].Title)
}

func TestDeletePhonePermissions(t *testing.T) {
	db := newTestDB(t)
	phoneService := newPhoneService(db)

	seller := createTestUser(t, db, "seller")
	stranger := createTestUser(t, db, "stranger")
	admin := createTestUser(t, db, "admin")
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", admin.ID).
		Update("role", models.UserRoleAdmin).Error)

	phone := createTestPhone(t, db, seller.ID, "Pixel 9", 799, 5)
	other := createTestPhone(t, db, seller.ID, "Galaxy S25", 899, 5)

	err := phoneService.DeletePhone(phone.ID, stranger.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorized(err))

	require.NoError(t, phoneService.DeletePhone(phone.ID, seller.ID))
	require.NoError(t, phoneService.DeletePhone(other.ID, admin.ID))

	assert.ErrorIs(t, db.First(&models.Phone{}, "id = ?", phone.ID).Error, gorm.ErrRecordNotFound)
	assert.ErrorIs(t, db.First(&models.Phone{}, "id = ?", other.ID).Error, gorm.ErrRecordNotFound)
}
