// internal/services/review_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phonebay/phonebay-backend/internal/apperrors"
	"github.com/phonebay/phonebay-backend/internal/models"
)

func TestFilterVisibleReviews(t *testing.T) {
	sellerID := uuid.New()
	authorID := uuid.New()
	strangerID := uuid.New()

	visible := models.Review{ReviewerID: authorID, Rating: 5}
	hidden := models.Review{ReviewerID: authorID, Rating: 1, IsHidden: true}
	reviews := []models.Review{visible, hidden}

	tests := []struct {
		name     string
		viewerID *uuid.UUID
		want     int
	}{
		{"anonymous sees only visible", nil, 1},
		{"stranger sees only visible", &strangerID, 1},
		{"author sees own hidden review", &authorID, 2},
		{"seller sees hidden reviews", &sellerID, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterVisibleReviews(reviews, tt.viewerID, sellerID)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestAddReviewRules(t *testing.T) {
	db := newTestDB(t)
	reviewService := NewReviewService(db)

	seller := createTestUser(t, db, "seller")
	buyer := createTestUser(t, db, "buyer")
	phone := createTestPhone(t, db, seller.ID, "Pixel 9", 799, 5)

	// Sellers cannot review their own listing.
	_, err := reviewService.AddReview(phone.ID, seller.ID, &AddReviewRequest{Rating: 5})
	require.Error(t, err)
	assert.True(t, apperrors.IsBadRequest(err))

	// First review goes through.
	review, err := reviewService.AddReview(phone.ID, buyer.ID, &AddReviewRequest{Rating: 4, Comment: "solid"})
	require.NoError(t, err)
	assert.Equal(t, 4, review.Rating)

	// One review per reviewer per phone.
	_, err = reviewService.AddReview(phone.ID, buyer.ID, &AddReviewRequest{Rating: 2})
	require.Error(t, err)
	assert.True(t, apperrors.IsBadRequest(err))
	assert.Contains(t, err.Error(), "already reviewed")

	// Unknown phone.
	_, err = reviewService.AddReview(uuid.New(), buyer.ID, &AddReviewRequest{Rating: 3})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestAddReviewRejectsDisabledPhone(t *testing.T) {
	db := newTestDB(t)
	reviewService := NewReviewService(db)

	seller := createTestUser(t, db, "seller")
	buyer := createTestUser(t, db, "buyer")
	phone := createTestPhone(t, db, seller.ID, "Pixel 9", 799, 5)

	require.NoError(t, db.Model(&models.Phone{}).Where("id = ?", phone.ID).
		Update("is_disabled", true).Error)

	_, err := reviewService.AddReview(phone.ID, buyer.ID, &AddReviewRequest{Rating: 4})
	require.Error(t, err)
	assert.True(t, apperrors.IsBadRequest(err))
}

func TestToggleVisibilityAuthorization(t *testing.T) {
	db := newTestDB(t)
	reviewService := NewReviewService(db)

	seller := createTestUser(t, db, "seller")
	buyer := createTestUser(t, db, "buyer")
	stranger := createTestUser(t, db, "stranger")
	phone := createTestPhone(t, db, seller.ID, "Pixel 9", 799, 5)

	review, err := reviewService.AddReview(phone.ID, buyer.ID, &AddReviewRequest{Rating: 2, Comment: "meh"})
	require.NoError(t, err)

	// A stranger may not touch it.
	_, err = reviewService.ToggleVisibility(phone.ID, review.ID, stranger.ID, true)
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorized(err))

	// The seller can hide it.
	hidden, err := reviewService.ToggleVisibility(phone.ID, review.ID, seller.ID, true)
	require.NoError(t, err)
	assert.True(t, hidden.IsHidden)

	// The author can unhide it again.
	shown, err := reviewService.ToggleVisibility(phone.ID, review.ID, buyer.ID, false)
	require.NoError(t, err)
	assert.False(t, shown.IsHidden)

	// Unknown review id on a known phone.
	_, err = reviewService.ToggleVisibility(phone.ID, uuid.New(), seller.ID, true)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestHiddenReviewVisibility(t *testing.T) {
	db := newTestDB(t)
	reviewService := NewReviewService(db)

	seller := createTestUser(t, db, "seller")
	buyer := createTestUser(t, db, "buyer")
	stranger := createTestUser(t, db, "stranger")
	phone := createTestPhone(t, db, seller.ID, "Pixel 9", 799, 5)

	review, err := reviewService.AddReview(phone.ID, buyer.ID, &AddReviewRequest{Rating: 1, Comment: "bad"})
	require.NoError(t, err)

	_, err = reviewService.ToggleVisibility(phone.ID, review.ID, seller.ID, true)
	require.NoError(t, err)

	anon, err := reviewService.ListPhoneReviews(phone.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, anon)

	other, err := reviewService.ListPhoneReviews(phone.ID, &stranger.ID)
	require.NoError(t, err)
	assert.Empty(t, other)

	asAuthor, err := reviewService.ListPhoneReviews(phone.ID, &buyer.ID)
	require.NoError(t, err)
	assert.Len(t, asAuthor, 1)

	asSeller, err := reviewService.ListPhoneReviews(phone.ID, &seller.ID)
	require.NoError(t, err)
	assert.Len(t, asSeller, 1)

	// The privileged listing ignores visibility entirely.
	all, err := reviewService.AdminListReviews(phone.ID)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestHidingDoesNotChangeRating(t *testing.T) {
	db := newTestDB(t)
	reviewService := NewReviewService(db)

	seller := createTestUser(t, db, "seller")
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	phone := createTestPhone(t, db, seller.ID, "Pixel 9", 799, 5)

	_, err := reviewService.AddReview(phone.ID, alice.ID, &AddReviewRequest{Rating: 5})
	require.NoError(t, err)
	low, err := reviewService.AddReview(phone.ID, bob.ID, &AddReviewRequest{Rating: 1})
	require.NoError(t, err)

	assert.InDelta(t, 3.0, reloadPhone(t, db, phone.ID).Rating, 0.001)
	assert.Equal(t, int64(2), reloadPhone(t, db, phone.ID).ReviewCount)

	// Hiding moderates display, not the score.
	_, err = reviewService.ToggleVisibility(phone.ID, low.ID, seller.ID, true)
	require.NoError(t, err)

	assert.InDelta(t, 3.0, reloadPhone(t, db, phone.ID).Rating, 0.001)
	assert.Equal(t, int64(2), reloadPhone(t, db, phone.ID).ReviewCount)
}

func TestDeleteReview(t *testing.T) {
	db := newTestDB(t)
	reviewService := NewReviewService(db)

	seller := createTestUser(t, db, "seller")
	buyer := createTestUser(t, db, "buyer")
	phone := createTestPhone(t, db, seller.ID, "Pixel 9", 799, 5)

	review, err := reviewService.AddReview(phone.ID, buyer.ID, &AddReviewRequest{Rating: 2})
	require.NoError(t, err)

	// Not even the seller may delete someone else's review.
	err = reviewService.DeleteReview(phone.ID, review.ID, seller.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorized(err))

	require.NoError(t, reviewService.DeleteReview(phone.ID, review.ID, buyer.ID))

	assert.Equal(t, int64(0), reloadPhone(t, db, phone.ID).ReviewCount)
	assert.InDelta(t, 0.0, reloadPhone(t, db, phone.ID).Rating, 0.001)

	// Deleting frees the one-review-per-phone slot.
	_, err = reviewService.AddReview(phone.ID, buyer.ID, &AddReviewRequest{Rating: 5})
	assert.NoError(t, err)
}
