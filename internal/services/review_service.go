// internal/services/review_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/phonebay/phonebay-backend/internal/apperrors"
	"github.com/phonebay/phonebay-backend/internal/models"
	"github.com/phonebay/phonebay-backend/internal/utils"
)

type ReviewService struct {
	db *gorm.DB
}

type AddReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

// FilterVisibleReviews applies the review visibility rule: a hidden review
// is visible only to the phone's seller and to its own author. Pure and
// deterministic; never fails.
func FilterVisibleReviews(reviews []models.Review, viewerID *uuid.UUID, sellerID uuid.UUID) []models.Review {
	visible := make([]models.Review, 0, len(reviews))
	for _, r := range reviews {
		if !r.IsHidden {
			visible = append(visible, r)
			continue
		}
		if viewerID != nil && (*viewerID == sellerID || *viewerID == r.ReviewerID) {
			visible = append(visible, r)
		}
	}
	return visible
}

// ListPhoneReviews returns the phone's reviews as the given viewer may see
// them.
func (s *ReviewService) ListPhoneReviews(phoneID uuid.UUID, viewerID *uuid.UUID) ([]models.Review, error) {
	phone, err := s.phoneWithReviews(phoneID)
	if err != nil {
		return nil, err
	}
	return FilterVisibleReviews(phone.Reviews, viewerID, phone.SellerID), nil
}

// AddReview appends a review to the phone. Sellers cannot review their own
// phones, and each reviewer gets exactly one review per phone.
func (s *ReviewService) AddReview(phoneID, reviewerID uuid.UUID, req *AddReviewRequest) (*models.Review, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.BadRequestf("validation failed: %v", err)
	}

	phone, err := s.phoneWithReviews(phoneID)
	if err != nil {
		return nil, err
	}

	if phone.IsDisabled {
		return nil, apperrors.BadRequestf("Phone %s is not available", phone.Title)
	}

	if reviewerID == phone.SellerID {
		return nil, apperrors.BadRequestf("You cannot review your own phone")
	}

	for _, r := range phone.Reviews {
		if r.ReviewerID == reviewerID {
			return nil, apperrors.BadRequestf("You have already reviewed this phone")
		}
	}

	review := &models.Review{
		PhoneID:    phoneID,
		ReviewerID: reviewerID,
		Rating:     req.Rating,
		Comment:    req.Comment,
		IsHidden:   false,
	}

	if err := s.db.Create(review).Error; err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	s.refreshRating(phoneID)
	return review, nil
}

// ToggleVisibility hides or unhides a review. Only the review's author and
// the phone's seller may do this.
func (s *ReviewService) ToggleVisibility(phoneID, reviewID, actorID uuid.UUID, isHidden bool) (*models.Review, error) {
	phone, review, err := s.reviewOnPhone(phoneID, reviewID)
	if err != nil {
		return nil, err
	}

	if actorID != review.ReviewerID && actorID != phone.SellerID {
		return nil, apperrors.Unauthorizedf("You are not allowed to change this review's visibility")
	}

	if err := s.db.Model(&models.Review{}).Where("id = ?", review.ID).
		Update("is_hidden", isHidden).Error; err != nil {
		return nil, fmt.Errorf("failed to update review: %w", err)
	}

	review.IsHidden = isHidden
	return review, nil
}

// DeleteReview removes a review. Only its author may delete it.
func (s *ReviewService) DeleteReview(phoneID, reviewID, actorID uuid.UUID) error {
	_, review, err := s.reviewOnPhone(phoneID, reviewID)
	if err != nil {
		return err
	}

	if actorID != review.ReviewerID {
		return apperrors.Unauthorizedf("You are not allowed to delete this review")
	}

	if err := s.db.Delete(&models.Review{}, "id = ?", review.ID).Error; err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}

	s.refreshRating(phoneID)
	return nil
}

// AdminListReviews is the privileged listing path: it bypasses the
// visibility filter entirely and always returns every review.
func (s *ReviewService) AdminListReviews(phoneID uuid.UUID) ([]models.Review, error) {
	phone, err := s.phoneWithReviews(phoneID)
	if err != nil {
		return nil, err
	}
	return phone.Reviews, nil
}

func (s *ReviewService) phoneWithReviews(phoneID uuid.UUID) (*models.Phone, error) {
	var phone models.Phone
	if err := s.db.Preload("Reviews").First(&phone, "id = ?", phoneID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("Phone %s not found", phoneID)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &phone, nil
}

func (s *ReviewService) reviewOnPhone(phoneID, reviewID uuid.UUID) (*models.Phone, *models.Review, error) {
	phone, err := s.phoneWithReviews(phoneID)
	if err != nil {
		return nil, nil, err
	}
	for i := range phone.Reviews {
		if phone.Reviews[i].ID == reviewID {
			return phone, &phone.Reviews[i], nil
		}
	}
	return nil, nil, apperrors.NotFoundf("Review %s not found on phone %s", reviewID, phoneID)
}

// refreshRating recomputes the phone's derived rating counters. Hidden
// reviews still count: hiding moderates display, not the score.
func (s *ReviewService) refreshRating(phoneID uuid.UUID) {
	var stats struct {
		Rating      float64
		ReviewCount int64
	}
	if err := s.db.Model(&models.Review{}).Where("phone_id = ?", phoneID).
		Select("COALESCE(AVG(rating), 0) AS rating, COUNT(*) AS review_count").
		Scan(&stats).Error; err != nil {
		logrus.WithError(err).WithField("phone_id", phoneID).Warn("Failed to recompute phone rating")
		return
	}

	if err := s.db.Model(&models.Phone{}).Where("id = ?", phoneID).
		UpdateColumns(map[string]interface{}{
			"rating":       stats.Rating,
			"review_count": stats.ReviewCount,
		}).Error; err != nil {
		logrus.WithError(err).WithField("phone_id", phoneID).Warn("Failed to store phone rating")
	}
}
