// internal/services/user_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/phonebay/phonebay-backend/internal/apperrors"
	"github.com/phonebay/phonebay-backend/internal/models"
	"github.com/phonebay/phonebay-backend/internal/utils"
)

type UserService struct {
	db             *gorm.DB
	cascadeService *CascadeService
}

type UpdateUserProfileRequest struct {
	Username    string                 `json:"username,omitempty" validate:"omitempty,username"`
	ProfileData map[string]interface{} `json:"profile_data,omitempty"`
}

func NewUserService(db *gorm.DB, cascadeService *CascadeService) *UserService {
	return &UserService{
		db:             db,
		cascadeService: cascadeService,
	}
}

func (s *UserService) GetUserByID(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("User %s not found", userID)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}

func (s *UserService) GetPublicProfile(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.Select("id, username, role, profile_data, created_at").
		First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("User %s not found", userID)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}

func (s *UserService) UpdateProfile(userID uuid.UUID, req *UpdateUserProfileRequest) (*models.User, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.BadRequestf("validation failed: %v", err)
	}

	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	if req.Username != "" && req.Username != user.Username {
		var existing models.User
		if err := s.db.Where("username = ? AND id != ?", req.Username, userID).
			First(&existing).Error; err == nil {
			return nil, apperrors.BadRequestf("Username already taken")
		}
		user.Username = req.Username
	}

	if req.ProfileData != nil {
		if user.ProfileData == nil {
			user.ProfileData = make(models.JSONB)
		}
		for key, value := range req.ProfileData {
			user.ProfileData[key] = value
		}
	}

	if err := s.db.Save(user).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return user, nil
}

// AddToWishlist puts a phone id on the user's wishlist. The list is a set:
// re-adding an id is a no-op.
func (s *UserService) AddToWishlist(userID, phoneID uuid.UUID) (*models.User, error) {
	var phone models.Phone
	if err := s.db.First(&phone, "id = ?", phoneID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("Phone %s not found", phoneID)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	if user.WishlistContains(phoneID.String()) {
		return user, nil
	}

	user.Wishlist = append(user.Wishlist, phoneID.String())
	if err := s.db.Model(&models.User{}).Where("id = ?", userID).
		Update("wishlist", user.Wishlist).Error; err != nil {
		return nil, fmt.Errorf("failed to update wishlist: %w", err)
	}

	return user, nil
}

func (s *UserService) RemoveFromWishlist(userID, phoneID uuid.UUID) (*models.User, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	if !user.RemoveFromWishlist(phoneID.String()) {
		return user, nil
	}

	if err := s.db.Model(&models.User{}).Where("id = ?", userID).
		Update("wishlist", user.Wishlist).Error; err != nil {
		return nil, fmt.Errorf("failed to update wishlist: %w", err)
	}

	return user, nil
}

// GetWishlistPhones resolves the wishlist to live phones. Ids whose phone
// has since been deleted or disabled are skipped, not errors.
func (s *UserService) GetWishlistPhones(userID uuid.UUID) ([]models.Phone, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	if len(user.Wishlist) == 0 {
		return []models.Phone{}, nil
	}

	var phones []models.Phone
	if err := s.db.Where("id IN ? AND is_disabled = ?", []string(user.Wishlist), false).
		Find(&phones).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch wishlist phones: %w", err)
	}

	return phones, nil
}

// DeleteAccount verifies the password and runs the full user-deletion
// cascade.
func (s *UserService) DeleteAccount(userID uuid.UUID, password string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}

	if err := user.CheckPassword(password); err != nil {
		return apperrors.Unauthorizedf("Invalid password")
	}

	return s.cascadeService.DeleteUser(userID, &userID)
}
