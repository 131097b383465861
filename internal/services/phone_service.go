// internal/services/phone_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/phonebay/phonebay-backend/internal/apperrors"
	"github.com/phonebay/phonebay-backend/internal/models"
	"github.com/phonebay/phonebay-backend/internal/utils"
)

type PhoneService struct {
	db             *gorm.DB
	cascadeService *CascadeService
}

type CreatePhoneRequest struct {
	Title       string  `json:"title" validate:"required,min=3,max=255"`
	Brand       string  `json:"brand" validate:"required,max=100"`
	Description string  `json:"description" validate:"max=5000"`
	Price       float64 `json:"price" validate:"min=0"`
	Stock       int     `json:"stock" validate:"min=0"`
	ImageURL    string  `json:"image_url,omitempty" validate:"omitempty,url"`
}

type UpdatePhoneRequest struct {
	Title       string   `json:"title,omitempty" validate:"omitempty,min=3,max=255"`
	Brand       string   `json:"brand,omitempty" validate:"omitempty,max=100"`
	Description string   `json:"description,omitempty" validate:"omitempty,max=5000"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,min=0"`
	Stock       *int     `json:"stock,omitempty" validate:"omitempty,min=0"`
	ImageURL    string   `json:"image_url,omitempty" validate:"omitempty,url"`
}

type PhoneSearchParams struct {
	utils.PaginationParams
	Brand    string     `json:"brand,omitempty"`
	SellerID *uuid.UUID `json:"seller_id,omitempty"`
	PriceMin *float64   `json:"price_min,omitempty"`
	PriceMax *float64   `json:"price_max,omitempty"`
	InStock  *bool      `json:"in_stock,omitempty"`
}

func NewPhoneService(db *gorm.DB, cascadeService *CascadeService) *PhoneService {
	return &PhoneService{
		db:             db,
		cascadeService: cascadeService,
	}
}

func (s *PhoneService) CreatePhone(sellerID uuid.UUID, req *CreatePhoneRequest) (*models.Phone, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.BadRequestf("validation failed: %v", err)
	}

	var seller models.User
	if err := s.db.First(&seller, "id = ?", sellerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("Seller %s not found", sellerID)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if seller.IsDisabled {
		return nil, apperrors.BadRequestf("Your account is disabled")
	}

	phone := &models.Phone{
		SellerID:    sellerID,
		Title:       req.Title,
		Brand:       req.Brand,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
	}

	if err := s.db.Create(phone).Error; err != nil {
		return nil, fmt.Errorf("failed to create phone: %w", err)
	}

	return phone, nil
}

// GetPhone returns a phone with its reviews filtered for the viewer.
// Disabled phones are visible only to their seller and to admins.
func (s *PhoneService) GetPhone(id uuid.UUID, viewerID *uuid.UUID) (*models.Phone, error) {
	var phone models.Phone
	if err := s.db.Preload("Reviews").First(&phone, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("Phone %s not found", id)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if phone.IsDisabled && !s.mayViewDisabled(&phone, viewerID) {
		return nil, apperrors.NotFoundf("Phone %s not found", id)
	}

	phone.Reviews = FilterVisibleReviews(phone.Reviews, viewerID, phone.SellerID)
	return &phone, nil
}

func (s *PhoneService) UpdatePhone(id, sellerID uuid.UUID, req *UpdatePhoneRequest) (*models.Phone, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.BadRequestf("validation failed: %v", err)
	}

	var phone models.Phone
	if err := s.db.First(&phone, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("Phone %s not found", id)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if phone.SellerID != sellerID {
		return nil, apperrors.Unauthorizedf("You are not allowed to update this phone")
	}

	updates := make(map[string]interface{})
	if req.Title != "" {
		updates["title"] = req.Title
	}
	if req.Brand != "" {
		updates["brand"] = req.Brand
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Stock != nil {
		updates["stock"] = *req.Stock
	}
	if req.ImageURL != "" {
		updates["image_url"] = req.ImageURL
	}

	if len(updates) > 0 {
		if err := s.db.Model(&phone).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update phone: %w", err)
		}
	}

	return &phone, nil
}

func (s *PhoneService) SearchPhones(params PhoneSearchParams) ([]models.Phone, int64, error) {
	query := s.db.Model(&models.Phone{}).Where("is_disabled = ?", false)

	if params.Brand != "" {
		query = query.Where("brand = ?", params.Brand)
	}
	if params.SellerID != nil {
		query = query.Where("seller_id = ?", *params.SellerID)
	}
	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", searchTerm, searchTerm)
	}
	if params.PriceMin != nil {
		query = query.Where("price >= ?", *params.PriceMin)
	}
	if params.PriceMax != nil {
		query = query.Where("price <= ?", *params.PriceMax)
	}
	if params.InStock != nil && *params.InStock {
		query = query.Where("stock > 0")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count phones: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "title", "price", "sales_count", "rating"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var phones []models.Phone
	if err := query.Find(&phones).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch phones: %w", err)
	}

	return phones, total, nil
}

func (s *PhoneService) GetPopularPhones(limit int) ([]models.Phone, error) {
	var phones []models.Phone
	if err := s.db.Where("is_disabled = ?", false).
		Order("sales_count DESC, rating DESC").
		Limit(limit).
		Find(&phones).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch popular phones: %w", err)
	}
	return phones, nil
}

// SetDisabled flips a phone's availability. Admin only; enforced by the
// caller.
func (s *PhoneService) SetDisabled(id uuid.UUID, disabled bool) (*models.Phone, error) {
	var phone models.Phone
	if err := s.db.First(&phone, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("Phone %s not found", id)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := s.db.Model(&phone).Update("is_disabled", disabled).Error; err != nil {
		return nil, fmt.Errorf("failed to update phone: %w", err)
	}

	phone.IsDisabled = disabled
	return &phone, nil
}

// DeletePhone runs the full deletion cascade. The seller and admins may
// delete; everyone else gets Unauthorized.
func (s *PhoneService) DeletePhone(id, actorID uuid.UUID) error {
	var phone models.Phone
	if err := s.db.First(&phone, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFoundf("Phone %s not found", id)
		}
		return fmt.Errorf("database error: %w", err)
	}

	if phone.SellerID != actorID && !s.isAdmin(actorID) {
		return apperrors.Unauthorizedf("You are not allowed to delete this phone")
	}

	return s.cascadeService.DeletePhone(id, &actorID)
}

func (s *PhoneService) mayViewDisabled(phone *models.Phone, viewerID *uuid.UUID) bool {
	if viewerID == nil {
		return false
	}
	if *viewerID == phone.SellerID {
		return true
	}
	return s.isAdmin(*viewerID)
}

func (s *PhoneService) isAdmin(userID uuid.UUID) bool {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return false
	}
	return user.Role == models.UserRoleAdmin
}
