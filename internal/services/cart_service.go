// internal/services/cart_service.go
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

type CartService struct {
	db *gorm.DB
}

type AddToCartRequest struct {
	PhoneID  uuid.UUID `json:"phone_id" validate:"required"`
	Quantity int       `json:"quantity" validate:"required,min=1"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db}
}

// GetCart returns the user's cart, creating an empty one on first access.
func (s *CartService) GetCart(userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := s.db.Preload("Items").Where("user_id = ?", userID).First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("database error: %w", err)
	}

	cart = models.Cart{UserID: userID}
	if err := s.db.Create(&cart).Error; err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}
	return &cart, nil
}

// AddToCart appends a line item or tops up an existing one. The phone's
// price is snapshotted into the line when it is first added.
func (s *CartService) AddToCart(userID uuid.UUID, req *AddToCartRequest) (*models.Cart, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.BadRequestf("validation failed: %v", err)
	}

	phone, err := s.sellablePhone(req.PhoneID)
	if err != nil {
		return nil, err
	}

	cart, err := s.GetCart(userID)
	if err != nil {
		return nil, err
	}

	if item := cart.ItemFor(req.PhoneID); item != nil {
		newQuantity := item.Quantity + req.Quantity
		if newQuantity > phone.Stock {
			return nil, apperrors.BadRequestf(
				"Insufficient stock for phone %s. Available: %d, Requested: %d",
				phone.Title, phone.Stock, newQuantity)
		}
		item.Quantity = newQuantity
		if err := s.db.Model(&models.CartItem{}).Where("id = ?", item.ID).
			Update("quantity", newQuantity).Error; err != nil {
			return nil, fmt.Errorf("failed to update cart item: %w", err)
		}
		return s.GetCart(userID)
	}

	if req.Quantity > phone.Stock {
		return nil, apperrors.BadRequestf(
			"Insufficient stock for phone %s. Available: %d, Requested: %d",
			phone.Title, phone.Stock, req.Quantity)
	}

	item := models.CartItem{
		CartID:   cart.ID,
		PhoneID:  phone.ID,
		Quantity: req.Quantity,
		Price:    phone.Price,
	}
	if err := s.db.Create(&item).Error; err != nil {
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}

	return s.GetCart(userID)
}

// UpdateCartItem replaces the quantity of an existing line item.
func (s *CartService) UpdateCartItem(userID, phoneID uuid.UUID, req *UpdateCartItemRequest) (*models.Cart, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.BadRequestf("validation failed: %v", err)
	}

	cart, err := s.GetCart(userID)
	if err != nil {
		return nil, err
	}

	item := cart.ItemFor(phoneID)
	if item == nil {
		return nil, apperrors.NotFoundf("Phone %s is not in the cart", phoneID)
	}

	phone, err := s.sellablePhone(phoneID)
	if err != nil {
		return nil, err
	}

	if req.Quantity > phone.Stock {
		return nil, apperrors.BadRequestf(
			"Insufficient stock for phone %s. Available: %d, Requested: %d",
			phone.Title, phone.Stock, req.Quantity)
	}

	if err := s.db.Model(&models.CartItem{}).Where("id = ?", item.ID).
		Update("quantity", req.Quantity).Error; err != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}

	return s.GetCart(userID)
}

// RemoveFromCart drops the line item for the given phone.
func (s *CartService) RemoveFromCart(userID, phoneID uuid.UUID) (*models.Cart, error) {
	cart, err := s.GetCart(userID)
	if err != nil {
		return nil, err
	}

	item := cart.ItemFor(phoneID)
	if item == nil {
		return nil, apperrors.NotFoundf("Phone %s is not in the cart", phoneID)
	}

	if err := s.db.Delete(&models.CartItem{}, "id = ?", item.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to remove cart item: %w", err)
	}

	return s.GetCart(userID)
}

func (s *CartService) sellablePhone(phoneID uuid.UUID) (*models.Phone, error) {
	var phone models.Phone
	if err := s.db.First(&phone, "id = ?", phoneID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("Phone %s not found", phoneID)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if phone.IsDisabled {
		return nil, apperrors.BadRequestf("Phone %s is not available", phone.Title)
	}
	return &phone, nil
}
