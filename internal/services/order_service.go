// internal/services/order_service.go
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

type OrderService struct {
	db                  *gorm.DB
	notificationService *NotificationService
}

type CheckoutRequest struct {
	Address string `json:"address" validate:"required,min=5,max=512"`
}

func NewOrderService(db *gorm.DB, notificationService *NotificationService) *OrderService {
	return &OrderService{
		db:                  db,
		notificationService: notificationService,
	}
}

// Checkout turns the user's cart into an order.
//
// Every line is validated before anything is written; the first violation
// aborts with zero side effects. After validation the order is durably
// written first, then inventory is decremented, then the cart is cleared —
// a crash mid-sequence leaves a reconcilable phantom order rather than a
// lost one. There is no rollback once the order write has happened.
func (s *OrderService) Checkout(userID uuid.UUID, req *CheckoutRequest) (*models.Order, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.BadRequestf("validation failed: %v", err)
	}

	var cart models.Cart
	if err := s.db.Preload("Items").Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("Cart not found for user %s", userID)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if len(cart.Items) == 0 {
		return nil, apperrors.BadRequestf("Cart is empty")
	}

	phones := make(map[uuid.UUID]*models.Phone, len(cart.Items))
	for _, item := range cart.Items {
		var phone models.Phone
		if err := s.db.First(&phone, "id = ?", item.PhoneID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.NotFoundf("Phone %s not found", item.PhoneID)
			}
			return nil, fmt.Errorf("database error: %w", err)
		}
		if phone.IsDisabled {
			return nil, apperrors.BadRequestf("Phone %s is not available", phone.Title)
		}
		if item.Quantity > phone.Stock {
			return nil, apperrors.BadRequestf(
				"Insufficient stock for phone %s. Available: %d, Requested: %d",
				phone.Title, phone.Stock, item.Quantity)
		}
		phones[item.PhoneID] = &phone
	}

	order := &models.Order{
		UserID:  userID,
		Address: req.Address,
	}

	var total float64
	for _, item := range cart.Items {
		// The cart's stored price snapshot is what gets charged, not the
		// live phone price.
		total += float64(item.Quantity) * item.Price
		order.Items = append(order.Items, models.OrderItem{
			PhoneID:  item.PhoneID,
			Title:    phones[item.PhoneID].Title,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}
	order.TotalAmount = total

	if err := s.db.Create(order).Error; err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	for _, item := range cart.Items {
		if err := s.db.Model(&models.Phone{}).Where("id = ?", item.PhoneID).
			UpdateColumns(map[string]interface{}{
				"stock":       gorm.Expr("stock - ?", item.Quantity),
				"sales_count": gorm.Expr("COALESCE(sales_count, 0) + ?", item.Quantity),
			}).Error; err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"order_id": order.ID,
				"phone_id": item.PhoneID,
			}).Error("Inventory update failed after order write")
		}
	}

	if err := s.db.Delete(&models.CartItem{}, "cart_id = ?", cart.ID).Error; err != nil {
		logrus.WithError(err).WithField("cart_id", cart.ID).
			Error("Failed to clear cart after checkout")
	}

	if s.notificationService != nil {
		go s.sendOrderConfirmation(order)
	}

	s.db.Preload("Items").First(order, "id = ?", order.ID)
	return order, nil
}

func (s *OrderService) GetOrder(orderID, userID uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := s.db.Preload("Items").First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("Order %s not found", orderID)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if order.UserID != userID {
		return nil, apperrors.Unauthorizedf("Order %s does not belong to you", orderID)
	}
	return &order, nil
}

func (s *OrderService) GetUserOrders(userID uuid.UUID, params utils.PaginationParams) ([]models.Order, int64, error) {
	query := s.db.Model(&models.Order{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	allowedSortFields := []string{"created_at", "total_amount"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var orders []models.Order
	if err := query.Preload("Items").Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch orders: %w", err)
	}

	return orders, total, nil
}

func (s *OrderService) sendOrderConfirmation(order *models.Order) {
	var user models.User
	if err := s.db.First(&user, "id = ?", order.UserID).Error; err != nil {
		logrus.WithError(err).WithField("order_id", order.ID).
			Warn("Skipping order confirmation, user lookup failed")
		return
	}
	if err := s.notificationService.SendOrderConfirmationEmail(&user, order); err != nil {
		logrus.WithError(err).WithField("order_id", order.ID).
			Warn("Failed to send order confirmation email")
	}
}
