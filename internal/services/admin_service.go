// internal/services/admin_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/phonebay/phonebay-backend/internal/apperrors"
	"github.com/phonebay/phonebay-backend/internal/models"
	"github.com/phonebay/phonebay-backend/internal/utils"
)

type AdminService struct {
	db             *gorm.DB
	cascadeService *CascadeService
	auditService   *AuditService
}

type AdminDashboardStats struct {
	TotalUsers         int64   `json:"total_users"`
	ActiveUsers        int64   `json:"active_users"`
	NewUsersThisMonth  int64   `json:"new_users_this_month"`
	TotalPhones        int64   `json:"total_phones"`
	DisabledPhones     int64   `json:"disabled_phones"`
	TotalOrders        int64   `json:"total_orders"`
	OrdersThisMonth    int64   `json:"orders_this_month"`
	TotalRevenue       float64 `json:"total_revenue"`
	MonthlyRevenue     float64 `json:"monthly_revenue"`
	TotalReviews       int64   `json:"total_reviews"`
	HiddenReviews      int64   `json:"hidden_reviews"`
	OutOfStockListings int64   `json:"out_of_stock_listings"`
}

type AdminUserFilter struct {
	utils.PaginationParams
	Role          *models.UserRole `json:"role,omitempty"`
	IsDisabled    *bool            `json:"is_disabled,omitempty"`
	CreatedAfter  *time.Time       `json:"created_after,omitempty"`
	CreatedBefore *time.Time       `json:"created_before,omitempty"`
}

func NewAdminService(db *gorm.DB, cascadeService *CascadeService, auditService *AuditService) *AdminService {
	return &AdminService{
		db:             db,
		cascadeService: cascadeService,
		auditService:   auditService,
	}
}

func (s *AdminService) GetDashboardStats() (*AdminDashboardStats, error) {
	stats := &AdminDashboardStats{}
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	s.db.Model(&models.User{}).Count(&stats.TotalUsers)
	s.db.Model(&models.User{}).Where("is_disabled = ?", false).Count(&stats.ActiveUsers)
	s.db.Model(&models.User{}).Where("created_at >= ?", monthStart).Count(&stats.NewUsersThisMonth)

	s.db.Model(&models.Phone{}).Count(&stats.TotalPhones)
	s.db.Model(&models.Phone{}).Where("is_disabled = ?", true).Count(&stats.DisabledPhones)
	s.db.Model(&models.Phone{}).Where("stock = 0").Count(&stats.OutOfStockListings)

	s.db.Model(&models.Order{}).Count(&stats.TotalOrders)
	s.db.Model(&models.Order{}).Where("created_at >= ?", monthStart).Count(&stats.OrdersThisMonth)

	s.db.Model(&models.Order{}).
		Select("COALESCE(SUM(total_amount), 0)").Scan(&stats.TotalRevenue)
	s.db.Model(&models.Order{}).
		Where("created_at >= ?", monthStart).
		Select("COALESCE(SUM(total_amount), 0)").Scan(&stats.MonthlyRevenue)

	s.db.Model(&models.Review{}).Count(&stats.TotalReviews)
	s.db.Model(&models.Review{}).Where("is_hidden = ?", true).Count(&stats.HiddenReviews)

	return stats, nil
}

func (s *AdminService) GetUsers(filter AdminUserFilter) ([]models.User, int64, error) {
	query := s.db.Model(&models.User{})

	if filter.Role != nil {
		query = query.Where("role = ?", *filter.Role)
	}
	if filter.IsDisabled != nil {
		query = query.Where("is_disabled = ?", *filter.IsDisabled)
	}
	if filter.Search != "" {
		searchTerm := "%" + filter.Search + "%"
		query = query.Where("username LIKE ? OR email LIKE ?", searchTerm, searchTerm)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *filter.CreatedBefore)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "username", "email", "role"}
	query = utils.ApplySort(query, filter.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, filter.PaginationParams)

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch users: %w", err)
	}

	return users, total, nil
}

// SetUserDisabled enables or disables an account and records the mutation
// in the audit log.
func (s *AdminService) SetUserDisabled(userID uuid.UUID, disabled bool, adminID uuid.UUID, reason string) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("User %s not found", userID)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := s.db.Model(&user).Update("is_disabled", disabled).Error; err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	user.IsDisabled = disabled

	s.auditService.Record(&adminID, "user.set_disabled", "user", &userID, models.JSONB{
		"disabled": disabled,
		"reason":   reason,
	})

	return &user, nil
}

// DeleteUser runs the full user-deletion cascade on behalf of an admin.
func (s *AdminService) DeleteUser(userID, adminID uuid.UUID) error {
	return s.cascadeService.DeleteUser(userID, &adminID)
}

// DeletePhone runs the full phone-deletion cascade on behalf of an admin.
func (s *AdminService) DeletePhone(phoneID, adminID uuid.UUID) error {
	return s.cascadeService.DeletePhone(phoneID, &adminID)
}
