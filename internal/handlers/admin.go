// internal/handlers/admin.go
package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/phonebay/phonebay-backend/internal/i18n"
	"github.com/phonebay/phonebay-backend/internal/models"
	"github.com/phonebay/phonebay-backend/internal/services"
	"github.com/phonebay/phonebay-backend/internal/utils"
)

type AdminHandler struct {
	adminService   *services.AdminService
	auditService   *services.AuditService
	phoneService   *services.PhoneService
	reviewService  *services.ReviewService
	paymentService *services.PaymentService
}

func NewAdminHandler(
	adminService *services.AdminService,
	auditService *services.AuditService,
	phoneService *services.PhoneService,
	reviewService *services.ReviewService,
	paymentService *services.PaymentService,
) *AdminHandler {
	return &AdminHandler{
		adminService:   adminService,
		auditService:   auditService,
		phoneService:   phoneService,
		reviewService:  reviewService,
		paymentService: paymentService,
	}
}

// GET /admin/dashboard
func (h *AdminHandler) GetDashboard(c *gin.Context) {
	stats, err := h.adminService.GetDashboardStats()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"stats": stats,
	})
}

// GET /admin/users
func (h *AdminHandler) GetUsers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	filter := services.AdminUserFilter{
		PaginationParams: params,
	}

	if roleStr := c.Query("role"); roleStr != "" {
		role := models.UserRole(roleStr)
		filter.Role = &role
	}

	if disabledStr := c.Query("is_disabled"); disabledStr != "" {
		if disabled, err := strconv.ParseBool(disabledStr); err == nil {
			filter.IsDisabled = &disabled
		}
	}

	if afterStr := c.Query("created_after"); afterStr != "" {
		if after, err := time.Parse(time.RFC3339, afterStr); err == nil {
			filter.CreatedAfter = &after
		}
	}

	if beforeStr := c.Query("created_before"); beforeStr != "" {
		if before, err := time.Parse(time.RFC3339, beforeStr); err == nil {
			filter.CreatedBefore = &before
		}
	}

	users, total, err := h.adminService.GetUsers(filter)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(users, total, params)
	utils.PaginatedResponse(c, result)
}

type setUserStatusRequest struct {
	IsDisabled *bool  `json:"is_disabled" binding:"required"`
	Reason     string `json:"reason"`
}

// PUT /admin/users/:id/status
func (h *AdminHandler) SetUserStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	adminID, ok := actorFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return
	}

	var req setUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	user, err := h.adminService.SetUserDisabled(userID, *req.IsDisabled, adminID, req.Reason)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyAdminUserUpdated),
		"user":    user,
	})
}

// DELETE /admin/users/:id
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	adminID, ok := actorFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return
	}

	if err := h.adminService.DeleteUser(userID, adminID); err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyUserDeleted),
	})
}

type setPhoneStatusRequest struct {
	IsDisabled *bool `json:"is_disabled" binding:"required"`
}

// PUT /admin/phones/:id/status
func (h *AdminHandler) SetPhoneStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	phoneID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid phone ID", nil)
		return
	}

	var req setPhoneStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	phone, err := h.phoneService.SetDisabled(phoneID, *req.IsDisabled)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyPhoneUpdated),
		"phone":   phone,
	})
}

// DELETE /admin/phones/:id
func (h *AdminHandler) DeletePhone(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	adminID, ok := actorFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	phoneID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid phone ID", nil)
		return
	}

	if err := h.adminService.DeletePhone(phoneID, adminID); err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyPhoneDeleted),
	})
}

// GET /admin/phones/:id/reviews
func (h *AdminHandler) GetPhoneReviews(c *gin.Context) {
	phoneID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid phone ID", nil)
		return
	}

	reviews, err := h.reviewService.AdminListReviews(phoneID)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"reviews": reviews,
	})
}

// GET /admin/audit-logs
func (h *AdminHandler) GetAuditLogs(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	filter := services.AuditLogFilter{
		PaginationParams: params,
		Action:           c.Query("action"),
		TargetType:       c.Query("target_type"),
	}

	if actorIDStr := c.Query("actor_id"); actorIDStr != "" {
		if actorID, err := uuid.Parse(actorIDStr); err == nil {
			filter.ActorID = &actorID
		}
	}

	logs, total, err := h.auditService.List(filter)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(logs, total, params)
	utils.PaginatedResponse(c, result)
}

// POST /admin/refunds
func (h *AdminHandler) ProcessRefund(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if err := h.paymentService.ProcessRefund(&req); err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Refund processed",
	})
}
