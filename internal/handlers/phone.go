// internal/handlers/phone.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/phonebay/phonebay-backend/internal/i18n"
	"github.com/phonebay/phonebay-backend/internal/services"
	"github.com/phonebay/phonebay-backend/internal/utils"
)

type PhoneHandler struct {
	phoneService   *services.PhoneService
	storageService *services.StorageService
}

func NewPhoneHandler(phoneService *services.PhoneService, storageService *services.StorageService) *PhoneHandler {
	return &PhoneHandler{
		phoneService:   phoneService,
		storageService: storageService,
	}
}

// GET /phones
func (h *PhoneHandler) GetPhones(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	searchParams := services.PhoneSearchParams{
		PaginationParams: params,
	}

	if brand := c.Query("brand"); brand != "" {
		searchParams.Brand = brand
	}

	if sellerIDStr := c.Query("seller_id"); sellerIDStr != "" {
		if sellerID, err := uuid.Parse(sellerIDStr); err == nil {
			searchParams.SellerID = &sellerID
		}
	}

	if priceMinStr := c.Query("price_min"); priceMinStr != "" {
		if priceMin, err := strconv.ParseFloat(priceMinStr, 64); err == nil {
			searchParams.PriceMin = &priceMin
		}
	}

	if priceMaxStr := c.Query("price_max"); priceMaxStr != "" {
		if priceMax, err := strconv.ParseFloat(priceMaxStr, 64); err == nil {
			searchParams.PriceMax = &priceMax
		}
	}

	if inStockStr := c.Query("in_stock"); inStockStr != "" {
		if inStock, err := strconv.ParseBool(inStockStr); err == nil {
			searchParams.InStock = &inStock
		}
	}

	phones, total, err := h.phoneService.SearchPhones(searchParams)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(phones, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /phones/popular
func (h *PhoneHandler) GetPopularPhones(c *gin.Context) {
	limitStr := c.DefaultQuery("limit", "10")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 1 || limit > 50 {
		limit = 10
	}

	phones, err := h.phoneService.GetPopularPhones(limit)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"phones": phones,
	})
}

// GET /phones/:id
func (h *PhoneHandler) GetPhone(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid phone ID", nil)
		return
	}

	phone, err := h.phoneService.GetPhone(id, viewerFromContext(c))
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"phone": phone,
	})
}

// POST /phones
func (h *PhoneHandler) CreatePhone(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	sellerID, ok := actorFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.CreatePhoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	phone, err := h.phoneService.CreatePhone(sellerID, &req)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyPhoneCreated),
		"phone":   phone,
	})
}

// PUT /phones/:id
func (h *PhoneHandler) UpdatePhone(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid phone ID", nil)
		return
	}

	sellerID, ok := actorFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.UpdatePhoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	phone, err := h.phoneService.UpdatePhone(id, sellerID, &req)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyPhoneUpdated),
		"phone":   phone,
	})
}

// DELETE /phones/:id
func (h *PhoneHandler) DeletePhone(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid phone ID", nil)
		return
	}

	actorID, ok := actorFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	if err := h.phoneService.DeletePhone(id, actorID); err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyPhoneDeleted),
	})
}

// POST /phones/upload-image
func (h *PhoneHandler) UploadPhoneImage(c *gin.Context) {
	if _, ok := actorFromContext(c); !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		utils.BadRequestResponse(c, "No image uploaded", err.Error())
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.BadRequestResponse(c, "Failed to read uploaded image", err.Error())
		return
	}
	defer file.Close()

	options := services.UploadOptions{
		Folder:       "phones",
		MaxSize:      10 * 1024 * 1024,
		AllowedTypes: []string{".jpg", ".jpeg", ".png", ".webp"},
		IsPublic:     true,
	}

	result, err := h.storageService.UploadFile(file, fileHeader, options)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"image": result,
	})
}
