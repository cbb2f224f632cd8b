package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	authapi "github.com/miboks/miboks-server/internal/auth/api"
	"github.com/miboks/miboks-server/internal/platform/logger"
	"github.com/miboks/miboks-server/internal/settings/domain"
	"github.com/miboks/miboks-server/internal/settings/repository"
	"github.com/miboks/miboks-server/internal/settings/service"
)

type SettingsHandler struct {
	settingsService service.SettingsService
}

func NewSettingsHandler(ss service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: ss}
}

func (h *SettingsHandler) RegisterRoutes(router *gin.RouterGroup) {
	settingsRoutes := router.Group("/settings")
	{
		settingsRoutes.GET("/profile", h.GetProfile)
		settingsRoutes.PUT("/profile", h.UpdateProfile)
		settingsRoutes.POST("/profile/logo", h.UploadLogo)
		settingsRoutes.GET("/payment-methods", h.ListPaymentMethods)
		settingsRoutes.POST("/payment-methods", h.AddPaymentMethod)
		settingsRoutes.DELETE("/payment-methods/:id", h.DeletePaymentMethod)
	}
}

func (h *SettingsHandler) GetProfile(c *gin.Context) {
	profile, err := h.settingsService.GetProfile(c.Request.Context(), authapi.VendorID(c))
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		logger.Error("GetProfile Hdl: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get profile"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *SettingsHandler) UpdateProfile(c *gin.Context) {
	var req domain.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	profile, err := h.settingsService.UpdateProfile(c.Request.Context(), authapi.VendorID(c), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingBusinessName), errors.Is(err, service.ErrMissingEmail):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, repository.ErrProfileNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			logger.Error("UpdateProfile Hdl: service error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		}
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *SettingsHandler) UploadLogo(c *gin.Context) {
	fileHeader, err := c.FormFile("logo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "logo file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error("UploadLogo Hdl: failed to open upload", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer file.Close()

	url, err := h.settingsService.UploadLogo(c.Request.Context(), authapi.VendorID(c), fileHeader.Filename, file)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		logger.Error("UploadLogo Hdl: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload logo"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url})
}

func (h *SettingsHandler) ListPaymentMethods(c *gin.Context) {
	prefs, err := h.settingsService.ListPaymentMethods(c.Request.Context(), authapi.VendorID(c))
	if err != nil {
		logger.Error("ListPaymentMethods Hdl: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list payment methods"})
		return
	}
	c.JSON(http.StatusOK, prefs)
}

func (h *SettingsHandler) AddPaymentMethod(c *gin.Context) {
	var req domain.AddPaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	pref, err := h.settingsService.AddPaymentMethod(c.Request.Context(), authapi.VendorID(c), req)
	if err != nil {
		logger.Error("AddPaymentMethod Hdl: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add payment method"})
		return
	}
	c.JSON(http.StatusCreated, pref)
}

func (h *SettingsHandler) DeletePaymentMethod(c *gin.Context) {
	err := h.settingsService.DeletePaymentMethod(c.Request.Context(), authapi.VendorID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrPaymentMethodNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		logger.Error("DeletePaymentMethod Hdl: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete payment method"})
		return
	}
	c.Status(http.StatusNoContent)
}
