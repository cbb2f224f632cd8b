package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	authapi "github.com/miboks/miboks-server/internal/auth/api"
	"github.com/miboks/miboks-server/internal/platform/logger"
	"github.com/miboks/miboks-server/internal/suppliers/domain"
	"github.com/miboks/miboks-server/internal/suppliers/repository"
	"github.com/miboks/miboks-server/internal/suppliers/service"
)

type SupplierHandler struct {
	supplierService service.SupplierService
}

func NewSupplierHandler(ss service.SupplierService) *SupplierHandler {
	return &SupplierHandler{supplierService: ss}
}

func (h *SupplierHandler) RegisterRoutes(router *gin.RouterGroup) {
	supplierRoutes := router.Group("/suppliers")
	{
		supplierRoutes.GET("", h.ListSuppliers)
		supplierRoutes.POST("", h.CreateSupplier)
		supplierRoutes.GET("/:id", h.GetSupplier)
		supplierRoutes.POST("/:id/verify", h.ToggleVerified)
		supplierRoutes.DELETE("/:id", h.DeleteSupplier)
	}
}

func (h *SupplierHandler) ListSuppliers(c *gin.Context) {
	filter := domain.ListFilter{Query: c.Query("q")}
	switch c.Query("status") {
	case "verified":
		verified := true
		filter.Verified = &verified
	case "unverified":
		verified := false
		filter.Verified = &verified
	}

	suppliers, err := h.supplierService.ListSuppliers(c.Request.Context(), authapi.VendorID(c), filter)
	if err != nil {
		logger.Error("ListSuppliers Hdl: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list suppliers"})
		return
	}
	c.JSON(http.StatusOK, suppliers)
}

func (h *SupplierHandler) GetSupplier(c *gin.Context) {
	supplier, err := h.supplierService.GetSupplier(c.Request.Context(), authapi.VendorID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrSupplierNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		logger.Error("GetSupplier Hdl: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get supplier"})
		return
	}
	c.JSON(http.StatusOK, supplier)
}

func (h *SupplierHandler) CreateSupplier(c *gin.Context) {
	var req domain.SaveSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	supplier, err := h.supplierService.CreateSupplier(c.Request.Context(), authapi.VendorID(c), req)
	if err != nil {
		if errors.Is(err, service.ErrMissingName) || errors.Is(err, service.ErrMissingBusinessType) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("CreateSupplier Hdl: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create supplier"})
		return
	}
	c.JSON(http.StatusCreated, supplier)
}

func (h *SupplierHandler) ToggleVerified(c *gin.Context) {
	supplier, err := h.supplierService.ToggleVerified(c.Request.Context(), authapi.VendorID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrSupplierNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		logger.Error("ToggleVerified Hdl: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update supplier"})
		return
	}
	c.JSON(http.StatusOK, supplier)
}

func (h *SupplierHandler) DeleteSupplier(c *gin.Context) {
	err := h.supplierService.DeleteSupplier(c.Request.Context(), authapi.VendorID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrSupplierNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		logger.Error("DeleteSupplier Hdl: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete supplier"})
		return
	}
	c.Status(http.StatusNoContent)
}
