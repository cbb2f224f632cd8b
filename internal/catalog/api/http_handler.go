package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	authapi "github.com/miboks/miboks-server/internal/auth/api"
	"github.com/miboks/miboks-server/internal/catalog/domain"
	"github.com/miboks/miboks-server/internal/catalog/repository"
	"github.com/miboks/miboks-server/internal/catalog/service"
	"github.com/miboks/miboks-server/internal/platform/logger"
)

type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(cs service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: cs}
}

func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	productRoutes := router.Group("/products")
	{
		productRoutes.GET("", h.ListProducts)
		productRoutes.POST("", h.CreateProduct)
		productRoutes.GET("/:id", h.GetProduct)
		productRoutes.PUT("/:id", h.UpdateProduct)
		productRoutes.DELETE("/:id", h.DeleteProduct)
		productRoutes.POST("/images", h.UploadImage)
	}
	categoryRoutes := router.Group("/categories")
	{
		categoryRoutes.GET("", h.ListCategories)
		categoryRoutes.POST("", h.CreateCategory)
		categoryRoutes.DELETE("/:id", h.DeleteCategory)
	}
	router.GET("/inventory/stats", h.InventoryStats)
}

func (h *CatalogHandler) ListProducts(c *gin.Context) {
	products, err := h.catalogService.ListProducts(c.Request.Context(), authapi.VendorID(c))
	if err != nil {
		logger.Error("ListProducts Hdl: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list products"})
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *CatalogHandler) GetProduct(c *gin.Context) {
	product, err := h.catalogService.GetProduct(c.Request.Context(), authapi.VendorID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		logger.Error("GetProduct Hdl: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get product"})
		return
	}
	c.JSON(http.StatusOK, product)
}

func isValidationErr(err error) bool {
	return errors.Is(err, service.ErrInvalidPrice) ||
		errors.Is(err, service.ErrInvalidQuantity) ||
		errors.Is(err, service.ErrMissingName)
}

func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req domain.SaveProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	product, err := h.catalogService.CreateProduct(c.Request.Context(), authapi.VendorID(c), req)
	if err != nil {
		if isValidationErr(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("CreateProduct Hdl: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	var req domain.SaveProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	product, err := h.catalogService.UpdateProduct(c.Request.Context(), authapi.VendorID(c), c.Param("id"), req)
	if err != nil {
		switch {
		case isValidationErr(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, repository.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			logger.Error("UpdateProduct Hdl: service error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		}
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	err := h.catalogService.DeleteProduct(c.Request.Context(), authapi.VendorID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		logger.Error("DeleteProduct Hdl: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalogService.ListCategories(c.Request.Context())
	if err != nil {
		logger.Error("ListCategories Hdl: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list categories"})
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req domain.SaveCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	category, err := h.catalogService.CreateCategory(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrMissingName) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("CreateCategory Hdl: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	err := h.catalogService.DeleteCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrCategoryNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, repository.ErrCategoryInUse):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("DeleteCategory Hdl: service error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category"})
		}
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) InventoryStats(c *gin.Context) {
	stats, err := h.catalogService.InventoryStats(c.Request.Context(), authapi.VendorID(c))
	if err != nil {
		logger.Error("InventoryStats Hdl: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute inventory stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *CatalogHandler) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error("UploadImage Hdl: failed to open upload", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer file.Close()

	url, err := h.catalogService.UploadProductImage(c.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		logger.Error("UploadImage Hdl: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url})
}
