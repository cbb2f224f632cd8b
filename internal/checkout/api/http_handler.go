package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	authapi "github.com/miboks/miboks-server/internal/auth/api"
	catalogrepo "github.com/miboks/miboks-server/internal/catalog/repository"
	"github.com/miboks/miboks-server/internal/checkout/domain"
	"github.com/miboks/miboks-server/internal/checkout/repository"
	"github.com/miboks/miboks-server/internal/checkout/service"
	"github.com/miboks/miboks-server/internal/platform/logger"
)

type CheckoutHandler struct {
	checkoutService service.CheckoutService
}

func NewCheckoutHandler(cs service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: cs}
}

func (h *CheckoutHandler) RegisterRoutes(router *gin.RouterGroup) {
	cartRoutes := router.Group("/cart")
	{
		cartRoutes.GET("", h.GetCart)
		cartRoutes.DELETE("", h.ClearCart)
		cartRoutes.GET("/totals", h.CartTotals)
		cartRoutes.POST("/items", h.AddItem)
		cartRoutes.PUT("/items/:productId", h.UpdateItem)
		cartRoutes.DELETE("/items/:productId", h.RemoveItem)
	}

	router.POST("/checkout", h.Checkout)

	saleRoutes := router.Group("/sales")
	{
		saleRoutes.GET("", h.ListSales)
		saleRoutes.GET("/:id", h.GetSale)
		saleRoutes.GET("/:id/installments", h.ListInstallments)
		saleRoutes.POST("/:id/installments/:seq/pay", h.PayInstallment)
	}
}

func (h *CheckoutHandler) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, h.checkoutService.GetCart(authapi.VendorID(c)))
}

func (h *CheckoutHandler) CartTotals(c *gin.Context) {
	c.JSON(http.StatusOK, h.checkoutService.CartTotals(authapi.VendorID(c)))
}

type addItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

func (h *CheckoutHandler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	cart, err := h.checkoutService.AddToCart(c.Request.Context(), authapi.VendorID(c), req.ProductID)
	if err != nil {
		switch {
		case errors.Is(err, catalogrepo.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrOutOfStock):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("AddItem Hdl: service error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item to cart"})
		}
		return
	}
	c.JSON(http.StatusOK, cart)
}

// Quantity is a pointer so a literal 0 still binds; the cart engine
// decides what to do with quantities below 1.
type updateItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func (h *CheckoutHandler) UpdateItem(c *gin.Context) {
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	cart := h.checkoutService.UpdateCartQuantity(authapi.VendorID(c), c.Param("productId"), *req.Quantity)
	c.JSON(http.StatusOK, cart)
}

func (h *CheckoutHandler) RemoveItem(c *gin.Context) {
	cart := h.checkoutService.RemoveFromCart(authapi.VendorID(c), c.Param("productId"))
	c.JSON(http.StatusOK, cart)
}

func (h *CheckoutHandler) ClearCart(c *gin.Context) {
	h.checkoutService.ClearCart(authapi.VendorID(c))
	c.Status(http.StatusNoContent)
}

func isCheckoutValidationErr(err error) bool {
	return errors.Is(err, service.ErrEmptyCustomerName) ||
		errors.Is(err, service.ErrInvalidPaymentMethod) ||
		errors.Is(err, service.ErrInvalidInstallments) ||
		errors.Is(err, service.ErrEmptyCart)
}

func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req domain.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	sale, err := h.checkoutService.Checkout(c.Request.Context(), authapi.VendorID(c), req)
	if err != nil {
		switch {
		case isCheckoutValidationErr(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, repository.ErrInsufficientStock):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Checkout Hdl: service error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Checkout failed"})
		}
		return
	}
	c.JSON(http.StatusCreated, sale)
}

func (h *CheckoutHandler) ListSales(c *gin.Context) {
	sales, err := h.checkoutService.ListSales(c.Request.Context(), authapi.VendorID(c))
	if err != nil {
		logger.Error("ListSales Hdl: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list sales"})
		return
	}
	c.JSON(http.StatusOK, sales)
}

func (h *CheckoutHandler) GetSale(c *gin.Context) {
	sale, err := h.checkoutService.GetSale(c.Request.Context(), authapi.VendorID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrSaleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		logger.Error("GetSale Hdl: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get sale"})
		return
	}
	c.JSON(http.StatusOK, sale)
}

func (h *CheckoutHandler) ListInstallments(c *gin.Context) {
	installments, err := h.checkoutService.ListInstallments(c.Request.Context(), authapi.VendorID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrSaleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		logger.Error("ListInstallments Hdl: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list installments"})
		return
	}
	c.JSON(http.StatusOK, installments)
}

func (h *CheckoutHandler) PayInstallment(c *gin.Context) {
	seq, err := strconv.Atoi(c.Param("seq"))
	if err != nil || seq < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid installment sequence"})
		return
	}

	err = h.checkoutService.PayInstallment(c.Request.Context(), authapi.VendorID(c), c.Param("id"), seq)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrSaleNotFound), errors.Is(err, repository.ErrInstallmentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, repository.ErrInstallmentSettled):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("PayInstallment Hdl: service error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to pay installment"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "installment paid"})
}
