package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/miboks/miboks-server/internal/analytics/domain"
	"github.com/miboks/miboks-server/internal/analytics/service"
	authapi "github.com/miboks/miboks-server/internal/auth/api"
	"github.com/miboks/miboks-server/internal/platform/logger"
)

type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
}

func NewAnalyticsHandler(as service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: as}
}

func (h *AnalyticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/analytics/summary", h.Summary)
}

func (h *AnalyticsHandler) Summary(c *gin.Context) {
	r := domain.Range(c.DefaultQuery("range", string(domain.RangeDay)))

	summary, err := h.analyticsService.Summary(c.Request.Context(), authapi.VendorID(c), r)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRange) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Summary Hdl: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute analytics summary"})
		return
	}
	c.JSON(http.StatusOK, summary)
}
