package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"copra-trade/supplier-portal/supplier-portal-backend/internal/auth"
)

// Handler handles HTTP requests for the business dashboard
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new dashboard handler
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers dashboard routes on an authenticated group.
// The business snapshot is for staff eyes only.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/dashboard", auth.RequireRole(auth.RoleAdmin, auth.RoleOwner))
	{
		group.GET("/summary", h.getSummary)
		group.POST("/refresh", h.forceRefresh)
	}
}

// getSummary handles GET /api/v1/dashboard/summary
func (h *Handler) getSummary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to load dashboard summary", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// forceRefresh handles POST /api/v1/dashboard/refresh
func (h *Handler) forceRefresh(c *gin.Context) {
	summary, err := h.service.Refresh(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to refresh dashboard summary", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}
