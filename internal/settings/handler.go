package settings

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"copra-trade/supplier-portal/supplier-portal-backend/internal/auth"
)

// Handler handles HTTP requests for trading parameters
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new settings handler
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers settings routes on an authenticated group.
// Everyone can read the current price; only admins change parameters.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/settings")
	{
		group.GET("", h.listSettings)
		group.GET("/copra-price", h.getCopraPrice)
		group.PUT("/:key", auth.RequireRole(auth.RoleAdmin), h.updateSetting)
	}
}

// listSettings handles GET /api/v1/settings
func (h *Handler) listSettings(c *gin.Context) {
	settings, err := h.service.List(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list settings", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// getCopraPrice handles GET /api/v1/settings/copra-price
func (h *Handler) getCopraPrice(c *gin.Context) {
	price, err := h.service.CopraPricePerKilo(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get copra price", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"price_per_kilo": price})
}

// updateSetting handles PUT /api/v1/settings/:key
func (h *Handler) updateSetting(c *gin.Context) {
	var req UpdateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	setting, err := h.service.Update(c.Request.Context(), c.Param("key"), req.Value, auth.UserIDFromContext(c).String())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, setting)
}
