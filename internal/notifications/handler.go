package notifications

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"copra-trade/supplier-portal/supplier-portal-backend/internal/auth"
)

// Handler handles HTTP requests for the notification feed
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new notifications handler
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers notification routes on an authenticated group
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/notifications")
	{
		group.GET("", h.getFeed)
		group.POST("/:id/read", h.markRead)
		group.POST("/read-all", h.markAllRead)
	}
}

// getFeed handles GET /api/v1/notifications. Suppliers see their own feed;
// staff see the staff feed.
func (h *Handler) getFeed(c *gin.Context) {
	claims := auth.ClaimsFromContext(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var feed *NotificationListResponse
	var err error
	if claims.Role == auth.RoleSupplier {
		if claims.SupplierID == nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "no supplier profile linked to this account"})
			return
		}
		feed, err = h.service.FeedForSupplier(c.Request.Context(), *claims.SupplierID)
	} else {
		feed, err = h.service.FeedForStaff(c.Request.Context())
	}

	if err != nil {
		h.logger.Error("Failed to load notification feed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, feed)
}

// markRead handles POST /api/v1/notifications/:id/read
func (h *Handler) markRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification ID"})
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "read"})
}

// markAllRead handles POST /api/v1/notifications/read-all
func (h *Handler) markAllRead(c *gin.Context) {
	claims := auth.ClaimsFromContext(c)
	if claims == nil || claims.Role != auth.RoleSupplier || claims.SupplierID == nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
		return
	}

	if err := h.service.MarkAllRead(c.Request.Context(), *claims.SupplierID); err != nil {
		h.logger.Error("Failed to mark notifications read", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "read"})
}
