package suppliers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"copra-trade/supplier-portal/supplier-portal-backend/internal/auth"
)

// Handler handles HTTP requests for supplier profiles
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new suppliers handler
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers supplier routes on an authenticated group
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/suppliers")
	{
		group.POST("", auth.RequireRole(auth.RoleAdmin, auth.RoleOwner), h.createSupplier)
		group.GET("", auth.RequireRole(auth.RoleAdmin, auth.RoleOwner), h.listSuppliers)
		group.GET("/:id", h.getSupplier)
		group.PUT("/:id", auth.RequireRole(auth.RoleAdmin, auth.RoleOwner), h.updateSupplier)
		group.POST("/:id/deactivate", auth.RequireRole(auth.RoleAdmin), h.deactivateSupplier)
		group.GET("/:id/credit-score", h.getCreditScore)
		group.GET("/:id/stats", h.getStats)
		group.GET("/:id/overview", h.getOverview)
	}
}

// createSupplier handles POST /api/v1/suppliers
func (h *Handler) createSupplier(c *gin.Context) {
	var req CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	supplier, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		h.logger.Error("Failed to create supplier", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, supplier)
}

// listSuppliers handles GET /api/v1/suppliers
func (h *Handler) listSuppliers(c *gin.Context) {
	filters := &SupplierFilters{
		Search:   c.Query("search"),
		Page:     h.getIntParam(c, "page", 1),
		PageSize: h.getIntParam(c, "page_size", 20),
	}
	if active := c.Query("is_active"); active != "" {
		if b, err := strconv.ParseBool(active); err == nil {
			filters.IsActive = &b
		}
	}

	response, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		h.logger.Error("Failed to list suppliers", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, response)
}

// getSupplier handles GET /api/v1/suppliers/:id
func (h *Handler) getSupplier(c *gin.Context) {
	id, ok := h.scopedSupplierID(c)
	if !ok {
		return
	}

	supplier, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, supplier)
}

// updateSupplier handles PUT /api/v1/suppliers/:id
func (h *Handler) updateSupplier(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid supplier ID"})
		return
	}

	var req UpdateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	supplier, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.logger.Error("Failed to update supplier", zap.Error(err), zap.String("supplier_id", id.String()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, supplier)
}

// deactivateSupplier handles POST /api/v1/suppliers/:id/deactivate
func (h *Handler) deactivateSupplier(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid supplier ID"})
		return
	}

	supplier, err := h.service.Deactivate(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, supplier)
}

// getCreditScore handles GET /api/v1/suppliers/:id/credit-score
func (h *Handler) getCreditScore(c *gin.Context) {
	id, ok := h.scopedSupplierID(c)
	if !ok {
		return
	}

	score, err := h.service.CreditScore(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, score)
}

// getStats handles GET /api/v1/suppliers/:id/stats
func (h *Handler) getStats(c *gin.Context) {
	id, ok := h.scopedSupplierID(c)
	if !ok {
		return
	}

	stats, err := h.service.Stats(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to fetch supplier stats", zap.Error(err), zap.String("supplier_id", id.String()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// getOverview handles GET /api/v1/suppliers/:id/overview
func (h *Handler) getOverview(c *gin.Context) {
	id, ok := h.scopedSupplierID(c)
	if !ok {
		return
	}

	overview, err := h.service.Overview(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to build supplier overview", zap.Error(err), zap.String("supplier_id", id.String()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, overview)
}

// scopedSupplierID parses the :id path param and enforces that supplier
// accounts only ever reach their own profile. It writes the error response
// itself when it returns false.
func (h *Handler) scopedSupplierID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid supplier ID"})
		return uuid.Nil, false
	}

	if claims := auth.ClaimsFromContext(c); claims != nil && claims.Role == auth.RoleSupplier {
		if claims.SupplierID == nil || *claims.SupplierID != id {
			c.JSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
			return uuid.Nil, false
		}
	}

	return id, true
}

// getIntParam gets an integer query parameter with a default value
func (h *Handler) getIntParam(c *gin.Context, key string, defaultVal int) int {
	if val := c.Query(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}
