package transactions

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"copra-trade/supplier-portal/supplier-portal-backend/internal/auth"
)

// Handler handles HTTP requests for purchase transactions
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new transactions handler
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers transaction routes on an authenticated group
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	txs := router.Group("/transactions")
	{
		txs.POST("", auth.RequireRole(auth.RoleAdmin, auth.RoleOwner), h.createTransaction)
		txs.GET("", h.listTransactions)
		txs.GET("/:id", h.getTransaction)
		txs.POST("/:id/complete", auth.RequireRole(auth.RoleAdmin, auth.RoleOwner), h.completeTransaction)
		txs.POST("/:id/cancel", auth.RequireRole(auth.RoleAdmin, auth.RoleOwner), h.cancelTransaction)
		txs.POST("/:id/void", auth.RequireRole(auth.RoleAdmin), h.voidTransaction)
	}
}

// createTransaction handles POST /api/v1/transactions
func (h *Handler) createTransaction(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx, err := h.service.Create(c.Request.Context(), auth.UserIDFromContext(c), &req)
	if err != nil {
		h.logger.Error("Failed to create transaction", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, tx)
}

// listTransactions handles GET /api/v1/transactions. Supplier accounts only
// ever see their own history, regardless of the filters they send.
func (h *Handler) listTransactions(c *gin.Context) {
	filters := &TransactionFilters{
		Page:     h.getIntParam(c, "page", 1),
		PageSize: h.getIntParam(c, "page_size", 20),
	}

	if supplierID := c.Query("supplier_id"); supplierID != "" {
		if id, err := uuid.Parse(supplierID); err == nil {
			filters.SupplierID = &id
		}
	}
	if status := c.Query("status"); status != "" {
		s := Status(status)
		filters.Status = &s
	}
	if from := c.Query("date_from"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			filters.DateFrom = &t
		}
	}
	if to := c.Query("date_to"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			filters.DateTo = &t
		}
	}

	if claims := auth.ClaimsFromContext(c); claims != nil && claims.Role == auth.RoleSupplier {
		if claims.SupplierID == nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "no supplier profile linked to this account"})
			return
		}
		filters.SupplierID = claims.SupplierID
	}

	response, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		h.logger.Error("Failed to list transactions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, response)
}

// getTransaction handles GET /api/v1/transactions/:id
func (h *Handler) getTransaction(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction ID"})
		return
	}

	tx, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	if claims := auth.ClaimsFromContext(c); claims != nil && claims.Role == auth.RoleSupplier {
		if claims.SupplierID == nil || *claims.SupplierID != tx.SupplierID {
			c.JSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
			return
		}
	}

	c.JSON(http.StatusOK, tx)
}

// completeTransaction handles POST /api/v1/transactions/:id/complete
func (h *Handler) completeTransaction(c *gin.Context) {
	h.settle(c, h.service.Complete)
}

// cancelTransaction handles POST /api/v1/transactions/:id/cancel
func (h *Handler) cancelTransaction(c *gin.Context) {
	h.settle(c, h.service.Cancel)
}

// voidTransaction handles POST /api/v1/transactions/:id/void
func (h *Handler) voidTransaction(c *gin.Context) {
	h.settle(c, h.service.Void)
}

func (h *Handler) settle(c *gin.Context, op func(ctx context.Context, id uuid.UUID) (*Transaction, error)) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction ID"})
		return
	}

	tx, err := op(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to update transaction status", zap.Error(err), zap.String("transaction_id", id.String()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, tx)
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
