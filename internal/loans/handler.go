package loans

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"copra-trade/supplier-portal/supplier-portal-backend/internal/auth"
)

// Handler handles HTTP requests for loans
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new loans handler
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers loan routes on an authenticated group
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/loans")
	{
		group.POST("", h.requestLoan)
		group.GET("", h.listLoans)
		group.GET("/:id", h.getLoan)
		group.POST("/:id/approve", auth.RequireRole(auth.RoleAdmin, auth.RoleOwner), h.approveLoan)
		group.POST("/:id/reject", auth.RequireRole(auth.RoleAdmin, auth.RoleOwner), h.rejectLoan)
		group.POST("/:id/cancel", h.cancelLoan)
		group.POST("/:id/void", auth.RequireRole(auth.RoleAdmin), h.voidLoan)
		group.POST("/:id/payments", auth.RequireRole(auth.RoleAdmin, auth.RoleOwner), h.recordPayment)
	}
}

// requestLoan handles POST /api/v1/loans. Suppliers apply for themselves;
// admins and owners may apply on a supplier's behalf via supplier_id.
func (h *Handler) requestLoan(c *gin.Context) {
	var req RequestLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claims := auth.ClaimsFromContext(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var supplierID uuid.UUID
	switch {
	case claims.Role == auth.RoleSupplier:
		if claims.SupplierID == nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "no supplier profile linked to this account"})
			return
		}
		supplierID = *claims.SupplierID
	case req.SupplierID != nil:
		supplierID = *req.SupplierID
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "supplier_id is required"})
		return
	}

	loan, err := h.service.Request(c.Request.Context(), supplierID, &req)
	if err != nil {
		h.logger.Error("Failed to request loan", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, loan)
}

// listLoans handles GET /api/v1/loans
func (h *Handler) listLoans(c *gin.Context) {
	filters := &LoanFilters{
		Page:     h.getIntParam(c, "page", 1),
		PageSize: h.getIntParam(c, "page_size", 20),
	}

	if supplierID := c.Query("supplier_id"); supplierID != "" {
		if id, err := uuid.Parse(supplierID); err == nil {
			filters.SupplierID = &id
		}
	}
	if status := c.Query("status"); status != "" {
		s := LoanStatus(status)
		filters.Status = &s
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
		h.logger.Error("Failed to list loans", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, response)
}

// getLoan handles GET /api/v1/loans/:id
func (h *Handler) getLoan(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid loan ID"})
		return
	}

	detail, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	if claims := auth.ClaimsFromContext(c); claims != nil && claims.Role == auth.RoleSupplier {
		if claims.SupplierID == nil || *claims.SupplierID != detail.Loan.SupplierID {
			c.JSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
			return
		}
	}

	c.JSON(http.StatusOK, detail)
}

// approveLoan handles POST /api/v1/loans/:id/approve
func (h *Handler) approveLoan(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid loan ID"})
		return
	}

	loan, err := h.service.Approve(c.Request.Context(), id, auth.UserIDFromContext(c))
	if err != nil {
		h.logger.Error("Failed to approve loan", zap.Error(err), zap.String("loan_id", id.String()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, loan)
}

// rejectLoan handles POST /api/v1/loans/:id/reject
func (h *Handler) rejectLoan(c *gin.Context) {
	h.settle(c, h.service.Reject)
}

// cancelLoan handles POST /api/v1/loans/:id/cancel. Suppliers may only cancel
// their own pending loans.
func (h *Handler) cancelLoan(c *gin.Context) {
	if claims := auth.ClaimsFromContext(c); claims != nil && claims.Role == auth.RoleSupplier {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid loan ID"})
			return
		}
		detail, err := h.service.Get(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		if claims.SupplierID == nil || *claims.SupplierID != detail.Loan.SupplierID {
			c.JSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
			return
		}
	}

	h.settle(c, h.service.Cancel)
}

// voidLoan handles POST /api/v1/loans/:id/void
func (h *Handler) voidLoan(c *gin.Context) {
	h.settle(c, h.service.Void)
}

// recordPayment handles POST /api/v1/loans/:id/payments
func (h *Handler) recordPayment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid loan ID"})
		return
	}

	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	loan, err := h.service.RecordPayment(c.Request.Context(), id, req.Amount)
	if err != nil {
		h.logger.Error("Failed to record payment", zap.Error(err), zap.String("loan_id", id.String()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, loan)
}

func (h *Handler) settle(c *gin.Context, op func(ctx context.Context, id uuid.UUID) (*Loan, error)) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid loan ID"})
		return
	}

	loan, err := op(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to update loan status", zap.Error(err), zap.String("loan_id", id.String()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, loan)
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
