package statements

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"copra-trade/supplier-portal/supplier-portal-backend/internal/auth"
	"copra-trade/supplier-portal/supplier-portal-backend/internal/transactions"
)

// Handler handles HTTP requests for ledger exports and statements
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new statements handler
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers statement routes on an authenticated group.
// Ledger exports are staff only; suppliers can download their own statement.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/statements")
	{
		group.GET("/transactions.xlsx", auth.RequireRole(auth.RoleAdmin, auth.RoleOwner), h.exportLedgerExcel)
		group.GET("/transactions.csv", auth.RequireRole(auth.RoleAdmin, auth.RoleOwner), h.exportLedgerCSV)
		group.GET("/suppliers/:id/pdf", h.downloadStatement)
	}
}

// exportLedgerExcel handles GET /api/v1/statements/transactions.xlsx
func (h *Handler) exportLedgerExcel(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.service.WriteLedgerExcel(c.Request.Context(), h.ledgerFilters(c), &buf); err != nil {
		h.logger.Error("Failed to export ledger to Excel", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	filename := fmt.Sprintf("transactions-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// exportLedgerCSV handles GET /api/v1/statements/transactions.csv
func (h *Handler) exportLedgerCSV(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.service.WriteLedgerCSV(c.Request.Context(), h.ledgerFilters(c), &buf); err != nil {
		h.logger.Error("Failed to export ledger to CSV", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	filename := fmt.Sprintf("transactions-%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// downloadStatement handles GET /api/v1/statements/suppliers/:id/pdf
func (h *Handler) downloadStatement(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid supplier ID"})
		return
	}

	if claims := auth.ClaimsFromContext(c); claims != nil && claims.Role == auth.RoleSupplier {
		if claims.SupplierID == nil || *claims.SupplierID != id {
			c.JSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
			return
		}
	}

	var buf bytes.Buffer
	if err := h.service.WriteSupplierStatement(c.Request.Context(), id, &buf); err != nil {
		h.logger.Error("Failed to generate supplier statement", zap.Error(err), zap.String("supplier_id", id.String()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	filename := fmt.Sprintf("statement-%s.pdf", id.String())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// ledgerFilters parses export filters from the query string
func (h *Handler) ledgerFilters(c *gin.Context) *transactions.TransactionFilters {
	filters := &transactions.TransactionFilters{}

	if supplierID := c.Query("supplier_id"); supplierID != "" {
		if id, err := uuid.Parse(supplierID); err == nil {
			filters.SupplierID = &id
		}
	}
	if status := c.Query("status"); status != "" {
		s := transactions.Status(status)
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
	return filters
}
