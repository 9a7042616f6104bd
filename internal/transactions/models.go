package transactions

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle state of a purchase transaction
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusVoided    Status = "voided"
)

// Transaction represents a copra purchase from a supplier
type Transaction struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	SupplierID      uuid.UUID       `json:"supplier_id" db:"supplier_id"`
	NetWeight       decimal.Decimal `json:"net_weight" db:"net_weight"` // kilograms of copra supplied
	PricePerKilo    decimal.Decimal `json:"price_per_kilo" db:"price_per_kilo"`
	TotalAmount     decimal.Decimal `json:"total_amount" db:"total_amount"` // peso value, net_weight * price_per_kilo
	Status          Status          `json:"status" db:"status"`
	TransactionDate time.Time       `json:"transaction_date" db:"transaction_date"`
	RecordedBy      *uuid.UUID      `json:"recorded_by,omitempty" db:"recorded_by"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}

// CreateTransactionRequest is the payload for recording a new purchase
type CreateTransactionRequest struct {
	SupplierID      uuid.UUID        `json:"supplier_id" binding:"required"`
	NetWeight       decimal.Decimal  `json:"net_weight" binding:"required"`
	PricePerKilo    *decimal.Decimal `json:"price_per_kilo,omitempty"` // defaults to the configured copra price
	TransactionDate *time.Time       `json:"transaction_date,omitempty"`
}

// TransactionFilters narrows transaction listings
type TransactionFilters struct {
	SupplierID *uuid.UUID
	Status     *Status
	DateFrom   *time.Time
	DateTo     *time.Time
	Page       int
	PageSize   int
}

// TransactionListResponse is the paginated listing payload
type TransactionListResponse struct {
	Transactions []*Transaction `json:"transactions"`
	TotalCount   int            `json:"total_count"`
	Page         int            `json:"page"`
	PageSize     int            `json:"page_size"`
	HasMore      bool           `json:"has_more"`
}

// SupplierStats summarizes a supplier's completed purchase history
type SupplierStats struct {
	SupplierID       uuid.UUID       `json:"supplier_id"`
	CompletedCount   int             `json:"completed_count"`
	TotalSupplied    decimal.Decimal `json:"total_supplied"`
	TotalPaid        decimal.Decimal `json:"total_paid"`
	AverageNetWeight decimal.Decimal `json:"average_net_weight"`
	LastDeliveryAt   *time.Time      `json:"last_delivery_at,omitempty"`
}
