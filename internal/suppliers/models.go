package suppliers

import (
	"time"

	"github.com/google/uuid"

	"copra-trade/supplier-portal/supplier-portal-backend/internal/credit"
	"copra-trade/supplier-portal/supplier-portal-backend/internal/transactions"
)

// Supplier represents a copra supplier profile. UserID links the profile to a
// login account; walk-in suppliers recorded by staff have no account.
type Supplier struct {
	ID            uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	UserID        *uuid.UUID `json:"user_id,omitempty" gorm:"type:uuid;uniqueIndex"`
	Name          string     `json:"name" gorm:"not null;index"`
	ContactNumber string     `json:"contact_number"`
	Address       string     `json:"address"`
	IsActive      bool       `json:"is_active" gorm:"not null;default:true"`
	CreatedAt     time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// CreateSupplierRequest is the staff-entry payload for a new supplier profile
type CreateSupplierRequest struct {
	Name          string `json:"name" binding:"required"`
	ContactNumber string `json:"contact_number"`
	Address       string `json:"address"`
}

// UpdateSupplierRequest carries partial profile updates
type UpdateSupplierRequest struct {
	Name          *string `json:"name,omitempty"`
	ContactNumber *string `json:"contact_number,omitempty"`
	Address       *string `json:"address,omitempty"`
}

// SupplierFilters narrows supplier listings
type SupplierFilters struct {
	Search   string
	IsActive *bool
	Page     int
	PageSize int
}

// SupplierListResponse is the paginated listing payload
type SupplierListResponse struct {
	Suppliers  []*Supplier `json:"suppliers"`
	TotalCount int         `json:"total_count"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	HasMore    bool        `json:"has_more"`
}

// CreditScoreResponse is the supplier-facing score payload
type CreditScoreResponse struct {
	SupplierID uuid.UUID          `json:"supplier_id"`
	Score      credit.ScoreResult `json:"score"`
	Color      string             `json:"color"`
}

// SupplierOverview combines a profile with its delivery statistics
type SupplierOverview struct {
	Supplier *Supplier                   `json:"supplier"`
	Stats    *transactions.SupplierStats `json:"stats"`
}
