package loans

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LoanStatus represents the lifecycle state of a loan
type LoanStatus string

const (
	StatusPending   LoanStatus = "pending"
	StatusApproved  LoanStatus = "approved"
	StatusRejected  LoanStatus = "rejected"
	StatusPaid      LoanStatus = "paid"
	StatusCancelled LoanStatus = "cancelled"
	StatusVoided    LoanStatus = "voided"
)

// Loan represents a cash advance against a supplier's future deliveries
type Loan struct {
	ID                uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	SupplierID        uuid.UUID       `json:"supplier_id" gorm:"type:uuid;not null;index"`
	Amount            decimal.Decimal `json:"amount" gorm:"type:decimal(14,2);not null"`
	InterestRate      decimal.Decimal `json:"interest_rate" gorm:"type:decimal(6,4);not null"`
	TotalWithInterest decimal.Decimal `json:"total_amount_with_interest" gorm:"type:decimal(14,2);not null"`
	TotalPaid         decimal.Decimal `json:"total_paid" gorm:"type:decimal(14,2);not null;default:0"`
	PaymentPercent    int             `json:"payment_percent" gorm:"not null"` // share of proceeds auto-debited
	Status            LoanStatus      `json:"status" gorm:"not null;default:'pending';index"`
	DueDate           time.Time       `json:"due_date" gorm:"not null"`
	ApprovedBy        *uuid.UUID      `json:"approved_by,omitempty" gorm:"type:uuid"`
	ApprovedAt        *time.Time      `json:"approved_at,omitempty"`
	CreatedAt         time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt         time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
}

// Outstanding reports the unpaid remainder of the loan
func (l *Loan) Outstanding() decimal.Decimal {
	remaining := l.TotalWithInterest.Sub(l.TotalPaid)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// IsOverdue reports whether the loan is unpaid past its due date
func (l *Loan) IsOverdue(asOf time.Time) bool {
	return l.Status == StatusApproved && asOf.After(l.DueDate) && l.Outstanding().IsPositive()
}

// PaymentSource identifies how a repayment was collected
type PaymentSource string

const (
	PaymentSourceAutoDebit PaymentSource = "auto_debit"
	PaymentSourceManual    PaymentSource = "manual"
)

// LoanPayment represents a single repayment applied to a loan
type LoanPayment struct {
	ID     uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	LoanID uuid.UUID       `json:"loan_id" gorm:"type:uuid;not null;index"`
	Amount decimal.Decimal `json:"amount" gorm:"type:decimal(14,2);not null"`
	Source PaymentSource   `json:"source" gorm:"not null"`
	PaidAt time.Time       `json:"paid_at" gorm:"not null"`
}

// RequestLoanRequest is the loan application payload. SupplierID is honored
// only for admin/owner callers; supplier accounts always apply for themselves.
type RequestLoanRequest struct {
	SupplierID *uuid.UUID      `json:"supplier_id,omitempty"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
}

// RecordPaymentRequest is the manual repayment payload
type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// LoanFilters narrows loan listings
type LoanFilters struct {
	SupplierID *uuid.UUID
	Status     *LoanStatus
	Page       int
	PageSize   int
}

// LoanListResponse is the paginated listing payload
type LoanListResponse struct {
	Loans      []*Loan `json:"loans"`
	TotalCount int     `json:"total_count"`
	Page       int     `json:"page"`
	PageSize   int     `json:"page_size"`
	HasMore    bool    `json:"has_more"`
}

// LoanDetail pairs a loan with its repayment history and progress figures
type LoanDetail struct {
	Loan             *Loan           `json:"loan"`
	Payments         []*LoanPayment  `json:"payments"`
	Outstanding      decimal.Decimal `json:"outstanding"`
	RepaymentPercent decimal.Decimal `json:"repayment_percent"`
}
