package loans

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for loan persistence
type Repository interface {
	Create(ctx context.Context, loan *Loan) error
	GetByID(ctx context.Context, id uuid.UUID) (*Loan, error)
	Update(ctx context.Context, loan *Loan) error
	List(ctx context.Context, filters *LoanFilters) ([]*Loan, int, error)
	ListOutstanding(ctx context.Context, supplierID uuid.UUID) ([]*Loan, error)
	ListOverdue(ctx context.Context, asOf time.Time) ([]*Loan, error)
	CreatePayment(ctx context.Context, payment *LoanPayment) error
	ListPayments(ctx context.Context, loanID uuid.UUID) ([]*LoanPayment, error)
}

// GormRepository implements Repository using GORM
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new GORM-backed loan repository
func NewGormRepository(db *gorm.DB) (*GormRepository, error) {
	if err := db.AutoMigrate(&Loan{}, &LoanPayment{}); err != nil {
		return nil, fmt.Errorf("failed to migrate loan tables: %w", err)
	}
	return &GormRepository{db: db}, nil
}

func (r *GormRepository) Create(ctx context.Context, loan *Loan) error {
	if err := r.db.WithContext(ctx).Create(loan).Error; err != nil {
		return fmt.Errorf("failed to create loan: %w", err)
	}
	return nil
}

func (r *GormRepository) GetByID(ctx context.Context, id uuid.UUID) (*Loan, error) {
	var loan Loan
	if err := r.db.WithContext(ctx).First(&loan, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("loan not found")
		}
		return nil, fmt.Errorf("failed to get loan: %w", err)
	}
	return &loan, nil
}

func (r *GormRepository) Update(ctx context.Context, loan *Loan) error {
	if err := r.db.WithContext(ctx).Save(loan).Error; err != nil {
		return fmt.Errorf("failed to update loan: %w", err)
	}
	return nil
}

func (r *GormRepository) List(ctx context.Context, filters *LoanFilters) ([]*Loan, int, error) {
	query := r.db.WithContext(ctx).Model(&Loan{})

	if filters.SupplierID != nil {
		query = query.Where("supplier_id = ?", *filters.SupplierID)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count loans: %w", err)
	}

	var loans []*Loan
	offset := (filters.Page - 1) * filters.PageSize
	if err := query.Order("created_at DESC").Limit(filters.PageSize).Offset(offset).Find(&loans).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list loans: %w", err)
	}

	return loans, int(total), nil
}

// ListOutstanding returns approved loans with an unpaid balance, oldest first.
// Auto-debit settles loans in this order.
func (r *GormRepository) ListOutstanding(ctx context.Context, supplierID uuid.UUID) ([]*Loan, error) {
	var loans []*Loan
	err := r.db.WithContext(ctx).
		Where("supplier_id = ? AND status = ? AND total_paid < total_with_interest", supplierID, StatusApproved).
		Order("created_at ASC").
		Find(&loans).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list outstanding loans: %w", err)
	}
	return loans, nil
}

func (r *GormRepository) ListOverdue(ctx context.Context, asOf time.Time) ([]*Loan, error) {
	var loans []*Loan
	err := r.db.WithContext(ctx).
		Where("status = ? AND due_date < ? AND total_paid < total_with_interest", StatusApproved, asOf).
		Order("due_date ASC").
		Find(&loans).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue loans: %w", err)
	}
	return loans, nil
}

func (r *GormRepository) CreatePayment(ctx context.Context, payment *LoanPayment) error {
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		return fmt.Errorf("failed to create loan payment: %w", err)
	}
	return nil
}

func (r *GormRepository) ListPayments(ctx context.Context, loanID uuid.UUID) ([]*LoanPayment, error) {
	var payments []*LoanPayment
	err := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("paid_at ASC").
		Find(&payments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list loan payments: %w", err)
	}
	return payments, nil
}
