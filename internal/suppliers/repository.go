package suppliers

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for supplier persistence
type Repository interface {
	Create(ctx context.Context, supplier *Supplier) error
	GetByID(ctx context.Context, id uuid.UUID) (*Supplier, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Supplier, error)
	Update(ctx context.Context, supplier *Supplier) error
	List(ctx context.Context, filters *SupplierFilters) ([]*Supplier, int, error)
}

// GormRepository implements Repository using GORM
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new GORM-backed supplier repository
func NewGormRepository(db *gorm.DB) (*GormRepository, error) {
	if err := db.AutoMigrate(&Supplier{}); err != nil {
		return nil, fmt.Errorf("failed to migrate supplier table: %w", err)
	}
	return &GormRepository{db: db}, nil
}

func (r *GormRepository) Create(ctx context.Context, supplier *Supplier) error {
	if err := r.db.WithContext(ctx).Create(supplier).Error; err != nil {
		return fmt.Errorf("failed to create supplier: %w", err)
	}
	return nil
}

func (r *GormRepository) GetByID(ctx context.Context, id uuid.UUID) (*Supplier, error) {
	var supplier Supplier
	if err := r.db.WithContext(ctx).First(&supplier, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("supplier not found")
		}
		return nil, fmt.Errorf("failed to get supplier: %w", err)
	}
	return &supplier, nil
}

func (r *GormRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*Supplier, error) {
	var supplier Supplier
	if err := r.db.WithContext(ctx).First(&supplier, "user_id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("supplier not found")
		}
		return nil, fmt.Errorf("failed to get supplier: %w", err)
	}
	return &supplier, nil
}

func (r *GormRepository) Update(ctx context.Context, supplier *Supplier) error {
	if err := r.db.WithContext(ctx).Save(supplier).Error; err != nil {
		return fmt.Errorf("failed to update supplier: %w", err)
	}
	return nil
}

func (r *GormRepository) List(ctx context.Context, filters *SupplierFilters) ([]*Supplier, int, error) {
	query := r.db.WithContext(ctx).Model(&Supplier{})

	if filters.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filters.Search+"%")
	}
	if filters.IsActive != nil {
		query = query.Where("is_active = ?", *filters.IsActive)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count suppliers: %w", err)
	}

	var suppliers []*Supplier
	offset := (filters.Page - 1) * filters.PageSize
	if err := query.Order("name ASC").Limit(filters.PageSize).Offset(offset).Find(&suppliers).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list suppliers: %w", err)
	}

	return suppliers, int(total), nil
}
