package notifications

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for notification persistence
type Repository interface {
	Create(ctx context.Context, notification *Notification) error
	ListForSupplier(ctx context.Context, supplierID uuid.UUID, limit int) ([]*Notification, error)
	ListForStaff(ctx context.Context, limit int) ([]*Notification, error)
	CountUnreadForSupplier(ctx context.Context, supplierID uuid.UUID) (int, error)
	CountUnreadForStaff(ctx context.Context) (int, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	MarkAllReadForSupplier(ctx context.Context, supplierID uuid.UUID) error
}

// GormRepository implements Repository using GORM
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new GORM-backed notification repository
func NewGormRepository(db *gorm.DB) (*GormRepository, error) {
	if err := db.AutoMigrate(&Notification{}); err != nil {
		return nil, fmt.Errorf("failed to migrate notification table: %w", err)
	}
	return &GormRepository{db: db}, nil
}

func (r *GormRepository) Create(ctx context.Context, notification *Notification) error {
	if err := r.db.WithContext(ctx).Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (r *GormRepository) ListForSupplier(ctx context.Context, supplierID uuid.UUID, limit int) ([]*Notification, error) {
	var items []*Notification
	err := r.db.WithContext(ctx).
		Where("audience = ? AND supplier_id = ?", AudienceSupplier, supplierID).
		Order("created_at DESC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return items, nil
}

func (r *GormRepository) ListForStaff(ctx context.Context, limit int) ([]*Notification, error) {
	var items []*Notification
	err := r.db.WithContext(ctx).
		Where("audience = ?", AudienceStaff).
		Order("created_at DESC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return items, nil
}

func (r *GormRepository) CountUnreadForSupplier(ctx context.Context, supplierID uuid.UUID) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Notification{}).
		Where("audience = ? AND supplier_id = ? AND is_read = false", AudienceSupplier, supplierID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return int(count), nil
}

func (r *GormRepository) CountUnreadForStaff(ctx context.Context) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Notification{}).
		Where("audience = ? AND is_read = false", AudienceStaff).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return int(count), nil
}

func (r *GormRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&Notification{}).Where("id = ?", id).Update("is_read", true)
	if result.Error != nil {
		return fmt.Errorf("failed to mark notification read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("notification not found")
	}
	return nil
}

func (r *GormRepository) MarkAllReadForSupplier(ctx context.Context, supplierID uuid.UUID) error {
	err := r.db.WithContext(ctx).Model(&Notification{}).
		Where("audience = ? AND supplier_id = ? AND is_read = false", AudienceSupplier, supplierID).
		Update("is_read", true).Error
	if err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}
