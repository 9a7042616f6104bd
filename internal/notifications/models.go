package notifications

import (
	"time"

	"github.com/google/uuid"
)

// Audience determines who sees a notification in their feed
type Audience string

const (
	AudienceSupplier Audience = "supplier"
	AudienceStaff    Audience = "staff"
)

// Notification types
const (
	TypeTransactionCompleted = "transaction_completed"
	TypeLoanStatusChanged    = "loan_status_changed"
	TypeLoanOverdue          = "loan_overdue"
)

// Notification is a single in-app feed entry. Supplier entries carry the
// supplier ID they belong to; staff entries are visible to admins and owners.
type Notification struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Audience   Audience   `json:"audience" gorm:"not null;index"`
	SupplierID *uuid.UUID `json:"supplier_id,omitempty" gorm:"type:uuid;index"`
	Type       string     `json:"type" gorm:"not null"`
	Title      string     `json:"title" gorm:"not null"`
	Body       string     `json:"body" gorm:"not null"`
	IsRead     bool       `json:"is_read" gorm:"not null;default:false"`
	CreatedAt  time.Time  `json:"created_at" gorm:"autoCreateTime;index"`
}

// NotificationListResponse is the feed payload
type NotificationListResponse struct {
	Notifications []*Notification `json:"notifications"`
	UnreadCount   int             `json:"unread_count"`
}
