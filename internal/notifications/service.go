package notifications

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"copra-trade/supplier-portal/supplier-portal-backend/internal/loans"
	"copra-trade/supplier-portal/supplier-portal-backend/internal/transactions"
)

// Service writes feed entries for settlement and loan lifecycle events and
// serves the per-account feed. Event sinks never fail the calling operation;
// a lost notification is logged and dropped.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new notification service
func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// TransactionCompleted records a feed entry for a settled delivery
func (s *Service) TransactionCompleted(ctx context.Context, tx *transactions.Transaction, debited decimal.Decimal) {
	body := fmt.Sprintf("Your delivery of %s kg was paid out at %s total.",
		tx.NetWeight.String(), tx.TotalAmount.String())
	if debited.IsPositive() {
		body = fmt.Sprintf("%s %s was withheld against your outstanding loan.", body, debited.String())
	}

	s.create(ctx, &Notification{
		Audience:   AudienceSupplier,
		SupplierID: &tx.SupplierID,
		Type:       TypeTransactionCompleted,
		Title:      "Delivery paid",
		Body:       body,
	})
}

// LoanStatusChanged records a feed entry when a loan moves state
func (s *Service) LoanStatusChanged(ctx context.Context, loan *loans.Loan) {
	var title, body string
	switch loan.Status {
	case loans.StatusApproved:
		title = "Loan approved"
		body = fmt.Sprintf("Your loan of %s was approved. %s is due by %s.",
			loan.Amount.String(), loan.TotalWithInterest.String(), loan.DueDate.Format("January 2, 2006"))
	case loans.StatusRejected:
		title = "Loan rejected"
		body = fmt.Sprintf("Your loan request of %s was not approved.", loan.Amount.String())
	case loans.StatusPaid:
		title = "Loan fully paid"
		body = fmt.Sprintf("Your loan of %s is fully settled. Thank you.", loan.Amount.String())
	default:
		title = "Loan updated"
		body = fmt.Sprintf("Your loan of %s is now %s.", loan.Amount.String(), loan.Status)
	}

	s.create(ctx, &Notification{
		Audience:   AudienceSupplier,
		SupplierID: &loan.SupplierID,
		Type:       TypeLoanStatusChanged,
		Title:      title,
		Body:       body,
	})
}

// LoanOverdue records feed entries for both the supplier and the staff feed
func (s *Service) LoanOverdue(ctx context.Context, loan *loans.Loan) {
	s.create(ctx, &Notification{
		Audience:   AudienceSupplier,
		SupplierID: &loan.SupplierID,
		Type:       TypeLoanOverdue,
		Title:      "Loan past due",
		Body: fmt.Sprintf("Your loan balance of %s was due on %s. It will be deducted from your next deliveries.",
			loan.Outstanding().String(), loan.DueDate.Format("January 2, 2006")),
	})
	s.create(ctx, &Notification{
		Audience:   AudienceStaff,
		SupplierID: &loan.SupplierID,
		Type:       TypeLoanOverdue,
		Title:      "Overdue loan",
		Body: fmt.Sprintf("Loan %s has an overdue balance of %s.",
			loan.ID.String(), loan.Outstanding().String()),
	})
}

// FeedForSupplier returns a supplier's recent notifications with unread count
func (s *Service) FeedForSupplier(ctx context.Context, supplierID uuid.UUID) (*NotificationListResponse, error) {
	items, err := s.repo.ListForSupplier(ctx, supplierID, 50)
	if err != nil {
		return nil, err
	}
	unread, err := s.repo.CountUnreadForSupplier(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	return &NotificationListResponse{Notifications: items, UnreadCount: unread}, nil
}

// FeedForStaff returns the staff feed with unread count
func (s *Service) FeedForStaff(ctx context.Context) (*NotificationListResponse, error) {
	items, err := s.repo.ListForStaff(ctx, 50)
	if err != nil {
		return nil, err
	}
	unread, err := s.repo.CountUnreadForStaff(ctx)
	if err != nil {
		return nil, err
	}
	return &NotificationListResponse{Notifications: items, UnreadCount: unread}, nil
}

// MarkRead marks a single notification as read
func (s *Service) MarkRead(ctx context.Context, id uuid.UUID) error {
	return s.repo.MarkRead(ctx, id)
}

// MarkAllRead marks every unread entry in a supplier's feed as read
func (s *Service) MarkAllRead(ctx context.Context, supplierID uuid.UUID) error {
	return s.repo.MarkAllReadForSupplier(ctx, supplierID)
}

func (s *Service) create(ctx context.Context, notification *Notification) {
	notification.ID = uuid.New()
	if err := s.repo.Create(ctx, notification); err != nil {
		s.logger.Error("Failed to create notification",
			zap.Error(err), zap.String("type", notification.Type))
	}
}
