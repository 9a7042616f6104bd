package transactions

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PriceSource supplies the current copra buying price per kilo.
type PriceSource interface {
	CopraPricePerKilo(ctx context.Context) (decimal.Decimal, error)
}

// LoanDebitor applies transaction proceeds against a supplier's outstanding
// loan balance and reports the amount actually debited.
type LoanDebitor interface {
	ApplyAutoDebit(ctx context.Context, supplierID uuid.UUID, proceeds decimal.Decimal) (decimal.Decimal, error)
}

// Notifier is told about settled purchases so users can be informed.
type Notifier interface {
	TransactionCompleted(ctx context.Context, tx *Transaction, debited decimal.Decimal)
}

// AggregateMarker invalidates cached dashboard aggregates when a supplier's
// completed-transaction set changes.
type AggregateMarker interface {
	MarkStale(ctx context.Context) error
}

// Hooks are the downstream collaborators invoked on transaction settlement.
// Any of them may be nil.
type Hooks struct {
	Debitor    LoanDebitor
	Notifier   Notifier
	Aggregates AggregateMarker
}

// Service provides business logic for purchase transactions
type Service struct {
	repo   Repository
	prices PriceSource
	hooks  Hooks
	logger *zap.Logger
}

// NewService creates a new transactions service
func NewService(repo Repository, prices PriceSource, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		prices: prices,
		logger: logger,
	}
}

// SetHooks wires the settlement collaborators. Called once at startup, after
// the loan and notification services exist.
func (s *Service) SetHooks(hooks Hooks) {
	s.hooks = hooks
}

// Create records a new purchase in pending state. The price per kilo defaults
// to the configured copra price when the request does not carry one.
func (s *Service) Create(ctx context.Context, recordedBy uuid.UUID, req *CreateTransactionRequest) (*Transaction, error) {
	if req.NetWeight.IsNegative() || req.NetWeight.IsZero() {
		return nil, fmt.Errorf("net weight must be positive")
	}

	price := decimal.Zero
	if req.PricePerKilo != nil {
		price = *req.PricePerKilo
	} else {
		configured, err := s.prices.CopraPricePerKilo(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve copra price: %w", err)
		}
		price = configured
	}
	if price.IsNegative() || price.IsZero() {
		return nil, fmt.Errorf("price per kilo must be positive")
	}

	date := time.Now()
	if req.TransactionDate != nil {
		date = *req.TransactionDate
	}

	tx := &Transaction{
		ID:              uuid.New(),
		SupplierID:      req.SupplierID,
		NetWeight:       req.NetWeight,
		PricePerKilo:    price,
		TotalAmount:     req.NetWeight.Mul(price),
		Status:          StatusPending,
		TransactionDate: date,
		RecordedBy:      &recordedBy,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	if err := s.repo.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	s.logger.Info("Purchase transaction recorded",
		zap.String("transaction_id", tx.ID.String()),
		zap.String("supplier_id", tx.SupplierID.String()),
		zap.String("net_weight", tx.NetWeight.String()),
		zap.String("total_amount", tx.TotalAmount.String()))

	return tx, nil
}

// Get retrieves a transaction by ID
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetByID(ctx, id)
}

// List lists transactions with filters and pagination
func (s *Service) List(ctx context.Context, filters *TransactionFilters) (*TransactionListResponse, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 || filters.PageSize > 100 {
		filters.PageSize = 20
	}

	txs, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, err
	}

	return &TransactionListResponse{
		Transactions: txs,
		TotalCount:   total,
		Page:         filters.Page,
		PageSize:     filters.PageSize,
		HasMore:      filters.Page*filters.PageSize < total,
	}, nil
}

// Complete settles a pending purchase. The supplier's proceeds are handed to
// the loan auto-debit hook, which decides how much of them is withheld
// against an outstanding loan balance.
func (s *Service) Complete(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	tx, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if tx.Status != StatusPending {
		return nil, fmt.Errorf("only pending transactions can be completed (current status: %s)", tx.Status)
	}

	if err := s.repo.UpdateStatus(ctx, id, StatusCompleted); err != nil {
		return nil, err
	}
	tx.Status = StatusCompleted
	tx.UpdatedAt = time.Now()

	debited := decimal.Zero
	if s.hooks.Debitor != nil {
		debited, err = s.hooks.Debitor.ApplyAutoDebit(ctx, tx.SupplierID, tx.TotalAmount)
		if err != nil {
			// The purchase is already settled; a failed debit is recovered by
			// the next settlement, not by rolling back the completion.
			s.logger.Error("Auto-debit failed after settlement",
				zap.Error(err),
				zap.String("transaction_id", tx.ID.String()),
				zap.String("supplier_id", tx.SupplierID.String()))
			debited = decimal.Zero
		}
	}

	if s.hooks.Notifier != nil {
		s.hooks.Notifier.TransactionCompleted(ctx, tx, debited)
	}
	s.markAggregatesStale(ctx)

	s.logger.Info("Purchase transaction completed",
		zap.String("transaction_id", tx.ID.String()),
		zap.String("auto_debited", debited.String()))

	return tx, nil
}

// Cancel cancels a pending purchase
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.transition(ctx, id, StatusCancelled, StatusPending)
}

// Void voids a purchase recorded in error. Completed purchases may be voided;
// the resulting score change surfaces on the next recomputation.
func (s *Service) Void(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	tx, err := s.transition(ctx, id, StatusVoided, StatusPending, StatusCompleted)
	if err != nil {
		return nil, err
	}
	s.markAggregatesStale(ctx)
	return tx, nil
}

// HistoryBySupplier returns a supplier's full transaction history. It is the
// input feed for the credit score engine.
func (s *Service) HistoryBySupplier(ctx context.Context, supplierID uuid.UUID) ([]Transaction, error) {
	return s.repo.ListBySupplier(ctx, supplierID)
}

// StatsBySupplier summarizes a supplier's completed purchases
func (s *Service) StatsBySupplier(ctx context.Context, supplierID uuid.UUID) (*SupplierStats, error) {
	return s.repo.SupplierStats(ctx, supplierID)
}

func (s *Service) transition(ctx context.Context, id uuid.UUID, to Status, from ...Status) (*Transaction, error) {
	tx, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	allowed := false
	for _, status := range from {
		if tx.Status == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("transaction cannot move from %s to %s", tx.Status, to)
	}

	if err := s.repo.UpdateStatus(ctx, id, to); err != nil {
		return nil, err
	}
	tx.Status = to
	tx.UpdatedAt = time.Now()

	s.logger.Info("Transaction status changed",
		zap.String("transaction_id", id.String()),
		zap.String("status", string(to)))

	return tx, nil
}

func (s *Service) markAggregatesStale(ctx context.Context) {
	if s.hooks.Aggregates == nil {
		return
	}
	if err := s.hooks.Aggregates.MarkStale(ctx); err != nil {
		s.logger.Error("Failed to mark dashboard aggregates stale", zap.Error(err))
	}
}
