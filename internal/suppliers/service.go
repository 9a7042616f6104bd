package suppliers

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"copra-trade/supplier-portal/supplier-portal-backend/internal/credit"
	"copra-trade/supplier-portal/supplier-portal-backend/internal/transactions"
)

// TransactionSource supplies delivery history and statistics for scoring
type TransactionSource interface {
	HistoryBySupplier(ctx context.Context, supplierID uuid.UUID) ([]transactions.Transaction, error)
	StatsBySupplier(ctx context.Context, supplierID uuid.UUID) (*transactions.SupplierStats, error)
}

// Service handles supplier business logic
type Service struct {
	repo    Repository
	history TransactionSource
	logger  *zap.Logger
}

// NewService creates a new supplier service
func NewService(repo Repository, history TransactionSource, logger *zap.Logger) *Service {
	return &Service{repo: repo, history: history, logger: logger}
}

// Create registers a supplier profile entered by staff
func (s *Service) Create(ctx context.Context, req *CreateSupplierRequest) (*Supplier, error) {
	supplier := &Supplier{
		ID:            uuid.New(),
		Name:          req.Name,
		ContactNumber: req.ContactNumber,
		Address:       req.Address,
		IsActive:      true,
	}
	if err := s.repo.Create(ctx, supplier); err != nil {
		return nil, err
	}

	s.logger.Info("Supplier created", zap.String("supplier_id", supplier.ID.String()), zap.String("name", supplier.Name))
	return supplier, nil
}

// CreateForUser registers a supplier profile bound to a login account. It
// backs supplier self-signup.
func (s *Service) CreateForUser(ctx context.Context, userID uuid.UUID, name, contact, address string) (uuid.UUID, error) {
	supplier := &Supplier{
		ID:            uuid.New(),
		UserID:        &userID,
		Name:          name,
		ContactNumber: contact,
		Address:       address,
		IsActive:      true,
	}
	if err := s.repo.Create(ctx, supplier); err != nil {
		return uuid.Nil, err
	}
	return supplier.ID, nil
}

// SupplierIDForUser resolves the supplier profile bound to a user account.
// Returns nil without error when the account has no profile.
func (s *Service) SupplierIDForUser(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error) {
	supplier, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if err.Error() == "supplier not found" {
			return nil, nil
		}
		return nil, err
	}
	return &supplier.ID, nil
}

// Get returns a supplier profile
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Supplier, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns suppliers matching the filters with pagination
func (s *Service) List(ctx context.Context, filters *SupplierFilters) (*SupplierListResponse, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 || filters.PageSize > 100 {
		filters.PageSize = 20
	}

	suppliers, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, err
	}

	return &SupplierListResponse{
		Suppliers:  suppliers,
		TotalCount: total,
		Page:       filters.Page,
		PageSize:   filters.PageSize,
		HasMore:    filters.Page*filters.PageSize < total,
	}, nil
}

// Update applies partial profile changes
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *UpdateSupplierRequest) (*Supplier, error) {
	supplier, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, fmt.Errorf("supplier name cannot be empty")
		}
		supplier.Name = *req.Name
	}
	if req.ContactNumber != nil {
		supplier.ContactNumber = *req.ContactNumber
	}
	if req.Address != nil {
		supplier.Address = *req.Address
	}

	if err := s.repo.Update(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

// Deactivate hides a supplier from active listings without deleting history
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) (*Supplier, error) {
	supplier, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	supplier.IsActive = false
	if err := s.repo.Update(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

// CreditScore computes the supplier's current credit standing. A history
// fetch failure degrades to an empty history rather than an error, so the
// dashboard always has a score card to render.
func (s *Service) CreditScore(ctx context.Context, id uuid.UUID) (*CreditScoreResponse, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	history, err := s.history.HistoryBySupplier(ctx, id)
	if err != nil {
		s.logger.Warn("Failed to fetch delivery history for scoring, using empty history",
			zap.Error(err), zap.String("supplier_id", id.String()))
		history = nil
	}

	score := credit.ComputeScore(history)
	return &CreditScoreResponse{
		SupplierID: id,
		Score:      score,
		Color:      credit.CategoryColor(score.Category),
	}, nil
}

// Stats returns a supplier's delivery statistics
func (s *Service) Stats(ctx context.Context, id uuid.UUID) (*transactions.SupplierStats, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	stats, err := s.history.StatsBySupplier(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch supplier stats: %w", err)
	}
	return stats, nil
}

// Overview returns a profile alongside its delivery statistics
func (s *Service) Overview(ctx context.Context, id uuid.UUID) (*SupplierOverview, error) {
	supplier, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	stats, err := s.history.StatsBySupplier(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch supplier stats: %w", err)
	}

	return &SupplierOverview{Supplier: supplier, Stats: stats}, nil
}
