package dashboard

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"copra-trade/supplier-portal/supplier-portal-backend/internal/credit"
	"copra-trade/supplier-portal/supplier-portal-backend/internal/transactions"
)

// HistorySource supplies delivery histories for the category distribution
type HistorySource interface {
	HistoryBySupplier(ctx context.Context, supplierID uuid.UUID) ([]transactions.Transaction, error)
}

// Service handles dashboard snapshot reads and refreshes
type Service struct {
	repo    Repository
	history HistorySource
	logger  *zap.Logger
}

// NewService creates a new dashboard service
func NewService(repo Repository, history HistorySource, logger *zap.Logger) *Service {
	return &Service{repo: repo, history: history, logger: logger}
}

// Summary returns the current snapshot, refreshing it first when it is stale
// or has never been computed.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	summary, err := s.repo.Get(ctx)
	if err == ErrNoSnapshot {
		return s.Refresh(ctx)
	}
	if err != nil {
		return nil, err
	}

	if summary.IsStale {
		return s.Refresh(ctx)
	}
	return summary, nil
}

// Refresh recomputes the snapshot from the live tables and saves it. Scores
// are never read from storage; the category distribution is re-derived by
// running the engine over each active supplier's current history.
func (s *Service) Refresh(ctx context.Context) (*Summary, error) {
	summary, err := s.repo.Recompute(ctx)
	if err != nil {
		return nil, err
	}

	summary.CategoryDistribution, err = s.categoryDistribution(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, summary); err != nil {
		return nil, err
	}

	s.logger.Debug("Dashboard snapshot refreshed",
		zap.Int("completed_transactions", summary.CompletedTransactions),
		zap.Int("overdue_loans", summary.OverdueLoans))
	return summary, nil
}

// MarkStale flags the snapshot for recomputation on the next read. Called by
// the transaction pipeline after anything that moves the numbers.
func (s *Service) MarkStale(ctx context.Context) error {
	return s.repo.MarkStale(ctx)
}

func (s *Service) categoryDistribution(ctx context.Context) (map[string]int, error) {
	ids, err := s.repo.ActiveSupplierIDs(ctx)
	if err != nil {
		return nil, err
	}

	distribution := make(map[string]int)
	for _, id := range ids {
		history, err := s.history.HistoryBySupplier(ctx, id)
		if err != nil {
			s.logger.Warn("Skipping supplier in category distribution",
				zap.Error(err), zap.String("supplier_id", id.String()))
			continue
		}
		score := credit.ComputeScore(history)
		distribution[string(score.Category)]++
	}
	return distribution, nil
}
