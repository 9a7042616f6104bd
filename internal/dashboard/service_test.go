package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"copra-trade/supplier-portal/supplier-portal-backend/internal/transactions"
)

// MockRepository is a mock implementation of Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Get(ctx context.Context) (*Summary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Summary), args.Error(1)
}

func (m *MockRepository) Save(ctx context.Context, summary *Summary) error {
	args := m.Called(ctx, summary)
	return args.Error(0)
}

func (m *MockRepository) MarkStale(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockRepository) Recompute(ctx context.Context) (*Summary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Summary), args.Error(1)
}

func (m *MockRepository) ActiveSupplierIDs(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

// MockHistorySource is a mock implementation of HistorySource
type MockHistorySource struct {
	mock.Mock
}

func (m *MockHistorySource) HistoryBySupplier(ctx context.Context, supplierID uuid.UUID) ([]transactions.Transaction, error) {
	args := m.Called(ctx, supplierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]transactions.Transaction), args.Error(1)
}

func TestSummaryReturnsFreshSnapshot(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, new(MockHistorySource), zap.NewNop())

	cached := &Summary{CompletedTransactions: 42, ComputedAt: time.Now(), IsStale: false}
	repo.On("Get", mock.Anything).Return(cached, nil)

	summary, err := service.Summary(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 42, summary.CompletedTransactions)
	repo.AssertNotCalled(t, "Recompute", mock.Anything)
}

func TestSummaryRefreshesStaleSnapshot(t *testing.T) {
	repo := new(MockRepository)
	history := new(MockHistorySource)
	service := NewService(repo, history, zap.NewNop())

	stale := &Summary{CompletedTransactions: 42, IsStale: true}
	fresh := &Summary{CompletedTransactions: 43, ComputedAt: time.Now()}
	repo.On("Get", mock.Anything).Return(stale, nil)
	repo.On("Recompute", mock.Anything).Return(fresh, nil)
	repo.On("ActiveSupplierIDs", mock.Anything).Return([]uuid.UUID{}, nil)
	repo.On("Save", mock.Anything, fresh).Return(nil)

	summary, err := service.Summary(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 43, summary.CompletedTransactions)
	repo.AssertExpectations(t)
}

func TestSummaryComputesFirstSnapshot(t *testing.T) {
	repo := new(MockRepository)
	history := new(MockHistorySource)
	service := NewService(repo, history, zap.NewNop())

	fresh := &Summary{ActiveSuppliers: 7, ComputedAt: time.Now()}
	repo.On("Get", mock.Anything).Return(nil, ErrNoSnapshot)
	repo.On("Recompute", mock.Anything).Return(fresh, nil)
	repo.On("ActiveSupplierIDs", mock.Anything).Return([]uuid.UUID{}, nil)
	repo.On("Save", mock.Anything, fresh).Return(nil)

	summary, err := service.Summary(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 7, summary.ActiveSuppliers)
}

func TestRefreshDerivesCategoryDistribution(t *testing.T) {
	repo := new(MockRepository)
	history := new(MockHistorySource)
	service := NewService(repo, history, zap.NewNop())

	scored := uuid.New()
	unscored := uuid.New()
	fresh := &Summary{ActiveSuppliers: 2, ComputedAt: time.Now()}
	repo.On("Recompute", mock.Anything).Return(fresh, nil)
	repo.On("ActiveSupplierIDs", mock.Anything).Return([]uuid.UUID{scored, unscored}, nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*dashboard.Summary")).Return(nil)

	weight := decimal.NewFromInt(150)
	history.On("HistoryBySupplier", mock.Anything, scored).Return([]transactions.Transaction{{
		ID:           uuid.New(),
		SupplierID:   scored,
		NetWeight:    weight,
		PricePerKilo: decimal.NewFromInt(45),
		TotalAmount:  weight.Mul(decimal.NewFromInt(45)),
		Status:       transactions.StatusCompleted,
	}}, nil)
	history.On("HistoryBySupplier", mock.Anything, unscored).Return([]transactions.Transaction{}, nil)

	summary, err := service.Refresh(context.Background())

	assert.NoError(t, err)
	// One delivery scores a flat 20 (Poor); an empty history is No Score.
	assert.Equal(t, 1, summary.CategoryDistribution["Poor"])
	assert.Equal(t, 1, summary.CategoryDistribution["No Score"])
}
