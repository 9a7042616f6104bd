package transactions

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockRepository is a mock implementation of Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, tx *Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Transaction), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, filters *TransactionFilters) ([]*Transaction, int, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*Transaction), args.Int(1), args.Error(2)
}

func (m *MockRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockRepository) ListBySupplier(ctx context.Context, supplierID uuid.UUID) ([]Transaction, error) {
	args := m.Called(ctx, supplierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Transaction), args.Error(1)
}

func (m *MockRepository) SupplierStats(ctx context.Context, supplierID uuid.UUID) (*SupplierStats, error) {
	args := m.Called(ctx, supplierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*SupplierStats), args.Error(1)
}

// MockPriceSource is a mock implementation of PriceSource
type MockPriceSource struct {
	mock.Mock
}

func (m *MockPriceSource) CopraPricePerKilo(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockDebitor is a mock implementation of LoanDebitor
type MockDebitor struct {
	mock.Mock
}

func (m *MockDebitor) ApplyAutoDebit(ctx context.Context, supplierID uuid.UUID, proceeds decimal.Decimal) (decimal.Decimal, error) {
	args := m.Called(ctx, supplierID, proceeds)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockNotifier is a mock implementation of Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) TransactionCompleted(ctx context.Context, tx *Transaction, debited decimal.Decimal) {
	m.Called(ctx, tx, debited)
}

// MockAggregateMarker is a mock implementation of AggregateMarker
type MockAggregateMarker struct {
	mock.Mock
}

func (m *MockAggregateMarker) MarkStale(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func TestCreateDefaultsPriceFromSettings(t *testing.T) {
	repo := new(MockRepository)
	prices := new(MockPriceSource)
	service := NewService(repo, prices, zap.NewNop())

	prices.On("CopraPricePerKilo", mock.Anything).Return(decimal.NewFromInt(45), nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*transactions.Transaction")).Return(nil)

	tx, err := service.Create(context.Background(), uuid.New(), &CreateTransactionRequest{
		SupplierID: uuid.New(),
		NetWeight:  decimal.NewFromInt(100),
	})

	assert.NoError(t, err)
	assert.True(t, tx.PricePerKilo.Equal(decimal.NewFromInt(45)))
	assert.True(t, tx.TotalAmount.Equal(decimal.NewFromInt(4500)))
	assert.Equal(t, StatusPending, tx.Status)
}

func TestCreateUsesExplicitPrice(t *testing.T) {
	repo := new(MockRepository)
	prices := new(MockPriceSource)
	service := NewService(repo, prices, zap.NewNop())

	repo.On("Create", mock.Anything, mock.AnythingOfType("*transactions.Transaction")).Return(nil)

	price := decimal.NewFromInt(50)
	tx, err := service.Create(context.Background(), uuid.New(), &CreateTransactionRequest{
		SupplierID:   uuid.New(),
		NetWeight:    decimal.NewFromInt(80),
		PricePerKilo: &price,
	})

	assert.NoError(t, err)
	assert.True(t, tx.TotalAmount.Equal(decimal.NewFromInt(4000)))
	prices.AssertNotCalled(t, "CopraPricePerKilo", mock.Anything)
}

func TestCreateRejectsNonPositiveWeight(t *testing.T) {
	service := NewService(new(MockRepository), new(MockPriceSource), zap.NewNop())

	_, err := service.Create(context.Background(), uuid.New(), &CreateTransactionRequest{
		SupplierID: uuid.New(),
		NetWeight:  decimal.Zero,
	})

	assert.Error(t, err)
}

func TestCompleteRunsSettlementHooks(t *testing.T) {
	repo := new(MockRepository)
	debitor := new(MockDebitor)
	notifier := new(MockNotifier)
	aggregates := new(MockAggregateMarker)
	service := NewService(repo, new(MockPriceSource), zap.NewNop())
	service.SetHooks(Hooks{Debitor: debitor, Notifier: notifier, Aggregates: aggregates})

	supplierID := uuid.New()
	tx := &Transaction{
		ID:          uuid.New(),
		SupplierID:  supplierID,
		TotalAmount: decimal.NewFromInt(4500),
		Status:      StatusPending,
	}
	repo.On("GetByID", mock.Anything, tx.ID).Return(tx, nil)
	repo.On("UpdateStatus", mock.Anything, tx.ID, StatusCompleted).Return(nil)
	debitor.On("ApplyAutoDebit", mock.Anything, supplierID, decimal.NewFromInt(4500)).Return(decimal.NewFromInt(500), nil)
	notifier.On("TransactionCompleted", mock.Anything, tx, decimal.NewFromInt(500)).Return()
	aggregates.On("MarkStale", mock.Anything).Return(nil)

	completed, err := service.Complete(context.Background(), tx.ID)

	assert.NoError(t, err)
	assert.Equal(t, StatusCompleted, completed.Status)
	debitor.AssertExpectations(t)
	notifier.AssertExpectations(t)
	aggregates.AssertExpectations(t)
}

func TestCompleteSurvivesDebitFailure(t *testing.T) {
	repo := new(MockRepository)
	debitor := new(MockDebitor)
	notifier := new(MockNotifier)
	service := NewService(repo, new(MockPriceSource), zap.NewNop())
	service.SetHooks(Hooks{Debitor: debitor, Notifier: notifier})

	tx := &Transaction{ID: uuid.New(), SupplierID: uuid.New(), TotalAmount: decimal.NewFromInt(100), Status: StatusPending}
	repo.On("GetByID", mock.Anything, tx.ID).Return(tx, nil)
	repo.On("UpdateStatus", mock.Anything, tx.ID, StatusCompleted).Return(nil)
	debitor.On("ApplyAutoDebit", mock.Anything, tx.SupplierID, mock.Anything).Return(decimal.Zero, fmt.Errorf("loans unavailable"))
	notifier.On("TransactionCompleted", mock.Anything, tx, decimal.Zero).Return()

	completed, err := service.Complete(context.Background(), tx.ID)

	assert.NoError(t, err)
	assert.Equal(t, StatusCompleted, completed.Status)
}

func TestCompleteRequiresPendingStatus(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, new(MockPriceSource), zap.NewNop())

	tx := &Transaction{ID: uuid.New(), Status: StatusCompleted}
	repo.On("GetByID", mock.Anything, tx.ID).Return(tx, nil)

	_, err := service.Complete(context.Background(), tx.ID)

	assert.Error(t, err)
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestCancelOnlyFromPending(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, new(MockPriceSource), zap.NewNop())

	tx := &Transaction{ID: uuid.New(), Status: StatusCompleted}
	repo.On("GetByID", mock.Anything, tx.ID).Return(tx, nil)

	_, err := service.Cancel(context.Background(), tx.ID)

	assert.Error(t, err)
}

func TestVoidCompletedMarksAggregatesStale(t *testing.T) {
	repo := new(MockRepository)
	aggregates := new(MockAggregateMarker)
	service := NewService(repo, new(MockPriceSource), zap.NewNop())
	service.SetHooks(Hooks{Aggregates: aggregates})

	tx := &Transaction{ID: uuid.New(), Status: StatusCompleted}
	repo.On("GetByID", mock.Anything, tx.ID).Return(tx, nil)
	repo.On("UpdateStatus", mock.Anything, tx.ID, StatusVoided).Return(nil)
	aggregates.On("MarkStale", mock.Anything).Return(nil)

	voided, err := service.Void(context.Background(), tx.ID)

	assert.NoError(t, err)
	assert.Equal(t, StatusVoided, voided.Status)
	aggregates.AssertExpectations(t)
}

func TestListClampsPagination(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, new(MockPriceSource), zap.NewNop())

	repo.On("List", mock.Anything, mock.MatchedBy(func(f *TransactionFilters) bool {
		return f.Page == 1 && f.PageSize == 20
	})).Return([]*Transaction{}, 0, nil)

	_, err := service.List(context.Background(), &TransactionFilters{Page: -3, PageSize: 9999})

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}
