package suppliers

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"copra-trade/supplier-portal/supplier-portal-backend/internal/credit"
	"copra-trade/supplier-portal/supplier-portal-backend/internal/transactions"
)

// MockRepository is a mock implementation of Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, supplier *Supplier) error {
	args := m.Called(ctx, supplier)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*Supplier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Supplier), args.Error(1)
}

func (m *MockRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*Supplier, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Supplier), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, supplier *Supplier) error {
	args := m.Called(ctx, supplier)
	return args.Error(0)
}

func (m *MockRepository) List(ctx context.Context, filters *SupplierFilters) ([]*Supplier, int, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*Supplier), args.Int(1), args.Error(2)
}

// MockTransactionSource is a mock implementation of TransactionSource
type MockTransactionSource struct {
	mock.Mock
}

func (m *MockTransactionSource) HistoryBySupplier(ctx context.Context, supplierID uuid.UUID) ([]transactions.Transaction, error) {
	args := m.Called(ctx, supplierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]transactions.Transaction), args.Error(1)
}

func (m *MockTransactionSource) StatsBySupplier(ctx context.Context, supplierID uuid.UUID) (*transactions.SupplierStats, error) {
	args := m.Called(ctx, supplierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transactions.SupplierStats), args.Error(1)
}

func newTestService(repo *MockRepository, history *MockTransactionSource) *Service {
	return NewService(repo, history, zap.NewNop())
}

func TestCreditScoreWithHistory(t *testing.T) {
	repo := new(MockRepository)
	history := new(MockTransactionSource)
	service := newTestService(repo, history)

	supplierID := uuid.New()
	repo.On("GetByID", mock.Anything, supplierID).Return(&Supplier{ID: supplierID, Name: "Aling Nena"}, nil)

	var txs []transactions.Transaction
	for _, w := range []int64{100, 150, 200} {
		txs = append(txs, transactions.Transaction{
			ID:              uuid.New(),
			SupplierID:      supplierID,
			NetWeight:       decimal.NewFromInt(w),
			PricePerKilo:    decimal.NewFromInt(1),
			TotalAmount:     decimal.NewFromInt(w),
			Status:          transactions.StatusCompleted,
			TransactionDate: time.Now(),
		})
	}
	history.On("HistoryBySupplier", mock.Anything, supplierID).Return(txs, nil)

	response, err := service.CreditScore(context.Background(), supplierID)

	assert.NoError(t, err)
	assert.Equal(t, 52, response.Score.Score)
	assert.Equal(t, credit.CategoryGood, response.Score.Category)
	assert.Equal(t, "#84cc16", response.Color)
	assert.True(t, response.Score.IsEligible)
}

func TestCreditScoreDegradesOnHistoryFailure(t *testing.T) {
	repo := new(MockRepository)
	history := new(MockTransactionSource)
	service := newTestService(repo, history)

	supplierID := uuid.New()
	repo.On("GetByID", mock.Anything, supplierID).Return(&Supplier{ID: supplierID}, nil)
	history.On("HistoryBySupplier", mock.Anything, supplierID).Return(nil, fmt.Errorf("connection refused"))

	response, err := service.CreditScore(context.Background(), supplierID)

	assert.NoError(t, err)
	assert.Equal(t, 0, response.Score.Score)
	assert.Equal(t, credit.CategoryNoScore, response.Score.Category)
	assert.False(t, response.Score.IsEligible)
}

func TestCreditScoreUnknownSupplier(t *testing.T) {
	repo := new(MockRepository)
	service := newTestService(repo, new(MockTransactionSource))

	supplierID := uuid.New()
	repo.On("GetByID", mock.Anything, supplierID).Return(nil, fmt.Errorf("supplier not found"))

	_, err := service.CreditScore(context.Background(), supplierID)

	assert.Error(t, err)
}

func TestSupplierIDForUserMissingProfile(t *testing.T) {
	repo := new(MockRepository)
	service := newTestService(repo, new(MockTransactionSource))

	userID := uuid.New()
	repo.On("GetByUserID", mock.Anything, userID).Return(nil, fmt.Errorf("supplier not found"))

	id, err := service.SupplierIDForUser(context.Background(), userID)

	assert.NoError(t, err)
	assert.Nil(t, id)
}

func TestSupplierIDForUserLinkedProfile(t *testing.T) {
	repo := new(MockRepository)
	service := newTestService(repo, new(MockTransactionSource))

	userID := uuid.New()
	supplier := &Supplier{ID: uuid.New(), UserID: &userID}
	repo.On("GetByUserID", mock.Anything, userID).Return(supplier, nil)

	id, err := service.SupplierIDForUser(context.Background(), userID)

	assert.NoError(t, err)
	assert.Equal(t, supplier.ID, *id)
}

func TestCreateForUserBindsAccount(t *testing.T) {
	repo := new(MockRepository)
	service := newTestService(repo, new(MockTransactionSource))

	userID := uuid.New()
	repo.On("Create", mock.Anything, mock.MatchedBy(func(s *Supplier) bool {
		return s.UserID != nil && *s.UserID == userID && s.Name == "Mang Tomas" && s.IsActive
	})).Return(nil)

	id, err := service.CreateForUser(context.Background(), userID, "Mang Tomas", "0917", "San Pablo")

	assert.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)
	repo.AssertExpectations(t)
}

func TestUpdateRejectsEmptyName(t *testing.T) {
	repo := new(MockRepository)
	service := newTestService(repo, new(MockTransactionSource))

	supplierID := uuid.New()
	repo.On("GetByID", mock.Anything, supplierID).Return(&Supplier{ID: supplierID, Name: "Aling Nena"}, nil)

	empty := ""
	_, err := service.Update(context.Background(), supplierID, &UpdateSupplierRequest{Name: &empty})

	assert.Error(t, err)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
