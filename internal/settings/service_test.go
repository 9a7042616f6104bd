package settings

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockRepository is a mock implementation of Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Get(ctx context.Context, key string) (*Setting, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Setting), args.Error(1)
}

func (m *MockRepository) Upsert(ctx context.Context, setting *Setting) error {
	args := m.Called(ctx, setting)
	return args.Error(0)
}

func (m *MockRepository) List(ctx context.Context) ([]*Setting, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Setting), args.Error(1)
}

func TestCopraPriceFallsBackToDefault(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, zap.NewNop())

	repo.On("Get", mock.Anything, KeyCopraPricePerKilo).Return(nil, ErrSettingNotFound)

	price, err := service.CopraPricePerKilo(context.Background())

	assert.NoError(t, err)
	assert.True(t, price.Equal(DefaultCopraPricePerKilo))
}

func TestCopraPriceUsesStoredValue(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, zap.NewNop())

	repo.On("Get", mock.Anything, KeyCopraPricePerKilo).Return(&Setting{
		Key:   KeyCopraPricePerKilo,
		Value: decimal.NewFromFloat(52.50),
	}, nil)

	price, err := service.CopraPricePerKilo(context.Background())

	assert.NoError(t, err)
	assert.True(t, price.Equal(decimal.NewFromFloat(52.50)))
}

func TestUpdateRejectsUnknownKey(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, zap.NewNop())

	_, err := service.Update(context.Background(), "shipping_fee", decimal.NewFromInt(10), "admin")

	assert.Error(t, err)
	repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestUpdateValidatesInterestRateRange(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, zap.NewNop())

	_, err := service.Update(context.Background(), KeyLoanInterestRate, decimal.NewFromFloat(1.5), "admin")
	assert.Error(t, err)

	repo.On("Upsert", mock.Anything, mock.AnythingOfType("*settings.Setting")).Return(nil)
	setting, err := service.Update(context.Background(), KeyLoanInterestRate, decimal.NewFromFloat(0.08), "admin")
	assert.NoError(t, err)
	assert.True(t, setting.Value.Equal(decimal.NewFromFloat(0.08)))
}

func TestUpdateRejectsNonPositivePrice(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, zap.NewNop())

	_, err := service.Update(context.Background(), KeyCopraPricePerKilo, decimal.Zero, "admin")

	assert.Error(t, err)
}
