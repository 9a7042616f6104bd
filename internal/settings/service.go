package settings

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service handles trading parameter lookups and updates. Unset keys fall back
// to the compiled-in defaults so a fresh install can trade immediately.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// CopraPricePerKilo returns the current buying price for copra
func (s *Service) CopraPricePerKilo(ctx context.Context) (decimal.Decimal, error) {
	return s.value(ctx, KeyCopraPricePerKilo, DefaultCopraPricePerKilo)
}

// LoanInterestRate returns the flat interest rate applied to new loans
func (s *Service) LoanInterestRate(ctx context.Context) (decimal.Decimal, error) {
	return s.value(ctx, KeyLoanInterestRate, DefaultLoanInterestRate)
}

// List returns every configured parameter, with defaults filled in for keys
// that were never set.
func (s *Service) List(ctx context.Context) ([]*Setting, error) {
	stored, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(stored))
	for _, setting := range stored {
		seen[setting.Key] = true
	}
	for key, fallback := range map[string]decimal.Decimal{
		KeyCopraPricePerKilo: DefaultCopraPricePerKilo,
		KeyLoanInterestRate:  DefaultLoanInterestRate,
	} {
		if !seen[key] {
			stored = append(stored, &Setting{Key: key, Value: fallback})
		}
	}
	return stored, nil
}

// Update sets a trading parameter. Only known keys are accepted.
func (s *Service) Update(ctx context.Context, key string, value decimal.Decimal, updatedBy string) (*Setting, error) {
	switch key {
	case KeyCopraPricePerKilo:
		if !value.IsPositive() {
			return nil, fmt.Errorf("copra price must be positive")
		}
	case KeyLoanInterestRate:
		if value.IsNegative() || value.GreaterThan(decimal.NewFromInt(1)) {
			return nil, fmt.Errorf("interest rate must be between 0 and 1")
		}
	default:
		return nil, fmt.Errorf("unknown setting: %s", key)
	}

	setting := &Setting{Key: key, Value: value, UpdatedBy: updatedBy}
	if err := s.repo.Upsert(ctx, setting); err != nil {
		return nil, err
	}

	s.logger.Info("Trading parameter updated",
		zap.String("key", key),
		zap.String("value", value.String()),
		zap.String("updated_by", updatedBy))
	return setting, nil
}

func (s *Service) value(ctx context.Context, key string, fallback decimal.Decimal) (decimal.Decimal, error) {
	setting, err := s.repo.Get(ctx, key)
	if err == ErrSettingNotFound {
		return fallback, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	return setting.Value, nil
}
