package settings

import (
	"time"

	"github.com/shopspring/decimal"
)

// Setting keys. Values are stored as decimal strings.
const (
	KeyCopraPricePerKilo = "copra_price_per_kilo"
	KeyLoanInterestRate  = "loan_interest_rate"
)

// Defaults used until an admin sets a value
var (
	DefaultCopraPricePerKilo = decimal.NewFromInt(45)
	DefaultLoanInterestRate  = decimal.NewFromFloat(0.05)
)

// Setting is a single trading parameter
type Setting struct {
	Key       string          `json:"key"`
	Value     decimal.Decimal `json:"value"`
	UpdatedBy string          `json:"updated_by,omitempty"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// UpdateSettingRequest carries a new value for a trading parameter
type UpdateSettingRequest struct {
	Value decimal.Decimal `json:"value" binding:"required"`
}
