package credit

import "github.com/shopspring/decimal"

// Lending policy constants. These are business rules fixed by the trading
// operation, not derived values; every consumer (loan requests, auto-debit,
// statement rendering) must read them from here.
const (
	// IdealTransactionCycle is the completed-transaction count at which the
	// count sub-score saturates at 100.
	IdealTransactionCycle = 10

	// LoanDueDays is the repayment term applied to every loan at creation.
	LoanDueDays = 45

	// AutoDebitPercent is the share of a supplier's transaction proceeds
	// applied to an outstanding loan balance until it is paid off.
	AutoDebitPercent = 100
)

// CreditPercentage is the multiplier applied to a supplier's average
// completed-transaction weight to derive the eligible loan amount. It is
// independent of the credit score.
var CreditPercentage = decimal.NewFromFloat(0.40)
