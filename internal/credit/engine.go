package credit

import (
	"github.com/shopspring/decimal"

	"copra-trade/supplier-portal/supplier-portal-backend/internal/transactions"
)

// Category is the qualitative creditworthiness band derived from the score
type Category string

const (
	CategoryNoScore   Category = "No Score"
	CategoryPoor      Category = "Poor"
	CategoryFair      Category = "Fair"
	CategoryGood      Category = "Good"
	CategoryVeryGood  Category = "Very Good"
	CategoryExcellent Category = "Excellent"
)

// ScoreResult is the full output of a credit score computation. It is always
// recomputed from the supplier's current transaction history and never stored
// as a source of truth.
type ScoreResult struct {
	Score                    int             `json:"score"`
	Category                 Category        `json:"category"`
	TransactionConsistency   int             `json:"transaction_consistency"`
	TotalSupplyScore         int             `json:"total_supply_score"`
	TransactionCountScore    int             `json:"transaction_count_score"`
	AverageTransactionAmount decimal.Decimal `json:"average_transaction_amount"`
	EligibleAmount           decimal.Decimal `json:"eligible_amount"`
	CreditPercentage         decimal.Decimal `json:"credit_percentage"`
	TransactionCount         int             `json:"transaction_count"`
	IsEligible               bool            `json:"is_eligible"`
}

var (
	oneHundred = decimal.NewFromInt(100)
	three      = decimal.NewFromInt(3)
)

// ComputeScore converts a supplier's transaction history into a credit score,
// category, component sub-scores, and an eligible loan amount. Only completed
// transactions are counted; the filter is applied here so callers may pass the
// raw history. Scoring is based on supply volume (net weight), not peso value.
//
// Callers must supply non-negative, finite weights; inputs outside that domain
// are not defended against. The function is deterministic and does not mutate
// its input.
func ComputeScore(txs []transactions.Transaction) ScoreResult {
	var weights []decimal.Decimal
	for _, t := range txs {
		if t.Status == transactions.StatusCompleted {
			weights = append(weights, t.NetWeight)
		}
	}

	n := len(weights)
	if n == 0 {
		return ScoreResult{
			Category:                 CategoryNoScore,
			AverageTransactionAmount: decimal.Zero,
			EligibleAmount:           decimal.Zero,
			CreditPercentage:         decimal.Zero,
		}
	}

	totalSupplied := decimal.Zero
	smallest, largest := weights[0], weights[0]
	for _, w := range weights {
		totalSupplied = totalSupplied.Add(w)
		if w.LessThan(smallest) {
			smallest = w
		}
		if w.GreaterThan(largest) {
			largest = w
		}
	}

	average := totalSupplied.Div(decimal.NewFromInt(int64(n)))
	eligible := average.Mul(CreditPercentage).Round(0)

	if n == 1 {
		// A single completed transaction earns a fixed starter score of 20
		// rather than the averaged formula below.
		return ScoreResult{
			Score:                    20,
			Category:                 CategoryOf(20),
			TransactionConsistency:   100,
			TotalSupplyScore:         100,
			TransactionCountScore:    10,
			AverageTransactionAmount: average,
			EligibleAmount:           eligible,
			CreditPercentage:         CreditPercentage,
			TransactionCount:         1,
			IsEligible:               true,
		}
	}

	// Volume stability: ratio of the smallest delivery to the largest.
	consistency := 0
	if largest.IsPositive() {
		consistency = roundToInt(smallest.Div(largest).Mul(oneHundred))
	}

	// How close total volume is to every delivery matching the peak delivery.
	supplyScore := 0
	maxPossibleSupply := largest.Mul(decimal.NewFromInt(int64(n)))
	if maxPossibleSupply.IsPositive() {
		supplyScore = roundToInt(totalSupplied.Div(maxPossibleSupply).Mul(oneHundred))
	}

	// Saturates at 100 once the supplier reaches the ideal cycle count.
	countScore := n * 100 / IdealTransactionCycle
	if countScore > 100 {
		countScore = 100
	}

	score := roundToInt(decimal.NewFromInt(int64(consistency + supplyScore + countScore)).Div(three))

	return ScoreResult{
		Score:                    score,
		Category:                 CategoryOf(score),
		TransactionConsistency:   consistency,
		TotalSupplyScore:         supplyScore,
		TransactionCountScore:    countScore,
		AverageTransactionAmount: average,
		EligibleAmount:           eligible,
		CreditPercentage:         CreditPercentage,
		TransactionCount:         n,
		IsEligible:               true,
	}
}

// CategoryOf maps a score to its category band. Thresholds are evaluated in
// ascending order, first match wins.
func CategoryOf(score int) Category {
	switch {
	case score <= 0:
		return CategoryNoScore
	case score <= 20:
		return CategoryPoor
	case score <= 40:
		return CategoryFair
	case score <= 60:
		return CategoryGood
	case score <= 75:
		return CategoryVeryGood
	default:
		return CategoryExcellent
	}
}

// CategoryColor returns the display color token for a category. Presentation
// only; charts and statements share this single mapping.
func CategoryColor(category Category) string {
	switch category {
	case CategoryPoor:
		return "#ef4444"
	case CategoryFair:
		return "#f97316"
	case CategoryGood:
		return "#eab308"
	case CategoryVeryGood:
		return "#84cc16"
	case CategoryExcellent:
		return "#22c55e"
	default:
		return "#9ca3af"
	}
}

// IsEligibleForLoan reports whether a supplier may request a loan. Any
// completed transaction history qualifies; the score itself is deliberately
// not a factor.
func IsEligibleForLoan(transactionCount int) bool {
	return transactionCount >= 1
}

func roundToInt(d decimal.Decimal) int {
	return int(d.Round(0).IntPart())
}
