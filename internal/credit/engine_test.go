package credit

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"copra-trade/supplier-portal/supplier-portal-backend/internal/transactions"
)

func completedTx(weight float64) transactions.Transaction {
	return transactions.Transaction{
		ID:         uuid.New(),
		SupplierID: uuid.New(),
		NetWeight:  decimal.NewFromFloat(weight),
		Status:     transactions.StatusCompleted,
	}
}

func TestComputeScoreEmptyHistory(t *testing.T) {
	result := ComputeScore(nil)

	assert.Equal(t, 0, result.Score)
	assert.Equal(t, CategoryNoScore, result.Category)
	assert.Equal(t, 0, result.TransactionConsistency)
	assert.Equal(t, 0, result.TotalSupplyScore)
	assert.Equal(t, 0, result.TransactionCountScore)
	assert.True(t, result.EligibleAmount.IsZero())
	assert.True(t, result.CreditPercentage.IsZero())
	assert.Equal(t, 0, result.TransactionCount)
	assert.False(t, result.IsEligible)
}

func TestComputeScoreIgnoresNonCompletedTransactions(t *testing.T) {
	txs := []transactions.Transaction{
		{NetWeight: decimal.NewFromInt(500), Status: transactions.StatusPending},
		{NetWeight: decimal.NewFromInt(500), Status: transactions.StatusCancelled},
		{NetWeight: decimal.NewFromInt(500), Status: transactions.StatusVoided},
	}

	result := ComputeScore(txs)

	assert.Equal(t, 0, result.TransactionCount)
	assert.False(t, result.IsEligible)
	assert.Equal(t, CategoryNoScore, result.Category)
}

func TestComputeScoreSingleTransaction(t *testing.T) {
	result := ComputeScore([]transactions.Transaction{completedTx(150)})

	assert.Equal(t, 20, result.Score, "single transaction earns the fixed starter score")
	assert.Equal(t, CategoryPoor, result.Category)
	assert.Equal(t, 100, result.TransactionConsistency)
	assert.Equal(t, 100, result.TotalSupplyScore)
	assert.Equal(t, 10, result.TransactionCountScore)
	assert.True(t, result.AverageTransactionAmount.Equal(decimal.NewFromInt(150)))
	assert.True(t, result.EligibleAmount.Equal(decimal.NewFromInt(60)), "eligible = round(150 * 0.40)")
	assert.True(t, result.CreditPercentage.Equal(decimal.NewFromFloat(0.40)))
	assert.True(t, result.IsEligible)
}

func TestComputeScoreThreeTransactions(t *testing.T) {
	// Weights 100/150/200: consistency 50, supply 75, count 30 -> score 52.
	txs := []transactions.Transaction{completedTx(100), completedTx(150), completedTx(200)}

	result := ComputeScore(txs)

	assert.Equal(t, 50, result.TransactionConsistency)
	assert.Equal(t, 75, result.TotalSupplyScore)
	assert.Equal(t, 30, result.TransactionCountScore)
	assert.Equal(t, 52, result.Score)
	assert.Equal(t, CategoryGood, result.Category)
	assert.Equal(t, 3, result.TransactionCount)
	assert.True(t, result.AverageTransactionAmount.Equal(decimal.NewFromInt(150)))
	assert.True(t, result.EligibleAmount.Equal(decimal.NewFromInt(60)))
	assert.True(t, result.IsEligible)
}

func TestComputeScoreIdenticalWeights(t *testing.T) {
	txs := []transactions.Transaction{completedTx(250), completedTx(250), completedTx(250), completedTx(250)}

	result := ComputeScore(txs)

	assert.Equal(t, 100, result.TransactionConsistency)
	assert.Equal(t, 100, result.TotalSupplyScore)
}

func TestComputeScoreCountScoreSaturates(t *testing.T) {
	var txs []transactions.Transaction
	for i := 0; i < 12; i++ {
		txs = append(txs, completedTx(100))
	}

	result := ComputeScore(txs)

	assert.Equal(t, 100, result.TransactionCountScore)
	assert.Equal(t, 100, result.Score)
	assert.Equal(t, CategoryExcellent, result.Category)
}

func TestComputeScoreZeroWeightGuard(t *testing.T) {
	txs := []transactions.Transaction{completedTx(0), completedTx(0)}

	result := ComputeScore(txs)

	assert.Equal(t, 0, result.TransactionConsistency)
	assert.Equal(t, 0, result.TotalSupplyScore)
	assert.Equal(t, 20, result.TransactionCountScore)
	assert.True(t, result.EligibleAmount.IsZero())
	assert.True(t, result.IsEligible, "eligibility depends on history presence, not weights")
}

func TestComputeScoreIdempotent(t *testing.T) {
	txs := []transactions.Transaction{completedTx(80), completedTx(120), completedTx(95)}

	first := ComputeScore(txs)
	second := ComputeScore(txs)

	assert.Equal(t, first, second)
	assert.True(t, txs[0].NetWeight.Equal(decimal.NewFromInt(80)), "input must not be mutated")
}

func TestCategoryOfBoundaries(t *testing.T) {
	cases := []struct {
		score    int
		expected Category
	}{
		{-5, CategoryNoScore},
		{0, CategoryNoScore},
		{1, CategoryPoor},
		{20, CategoryPoor},
		{21, CategoryFair},
		{40, CategoryFair},
		{41, CategoryGood},
		{60, CategoryGood},
		{61, CategoryVeryGood},
		{75, CategoryVeryGood},
		{76, CategoryExcellent},
		{100, CategoryExcellent},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.expected, CategoryOf(tc.score), "score %d", tc.score)
	}
}

func TestCategoryColorCoversAllCategories(t *testing.T) {
	categories := []Category{
		CategoryNoScore, CategoryPoor, CategoryFair,
		CategoryGood, CategoryVeryGood, CategoryExcellent,
	}
	for _, c := range categories {
		assert.NotEmpty(t, CategoryColor(c))
	}
}

func TestIsEligibleForLoan(t *testing.T) {
	assert.False(t, IsEligibleForLoan(0))
	assert.True(t, IsEligibleForLoan(1))
	assert.True(t, IsEligibleForLoan(25))
}
