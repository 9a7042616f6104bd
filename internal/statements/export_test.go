package statements

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"copra-trade/supplier-portal/supplier-portal-backend/internal/credit"
	"copra-trade/supplier-portal/supplier-portal-backend/internal/loans"
	"copra-trade/supplier-portal/supplier-portal-backend/internal/suppliers"
	"copra-trade/supplier-portal/supplier-portal-backend/internal/transactions"
)

func sampleTransaction(weight, price float64) *transactions.Transaction {
	w := decimal.NewFromFloat(weight)
	p := decimal.NewFromFloat(price)
	return &transactions.Transaction{
		ID:              uuid.New(),
		SupplierID:      uuid.New(),
		NetWeight:       w,
		PricePerKilo:    p,
		TotalAmount:     w.Mul(p),
		Status:          transactions.StatusCompleted,
		TransactionDate: time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
	}
}

func TestWriteLedgerCSV(t *testing.T) {
	tx := sampleTransaction(120, 45)

	var buf bytes.Buffer
	err := writeLedgerCSV([]*transactions.Transaction{tx}, &buf)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Date,Transaction ID,Supplier ID,Net Weight (kg),Price / kg,Total Amount,Status", lines[0])
	assert.Contains(t, lines[1], "2026-08-20")
	assert.Contains(t, lines[1], tx.ID.String())
	assert.Contains(t, lines[1], "5400")
	assert.Contains(t, lines[1], "completed")
}

func TestWriteLedgerCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	err := writeLedgerCSV(nil, &buf)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 1)
}

func TestWriteLedgerWorkbook(t *testing.T) {
	txs := []*transactions.Transaction{
		sampleTransaction(120, 45),
		sampleTransaction(80, 45),
	}

	var buf bytes.Buffer
	err := writeLedgerWorkbook(txs, &buf)
	require.NoError(t, err)
	assert.Greater(t, buf.Len(), 0)
	// xlsx files are zip archives
	assert.Equal(t, []byte{'P', 'K'}, buf.Bytes()[:2])
}

func TestWriteStatementPDF(t *testing.T) {
	supplierID := uuid.New()
	statement := &supplierStatement{
		Supplier: &suppliers.Supplier{
			ID:            supplierID,
			Name:          "Aling Nena",
			ContactNumber: "0917 555 0101",
			Address:       "San Pablo, Laguna",
		},
		Score: &suppliers.CreditScoreResponse{
			SupplierID: supplierID,
			Score: credit.ScoreResult{
				Score:            52,
				Category:         credit.CategoryGood,
				TransactionCount: 3,
				EligibleAmount:   decimal.NewFromInt(60),
				IsEligible:       true,
			},
			Color: "#84cc16",
		},
		History: []transactions.Transaction{*sampleTransaction(120, 45)},
		Loans: []*loans.Loan{{
			ID:                uuid.New(),
			SupplierID:        supplierID,
			Amount:            decimal.NewFromInt(60),
			TotalWithInterest: decimal.NewFromInt(63),
			TotalPaid:         decimal.NewFromInt(20),
			Status:            loans.StatusApproved,
			DueDate:           time.Date(2026, 10, 4, 0, 0, 0, 0, time.UTC),
		}},
		GeneratedAt: time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC),
	}

	var buf bytes.Buffer
	err := writeStatementPDF(statement, &buf)
	require.NoError(t, err)
	assert.Greater(t, buf.Len(), 0)
	assert.Equal(t, "%PDF", string(buf.Bytes()[:4]))
}

func TestWriteStatementPDFEmptyHistory(t *testing.T) {
	supplierID := uuid.New()
	statement := &supplierStatement{
		Supplier: &suppliers.Supplier{ID: supplierID, Name: "Mang Tomas"},
		Score: &suppliers.CreditScoreResponse{
			SupplierID: supplierID,
			Score:      credit.ScoreResult{Category: credit.CategoryNoScore},
			Color:      "#9ca3af",
		},
		GeneratedAt: time.Now(),
	}

	var buf bytes.Buffer
	err := writeStatementPDF(statement, &buf)
	require.NoError(t, err)
	assert.Greater(t, buf.Len(), 0)
}
