package statements

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"copra-trade/supplier-portal/supplier-portal-backend/internal/loans"
	"copra-trade/supplier-portal/supplier-portal-backend/internal/suppliers"
	"copra-trade/supplier-portal/supplier-portal-backend/internal/transactions"
)

// LedgerSource supplies the transactions that make up a ledger export
type LedgerSource interface {
	List(ctx context.Context, filters *transactions.TransactionFilters) (*transactions.TransactionListResponse, error)
	HistoryBySupplier(ctx context.Context, supplierID uuid.UUID) ([]transactions.Transaction, error)
}

// ProfileSource supplies supplier profiles and their credit standing
type ProfileSource interface {
	Get(ctx context.Context, id uuid.UUID) (*suppliers.Supplier, error)
	CreditScore(ctx context.Context, id uuid.UUID) (*suppliers.CreditScoreResponse, error)
}

// LoanSource supplies a supplier's loans for the statement
type LoanSource interface {
	List(ctx context.Context, filters *loans.LoanFilters) (*loans.LoanListResponse, error)
}

// Service renders transaction ledgers and supplier statements
type Service struct {
	ledger   LedgerSource
	profiles ProfileSource
	loans    LoanSource
	logger   *zap.Logger
}

// NewService creates a new statements service
func NewService(ledger LedgerSource, profiles ProfileSource, loanSource LoanSource, logger *zap.Logger) *Service {
	return &Service{
		ledger:   ledger,
		profiles: profiles,
		loans:    loanSource,
		logger:   logger,
	}
}

// ledgerPageSize bounds a single export to one repository round trip
const ledgerPageSize = 100

// fetchLedger pages through the transaction listing for an export
func (s *Service) fetchLedger(ctx context.Context, filters *transactions.TransactionFilters) ([]*transactions.Transaction, error) {
	var all []*transactions.Transaction
	filters.Page = 1
	filters.PageSize = ledgerPageSize

	for {
		page, err := s.ledger.List(ctx, filters)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch ledger page %d: %w", filters.Page, err)
		}
		all = append(all, page.Transactions...)
		if !page.HasMore {
			return all, nil
		}
		filters.Page++
	}
}

// WriteLedgerExcel writes the transaction ledger as an Excel workbook
func (s *Service) WriteLedgerExcel(ctx context.Context, filters *transactions.TransactionFilters, w io.Writer) error {
	txs, err := s.fetchLedger(ctx, filters)
	if err != nil {
		return err
	}

	s.logger.Info("Exporting transaction ledger to Excel", zap.Int("rows", len(txs)))
	return writeLedgerWorkbook(txs, w)
}

// WriteLedgerCSV writes the transaction ledger as CSV
func (s *Service) WriteLedgerCSV(ctx context.Context, filters *transactions.TransactionFilters, w io.Writer) error {
	txs, err := s.fetchLedger(ctx, filters)
	if err != nil {
		return err
	}

	s.logger.Info("Exporting transaction ledger to CSV", zap.Int("rows", len(txs)))
	return writeLedgerCSV(txs, w)
}

// WriteSupplierStatement writes a supplier's PDF statement: profile, credit
// standing, delivery history, and loan summary.
func (s *Service) WriteSupplierStatement(ctx context.Context, supplierID uuid.UUID, w io.Writer) error {
	supplier, err := s.profiles.Get(ctx, supplierID)
	if err != nil {
		return err
	}

	score, err := s.profiles.CreditScore(ctx, supplierID)
	if err != nil {
		return err
	}

	history, err := s.ledger.HistoryBySupplier(ctx, supplierID)
	if err != nil {
		return fmt.Errorf("failed to fetch delivery history: %w", err)
	}

	loanPage, err := s.loans.List(ctx, &loans.LoanFilters{
		SupplierID: &supplierID,
		Page:       1,
		PageSize:   ledgerPageSize,
	})
	if err != nil {
		return fmt.Errorf("failed to fetch loans: %w", err)
	}

	statement := &supplierStatement{
		Supplier:    supplier,
		Score:       score,
		History:     history,
		Loans:       loanPage.Loans,
		GeneratedAt: time.Now(),
	}

	s.logger.Info("Generating supplier statement",
		zap.String("supplier_id", supplierID.String()),
		zap.Int("deliveries", len(history)),
		zap.Int("loans", len(loanPage.Loans)))
	return writeStatementPDF(statement, w)
}

// supplierStatement is everything a statement PDF renders
type supplierStatement struct {
	Supplier    *suppliers.Supplier
	Score       *suppliers.CreditScoreResponse
	History     []transactions.Transaction
	Loans       []*loans.Loan
	GeneratedAt time.Time
}
