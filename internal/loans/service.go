package loans

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"copra-trade/supplier-portal/supplier-portal-backend/internal/credit"
	"copra-trade/supplier-portal/supplier-portal-backend/internal/transactions"
)

// TransactionSource supplies a supplier's delivery history for scoring
type TransactionSource interface {
	HistoryBySupplier(ctx context.Context, supplierID uuid.UUID) ([]transactions.Transaction, error)
}

// RateSource supplies the configured loan interest rate
type RateSource interface {
	LoanInterestRate(ctx context.Context) (decimal.Decimal, error)
}

// StatusNotifier is told about loan lifecycle changes
type StatusNotifier interface {
	LoanStatusChanged(ctx context.Context, loan *Loan)
}

// Service handles loan business logic
type Service struct {
	repo     Repository
	history  TransactionSource
	rates    RateSource
	notifier StatusNotifier
	logger   *zap.Logger
}

// NewService creates a new loan service
func NewService(repo Repository, history TransactionSource, rates RateSource, logger *zap.Logger) *Service {
	return &Service{
		repo:    repo,
		history: history,
		rates:   rates,
		logger:  logger,
	}
}

// SetNotifier wires the notification sink. Optional; nil means silent.
func (s *Service) SetNotifier(notifier StatusNotifier) {
	s.notifier = notifier
}

// Request applies for a loan on behalf of a supplier. The supplier must have
// at least one completed delivery, and the granted amount never exceeds the
// eligible amount derived from their current credit score.
func (s *Service) Request(ctx context.Context, supplierID uuid.UUID, req *RequestLoanRequest) (*Loan, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("loan amount must be positive")
	}

	history, err := s.history.HistoryBySupplier(ctx, supplierID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch delivery history: %w", err)
	}

	score := credit.ComputeScore(history)
	if !score.IsEligible {
		return nil, fmt.Errorf("supplier is not eligible for a loan: no completed deliveries")
	}

	amount := req.Amount
	if amount.GreaterThan(score.EligibleAmount) {
		s.logger.Info("Clamping requested loan amount to eligible amount",
			zap.String("supplier_id", supplierID.String()),
			zap.String("requested", req.Amount.String()),
			zap.String("eligible", score.EligibleAmount.String()))
		amount = score.EligibleAmount
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("supplier is not eligible for a loan: eligible amount is zero")
	}

	rate, err := s.rates.LoanInterestRate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve interest rate: %w", err)
	}

	now := time.Now()
	loan := &Loan{
		ID:                uuid.New(),
		SupplierID:        supplierID,
		Amount:            amount,
		InterestRate:      rate,
		TotalWithInterest: amount.Add(amount.Mul(rate)).Round(2),
		TotalPaid:         decimal.Zero,
		PaymentPercent:    credit.AutoDebitPercent,
		Status:            StatusPending,
		DueDate:           now.AddDate(0, 0, credit.LoanDueDays),
	}

	if err := s.repo.Create(ctx, loan); err != nil {
		return nil, err
	}

	s.logger.Info("Loan requested",
		zap.String("loan_id", loan.ID.String()),
		zap.String("supplier_id", supplierID.String()),
		zap.String("amount", amount.String()))
	return loan, nil
}

// Get returns a loan with its repayment history
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*LoanDetail, error) {
	loan, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	payments, err := s.repo.ListPayments(ctx, id)
	if err != nil {
		return nil, err
	}

	progress := decimal.Zero
	if loan.TotalWithInterest.IsPositive() {
		progress = loan.TotalPaid.Div(loan.TotalWithInterest).Mul(decimal.NewFromInt(100)).Round(2)
	}

	return &LoanDetail{
		Loan:             loan,
		Payments:         payments,
		Outstanding:      loan.Outstanding(),
		RepaymentPercent: progress,
	}, nil
}

// List returns loans matching the filters with pagination
func (s *Service) List(ctx context.Context, filters *LoanFilters) (*LoanListResponse, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 || filters.PageSize > 100 {
		filters.PageSize = 20
	}

	loans, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, err
	}

	return &LoanListResponse{
		Loans:      loans,
		TotalCount: total,
		Page:       filters.Page,
		PageSize:   filters.PageSize,
		HasMore:    filters.Page*filters.PageSize < total,
	}, nil
}

// Approve moves a pending loan to approved and records who signed off
func (s *Service) Approve(ctx context.Context, id, approverID uuid.UUID) (*Loan, error) {
	loan, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if loan.Status != StatusPending {
		return nil, fmt.Errorf("loan is not pending: %s", loan.Status)
	}

	now := time.Now()
	loan.Status = StatusApproved
	loan.ApprovedBy = &approverID
	loan.ApprovedAt = &now
	if err := s.repo.Update(ctx, loan); err != nil {
		return nil, err
	}

	s.notifyStatus(ctx, loan)
	return loan, nil
}

// Reject declines a pending loan
func (s *Service) Reject(ctx context.Context, id uuid.UUID) (*Loan, error) {
	return s.transition(ctx, id, StatusRejected, StatusPending)
}

// Cancel withdraws a pending loan, typically by the supplier who requested it
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*Loan, error) {
	return s.transition(ctx, id, StatusCancelled, StatusPending)
}

// Void administratively voids a pending or approved loan
func (s *Service) Void(ctx context.Context, id uuid.UUID) (*Loan, error) {
	return s.transition(ctx, id, StatusVoided, StatusPending, StatusApproved)
}

// RecordPayment applies a manual repayment to an approved loan
func (s *Service) RecordPayment(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (*Loan, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("payment amount must be positive")
	}

	loan, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if loan.Status != StatusApproved {
		return nil, fmt.Errorf("loan is not approved: %s", loan.Status)
	}

	remaining := loan.Outstanding()
	if amount.GreaterThan(remaining) {
		amount = remaining
	}

	if err := s.applyPayment(ctx, loan, amount, PaymentSourceManual); err != nil {
		return nil, err
	}
	return loan, nil
}

// ApplyAutoDebit withholds the configured share of delivery proceeds and
// settles the supplier's outstanding loans oldest first. It returns the total
// amount debited, which may be zero when nothing is owed.
func (s *Service) ApplyAutoDebit(ctx context.Context, supplierID uuid.UUID, proceeds decimal.Decimal) (decimal.Decimal, error) {
	withheld := proceeds.Mul(decimal.NewFromInt(int64(credit.AutoDebitPercent))).Div(decimal.NewFromInt(100)).Round(2)
	if !withheld.IsPositive() {
		return decimal.Zero, nil
	}

	outstanding, err := s.repo.ListOutstanding(ctx, supplierID)
	if err != nil {
		return decimal.Zero, err
	}

	debited := decimal.Zero
	for _, loan := range outstanding {
		if !withheld.IsPositive() {
			break
		}

		portion := loan.Outstanding()
		if portion.GreaterThan(withheld) {
			portion = withheld
		}

		if err := s.applyPayment(ctx, loan, portion, PaymentSourceAutoDebit); err != nil {
			return debited, err
		}

		withheld = withheld.Sub(portion)
		debited = debited.Add(portion)
	}

	if debited.IsPositive() {
		s.logger.Info("Auto-debit applied",
			zap.String("supplier_id", supplierID.String()),
			zap.String("debited", debited.String()))
	}
	return debited, nil
}

// OverdueLoans returns approved loans past their due date with an unpaid balance
func (s *Service) OverdueLoans(ctx context.Context, asOf time.Time) ([]*Loan, error) {
	return s.repo.ListOverdue(ctx, asOf)
}

// applyPayment records a repayment row, advances the paid total, and marks the
// loan paid when it is fully settled.
func (s *Service) applyPayment(ctx context.Context, loan *Loan, amount decimal.Decimal, source PaymentSource) error {
	payment := &LoanPayment{
		ID:     uuid.New(),
		LoanID: loan.ID,
		Amount: amount,
		Source: source,
		PaidAt: time.Now(),
	}
	if err := s.repo.CreatePayment(ctx, payment); err != nil {
		return err
	}

	loan.TotalPaid = loan.TotalPaid.Add(amount)
	settled := loan.TotalPaid.GreaterThanOrEqual(loan.TotalWithInterest)
	if settled {
		loan.Status = StatusPaid
	}
	if err := s.repo.Update(ctx, loan); err != nil {
		return err
	}

	if settled {
		s.notifyStatus(ctx, loan)
	}
	return nil
}

func (s *Service) transition(ctx context.Context, id uuid.UUID, to LoanStatus, from ...LoanStatus) (*Loan, error) {
	loan, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	allowed := false
	for _, status := range from {
		if loan.Status == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("cannot move loan from %s to %s", loan.Status, to)
	}

	loan.Status = to
	if err := s.repo.Update(ctx, loan); err != nil {
		return nil, err
	}

	s.notifyStatus(ctx, loan)
	return loan, nil
}

func (s *Service) notifyStatus(ctx context.Context, loan *Loan) {
	if s.notifier != nil {
		s.notifier.LoanStatusChanged(ctx, loan)
	}
}
