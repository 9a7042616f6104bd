package dashboard

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines the interface for dashboard aggregate persistence
type Repository interface {
	Get(ctx context.Context) (*Summary, error)
	Save(ctx context.Context, summary *Summary) error
	MarkStale(ctx context.Context) error
	Recompute(ctx context.Context) (*Summary, error)
	ActiveSupplierIDs(ctx context.Context) ([]uuid.UUID, error)
}

// PostgresRepository implements Repository using PostgreSQL. The cached
// snapshot lives in a single-row table keyed on id = 1.
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL dashboard repository
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// ErrNoSnapshot is returned before the first refresh has run
var ErrNoSnapshot = fmt.Errorf("dashboard snapshot not found")

func (r *PostgresRepository) Get(ctx context.Context) (*Summary, error) {
	query := `
		SELECT active_suppliers, completed_transactions, pending_transactions,
		       total_volume_kg, total_paid_out,
		       today_transactions, today_volume_kg,
		       month_transactions, month_volume_kg,
		       active_loans, outstanding_loan_balance, overdue_loans,
		       category_distribution, computed_at, is_stale
		FROM dashboard_aggregates WHERE id = 1`

	var summary Summary
	var distribution []byte
	err := r.db.QueryRowxContext(ctx, query).Scan(
		&summary.ActiveSuppliers, &summary.CompletedTransactions, &summary.PendingTransactions,
		&summary.TotalVolumeKg, &summary.TotalPaidOut,
		&summary.TodayTransactions, &summary.TodayVolumeKg,
		&summary.MonthTransactions, &summary.MonthVolumeKg,
		&summary.ActiveLoans, &summary.OutstandingLoanBalance, &summary.OverdueLoans,
		&distribution, &summary.ComputedAt, &summary.IsStale)
	if err == sql.ErrNoRows {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get dashboard snapshot: %w", err)
	}

	if len(distribution) > 0 {
		if err := json.Unmarshal(distribution, &summary.CategoryDistribution); err != nil {
			return nil, fmt.Errorf("corrupt category distribution: %w", err)
		}
	}
	return &summary, nil
}

func (r *PostgresRepository) Save(ctx context.Context, summary *Summary) error {
	distribution, err := json.Marshal(summary.CategoryDistribution)
	if err != nil {
		return fmt.Errorf("failed to encode category distribution: %w", err)
	}

	query := `
		INSERT INTO dashboard_aggregates (
			id, active_suppliers, completed_transactions, pending_transactions,
			total_volume_kg, total_paid_out,
			today_transactions, today_volume_kg,
			month_transactions, month_volume_kg,
			active_loans, outstanding_loan_balance, overdue_loans,
			category_distribution, computed_at, is_stale
		) VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, false)
		ON CONFLICT (id) DO UPDATE SET
			active_suppliers = $1, completed_transactions = $2,
			pending_transactions = $3, total_volume_kg = $4, total_paid_out = $5,
			today_transactions = $6, today_volume_kg = $7,
			month_transactions = $8, month_volume_kg = $9,
			active_loans = $10, outstanding_loan_balance = $11, overdue_loans = $12,
			category_distribution = $13, computed_at = $14, is_stale = false`

	_, err = r.db.ExecContext(ctx, query,
		summary.ActiveSuppliers, summary.CompletedTransactions, summary.PendingTransactions,
		summary.TotalVolumeKg, summary.TotalPaidOut,
		summary.TodayTransactions, summary.TodayVolumeKg,
		summary.MonthTransactions, summary.MonthVolumeKg,
		summary.ActiveLoans, summary.OutstandingLoanBalance, summary.OverdueLoans,
		distribution, summary.ComputedAt)
	if err != nil {
		return fmt.Errorf("failed to save dashboard snapshot: %w", err)
	}
	return nil
}

func (r *PostgresRepository) MarkStale(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `UPDATE dashboard_aggregates SET is_stale = true WHERE id = 1`)
	if err != nil {
		return fmt.Errorf("failed to mark dashboard stale: %w", err)
	}
	return nil
}

// Recompute aggregates the live tables into a fresh snapshot without saving
// it. The score-category distribution is filled in by the service, which owns
// the scoring engine.
func (r *PostgresRepository) Recompute(ctx context.Context) (*Summary, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM suppliers WHERE is_active = true) AS active_suppliers,
			(SELECT COUNT(*) FROM transactions WHERE status = 'completed') AS completed_transactions,
			(SELECT COUNT(*) FROM transactions WHERE status = 'pending') AS pending_transactions,
			(SELECT COALESCE(SUM(net_weight), 0) FROM transactions WHERE status = 'completed') AS total_volume_kg,
			(SELECT COALESCE(SUM(total_amount), 0) FROM transactions WHERE status = 'completed') AS total_paid_out,
			(SELECT COUNT(*) FROM transactions WHERE status = 'completed' AND transaction_date >= CURRENT_DATE) AS today_transactions,
			(SELECT COALESCE(SUM(net_weight), 0) FROM transactions WHERE status = 'completed' AND transaction_date >= CURRENT_DATE) AS today_volume_kg,
			(SELECT COUNT(*) FROM transactions WHERE status = 'completed' AND transaction_date >= DATE_TRUNC('month', CURRENT_DATE)) AS month_transactions,
			(SELECT COALESCE(SUM(net_weight), 0) FROM transactions WHERE status = 'completed' AND transaction_date >= DATE_TRUNC('month', CURRENT_DATE)) AS month_volume_kg,
			(SELECT COUNT(*) FROM loans WHERE status = 'approved') AS active_loans,
			(SELECT COALESCE(SUM(total_with_interest - total_paid), 0) FROM loans WHERE status = 'approved') AS outstanding_loan_balance,
			(SELECT COUNT(*) FROM loans WHERE status = 'approved' AND due_date < NOW() AND total_paid < total_with_interest) AS overdue_loans`

	var summary Summary
	if err := r.db.GetContext(ctx, &summary, query); err != nil {
		return nil, fmt.Errorf("failed to recompute dashboard aggregates: %w", err)
	}
	summary.ComputedAt = time.Now()
	return &summary, nil
}

func (r *PostgresRepository) ActiveSupplierIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.SelectContext(ctx, &ids, `SELECT id FROM suppliers WHERE is_active = true`); err != nil {
		return nil, fmt.Errorf("failed to list active supplier IDs: %w", err)
	}
	return ids, nil
}
