package transactions

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// Repository defines the interface for transaction data access
type Repository interface {
	Create(ctx context.Context, tx *Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	List(ctx context.Context, filters *TransactionFilters) ([]*Transaction, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
	ListBySupplier(ctx context.Context, supplierID uuid.UUID) ([]Transaction, error)
	SupplierStats(ctx context.Context, supplierID uuid.UUID) (*SupplierStats, error)
}

// PostgresRepository implements Repository using PostgreSQL
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const transactionColumns = `id, supplier_id, net_weight, price_per_kilo, total_amount, status, transaction_date, recorded_by, created_at, updated_at`

func (r *PostgresRepository) Create(ctx context.Context, tx *Transaction) error {
	query := `
		INSERT INTO transactions (
			id, supplier_id, net_weight, price_per_kilo, total_amount,
			status, transaction_date, recorded_by, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)
	`

	_, err := r.db.ExecContext(ctx, query,
		tx.ID, tx.SupplierID, tx.NetWeight, tx.PricePerKilo, tx.TotalAmount,
		tx.Status, tx.TransactionDate, tx.RecordedBy, tx.CreatedAt, tx.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	tx, err := scanTransaction(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("transaction not found")
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return tx, nil
}

func (r *PostgresRepository) List(ctx context.Context, filters *TransactionFilters) ([]*Transaction, int, error) {
	var conditions []string
	var args []interface{}
	argCount := 0

	baseQuery := `SELECT ` + transactionColumns + ` FROM transactions`
	countQuery := `SELECT COUNT(*) FROM transactions`

	if filters.SupplierID != nil {
		argCount++
		conditions = append(conditions, fmt.Sprintf("supplier_id = $%d", argCount))
		args = append(args, *filters.SupplierID)
	}

	if filters.Status != nil {
		argCount++
		conditions = append(conditions, fmt.Sprintf("status = $%d", argCount))
		args = append(args, *filters.Status)
	}

	if filters.DateFrom != nil {
		argCount++
		conditions = append(conditions, fmt.Sprintf("transaction_date >= $%d", argCount))
		args = append(args, *filters.DateFrom)
	}

	if filters.DateTo != nil {
		argCount++
		conditions = append(conditions, fmt.Sprintf("transaction_date <= $%d", argCount))
		args = append(args, *filters.DateTo)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	// Get total count
	var totalCount int
	err := r.db.QueryRowContext(ctx, countQuery+whereClause, args...).Scan(&totalCount)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	// Add pagination
	offset := (filters.Page - 1) * filters.PageSize
	if filters.Page < 1 {
		offset = 0
	}

	argCount++
	limitArg := argCount
	argCount++
	offsetArg := argCount

	query := baseQuery + whereClause + fmt.Sprintf(" ORDER BY transaction_date DESC LIMIT $%d OFFSET $%d", limitArg, offsetArg)
	args = append(args, filters.PageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var result []*Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan transaction: %w", err)
		}
		result = append(result, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return result, totalCount, nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	query := `UPDATE transactions SET status = $2, updated_at = $3 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, status, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update transaction status: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("transaction not found")
	}

	return nil
}

// ListBySupplier returns a supplier's full transaction history, newest first.
// The credit engine filters to completed entries itself.
func (r *PostgresRepository) ListBySupplier(ctx context.Context, supplierID uuid.UUID) ([]Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE supplier_id = $1 ORDER BY transaction_date DESC`

	rows, err := r.db.QueryContext(ctx, query, supplierID)
	if err != nil {
		return nil, fmt.Errorf("failed to list supplier transactions: %w", err)
	}
	defer rows.Close()

	var result []Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		result = append(result, *tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate supplier transactions: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) SupplierStats(ctx context.Context, supplierID uuid.UUID) (*SupplierStats, error) {
	query := `
		SELECT COUNT(*),
			   COALESCE(SUM(net_weight), 0),
			   COALESCE(SUM(total_amount), 0),
			   COALESCE(AVG(net_weight), 0),
			   MAX(transaction_date)
		FROM transactions
		WHERE supplier_id = $1 AND status = 'completed'
	`

	stats := &SupplierStats{SupplierID: supplierID}
	var totalSupplied, totalPaid, average decimal.Decimal
	var lastDelivery sql.NullTime

	err := r.db.QueryRowContext(ctx, query, supplierID).Scan(
		&stats.CompletedCount, &totalSupplied, &totalPaid, &average, &lastDelivery,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get supplier stats: %w", err)
	}

	stats.TotalSupplied = totalSupplied
	stats.TotalPaid = totalPaid
	stats.AverageNetWeight = average
	if lastDelivery.Valid {
		stats.LastDeliveryAt = &lastDelivery.Time
	}

	return stats, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTransaction(row rowScanner) (*Transaction, error) {
	var tx Transaction
	err := row.Scan(
		&tx.ID, &tx.SupplierID, &tx.NetWeight, &tx.PricePerKilo, &tx.TotalAmount,
		&tx.Status, &tx.TransactionDate, &tx.RecordedBy, &tx.CreatedAt, &tx.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &tx, nil
}
