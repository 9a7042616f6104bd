package dashboard

import (
	"time"

	"github.com/shopspring/decimal"
)

// Summary is the owner-facing business snapshot. It is computed from the
// suppliers, transactions, and loans tables and cached with a staleness flag
// so repeat dashboard loads do not re-aggregate.
type Summary struct {
	ActiveSuppliers        int             `json:"active_suppliers" db:"active_suppliers"`
	CompletedTransactions  int             `json:"completed_transactions" db:"completed_transactions"`
	PendingTransactions    int             `json:"pending_transactions" db:"pending_transactions"`
	TotalVolumeKg          decimal.Decimal `json:"total_volume_kg" db:"total_volume_kg"`
	TotalPaidOut           decimal.Decimal `json:"total_paid_out" db:"total_paid_out"`
	TodayTransactions      int             `json:"today_transactions" db:"today_transactions"`
	TodayVolumeKg          decimal.Decimal `json:"today_volume_kg" db:"today_volume_kg"`
	MonthTransactions      int             `json:"month_transactions" db:"month_transactions"`
	MonthVolumeKg          decimal.Decimal `json:"month_volume_kg" db:"month_volume_kg"`
	ActiveLoans            int             `json:"active_loans" db:"active_loans"`
	OutstandingLoanBalance decimal.Decimal `json:"outstanding_loan_balance" db:"outstanding_loan_balance"`
	OverdueLoans           int             `json:"overdue_loans" db:"overdue_loans"`
	CategoryDistribution   map[string]int  `json:"category_distribution" db:"-"`
	ComputedAt             time.Time       `json:"computed_at" db:"computed_at"`
	IsStale                bool            `json:"is_stale" db:"is_stale"`
}
