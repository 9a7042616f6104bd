package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"copra-trade/supplier-portal/supplier-portal-backend/internal/loans"
)

// OverdueSource lists approved loans past their due date
type OverdueSource interface {
	OverdueLoans(ctx context.Context, asOf time.Time) ([]*loans.Loan, error)
}

// OverdueNotifier is told about each overdue loan found by the sweep
type OverdueNotifier interface {
	LoanOverdue(ctx context.Context, loan *loans.Loan)
}

// Scheduler keeps the dashboard snapshot fresh and sweeps for overdue loans
type Scheduler struct {
	cron     *cron.Cron
	service  *Service
	overdue  OverdueSource
	notifier OverdueNotifier
	logger   *zap.Logger
	mu       sync.Mutex
	running  bool
}

// NewScheduler creates a new dashboard scheduler
func NewScheduler(service *Service, overdue OverdueSource, notifier OverdueNotifier, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		service:  service,
		overdue:  overdue,
		notifier: notifier,
		logger:   logger,
	}
}

// Start registers the jobs and starts the cron scheduler. The snapshot is
// refreshed every five minutes; the overdue sweep runs daily at 06:00.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("dashboard scheduler already running")
	}

	if _, err := s.cron.AddFunc("*/5 * * * *", s.refreshSnapshot); err != nil {
		return fmt.Errorf("failed to schedule snapshot refresh: %w", err)
	}
	if _, err := s.cron.AddFunc("0 6 * * *", s.sweepOverdueLoans); err != nil {
		return fmt.Errorf("failed to schedule overdue sweep: %w", err)
	}

	s.cron.Start()
	s.running = true
	s.logger.Info("Dashboard scheduler started")
	return nil
}

// Stop stops the cron scheduler and waits for running jobs to finish
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()
	s.running = false
	s.logger.Info("Dashboard scheduler stopped")
}

func (s *Scheduler) refreshSnapshot() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if _, err := s.service.Refresh(ctx); err != nil {
		s.logger.Error("Scheduled dashboard refresh failed", zap.Error(err))
	}
}

func (s *Scheduler) sweepOverdueLoans() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	overdue, err := s.overdue.OverdueLoans(ctx, time.Now())
	if err != nil {
		s.logger.Error("Overdue loan sweep failed", zap.Error(err))
		return
	}

	for _, loan := range overdue {
		s.logger.Warn("Loan past due date",
			zap.String("loan_id", loan.ID.String()),
			zap.String("supplier_id", loan.SupplierID.String()),
			zap.String("outstanding", loan.Outstanding().String()),
			zap.Time("due_date", loan.DueDate))
		if s.notifier != nil {
			s.notifier.LoanOverdue(ctx, loan)
		}
	}

	if len(overdue) > 0 {
		s.logger.Info("Overdue loan sweep completed", zap.Int("overdue_count", len(overdue)))
	}
}
