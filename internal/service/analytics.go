package service

import (
	"context"
	"fmt"
	"time"

	"github.com/norkart1/EduLedger/internal/domain"
	"github.com/norkart1/EduLedger/internal/repository"
)

type analyticsRepo interface {
	TotalBalance(ctx context.Context) (domain.Cents, error)
	CountAccounts(ctx context.Context) (int, error)
	MonthlyTransactionCount(ctx context.Context) (int, error)
	BreakdownByMonth(ctx context.Context, start, end time.Time) ([]repository.MonthBreakdown, error)
}

type transactionReader interface {
	GetByDateRange(ctx context.Context, start, end time.Time) ([]domain.Transaction, error)
}

// AnalyticsService derives read-only summaries from committed state.
type AnalyticsService struct {
	analytics    analyticsRepo
	transactions transactionReader
}

func NewAnalyticsService(analytics analyticsRepo, transactions transactionReader) *AnalyticsService {
	return &AnalyticsService{analytics: analytics, transactions: transactions}
}

type Overview struct {
	TotalBalance        domain.Cents
	TotalAccounts       int
	MonthlyTransactions int
}

func (s *AnalyticsService) GetOverview(ctx context.Context) (*Overview, error) {
	total, err := s.analytics.TotalBalance(ctx)
	if err != nil {
		return nil, fmt.Errorf("GetOverview: %w", err)
	}
	accounts, err := s.analytics.CountAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("GetOverview: %w", err)
	}
	monthly, err := s.analytics.MonthlyTransactionCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("GetOverview: %w", err)
	}

	return &Overview{
		TotalBalance:        total,
		TotalAccounts:       accounts,
		MonthlyTransactions: monthly,
	}, nil
}

func (s *AnalyticsService) TotalBankBalance(ctx context.Context) (domain.Cents, error) {
	total, err := s.analytics.TotalBalance(ctx)
	if err != nil {
		return 0, fmt.Errorf("TotalBankBalance: %w", err)
	}
	return total, nil
}

func (s *AnalyticsService) TotalAccounts(ctx context.Context) (int, error) {
	count, err := s.analytics.CountAccounts(ctx)
	if err != nil {
		return 0, fmt.Errorf("TotalAccounts: %w", err)
	}
	return count, nil
}

func (s *AnalyticsService) MonthlyTransactionCount(ctx context.Context) (int, error) {
	count, err := s.analytics.MonthlyTransactionCount(ctx)
	if err != nil {
		return 0, fmt.Errorf("MonthlyTransactionCount: %w", err)
	}
	return count, nil
}

// TransactionsInRange returns transactions with created_at inside the
// inclusive [start, end] window, newest first.
func (s *AnalyticsService) TransactionsInRange(ctx context.Context, start, end time.Time) ([]domain.Transaction, error) {
	txns, err := s.transactions.GetByDateRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("TransactionsInRange: %w", err)
	}
	return txns, nil
}

// PeriodSummary is the raw material for a rendered report: bank-wide
// totals, the period's transactions, and a per-month breakdown. The
// formatter that turns this into a document lives outside this service.
type PeriodSummary struct {
	Start            time.Time
	End              time.Time
	TotalBalance     domain.Cents
	TotalAccounts    int
	TransactionCount int
	Transactions     []domain.Transaction
	Months           []repository.MonthBreakdown
}

// MonthlySummary covers the current calendar month.
func (s *AnalyticsService) MonthlySummary(ctx context.Context) (*PeriodSummary, error) {
	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return s.summarize(ctx, start, end)
}

// YearlySummary covers the current calendar year.
func (s *AnalyticsService) YearlySummary(ctx context.Context) (*PeriodSummary, error) {
	now := time.Now().UTC()
	start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0).Add(-time.Nanosecond)
	return s.summarize(ctx, start, end)
}

func (s *AnalyticsService) summarize(ctx context.Context, start, end time.Time) (*PeriodSummary, error) {
	txns, err := s.transactions.GetByDateRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("summarize: %w", err)
	}
	total, err := s.analytics.TotalBalance(ctx)
	if err != nil {
		return nil, fmt.Errorf("summarize: %w", err)
	}
	accounts, err := s.analytics.CountAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("summarize: %w", err)
	}
	months, err := s.analytics.BreakdownByMonth(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("summarize: %w", err)
	}

	return &PeriodSummary{
		Start:            start,
		End:              end,
		TotalBalance:     total,
		TotalAccounts:    accounts,
		TransactionCount: len(txns),
		Transactions:     txns,
		Months:           months,
	}, nil
}
