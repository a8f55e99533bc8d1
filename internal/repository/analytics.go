package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/norkart1/EduLedger/internal/domain"
)

// AnalyticsRepository holds the read-only aggregate queries. Everything
// is computed on demand against committed state; nothing is cached.
type AnalyticsRepository struct {
	db *sql.DB
}

func NewAnalyticsRepository(db *sql.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

func (r *AnalyticsRepository) TotalBalance(ctx context.Context) (domain.Cents, error) {
	var total domain.Cents
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(balance), 0) FROM accounts`,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("TotalBalance: %w", err)
	}
	return total, nil
}

func (r *AnalyticsRepository) CountAccounts(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("CountAccounts: %w", err)
	}
	return count, nil
}

// MonthlyTransactionCount counts transactions in the current calendar
// month. The month boundary comes from the database clock, the same
// clock that stamped created_at.
func (r *AnalyticsRepository) MonthlyTransactionCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions
		WHERE created_at >= date_trunc('month', now())`,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("MonthlyTransactionCount: %w", err)
	}
	return count, nil
}

type MonthBreakdown struct {
	Month       time.Time
	Deposits    domain.Cents
	Withdrawals domain.Cents
	Count       int
}

func (r *AnalyticsRepository) BreakdownByMonth(ctx context.Context, start, end time.Time) ([]MonthBreakdown, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT date_trunc('month', created_at) AS month,
			COALESCE(SUM(amount) FILTER (WHERE type = 'deposit'), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'withdrawal'), 0),
			COUNT(*)
		FROM transactions
		WHERE created_at >= $1 AND created_at <= $2
		GROUP BY month
		ORDER BY month`, start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("BreakdownByMonth: %w", err)
	}
	defer rows.Close()

	var breakdown []MonthBreakdown
	for rows.Next() {
		var b MonthBreakdown
		if err := rows.Scan(&b.Month, &b.Deposits, &b.Withdrawals, &b.Count); err != nil {
			return nil, fmt.Errorf("BreakdownByMonth: scan: %w", err)
		}
		breakdown = append(breakdown, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("BreakdownByMonth: rows: %w", err)
	}
	return breakdown, nil
}
