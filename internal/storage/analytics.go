package storage

import (
	"context"
	"fmt"

	"fintrack/internal/core"
)

// Summary totals income and expenses over an optional date range in one
// pass. Balance is derived from the two totals, so it always equals
// income minus expenses.
func (s *Store) Summary(ctx context.Context, r core.DateRange) (core.Summary, error) {
	if err := r.Validate(); err != nil {
		return core.Summary{}, err
	}
	var c conditions
	c.dateRange("transaction_date", r)

	var sum core.Summary
	err := s.queryRow(ctx, `
		SELECT COALESCE(SUM(CASE WHEN type = 'income' THEN amount_cents ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN type = 'expense' THEN amount_cents ELSE 0 END), 0),
		       COUNT(*)
		FROM transactions`+c.where(), c.args...).
		Scan(&sum.TotalIncome, &sum.TotalExpenses, &sum.TransactionCount)
	if err != nil {
		return core.Summary{}, fmt.Errorf("summary: %w", err)
	}
	sum.Balance = sum.TotalIncome.Sub(sum.TotalExpenses)
	return sum, nil
}

// SpendingByCategory totals matching transactions per category. The filters
// sit in the join condition, and categories without a match are dropped.
func (s *Store) SpendingByCategory(ctx context.Context, r core.DateRange, kind core.Kind) ([]core.CategoryTotal, error) {
	if err := (core.TransactionFilter{Range: r, Type: kind}).Validate(); err != nil {
		return nil, err
	}
	var c conditions
	c.dateRange("t.transaction_date", r)
	c.kind("t.type", kind)

	rows, err := s.query(ctx, `
		SELECT c.name, c.color, c.icon,
		       COALESCE(SUM(t.amount_cents), 0) AS total,
		       COUNT(t.id) AS count
		FROM categories c
		LEFT JOIN transactions t ON t.category_id = c.id`+c.and()+`
		GROUP BY c.id, c.name, c.color, c.icon
		HAVING COUNT(t.id) > 0
		ORDER BY total DESC, c.name`, c.args...)
	if err != nil {
		return nil, fmt.Errorf("spending by category: %w", err)
	}
	defer rows.Close()

	totals := []core.CategoryTotal{}
	for rows.Next() {
		var ct core.CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.Color, &ct.Icon, &ct.Total, &ct.Count); err != nil {
			return nil, fmt.Errorf("scan category total: %w", err)
		}
		totals = append(totals, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category totals: %w", err)
	}
	return totals, nil
}

// Trends returns income and expense totals per YYYY-MM for the trailing
// months, oldest first. The cutoff is today minus months.
func (s *Store) Trends(ctx context.Context, months int) ([]core.MonthTrend, error) {
	if months <= 0 {
		return nil, core.Invalid("months", "must be a positive integer")
	}
	cutoff := core.Today().AddMonths(-months)
	month := s.dialect.monthKey("transaction_date")

	rows, err := s.query(ctx, `
		SELECT `+month+` AS month,
		       COALESCE(SUM(CASE WHEN type = 'income' THEN amount_cents ELSE 0 END), 0) AS income,
		       COALESCE(SUM(CASE WHEN type = 'expense' THEN amount_cents ELSE 0 END), 0) AS expenses
		FROM transactions
		WHERE transaction_date >= ?
		GROUP BY month
		ORDER BY month`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("trends: %w", err)
	}
	defer rows.Close()

	trends := []core.MonthTrend{}
	for rows.Next() {
		var mt core.MonthTrend
		if err := rows.Scan(&mt.Month, &mt.Income, &mt.Expenses); err != nil {
			return nil, fmt.Errorf("scan trend: %w", err)
		}
		trends = append(trends, mt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trends: %w", err)
	}
	return trends, nil
}
