package storage

import (
	"context"
	"fmt"

	"fintrack/internal/core"
)

const budgetColumns = `id, category_id, amount_cents, period, start_date, end_date, created_at`

// budgetViewQuery computes spent per budget as the sum of expense
// transactions of the same category dated within [start_date, end_date].
const budgetViewQuery = `
SELECT b.id, b.category_id, b.amount_cents, b.period, b.start_date, b.end_date, b.created_at,
       c.name, c.color, c.icon,
       COALESCE(SUM(t.amount_cents), 0) AS spent
FROM budgets b
LEFT JOIN categories c ON c.id = b.category_id
LEFT JOIN transactions t ON t.category_id = b.category_id
     AND t.type = 'expense'
     AND t.transaction_date BETWEEN b.start_date AND b.end_date`

const budgetViewGroup = ` GROUP BY b.id, c.id ORDER BY b.start_date DESC, b.id DESC`

func scanBudget(row scanner) (core.Budget, error) {
	var b core.Budget
	err := row.Scan(&b.ID, &b.CategoryID, &b.Amount, &b.Period, &b.StartDate, &b.EndDate, &b.CreatedAt)
	return b, err
}

func (s *Store) listBudgetViews(ctx context.Context, c conditions) ([]core.BudgetView, error) {
	rows, err := s.query(ctx, budgetViewQuery+c.where()+budgetViewGroup, c.args...)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	list := []core.BudgetView{}
	for rows.Next() {
		var v core.BudgetView
		if err := rows.Scan(&v.ID, &v.CategoryID, &v.Amount, &v.Period, &v.StartDate, &v.EndDate,
			&v.CreatedAt, &v.CategoryName, &v.Color, &v.Icon, &v.Spent); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		list = append(list, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate budgets: %w", err)
	}
	return list, nil
}

// ListBudgets returns every budget with category display fields and spent.
// Budgets without matching transactions report spent = 0.
func (s *Store) ListBudgets(ctx context.Context) ([]core.BudgetView, error) {
	return s.listBudgetViews(ctx, conditions{})
}

// BudgetStatuses evaluates the budgets of one category against their limits.
func (s *Store) BudgetStatuses(ctx context.Context, categoryID int64) ([]core.BudgetStatus, error) {
	var c conditions
	c.add("b.category_id = ?", categoryID)
	views, err := s.listBudgetViews(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("budget status for category %d: %w", categoryID, err)
	}
	statuses := make([]core.BudgetStatus, len(views))
	for i, v := range views {
		statuses[i] = core.StatusOf(v)
	}
	return statuses, nil
}

// CreateBudget inserts a budget. A second budget with the same category,
// period and start date fails with the store's constraint error.
func (s *Store) CreateBudget(ctx context.Context, in core.BudgetInput) (core.Budget, error) {
	if err := in.Validate(); err != nil {
		return core.Budget{}, err
	}
	b, err := scanBudget(s.queryRow(ctx,
		`INSERT INTO budgets (category_id, amount_cents, period, start_date, end_date)
		 VALUES (?, ?, ?, ?, ?)
		 RETURNING `+budgetColumns,
		in.CategoryID, in.Amount, string(in.Period), in.StartDate, in.EndDate))
	if err != nil {
		return core.Budget{}, fmt.Errorf("create budget: %w", err)
	}
	return b, nil
}
