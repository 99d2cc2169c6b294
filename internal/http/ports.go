package http

import (
	"context"
	"time"

	"fintrack/internal/core"
)

// CategoryStore lists, creates and deletes categories.
type CategoryStore interface {
	ListCategories(ctx context.Context) ([]core.Category, error)
	CreateCategory(ctx context.Context, in core.NewCategory) (core.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

// TransactionStore lists transactions and applies writes to them.
type TransactionStore interface {
	ListTransactions(ctx context.Context, f core.TransactionFilter) ([]core.TransactionView, error)
	CreateTransaction(ctx context.Context, in core.TransactionInput) (core.Transaction, error)
	UpdateTransaction(ctx context.Context, id int64, in core.TransactionInput) (core.Transaction, error)
	DeleteTransaction(ctx context.Context, id int64) error
}

// BudgetStore lists budgets with their spending and creates new ones.
type BudgetStore interface {
	ListBudgets(ctx context.Context) ([]core.BudgetView, error)
	CreateBudget(ctx context.Context, in core.BudgetInput) (core.Budget, error)
}

// AnalyticsReader computes the aggregate reports.
type AnalyticsReader interface {
	Summary(ctx context.Context, r core.DateRange) (core.Summary, error)
	SpendingByCategory(ctx context.Context, r core.DateRange, kind core.Kind) ([]core.CategoryTotal, error)
	Trends(ctx context.Context, months int) ([]core.MonthTrend, error)
}

// QueryRunner executes ad-hoc read queries.
type QueryRunner interface {
	RunReadQuery(ctx context.Context, q string) (core.QueryResult, error)
}

// HealthChecker reports the database clock, proving a round trip works.
type HealthChecker interface {
	Ping(ctx context.Context) (time.Time, error)
}

// Backend is everything the API serves from.
type Backend interface {
	CategoryStore
	TransactionStore
	BudgetStore
	AnalyticsReader
	QueryRunner
	HealthChecker
}
