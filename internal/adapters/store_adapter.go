package adapters

import (
	"context"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/services"
	"fintrack/internal/storage"
)

// StoreAdapter adapts Store and TransactionService to implement http.Backend.
// Reads go straight to the store; transaction writes go through the service
// so they are announced to other processes.
type StoreAdapter struct {
	store   *storage.Store
	service *services.TransactionService
}

func NewStoreAdapter(store *storage.Store, service *services.TransactionService) *StoreAdapter {
	return &StoreAdapter{
		store:   store,
		service: service,
	}
}

func (a *StoreAdapter) ListCategories(ctx context.Context) ([]core.Category, error) {
	return a.store.ListCategories(ctx)
}

func (a *StoreAdapter) CreateCategory(ctx context.Context, in core.NewCategory) (core.Category, error) {
	return a.store.CreateCategory(ctx, in)
}

func (a *StoreAdapter) DeleteCategory(ctx context.Context, id int64) error {
	return a.store.DeleteCategory(ctx, id)
}

func (a *StoreAdapter) ListTransactions(ctx context.Context, f core.TransactionFilter) ([]core.TransactionView, error) {
	return a.store.ListTransactions(ctx, f)
}

// CreateTransaction implements http.TransactionStore through the service
func (a *StoreAdapter) CreateTransaction(ctx context.Context, in core.TransactionInput) (core.Transaction, error) {
	return a.service.CreateTransaction(ctx, in)
}

// UpdateTransaction implements http.TransactionStore through the service
func (a *StoreAdapter) UpdateTransaction(ctx context.Context, id int64, in core.TransactionInput) (core.Transaction, error) {
	return a.service.UpdateTransaction(ctx, id, in)
}

// DeleteTransaction implements http.TransactionStore through the service
func (a *StoreAdapter) DeleteTransaction(ctx context.Context, id int64) error {
	return a.service.DeleteTransaction(ctx, id)
}

func (a *StoreAdapter) ListBudgets(ctx context.Context) ([]core.BudgetView, error) {
	return a.store.ListBudgets(ctx)
}

func (a *StoreAdapter) CreateBudget(ctx context.Context, in core.BudgetInput) (core.Budget, error) {
	return a.store.CreateBudget(ctx, in)
}

func (a *StoreAdapter) Summary(ctx context.Context, r core.DateRange) (core.Summary, error) {
	return a.store.Summary(ctx, r)
}

func (a *StoreAdapter) SpendingByCategory(ctx context.Context, r core.DateRange, kind core.Kind) ([]core.CategoryTotal, error) {
	return a.store.SpendingByCategory(ctx, r, kind)
}

func (a *StoreAdapter) Trends(ctx context.Context, months int) ([]core.MonthTrend, error) {
	return a.store.Trends(ctx, months)
}

func (a *StoreAdapter) RunReadQuery(ctx context.Context, q string) (core.QueryResult, error) {
	return a.store.RunReadQuery(ctx, q)
}

func (a *StoreAdapter) Ping(ctx context.Context) (time.Time, error) {
	return a.store.Ping(ctx)
}
