// Package worker reacts to transaction change events: it checks the budgets
// of the affected category, exports new transactions to the ledger and
// produces periodic budget reports.
package worker

import (
	"context"
	"errors"
	"fmt"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	applog "fintrack/internal/log"
	"fintrack/internal/sheets"
)

// Store is the read side the worker needs.
type Store interface {
	GetTransaction(ctx context.Context, id int64) (core.Transaction, error)
	GetCategory(ctx context.Context, id int64) (core.Category, error)
	BudgetStatuses(ctx context.Context, categoryID int64) ([]core.BudgetStatus, error)
	ListBudgets(ctx context.Context) ([]core.BudgetView, error)
}

// BudgetWorker handles transaction events consumed from AMQP
type BudgetWorker struct {
	store  Store
	ledger sheets.LedgerWriter
	logger *applog.Logger
}

// NewBudgetWorker creates the worker. A nil ledger disables the export.
func NewBudgetWorker(store Store, ledger sheets.LedgerWriter, logger *applog.Logger) *BudgetWorker {
	return &BudgetWorker{
		store:  store,
		ledger: ledger,
		logger: logger.WithComponent(applog.ComponentWorker),
	}
}

// HandleTransactionEvent processes a single transaction event. Events for
// transactions that no longer exist are acknowledged and skipped.
func (w *BudgetWorker) HandleTransactionEvent(ctx context.Context, ev *amqp.TransactionEvent) error {
	logger := w.logger.With(
		applog.FieldMessageID, ev.ID,
		applog.FieldTransactionID, ev.TransactionID)

	logger.InfoContext(ctx, "Processing transaction event", "action", ev.Action)

	if ev.Action == amqp.ActionDeleted {
		// Deletions can only lower spending, so no alert can fire.
		return nil
	}

	tx, err := w.store.GetTransaction(ctx, ev.TransactionID)
	if errors.Is(err, core.ErrNotFound) {
		logger.WarnContext(ctx, "Transaction vanished before processing, skipping")
		return nil
	}
	if err != nil {
		return fmt.Errorf("load transaction: %w", err)
	}

	var category *core.Category
	if tx.CategoryID != nil {
		c, err := w.store.GetCategory(ctx, *tx.CategoryID)
		if err != nil && !errors.Is(err, core.ErrNotFound) {
			return fmt.Errorf("load category: %w", err)
		}
		if err == nil {
			category = &c
		}
	}

	if tx.Type == core.Expense && category != nil {
		if _, err := w.CheckBudgets(ctx, category.ID); err != nil {
			return err
		}
	}

	if w.ledger != nil && ev.Action == amqp.ActionCreated {
		name := ""
		if category != nil {
			name = category.Name
		}
		ref, err := w.ledger.AppendEntry(ctx, sheets.EntryFor(tx, name))
		if err != nil {
			return fmt.Errorf("append to ledger: %w", err)
		}
		logger.InfoContext(ctx, "Transaction exported to ledger", applog.FieldSheetsRef, ref)
	}
	return nil
}

// CheckBudgets evaluates every budget of a category and logs a warning for
// each one whose spending exceeds its limit. It returns the over-limit ones.
func (w *BudgetWorker) CheckBudgets(ctx context.Context, categoryID int64) ([]core.BudgetStatus, error) {
	statuses, err := w.store.BudgetStatuses(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("budget statuses for category %d: %w", categoryID, err)
	}
	var over []core.BudgetStatus
	for _, st := range statuses {
		if !st.Over {
			continue
		}
		over = append(over, st)
		w.logger.WarnContext(ctx, "Budget exceeded",
			applog.FieldBudgetID, st.ID,
			applog.FieldCategoryID, st.CategoryID,
			"category", deref(st.CategoryName),
			"period", st.Period,
			"start_date", st.StartDate.String(),
			"end_date", st.EndDate.String(),
			"limit", st.Amount.String(),
			"spent", st.Spent.String(),
			"over_by", st.Spent.Sub(st.Amount).String())
	}
	return over, nil
}

// Report summarizes all budgets.
type Report struct {
	Budgets []core.BudgetStatus
	Over    int
}

// Report logs one line per budget with its usage and returns the statuses.
func (w *BudgetWorker) Report(ctx context.Context) (Report, error) {
	budgets, err := w.store.ListBudgets(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("list budgets: %w", err)
	}

	var r Report
	for _, b := range budgets {
		st := core.StatusOf(b)
		r.Budgets = append(r.Budgets, st)
		if st.Over {
			r.Over++
		}
		w.logger.InfoContext(ctx, "Budget status",
			applog.FieldOperation, applog.OpReport,
			applog.FieldBudgetID, b.ID,
			"category", deref(b.CategoryName),
			"limit", b.Amount.String(),
			"spent", b.Spent.String(),
			"used_percent", b.UsedPercent(),
			"over", st.Over)
	}
	w.logger.InfoContext(ctx, "Budget report completed",
		applog.FieldOperation, applog.OpReport,
		"budgets", len(r.Budgets),
		"over", r.Over)
	return r, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
