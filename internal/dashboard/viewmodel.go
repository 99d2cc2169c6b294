// Package dashboard builds the terminal dashboard: it fetches the API
// concurrently, derives a view model from the responses and renders it.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"fintrack/internal/core"

	"golang.org/x/sync/errgroup"
)

// Source is the part of the API client the dashboard reads from.
type Source interface {
	Categories(ctx context.Context) ([]core.Category, error)
	Transactions(ctx context.Context, f core.TransactionFilter) ([]core.TransactionView, error)
	Budgets(ctx context.Context) ([]core.BudgetView, error)
	Summary(ctx context.Context, r core.DateRange) (core.Summary, error)
	SpendingByCategory(ctx context.Context, r core.DateRange, kind core.Kind) ([]core.CategoryTotal, error)
	Trends(ctx context.Context, months int) ([]core.MonthTrend, error)
}

// Options select what the dashboard shows.
type Options struct {
	Range       core.DateRange
	TrendMonths int
	RecentLimit int
}

// Snapshot holds the raw API responses of one refresh.
type Snapshot struct {
	Categories   []core.Category
	Transactions []core.TransactionView
	Budgets      []core.BudgetView
	Summary      core.Summary
	ByCategory   []core.CategoryTotal
	Trends       []core.MonthTrend
	FetchedAt    time.Time
}

// Refresh fetches every dashboard resource concurrently. The first failure
// cancels the remaining requests and is returned.
func Refresh(ctx context.Context, src Source, opts Options) (Snapshot, error) {
	var s Snapshot
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		s.Categories, err = src.Categories(ctx)
		return wrap("categories", err)
	})
	g.Go(func() error {
		var err error
		s.Transactions, err = src.Transactions(ctx, core.TransactionFilter{Range: opts.Range})
		return wrap("transactions", err)
	})
	g.Go(func() error {
		var err error
		s.Budgets, err = src.Budgets(ctx)
		return wrap("budgets", err)
	})
	g.Go(func() error {
		var err error
		s.Summary, err = src.Summary(ctx, opts.Range)
		return wrap("summary", err)
	})
	g.Go(func() error {
		var err error
		s.ByCategory, err = src.SpendingByCategory(ctx, opts.Range, core.Expense)
		return wrap("spending by category", err)
	})
	g.Go(func() error {
		var err error
		s.Trends, err = src.Trends(ctx, opts.TrendMonths)
		return wrap("trends", err)
	})

	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	s.FetchedAt = time.Now()
	return s, nil
}

func wrap(what string, err error) error {
	if err != nil {
		return fmt.Errorf("fetch %s: %w", what, err)
	}
	return nil
}

// Tone classifies a value for coloring.
type Tone int

const (
	ToneNeutral Tone = iota
	ToneIncome
	ToneExpense
	ToneWarning
)

type SummaryCard struct {
	Label string
	Value string
	Tone  Tone
}

type TransactionRow struct {
	ID          int64
	Date        string
	Description string
	Category    string
	Amount      string
	Tone        Tone
}

type BudgetRow struct {
	Category string
	Period   string
	Spent    string
	Limit    string
	Percent  int
	Over     bool
	Tone     Tone
}

// ViewModel is everything the renderer draws, derived from one Snapshot.
type ViewModel struct {
	Cards        []SummaryCard
	Recent       []TransactionRow
	Budgets      []BudgetRow
	CategoryBars []Bar
	TrendBars    []Bar
	Categories   int
	UpdatedAt    time.Time
}

// warnPercent is the usage above which a budget is flagged before it is over.
const warnPercent = 80

// Build derives the view model from a snapshot. It never mutates s.
func Build(s Snapshot, recentLimit int) ViewModel {
	vm := ViewModel{
		Categories: len(s.Categories),
		UpdatedAt:  s.FetchedAt,
	}

	balanceTone := ToneIncome
	if s.Summary.Balance.Cents < 0 {
		balanceTone = ToneExpense
	}
	vm.Cards = []SummaryCard{
		{Label: "Income", Value: s.Summary.TotalIncome.String(), Tone: ToneIncome},
		{Label: "Expenses", Value: s.Summary.TotalExpenses.String(), Tone: ToneExpense},
		{Label: "Balance", Value: s.Summary.Balance.String(), Tone: balanceTone},
		{Label: "Transactions", Value: fmt.Sprint(s.Summary.TransactionCount)},
	}

	vm.Recent = TransactionRows(s.Transactions, recentLimit)
	vm.Budgets = BudgetRows(s.Budgets)
	vm.CategoryBars = CategoryBars(s.ByCategory)
	vm.TrendBars = TrendBars(s.Trends)
	return vm
}

// TransactionRows formats at most limit transactions; limit <= 0 keeps all.
// Expenses are signed "-" and income "+".
func TransactionRows(ts []core.TransactionView, limit int) []TransactionRow {
	if limit > 0 && len(ts) > limit {
		ts = ts[:limit]
	}
	rows := make([]TransactionRow, 0, len(ts))
	for _, t := range ts {
		row := TransactionRow{
			ID:          t.ID,
			Date:        t.TransactionDate.String(),
			Description: deref(t.Description, ""),
			Category:    "—",
			Amount:      "+" + t.Amount.String(),
			Tone:        ToneIncome,
		}
		if t.CategoryName != nil {
			row.Category = *t.CategoryName
			if t.Icon != nil {
				row.Category = *t.Icon + " " + row.Category
			}
		}
		if t.Type == core.Expense {
			row.Amount = "-" + t.Amount.String()
			row.Tone = ToneExpense
		}
		rows = append(rows, row)
	}
	return rows
}

// BudgetRows derives usage and tone for each budget.
func BudgetRows(bs []core.BudgetView) []BudgetRow {
	rows := make([]BudgetRow, 0, len(bs))
	for _, b := range bs {
		row := BudgetRow{
			Category: deref(b.CategoryName, "—"),
			Period:   string(b.Period),
			Spent:    b.Spent.String(),
			Limit:    b.Amount.String(),
			Percent:  b.UsedPercent(),
			Over:     core.StatusOf(b).Over,
		}
		switch {
		case row.Over:
			row.Tone = ToneExpense
		case row.Percent >= warnPercent:
			row.Tone = ToneWarning
		default:
			row.Tone = ToneIncome
		}
		rows = append(rows, row)
	}
	return rows
}

// CategoryBars turns per-category totals into chart bars labelled "total (count)".
func CategoryBars(totals []core.CategoryTotal) []Bar {
	bars := make([]Bar, 0, len(totals))
	for _, c := range totals {
		bars = append(bars, Bar{
			Label:   c.Category,
			Value:   c.Total.Float(),
			Display: fmt.Sprintf("%s (%d)", c.Total, c.Count),
			Color:   c.Color,
		})
	}
	return bars
}

// TrendBars emits an income and an expense bar per month.
func TrendBars(trends []core.MonthTrend) []Bar {
	bars := make([]Bar, 0, 2*len(trends))
	for _, m := range trends {
		bars = append(bars,
			Bar{Label: m.Month + " in", Value: m.Income.Float(), Display: m.Income.String(), Color: string(IncomeColor)},
			Bar{Label: m.Month + " out", Value: m.Expenses.Float(), Display: m.Expenses.String(), Color: string(ExpenseColor)},
		)
	}
	return bars
}

func deref(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
