package dashboard

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"fintrack/internal/core"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

type fakeSource struct {
	calls    atomic.Int32
	failWith error
}

func (f *fakeSource) Categories(context.Context) ([]core.Category, error) {
	f.calls.Add(1)
	return []core.Category{{ID: 1, Name: "Food & Dining"}, {ID: 7, Name: "Salary"}}, nil
}

func (f *fakeSource) Transactions(_ context.Context, filter core.TransactionFilter) ([]core.TransactionView, error) {
	f.calls.Add(1)
	return []core.TransactionView{
		{Transaction: core.Transaction{ID: 2, Amount: core.MustParseMoney("12.5"), Type: core.Expense, TransactionDate: core.NewDate(2024, 3, 2)},
			CategoryName: ptr("Food & Dining"), Icon: ptr("🍔")},
		{Transaction: core.Transaction{ID: 1, Amount: core.MustParseMoney("2000"), Type: core.Income, TransactionDate: core.NewDate(2024, 3, 1),
			Description: ptr("March salary")}},
	}, nil
}

func (f *fakeSource) Budgets(context.Context) ([]core.BudgetView, error) {
	f.calls.Add(1)
	return []core.BudgetView{
		{Budget: core.Budget{ID: 1, Amount: core.MustParseMoney("100"), Period: core.Monthly}, CategoryName: ptr("Food & Dining"), Spent: core.MustParseMoney("120")},
		{Budget: core.Budget{ID: 2, Amount: core.MustParseMoney("100"), Period: core.Monthly}, CategoryName: ptr("Shopping"), Spent: core.MustParseMoney("85")},
		{Budget: core.Budget{ID: 3, Amount: core.MustParseMoney("100"), Period: core.Yearly}, Spent: core.MustParseMoney("10")},
	}, nil
}

func (f *fakeSource) Summary(context.Context, core.DateRange) (core.Summary, error) {
	f.calls.Add(1)
	return core.Summary{
		TotalIncome:      core.MustParseMoney("2000"),
		TotalExpenses:    core.MustParseMoney("2012.5"),
		Balance:          core.MustParseMoney("-12.5"),
		TransactionCount: 2,
	}, nil
}

func (f *fakeSource) SpendingByCategory(_ context.Context, _ core.DateRange, kind core.Kind) ([]core.CategoryTotal, error) {
	f.calls.Add(1)
	if kind != core.Expense {
		return nil, errors.New("dashboard must ask for expenses")
	}
	return []core.CategoryTotal{
		{Category: "Food & Dining", Color: "#ef4444", Total: core.MustParseMoney("100"), Count: 4},
		{Category: "Shopping", Color: "#ec4899", Total: core.MustParseMoney("25"), Count: 1},
	}, nil
}

func (f *fakeSource) Trends(_ context.Context, months int) ([]core.MonthTrend, error) {
	f.calls.Add(1)
	if f.failWith != nil {
		return nil, f.failWith
	}
	return []core.MonthTrend{{Month: "2024-03", Income: core.MustParseMoney("2000"), Expenses: core.MustParseMoney("2012.5")}}, nil
}

func TestRefresh(t *testing.T) {
	src := &fakeSource{}
	snap, err := Refresh(context.Background(), src, Options{TrendMonths: 6})
	require.NoError(t, err)

	assert.Equal(t, int32(6), src.calls.Load())
	assert.Len(t, snap.Categories, 2)
	assert.Len(t, snap.Transactions, 2)
	assert.Len(t, snap.Budgets, 3)
	assert.Len(t, snap.ByCategory, 2)
	assert.Len(t, snap.Trends, 1)
	assert.False(t, snap.FetchedAt.IsZero())
}

func TestRefreshPropagatesFirstError(t *testing.T) {
	src := &fakeSource{failWith: errors.New("connection refused")}
	_, err := Refresh(context.Background(), src, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch trends")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestBuild(t *testing.T) {
	snap, err := Refresh(context.Background(), &fakeSource{}, Options{})
	require.NoError(t, err)

	vm := Build(snap, 1)

	require.Len(t, vm.Cards, 4)
	assert.Equal(t, "2000.00", vm.Cards[0].Value)
	assert.Equal(t, "-12.50", vm.Cards[2].Value)
	assert.Equal(t, ToneExpense, vm.Cards[2].Tone, "negative balance is shown as expense")
	assert.Equal(t, "2", vm.Cards[3].Value)

	require.Len(t, vm.Recent, 1, "recent list is capped")
	assert.Equal(t, "-12.50", vm.Recent[0].Amount)
	assert.Equal(t, "🍔 Food & Dining", vm.Recent[0].Category)

	require.Len(t, vm.Budgets, 3)
	assert.True(t, vm.Budgets[0].Over)
	assert.Equal(t, 120, vm.Budgets[0].Percent)
	assert.Equal(t, ToneExpense, vm.Budgets[0].Tone)
	assert.False(t, vm.Budgets[1].Over)
	assert.Equal(t, ToneWarning, vm.Budgets[1].Tone)
	assert.Equal(t, "—", vm.Budgets[2].Category)
	assert.Equal(t, ToneIncome, vm.Budgets[2].Tone)

	require.Len(t, vm.CategoryBars, 2)
	assert.Equal(t, "100.00 (4)", vm.CategoryBars[0].Display)
	assert.Len(t, vm.TrendBars, 2)
	assert.Equal(t, 2, vm.Categories)
}

func TestBuildDoesNotShareState(t *testing.T) {
	snap, err := Refresh(context.Background(), &fakeSource{}, Options{})
	require.NoError(t, err)

	first := Build(snap, 0)
	first.Recent[0].Amount = "changed"
	second := Build(snap, 0)
	assert.Equal(t, "-12.50", second.Recent[0].Amount)
	assert.Len(t, second.Recent, 2)
}

func TestBarLength(t *testing.T) {
	tests := []struct {
		value, peak float64
		width, want int
	}{
		{100, 100, 40, 40},
		{25, 100, 40, 10},
		{0.01, 100, 40, 1},
		{0, 100, 40, 0},
		{-50, 100, 40, 20},
		{10, 0, 40, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BarLength(tt.value, tt.peak, tt.width), "BarLength(%v, %v, %d)", tt.value, tt.peak, tt.width)
	}
}

func TestBarChartDispose(t *testing.T) {
	c := NewBarChart("Spending", []Bar{{Label: "A", Value: 2, Display: "2.00"}, {Label: "Longer", Value: 1, Display: "1.00"}}, 10)

	out, err := c.Render()
	require.NoError(t, err)
	assert.Contains(t, out, strings.Repeat("█", 10)+" 2.00")
	assert.Contains(t, out, strings.Repeat("█", 5)+" 1.00")

	c.Dispose()
	assert.True(t, c.Disposed())
	_, err = c.Render()
	assert.ErrorIs(t, err, ErrChartDisposed)
}

func TestRendererDisposesChartsBeforeRerender(t *testing.T) {
	snap, err := Refresh(context.Background(), &fakeSource{}, Options{})
	require.NoError(t, err)
	vm := Build(snap, 10)

	var out bytes.Buffer
	r := NewRenderer(&out, 20)

	require.NoError(t, r.Render(vm))
	first := r.Charts()
	require.Len(t, first, 2)
	for _, c := range first {
		assert.False(t, c.Disposed())
	}
	text := out.String()
	assert.Contains(t, text, "Recent transactions")
	assert.Contains(t, text, "March salary")
	assert.Contains(t, text, "120% OVER")
	assert.Contains(t, text, "Spending by category")
	assert.Contains(t, text, "2024-03 out")

	vm.UpdatedAt = time.Now()
	require.NoError(t, r.Render(vm))
	for _, c := range first {
		assert.True(t, c.Disposed(), "chart %q from the previous render must be disposed", c.Title())
	}
	second := r.Charts()
	require.Len(t, second, 2)
	assert.NotSame(t, first[0], second[0])

	r.Close()
	for _, c := range second {
		assert.True(t, c.Disposed())
	}
	assert.Empty(t, r.Charts())
}

func TestRenderEmptyViewModel(t *testing.T) {
	var out bytes.Buffer
	r := NewRenderer(&out, 0)
	require.NoError(t, r.Render(Build(Snapshot{}, 5)))
	assert.Contains(t, out.String(), "no transactions")
	assert.Contains(t, out.String(), "no budgets")
	assert.Contains(t, out.String(), "no data")
}

func TestRenderBudgetsWithNegativeSpent(t *testing.T) {
	rows := BudgetRows([]core.BudgetView{
		{Budget: core.Budget{ID: 1, Amount: core.MustParseMoney("100"), Period: core.Monthly}, CategoryName: ptr("Refunds"), Spent: core.MustParseMoney("-50")},
	})
	require.Len(t, rows, 1)
	assert.Negative(t, rows[0].Percent)

	var out string
	require.NotPanics(t, func() { out = RenderBudgets(rows) })
	assert.Contains(t, out, strings.Repeat("░", budgetBarWidth))
	assert.Contains(t, out, "-50.00 / 100.00")
}

func TestBudgetBarClamps(t *testing.T) {
	tests := []struct {
		percent int
		filled  int
	}{
		{-49, 0},
		{0, 0},
		{50, 10},
		{100, 20},
		{250, 20},
	}
	for _, tt := range tests {
		bar := budgetBar(tt.percent)
		assert.Equal(t, tt.filled, strings.Count(bar, "█"), "budgetBar(%d)", tt.percent)
		assert.Equal(t, budgetBarWidth, lipgloss.Width(bar))
	}
}

func TestTablesAlignWithColors(t *testing.T) {
	prev := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.TrueColor)
	t.Cleanup(func() { lipgloss.SetColorProfile(prev) })

	snap, err := Refresh(context.Background(), &fakeSource{}, Options{})
	require.NoError(t, err)
	vm := Build(snap, 10)

	for name, out := range map[string]string{
		"transactions": RenderTransactions(vm.Recent),
		"budgets":      RenderBudgets(vm.Budgets),
	} {
		require.Contains(t, out, "\x1b[", "%s: expected styled output", name)
		lines := strings.Split(out, "\n")
		require.Greater(t, len(lines), 1, name)
		for _, line := range lines[1:] {
			assert.Equal(t, lipgloss.Width(lines[0]), lipgloss.Width(line), "%s: row %q is not aligned with the header", name, line)
		}
	}
}
