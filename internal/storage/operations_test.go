package storage

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"fintrack/internal/core"
)

func ids[T any](items []T, id func(T) int64) []int64 {
	out := make([]int64, 0, len(items))
	for _, it := range items {
		out = append(out, id(it))
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestCreateCategory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c, err := s.CreateCategory(ctx, core.NewCategory{Name: "Books", Type: core.Expense})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.ID == 0 || c.Color != core.DefaultColor || c.Icon != core.DefaultIcon || c.CreatedAt.IsZero() {
		t.Fatalf("unexpected category: %+v", c)
	}

	if _, err := s.CreateCategory(ctx, core.NewCategory{Name: "Books", Type: core.Income}); err == nil {
		t.Fatal("expected duplicate name to fail")
	}
	if _, err := s.CreateCategory(ctx, core.NewCategory{Name: "Gifts", Type: "gift"}); !core.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestTransactionCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	food := categoryID(t, s, "Food & Dining")

	tx, err := s.CreateTransaction(ctx, core.TransactionInput{
		Amount:      core.MustParseMoney("12.50"),
		Description: ptr("Lunch"),
		CategoryID:  &food,
		Type:        core.Expense,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if tx.TransactionDate.String() != core.Today().String() {
		t.Fatalf("expected default date %s, got %s", core.Today(), tx.TransactionDate)
	}
	if tx.Amount.Cents != 1250 || tx.Description == nil || *tx.Description != "Lunch" {
		t.Fatalf("unexpected transaction: %+v", tx)
	}

	updated, err := s.UpdateTransaction(ctx, tx.ID, core.TransactionInput{
		Amount:          core.MustParseMoney("99"),
		TransactionDate: core.NewDate(2024, 5, 1),
		Type:            core.Income,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Amount.Cents != 9900 || updated.Type != core.Income || updated.CategoryID != nil ||
		updated.Description != nil || updated.TransactionDate.String() != "2024-05-01" {
		t.Fatalf("update must replace every field: %+v", updated)
	}

	_, err = s.UpdateTransaction(ctx, 9999, core.TransactionInput{Type: core.Expense, TransactionDate: core.Today()})
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on update, got %v", err)
	}

	if err := s.DeleteTransaction(ctx, tx.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteTransaction(ctx, tx.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
	if _, err := s.GetTransaction(ctx, tx.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on get, got %v", err)
	}
}

func TestListTransactionsFiltersIntersect(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	food := categoryID(t, s, "Food & Dining")
	salary := categoryID(t, s, "Salary")

	all := []core.Transaction{
		mustCreateTx(t, s, core.Expense, "10", core.NewDate(2025, 1, 1), &food),
		mustCreateTx(t, s, core.Expense, "20", core.NewDate(2025, 1, 15), &food),
		mustCreateTx(t, s, core.Income, "3000", core.NewDate(2025, 1, 31), &salary),
		mustCreateTx(t, s, core.Expense, "5", core.NewDate(2025, 2, 1), nil),
		mustCreateTx(t, s, core.Income, "40", core.NewDate(2024, 12, 31), &food),
	}

	ranges := []core.DateRange{
		{},
		{From: core.NewDate(2025, 1, 1)},
		{To: core.NewDate(2025, 1, 31)},
		{From: core.NewDate(2025, 1, 1), To: core.NewDate(2025, 1, 31)},
		{From: core.NewDate(2025, 1, 15), To: core.NewDate(2025, 1, 15)},
	}
	kinds := []core.Kind{"", core.Expense, core.Income}
	cats := []*int64{nil, &food, &salary}

	for _, r := range ranges {
		for _, k := range kinds {
			for _, cat := range cats {
				f := core.TransactionFilter{Range: r, Type: k, CategoryID: cat}
				got, err := s.ListTransactions(ctx, f)
				if err != nil {
					t.Fatalf("list %+v: %v", f, err)
				}

				var want []core.Transaction
				for _, tx := range all {
					if !r.Contains(tx.TransactionDate) {
						continue
					}
					if k != "" && tx.Type != k {
						continue
					}
					if cat != nil && (tx.CategoryID == nil || *tx.CategoryID != *cat) {
						continue
					}
					want = append(want, tx)
				}

				gotIDs := ids(got, func(v core.TransactionView) int64 { return v.ID })
				wantIDs := ids(want, func(v core.Transaction) int64 { return v.ID })
				if !equalIDs(gotIDs, wantIDs) {
					t.Fatalf("filter %+v: got %v, want %v", f, gotIDs, wantIDs)
				}
			}
		}
	}
}

func TestListTransactionsOrderAndJoin(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	food := categoryID(t, s, "Food & Dining")

	older := mustCreateTx(t, s, core.Expense, "1", core.NewDate(2025, 3, 1), &food)
	newer := mustCreateTx(t, s, core.Expense, "2", core.NewDate(2025, 3, 2), nil)
	sameDayLater := mustCreateTx(t, s, core.Expense, "3", core.NewDate(2025, 3, 1), &food)

	list, err := s.ListTransactions(ctx, core.TransactionFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	order := []int64{list[0].ID, list[1].ID, list[2].ID}
	want := []int64{newer.ID, sameDayLater.ID, older.ID}
	if !equalIDs(order, want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	if list[0].CategoryName != nil {
		t.Fatalf("uncategorized transaction must have no category name")
	}
	if list[1].CategoryName == nil || *list[1].CategoryName != "Food & Dining" || *list[1].Icon != "🍔" {
		t.Fatalf("expected joined category fields, got %+v", list[1])
	}
}

func TestListTransactionsRejectsInvertedRange(t *testing.T) {
	s := newTestStore(t)
	_, err := s.ListTransactions(context.Background(), core.TransactionFilter{
		Range: core.DateRange{From: core.NewDate(2025, 2, 1), To: core.NewDate(2025, 1, 1)},
	})
	if !core.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestBudgetSpent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	food := categoryID(t, s, "Food & Dining")
	shopping := categoryID(t, s, "Shopping")

	jan, err := s.CreateBudget(ctx, core.BudgetInput{
		CategoryID: food, Amount: core.MustParseMoney("100"), Period: core.Monthly,
		StartDate: core.NewDate(2025, 1, 1), EndDate: core.NewDate(2025, 1, 31),
	})
	if err != nil {
		t.Fatalf("create budget: %v", err)
	}
	empty, err := s.CreateBudget(ctx, core.BudgetInput{
		CategoryID: shopping, Amount: core.MustParseMoney("50"), Period: core.Yearly,
		StartDate: core.NewDate(2025, 1, 1), EndDate: core.NewDate(2025, 12, 31),
	})
	if err != nil {
		t.Fatalf("create budget: %v", err)
	}

	mustCreateTx(t, s, core.Expense, "30", core.NewDate(2025, 1, 1), &food)    // first day
	mustCreateTx(t, s, core.Expense, "45.5", core.NewDate(2025, 1, 31), &food) // last day
	mustCreateTx(t, s, core.Expense, "7", core.NewDate(2025, 2, 1), &food)     // outside
	mustCreateTx(t, s, core.Income, "500", core.NewDate(2025, 1, 10), &food)   // income
	mustCreateTx(t, s, core.Expense, "8", core.NewDate(2025, 1, 10), nil)      // no category

	budgets, err := s.ListBudgets(ctx)
	if err != nil {
		t.Fatalf("list budgets: %v", err)
	}
	if len(budgets) != 2 {
		t.Fatalf("expected 2 budgets, got %d", len(budgets))
	}
	byID := map[int64]core.BudgetView{}
	for _, b := range budgets {
		byID[b.ID] = b
	}
	if got := byID[jan.ID].Spent.Cents; got != 7550 {
		t.Fatalf("spent = %d, want 7550", got)
	}
	if got := byID[empty.ID].Spent.Cents; got != 0 {
		t.Fatalf("budget without transactions spent = %d, want 0", got)
	}
	if name := byID[jan.ID].CategoryName; name == nil || *name != "Food & Dining" {
		t.Fatalf("expected joined category name, got %v", name)
	}

	statuses, err := s.BudgetStatuses(ctx, food)
	if err != nil {
		t.Fatalf("statuses: %v", err)
	}
	if len(statuses) != 1 || statuses[0].Over || statuses[0].Remaining.Cents != 2450 {
		t.Fatalf("unexpected statuses: %+v", statuses)
	}
}

func TestBudgetsOrderedByStartDateDesc(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	food := categoryID(t, s, "Food & Dining")

	for _, m := range []int{1, 3, 2} {
		_, err := s.CreateBudget(ctx, core.BudgetInput{
			CategoryID: food, Amount: core.MustParseMoney("10"), Period: core.Monthly,
			StartDate: core.NewDate(2025, m, 1), EndDate: core.NewDate(2025, m, 28),
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	budgets, err := s.ListBudgets(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var starts []string
	for _, b := range budgets {
		starts = append(starts, b.StartDate.String())
	}
	if strings.Join(starts, ",") != "2025-03-01,2025-02-01,2025-01-01" {
		t.Fatalf("order = %v", starts)
	}
}

func TestDuplicateBudgetFails(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	food := categoryID(t, s, "Food & Dining")
	in := core.BudgetInput{
		CategoryID: food, Amount: core.MustParseMoney("100"), Period: core.Monthly,
		StartDate: core.NewDate(2025, 1, 1), EndDate: core.NewDate(2025, 1, 31),
	}
	if _, err := s.CreateBudget(ctx, in); err != nil {
		t.Fatalf("first create: %v", err)
	}
	in.Amount = core.MustParseMoney("200")
	if _, err := s.CreateBudget(ctx, in); err == nil {
		t.Fatal("expected uniqueness violation")
	}
	in.Period = core.Yearly
	if _, err := s.CreateBudget(ctx, in); err != nil {
		t.Fatalf("different period must be accepted: %v", err)
	}
}

func TestDeleteCategoryForeignKeyRules(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cat, err := s.CreateCategory(ctx, core.NewCategory{Name: "Hobbies", Type: core.Expense})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	tx := mustCreateTx(t, s, core.Expense, "15", core.NewDate(2025, 4, 2), &cat.ID)
	_, err = s.CreateBudget(ctx, core.BudgetInput{
		CategoryID: cat.ID, Amount: core.MustParseMoney("100"), Period: core.Monthly,
		StartDate: core.NewDate(2025, 4, 1), EndDate: core.NewDate(2025, 4, 30),
	})
	if err != nil {
		t.Fatalf("create budget: %v", err)
	}

	if err := s.DeleteCategory(ctx, cat.ID); err != nil {
		t.Fatalf("delete category: %v", err)
	}

	got, err := s.GetTransaction(ctx, tx.ID)
	if err != nil {
		t.Fatalf("transaction must survive category delete: %v", err)
	}
	if got.CategoryID != nil {
		t.Fatalf("category_id must be cleared, got %d", *got.CategoryID)
	}

	budgets, err := s.ListBudgets(ctx)
	if err != nil {
		t.Fatalf("list budgets: %v", err)
	}
	if len(budgets) != 0 {
		t.Fatalf("budget must be removed with its category, got %d", len(budgets))
	}

	if err := s.DeleteCategory(ctx, cat.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSummaryBalanceIdentity(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	salary := categoryID(t, s, "Salary")
	food := categoryID(t, s, "Food & Dining")

	mustCreateTx(t, s, core.Income, "2500", core.NewDate(2025, 1, 1), &salary)
	mustCreateTx(t, s, core.Expense, "120.35", core.NewDate(2025, 1, 5), &food)
	mustCreateTx(t, s, core.Expense, "-20", core.NewDate(2025, 1, 6), &food)
	mustCreateTx(t, s, core.Expense, "300.01", core.NewDate(2025, 2, 5), nil)

	ranges := []core.DateRange{
		{},
		{From: core.NewDate(2025, 1, 1), To: core.NewDate(2025, 1, 31)},
		{From: core.NewDate(2025, 2, 1)},
		{To: core.NewDate(2025, 1, 5)},
		{From: core.NewDate(2030, 1, 1), To: core.NewDate(2030, 1, 2)},
	}
	for _, r := range ranges {
		sum, err := s.Summary(ctx, r)
		if err != nil {
			t.Fatalf("summary %+v: %v", r, err)
		}
		if sum.Balance.Cents != sum.TotalIncome.Cents-sum.TotalExpenses.Cents {
			t.Fatalf("balance identity broken for %+v: %+v", r, sum)
		}
	}

	all, _ := s.Summary(ctx, core.DateRange{})
	if all.TotalIncome.Cents != 250000 || all.TotalExpenses.Cents != 40036 || all.TransactionCount != 4 {
		t.Fatalf("unexpected all-time summary: %+v", all)
	}
	none, _ := s.Summary(ctx, core.DateRange{From: core.NewDate(2030, 1, 1)})
	if none.TransactionCount != 0 || none.Balance.Cents != 0 {
		t.Fatalf("empty range must yield zeros: %+v", none)
	}
}

func TestSpendingByCategory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	food := categoryID(t, s, "Food & Dining")
	transport := categoryID(t, s, "Transportation")
	salary := categoryID(t, s, "Salary")

	mustCreateTx(t, s, core.Expense, "10", core.NewDate(2025, 1, 1), &food)
	mustCreateTx(t, s, core.Expense, "15", core.NewDate(2025, 1, 2), &food)
	mustCreateTx(t, s, core.Expense, "40", core.NewDate(2025, 1, 3), &transport)
	mustCreateTx(t, s, core.Income, "1000", core.NewDate(2025, 1, 4), &salary)
	mustCreateTx(t, s, core.Expense, "99", core.NewDate(2025, 3, 1), &food)

	totals, err := s.SpendingByCategory(ctx, core.DateRange{From: core.NewDate(2025, 1, 1), To: core.NewDate(2025, 1, 31)}, core.Expense)
	if err != nil {
		t.Fatalf("by category: %v", err)
	}
	if len(totals) != 2 {
		t.Fatalf("expected only categories with matches, got %+v", totals)
	}
	if totals[0].Category != "Transportation" || totals[0].Total.Cents != 4000 || totals[0].Count != 1 {
		t.Fatalf("unexpected first total: %+v", totals[0])
	}
	if totals[1].Category != "Food & Dining" || totals[1].Total.Cents != 2500 || totals[1].Count != 2 {
		t.Fatalf("unexpected second total: %+v", totals[1])
	}
	if totals[1].Color != "#ef4444" {
		t.Fatalf("expected category color, got %q", totals[1].Color)
	}

	all, err := s.SpendingByCategory(ctx, core.DateRange{}, "")
	if err != nil {
		t.Fatalf("by category unfiltered: %v", err)
	}
	if len(all) != 3 || all[0].Category != "Salary" {
		t.Fatalf("unexpected unfiltered totals: %+v", all)
	}
}

func TestTrends(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	today := core.Today()

	mustCreateTx(t, s, core.Income, "100", today, nil)
	mustCreateTx(t, s, core.Expense, "30", today, nil)
	mustCreateTx(t, s, core.Expense, "12", today.AddMonths(-2), nil)
	mustCreateTx(t, s, core.Income, "999", today.AddMonths(-10), nil)

	trends, err := s.Trends(ctx, core.DefaultTrendMonths)
	if err != nil {
		t.Fatalf("trends: %v", err)
	}
	if len(trends) != 2 {
		t.Fatalf("expected two months, got %+v", trends)
	}
	if trends[0].Month != today.AddMonths(-2).Format("2006-01") || trends[0].Expenses.Cents != 1200 {
		t.Fatalf("unexpected first bucket: %+v", trends[0])
	}
	if trends[1].Month != today.Format("2006-01") || trends[1].Income.Cents != 10000 || trends[1].Expenses.Cents != 3000 {
		t.Fatalf("unexpected last bucket: %+v", trends[1])
	}

	year, err := s.Trends(ctx, 12)
	if err != nil {
		t.Fatalf("trends 12: %v", err)
	}
	if len(year) != 3 {
		t.Fatalf("expected three months over a year, got %d", len(year))
	}

	if _, err := s.Trends(ctx, 0); !core.IsValidation(err) {
		t.Fatalf("expected validation error for months=0, got %v", err)
	}
}

func TestRunReadQuery(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustCreateTx(t, s, core.Expense, "5", core.NewDate(2025, 1, 1), nil)

	res, err := s.RunReadQuery(ctx, "SELECT 1")
	if err != nil {
		t.Fatalf("SELECT 1: %v", err)
	}
	if res.RowCount != 1 || len(res.Rows) != 1 || len(res.Fields) != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}

	res, err = s.RunReadQuery(ctx, "select * from categories")
	if err != nil {
		t.Fatalf("lowercase select: %v", err)
	}
	if res.RowCount != 10 {
		t.Fatalf("expected 10 categories, got %d", res.RowCount)
	}
	var names []string
	for _, f := range res.Fields {
		names = append(names, f.Name)
	}
	if strings.Join(names, ",") != "id,name,type,color,icon,created_at" {
		t.Fatalf("unexpected fields: %v", names)
	}

	if _, err := s.RunReadQuery(ctx, "DELETE FROM transactions"); !errors.Is(err, core.ErrQueryNotAllowed) {
		t.Fatalf("expected ErrQueryNotAllowed, got %v", err)
	}
	list, _ := s.ListTransactions(ctx, core.TransactionFilter{})
	if len(list) != 1 {
		t.Fatalf("rejected statement must not execute, have %d transactions", len(list))
	}

	_, err = s.RunReadQuery(ctx, "SELECT * FROM nosuchtable")
	if err == nil || !strings.Contains(err.Error(), "nosuchtable") {
		t.Fatalf("expected engine error mentioning the table, got %v", err)
	}
}

func TestRunReadQueryCannotWrite(t *testing.T) {
	cfg := testConfig(t)
	cfg.MaxOpenConns = 1
	s, err := Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	ctx := context.Background()
	mustCreateTx(t, s, core.Expense, "5", core.NewDate(2025, 1, 1), nil)

	// Passes the prefix check; whether the engine runs the second statement
	// or not, nothing may be deleted.
	_, _ = s.RunReadQuery(ctx, "SELECT 1; DELETE FROM transactions")
	list, err := s.ListTransactions(ctx, core.TransactionFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("read query wrote to the database, have %d transactions", len(list))
	}

	// The single pooled connection must be writable again afterwards.
	if _, err := s.CreateCategory(ctx, core.NewCategory{Name: "After query", Type: core.Expense}); err != nil {
		t.Fatalf("write after read query: %v", err)
	}
}

func TestTrendsCutoffIsTodayMinusMonths(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	cutoff := core.Today().AddMonths(-1)

	mustCreateTx(t, s, core.Income, "5", cutoff, nil)
	mustCreateTx(t, s, core.Income, "7", core.DateOf(cutoff.AddDate(0, 0, -1)), nil)

	trends, err := s.Trends(ctx, 1)
	if err != nil {
		t.Fatalf("trends: %v", err)
	}
	var income int64
	for _, m := range trends {
		income += m.Income.Cents
	}
	if income != 500 {
		t.Fatalf("expected only the transaction on the cutoff day, got %d cents in %+v", income, trends)
	}
}
