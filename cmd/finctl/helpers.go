package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"fintrack/internal/core"
	"fintrack/internal/dashboard"
)

// dateRangeFlags registers --start and --end on cmd.
func dateRangeFlags(cmd *cobra.Command, start, end *string) {
	cmd.Flags().StringVar(start, "start", "", "first date to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(end, "end", "", "last date to include (YYYY-MM-DD)")
}

func parseRange(start, end string) (core.DateRange, error) {
	var r core.DateRange
	var err error
	if start != "" {
		if r.From, err = core.ParseDate(start); err != nil {
			return r, fmt.Errorf("--start: %w", err)
		}
	}
	if end != "" {
		if r.To, err = core.ParseDate(end); err != nil {
			return r, fmt.Errorf("--end: %w", err)
		}
	}
	return r, r.Validate()
}

func parseKind(s string) (core.Kind, error) {
	k := core.Kind(strings.ToLower(strings.TrimSpace(s)))
	if k == "" || k.Valid() {
		return k, nil
	}
	return "", fmt.Errorf("invalid type %q: must be %q or %q", s, core.Expense, core.Income)
}

func parseAmount(s string) (core.Money, error) {
	m, err := core.ParseMoney(s)
	if err != nil {
		return core.Money{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return m, nil
}

func optionalID(id int64) *int64 {
	if id <= 0 {
		return nil
	}
	return &id
}

func optionalString(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func printCategories(w io.Writer, categories []core.Category) {
	if len(categories) == 0 {
		fmt.Fprintln(w, dashboard.SubtleStyle.Render("No categories found. Use 'finctl categories add' to create one."))
		return
	}
	t := dashboard.NewTable(nil, "ID", "Name", "Type", "Icon", "Color")
	for _, c := range categories {
		t.Row(strconv.FormatInt(c.ID, 10), c.Name, string(c.Type), c.Icon, c.Color)
	}
	fmt.Fprintln(w, t.Render())
}

func printTransactions(w io.Writer, txs []core.TransactionView) {
	fmt.Fprintln(w, dashboard.RenderTransactions(dashboard.TransactionRows(txs, 0)))
}

func printBudgets(w io.Writer, budgets []core.BudgetView) {
	fmt.Fprintln(w, dashboard.RenderBudgets(dashboard.BudgetRows(budgets)))
}

// printQueryResult prints rows in the column order the server reported. When
// no field list came back the row keys are used, sorted.
func printQueryResult(w io.Writer, res core.QueryResult) {
	columns := make([]string, 0, len(res.Fields))
	for _, f := range res.Fields {
		columns = append(columns, f.Name)
	}
	if len(columns) == 0 && len(res.Rows) > 0 {
		for k := range res.Rows[0] {
			columns = append(columns, k)
		}
		sort.Strings(columns)
	}

	if len(columns) > 0 {
		t := dashboard.NewTable(nil, columns...)
		for _, row := range res.Rows {
			cells := make([]string, len(columns))
			for i, c := range columns {
				v, ok := row[c]
				if !ok || v == nil {
					cells[i] = "NULL"
					continue
				}
				cells[i] = fmt.Sprint(v)
			}
			t.Row(cells...)
		}
		fmt.Fprintln(w, t.Render())
	}
	fmt.Fprintln(w, dashboard.SubtleStyle.Render(fmt.Sprintf("(%d rows)", res.RowCount)))
}
