package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fintrack/internal/core"
	"fintrack/internal/dashboard"
)

func analyticsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Totals, spending by category and monthly trends",
	}

	cmd.AddCommand(summaryCmd(a))
	cmd.AddCommand(byCategoryCmd(a))
	cmd.AddCommand(trendsCmd(a))

	return cmd
}

func summaryCmd(a *app) *cobra.Command {
	var start, end string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Income, expenses and balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := parseRange(start, end)
			if err != nil {
				return err
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			s, err := c.Summary(cmd.Context(), r)
			if err != nil {
				return fmt.Errorf("failed to get summary: %w", err)
			}

			vm := dashboard.Build(dashboard.Snapshot{Summary: s}, 0)
			fmt.Fprintln(cmd.OutOrStdout(), dashboard.RenderCards(vm.Cards))
			return nil
		},
	}
	dateRangeFlags(cmd, &start, &end)

	return cmd
}

func byCategoryCmd(a *app) *cobra.Command {
	var start, end, kind string
	var width int

	cmd := &cobra.Command{
		Use:   "by-category",
		Short: "Totals per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := parseRange(start, end)
			if err != nil {
				return err
			}
			k, err := parseKind(kind)
			if err != nil {
				return err
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			totals, err := c.SpendingByCategory(cmd.Context(), r, k)
			if err != nil {
				return fmt.Errorf("failed to get spending by category: %w", err)
			}

			title := "Spending by category"
			if k == core.Income {
				title = "Income by category"
			}
			return renderChart(cmd, dashboard.NewBarChart(title, dashboard.CategoryBars(totals), width))
		},
	}
	dateRangeFlags(cmd, &start, &end)
	cmd.Flags().StringVar(&kind, "type", string(core.Expense), "expense or income")
	cmd.Flags().IntVar(&width, "width", 40, "length of the longest bar")

	return cmd
}

func trendsCmd(a *app) *cobra.Command {
	var months, width int
	var table bool

	cmd := &cobra.Command{
		Use:   "trends",
		Short: "Income and expenses per month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			trends, err := c.Trends(cmd.Context(), months)
			if err != nil {
				return fmt.Errorf("failed to get trends: %w", err)
			}

			if table {
				t := dashboard.NewTable(nil, "Month", "Income", "Expenses")
				for _, m := range trends {
					t.Row(m.Month, m.Income.String(), m.Expenses.String())
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), t.Render())
				return err
			}
			return renderChart(cmd, dashboard.NewBarChart("Monthly trend", dashboard.TrendBars(trends), width))
		},
	}
	cmd.Flags().IntVar(&months, "months", core.DefaultTrendMonths, "number of trailing months")
	cmd.Flags().IntVar(&width, "width", 40, "length of the longest bar")
	cmd.Flags().BoolVar(&table, "table", false, "print a table instead of a chart")

	return cmd
}

// renderChart prints a one-off chart and disposes it.
func renderChart(cmd *cobra.Command, chart *dashboard.BarChart) error {
	defer chart.Dispose()
	out, err := chart.Render()
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}
