package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"fintrack/internal/core"
	"fintrack/internal/dashboard"
)

const clearScreen = "\033[H\033[2J"

func dashboardCmd(a *app) *cobra.Command {
	var (
		start, end string
		months     int
		recent     int
		width      int
		watch      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show totals, recent transactions, budgets and charts",
		Long: `Fetch everything the dashboard shows concurrently and render it. With
--watch the dashboard is fetched and redrawn on that interval until
interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := parseRange(start, end)
			if err != nil {
				return err
			}
			c, err := a.client()
			if err != nil {
				return err
			}

			opts := dashboard.Options{Range: r, TrendMonths: months, RecentLimit: recent}
			renderer := dashboard.NewRenderer(cmd.OutOrStdout(), width)
			defer renderer.Close()

			draw := func() error {
				snap, err := dashboard.Refresh(cmd.Context(), c, opts)
				if err != nil {
					return err
				}
				return renderer.Render(dashboard.Build(snap, opts.RecentLimit))
			}

			if watch <= 0 {
				return draw()
			}

			ticker := time.NewTicker(watch)
			defer ticker.Stop()
			for {
				fmt.Fprint(cmd.OutOrStdout(), clearScreen)
				if err := draw(); err != nil {
					if cmd.Context().Err() != nil {
						return nil
					}
					printError(cmd.ErrOrStderr(), err)
				}
				select {
				case <-cmd.Context().Done():
					return nil
				case <-ticker.C:
				}
			}
		},
	}

	dateRangeFlags(cmd, &start, &end)
	cmd.Flags().IntVar(&months, "months", core.DefaultTrendMonths, "months shown in the trend chart")
	cmd.Flags().IntVar(&recent, "recent", 10, "number of recent transactions")
	cmd.Flags().IntVar(&width, "width", 40, "length of the longest chart bar")
	cmd.Flags().DurationVar(&watch, "watch", 0, "redraw on this interval, e.g. 30s")

	return cmd
}

func printError(w io.Writer, err error) {
	fmt.Fprintln(w, dashboard.ErrorStyle.Render("✗ "+err.Error()))
}
