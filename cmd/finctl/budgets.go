package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fintrack/internal/core"
)

func budgetsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budgets",
		Short: "Manage spending limits",
	}

	cmd.AddCommand(listBudgetsCmd(a))
	cmd.AddCommand(addBudgetCmd(a))

	return cmd
}

func listBudgetsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List budgets with what has been spent against them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			budgets, err := c.Budgets(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get budgets: %w", err)
			}
			printBudgets(cmd.OutOrStdout(), budgets)
			return nil
		},
	}
}

func addBudgetCmd(a *app) *cobra.Command {
	var (
		categoryID int64
		amount     string
		period     string
		start, end string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a budget for a category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := parseAmount(amount)
			if err != nil {
				return err
			}
			r, err := parseRange(start, end)
			if err != nil {
				return err
			}
			in := core.BudgetInput{
				CategoryID: categoryID,
				Amount:     m,
				Period:     core.Period(period),
				StartDate:  r.From,
				EndDate:    r.To,
			}
			if err := in.Validate(); err != nil {
				return err
			}

			c, err := a.client()
			if err != nil {
				return err
			}
			b, err := c.CreateBudget(cmd.Context(), in)
			if err != nil {
				return fmt.Errorf("failed to create budget: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created budget %d\n", b.ID)

			budgets, err := c.Budgets(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get budgets: %w", err)
			}
			printBudgets(cmd.OutOrStdout(), budgets)
			return nil
		},
	}

	cmd.Flags().Int64Var(&categoryID, "category", 0, "category id (required)")
	cmd.Flags().StringVar(&amount, "amount", "", "spending limit (required)")
	cmd.Flags().StringVar(&period, "period", string(core.Monthly), "monthly or yearly")
	dateRangeFlags(cmd, &start, &end)
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}
