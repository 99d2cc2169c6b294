package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"fintrack/internal/client"
	"fintrack/internal/core"
)

func transactionsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"tx"},
		Short:   "List and edit transactions",
	}

	cmd.AddCommand(listTransactionsCmd(a))
	cmd.AddCommand(addTransactionCmd(a))
	cmd.AddCommand(updateTransactionCmd(a))
	cmd.AddCommand(deleteTransactionCmd(a))

	return cmd
}

func listTransactionsCmd(a *app) *cobra.Command {
	var (
		start, end string
		kind       string
		categoryID int64
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
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
			txs, err := c.Transactions(cmd.Context(), core.TransactionFilter{
				Range:      r,
				Type:       k,
				CategoryID: optionalID(categoryID),
			})
			if err != nil {
				return fmt.Errorf("failed to get transactions: %w", err)
			}
			printTransactions(cmd.OutOrStdout(), txs)
			return nil
		},
	}

	dateRangeFlags(cmd, &start, &end)
	cmd.Flags().StringVar(&kind, "type", "", "only expense or income transactions")
	cmd.Flags().Int64Var(&categoryID, "category", 0, "only transactions of this category id")

	return cmd
}

// transactionFlags are the writable fields shared by add and update.
type transactionFlags struct {
	amount      string
	kind        string
	description string
	categoryID  int64
	date        string
}

func (f *transactionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.amount, "amount", "", "amount, e.g. 12.50 (required)")
	cmd.Flags().StringVar(&f.kind, "type", string(core.Expense), "expense or income")
	cmd.Flags().StringVar(&f.description, "description", "", "free text description")
	cmd.Flags().Int64Var(&f.categoryID, "category", 0, "category id")
	cmd.Flags().StringVar(&f.date, "date", "", "transaction date (YYYY-MM-DD, default today)")
	_ = cmd.MarkFlagRequired("amount")
}

func (f *transactionFlags) input() (core.TransactionInput, error) {
	amount, err := parseAmount(f.amount)
	if err != nil {
		return core.TransactionInput{}, err
	}
	k, err := parseKind(f.kind)
	if err != nil {
		return core.TransactionInput{}, err
	}
	if k == "" {
		return core.TransactionInput{}, fmt.Errorf("--type is required")
	}
	in := core.TransactionInput{
		Amount:      amount,
		Type:        k,
		Description: optionalString(f.description),
		CategoryID:  optionalID(f.categoryID),
	}
	if f.date != "" {
		if in.TransactionDate, err = core.ParseDate(f.date); err != nil {
			return core.TransactionInput{}, fmt.Errorf("--date: %w", err)
		}
	}
	return in, nil
}

func addTransactionCmd(a *app) *cobra.Command {
	var f transactionFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := f.input()
			if err != nil {
				return err
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			tx, err := c.CreateTransaction(cmd.Context(), in)
			if err != nil {
				return fmt.Errorf("failed to create transaction: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created transaction %d\n", tx.ID)
			return relistTransactions(cmd, c)
		},
	}
	f.register(cmd)

	return cmd
}

func updateTransactionCmd(a *app) *cobra.Command {
	var f transactionFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace every field of a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTransactionID(args[0])
			if err != nil {
				return err
			}
			in, err := f.input()
			if err != nil {
				return err
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			if _, err := c.UpdateTransaction(cmd.Context(), id, in); err != nil {
				return fmt.Errorf("failed to update transaction: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated transaction %d\n", id)
			return relistTransactions(cmd, c)
		},
	}
	f.register(cmd)
	_ = cmd.MarkFlagRequired("date")

	return cmd
}

func deleteTransactionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTransactionID(args[0])
			if err != nil {
				return err
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			if err := c.DeleteTransaction(cmd.Context(), id); err != nil {
				return fmt.Errorf("failed to delete transaction: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted transaction %d\n", id)
			return relistTransactions(cmd, c)
		},
	}
}

func parseTransactionID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid transaction id %q", s)
	}
	return id, nil
}

func relistTransactions(cmd *cobra.Command, c *client.Client) error {
	txs, err := c.Transactions(cmd.Context(), core.TransactionFilter{})
	if err != nil {
		return fmt.Errorf("failed to get transactions: %w", err)
	}
	printTransactions(cmd.OutOrStdout(), txs)
	return nil
}
