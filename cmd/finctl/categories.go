package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"fintrack/internal/core"
)

func categoriesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage transaction categories",
	}

	cmd.AddCommand(listCategoriesCmd(a))
	cmd.AddCommand(addCategoryCmd(a))
	cmd.AddCommand(deleteCategoryCmd(a))

	return cmd
}

func listCategoriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			categories, err := c.Categories(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get categories: %w", err)
			}
			printCategories(cmd.OutOrStdout(), categories)
			return nil
		},
	}
}

func addCategoryCmd(a *app) *cobra.Command {
	var kind, color, icon string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := parseKind(kind)
			if err != nil {
				return err
			}
			c, err := a.client()
			if err != nil {
				return err
			}

			created, err := c.CreateCategory(cmd.Context(), core.NewCategory{
				Name:  args[0],
				Type:  k,
				Color: color,
				Icon:  icon,
			})
			if err != nil {
				return fmt.Errorf("failed to create category: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created category %d %q\n", created.ID, created.Name)

			categories, err := c.Categories(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get categories: %w", err)
			}
			printCategories(cmd.OutOrStdout(), categories)
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "type", string(core.Expense), "category type (expense or income)")
	cmd.Flags().StringVar(&color, "color", "", "display color, e.g. #ef4444")
	cmd.Flags().StringVar(&icon, "icon", "", "display icon")

	return cmd
}

func deleteCategoryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category",
		Long: `Delete a category. Its transactions are kept without a category and
its budgets are deleted with it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid category id %q", args[0])
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			if err := c.DeleteCategory(cmd.Context(), id); err != nil {
				return fmt.Errorf("failed to delete category: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted category %d\n", id)

			categories, err := c.Categories(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get categories: %w", err)
			}
			printCategories(cmd.OutOrStdout(), categories)
			return nil
		},
	}
}
