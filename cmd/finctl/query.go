package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func queryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "query <sql>",
		Short:   "Run a read-only SELECT against the server database",
		Example: `  finctl query "SELECT name, type FROM categories ORDER BY name"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			res, err := c.Query(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("query failed: %w", err)
			}
			printQueryResult(cmd.OutOrStdout(), res)
			return nil
		},
	}
}
