package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"fintrack/internal/client"
)

const defaultAPIURL = "http://localhost:5000"

// app carries the state shared by every command of one invocation.
type app struct {
	cfgFile string
	v       *viper.Viper
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "finctl",
		Short: "Terminal client for the fintrack API",
		Long: `finctl talks to a fintrack server: it shows a dashboard of income,
expenses and budgets, and manages categories, transactions and budgets.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.initConfig,
	}

	// Global flags
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: $HOME/.config/finctl/config.yaml)")
	root.PersistentFlags().String("api-url", defaultAPIURL, "base URL of the fintrack server")
	root.PersistentFlags().Duration("timeout", 10*time.Second, "HTTP timeout per request")

	// Bind flags to viper
	_ = a.v.BindPFlag("api_url", root.PersistentFlags().Lookup("api-url"))
	_ = a.v.BindPFlag("timeout", root.PersistentFlags().Lookup("timeout"))

	root.AddCommand(statusCmd(a))
	root.AddCommand(dashboardCmd(a))
	root.AddCommand(categoriesCmd(a))
	root.AddCommand(transactionsCmd(a))
	root.AddCommand(budgetsCmd(a))
	root.AddCommand(analyticsCmd(a))
	root.AddCommand(queryCmd(a))

	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (a *app) initConfig(_ *cobra.Command, _ []string) error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			a.v.AddConfigPath(filepath.Join(home, ".config", "finctl"))
		}
		a.v.AddConfigPath(".")
		a.v.SetConfigName("finctl")
		a.v.SetConfigType("yaml")
	}

	// FINCTL_API_URL, FINCTL_TIMEOUT
	a.v.SetEnvPrefix("FINCTL")
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}
	return nil
}

// client builds an API client from the resolved configuration.
func (a *app) client() (*client.Client, error) {
	timeout := a.v.GetDuration("timeout")
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return client.New(a.v.GetString("api_url"), &http.Client{Timeout: timeout})
}

func statusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check that the server and its database are up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			h, err := c.Health(cmd.Context())
			if err != nil {
				return fmt.Errorf("server at %s is unhealthy: %w", c.BaseURL(), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (database %s, %s)\n",
				c.BaseURL(), h.Status, h.Database, h.Timestamp.Format(time.RFC3339))
			return nil
		},
	}
}
