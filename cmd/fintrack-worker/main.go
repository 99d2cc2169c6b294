package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/robfig/cron/v3"

	"fintrack/internal/amqp"
	"fintrack/internal/cli"
	applog "fintrack/internal/log"
	"fintrack/internal/sheets"
	gsheet "fintrack/internal/sheets/google"
	"fintrack/internal/sheets/memory"
	"fintrack/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentWorker)
	cfg := cli.LoadAndValidateConfig(logger)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	logger.Info("Starting fintrack-worker", applog.FieldOperation, applog.OpStartup)

	store := cli.InitStore(context.Background(), logger, cfg)

	// Initialize Google Sheets ledger (optional)
	var ledger sheets.LedgerWriter
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.New(context.Background(), gsheet.Config{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			SheetName:       cfg.GoogleSheetName,
			CredentialsJSON: cfg.GoogleCredentialsJSON,
			CredentialsFile: cfg.GoogleCredentialsFile,
		})
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		ledger = client
	} else if cfg.AppEnv == "development" {
		// Keep the export path running locally without a spreadsheet
		ledger = memory.New()
		logger.Info("Ledger export kept in memory - no GOOGLE_SPREADSHEET_ID provided")
	} else {
		logger.Info("Ledger export disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}

	budgetWorker := worker.NewBudgetWorker(store, ledger, logger)

	scheduler := cron.New()
	if cfg.ReportSchedule != "" {
		if _, err := scheduler.AddFunc(cfg.ReportSchedule, func() {
			if _, err := budgetWorker.Report(context.Background()); err != nil {
				logger.Error("Budget report failed", "error", err)
			}
		}); err != nil {
			logger.Error("Invalid report schedule", "error", err, "schedule", cfg.ReportSchedule)
			os.Exit(1)
		}
		scheduler.Start()
		logger.Info("Budget report scheduled", "schedule", cfg.ReportSchedule)
	}

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(shutdownCtx context.Context) {
		select {
		case <-scheduler.Stop().Done():
		case <-shutdownCtx.Done():
		}
		if err := amqpClient.Close(); err != nil {
			logger.Warn("AMQP close error", "error", err)
		}
		if err := store.Close(); err != nil {
			logger.Warn("Database close error", "error", err)
		}
	})

	// Check budgets once on startup so a restart does not hide overruns
	if _, err := budgetWorker.Report(ctx); err != nil {
		logger.Error("Startup budget report failed", "error", err)
	}

	// Closing the connection during shutdown also ends consumption, so only
	// errors seen while ctx is still live are fatal.
	if err := amqpClient.ConsumeTransactionEvents(ctx, budgetWorker.HandleTransactionEvent); err != nil &&
		!errors.Is(err, context.Canceled) && ctx.Err() == nil {
		logger.Error("Message consumption failed", "error", err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped gracefully")
}
