package main

import (
	"context"
	"os"

	"nobudget/internal/amqp"
	"nobudget/internal/cli"
	"nobudget/internal/config"
	"nobudget/internal/log"
	"nobudget/internal/sheets"
	gsheet "nobudget/internal/sheets/google"
	"nobudget/internal/sheets/memory"
	"nobudget/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	logger.Info("Starting nobudget-worker")
	cfg := cli.LoadAndValidateWorkerConfig(logger)

	recorder, err := newRecorder(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize change log", log.FieldError, err)
		os.Exit(1)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}

	ctx, done := cli.GracefulShutdown(logger, cfg.ShutdownTimeout, func(context.Context) {
		if err := client.Close(); err != nil {
			logger.Error("AMQP close error", log.FieldError, err)
		}
	})

	w := worker.NewMirrorWorker(recorder, logger)
	if err := w.Run(ctx, client); err != nil {
		logger.Error("Message consumption failed", log.FieldError, err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	recorded, failed := w.Stats()
	logger.Info("Worker stopped gracefully", "recorded", recorded, "failed", failed)
}

// newRecorder picks the Google Sheet when one is configured and otherwise
// keeps the log in memory, which only logs each change.
func newRecorder(cfg *config.Config, logger *log.Logger) (sheets.ChangeRecorder, error) {
	if !cfg.SheetsEnabled() {
		logger.Info("Google Sheets disabled - no GOOGLE_SPREADSHEET_ID provided, changes are only logged")
		return memory.New(logger.WithComponent(log.ComponentSheets)), nil
	}

	sheetsCfg := gsheet.Config{
		SpreadsheetID:   cfg.GoogleSpreadsheetID,
		SheetName:       cfg.GoogleSheetName,
		CredentialsFile: cfg.GoogleServiceAccountFile,
		CredentialsJSON: cfg.GoogleServiceAccountJSON,
	}
	ctx := log.NewContext(context.Background(), logger)
	return gsheet.New(ctx, sheetsCfg)
}
