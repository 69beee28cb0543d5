package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"contas/internal/amqp"
	"contas/internal/config"
	"contas/internal/core"
	"contas/internal/export/sheets"
	applog "contas/internal/log"
	"contas/internal/services"
	"contas/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logCfg := applog.DefaultConfig()
	logCfg.Component = "reminder-worker"
	logger := applog.New(logCfg)
	applog.SetDefault(logger)

	logger.Info("Starting reminder-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, digests will not be published", "error", err)
			amqpClient = nil
		} else {
			defer amqpClient.Close()
			logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var exporter *sheets.Exporter
	if cfg.SheetsExportEnabled() {
		exporter, err = sheets.New(ctx, sheets.Options{
			SpreadsheetID:      cfg.GoogleSpreadsheetID,
			SheetName:          cfg.GoogleSheetName,
			ServiceAccountJSON: cfg.GoogleServiceAccountJSON,
			ServiceAccountFile: cfg.GoogleServiceAccountFile,
		})
		if err != nil {
			logger.Warn("Failed to initialize Google Sheets exporter, digests will not be exported", "error", err)
			exporter = nil
		} else {
			logger.Info("Google Sheets exporter initialized", "spreadsheet", cfg.GoogleSpreadsheetID)
		}
	}

	if amqpClient == nil && exporter == nil {
		logger.Warn("No digest sinks configured - digests will only be logged")
	}

	w := &worker{
		bills:    services.NewBillService(repo, nil),
		client:   amqpClient,
		exporter: exporter,
		logger:   logger,
	}

	// With AMQP up, the exporter runs behind the queue: digests published
	// here (or by any other instance) come back through Consume and only
	// then reach the spreadsheet. Without AMQP the tick exports directly.
	if amqpClient != nil {
		go func() {
			err := amqpClient.Consume(ctx, amqp.Handlers{
				BillCreated:   w.handleBillCreated,
				MonthlyDigest: w.handleDigest,
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Message consumption stopped", "error", err)
			}
		}()
	}

	logger.Info("Reminder digest worker configured",
		"interval", cfg.ReminderInterval,
		"sqlite_db", cfg.SQLiteDBPath)

	ticker := time.NewTicker(cfg.ReminderInterval)
	defer ticker.Stop()

	// Build the first digest on startup so a fresh deploy doesn't wait a
	// full interval before producing anything.
	w.run(ctx, time.Now())

	for {
		select {
		case <-ctx.Done():
			logger.Info("Shutdown signal received")
			logger.Info("Reminder-worker shutdown complete")
			return
		case now := <-ticker.C:
			w.run(ctx, now)
		}
	}
}

type worker struct {
	bills    *services.BillService
	client   *amqp.Client
	exporter *sheets.Exporter
	logger   *applog.Logger
}

// run builds the digest for the month containing now and hands it to the
// configured sinks. Sink failures are logged, not fatal: the next tick
// retries with fresh data.
func (w *worker) run(ctx context.Context, now time.Time) {
	ref := core.NewDate(now.Year(), int(now.Month()), now.Day())

	entries, err := w.bills.MonthlyReminders(ctx, ref)
	if err != nil {
		w.logger.Error("Failed to build monthly digest", "error", err)
		return
	}

	msg := buildDigestMessage(entries, ref, now)
	w.logger.Info("Monthly digest built",
		"year", msg.Year,
		"month", msg.Month,
		"bills", len(msg.Bills),
		"total_cents", msg.TotalCents)

	if w.client != nil {
		if err := w.client.PublishMonthlyDigest(ctx, msg); err != nil {
			w.logger.Error("Failed to publish monthly digest", "error", err)
		}
		return
	}
	if w.exporter != nil {
		if err := w.exporter.ExportDigest(ctx, msg); err != nil {
			w.logger.Error("Failed to export monthly digest", "error", err)
		}
	}
}

// handleDigest exports consumed digest messages. Returning the export
// error requeues the delivery, so a transient Sheets outage retries.
func (w *worker) handleDigest(msg *amqp.MonthlyDigestMessage) error {
	if w.exporter == nil {
		return nil
	}
	return w.exporter.ExportDigest(context.Background(), msg)
}

func (w *worker) handleBillCreated(msg *amqp.BillCreatedMessage) error {
	w.logger.Info("Bill created event received",
		"bill_id", msg.ID,
		"wallet_id", msg.WalletID,
		"due_date", msg.DueDate)
	return nil
}

func buildDigestMessage(entries []services.DigestEntry, ref core.Date, now time.Time) *amqp.MonthlyDigestMessage {
	msg := &amqp.MonthlyDigestMessage{
		Year:      ref.Year(),
		Month:     int(ref.Month()),
		Bills:     make([]amqp.DigestLine, 0, len(entries)),
		Timestamp: now.UTC(),
	}
	for _, e := range entries {
		msg.TotalCents += e.Value.Cents
		msg.Bills = append(msg.Bills, amqp.DigestLine{
			BillID:      e.ID,
			Description: e.Description,
			ValueCents:  e.Value.Cents,
			DueDate:     e.DueDate.String(),
			WalletID:    e.WalletID,
			Category:    e.CategoryName,
		})
	}
	return msg
}
