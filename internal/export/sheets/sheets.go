// Package sheets exports the monthly reminder digest to a Google
// spreadsheet so the digest survives outside the service. One row per
// bill, appended under a month header row.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"contas/internal/amqp"
)

type Exporter struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// Options configures the exporter; credentials come from either the inline
// JSON or a file path, in that order of preference.
type Options struct {
	SpreadsheetID      string
	SheetName          string
	ServiceAccountJSON string
	ServiceAccountFile string
}

func New(ctx context.Context, opts Options) (*Exporter, error) {
	if opts.SpreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if opts.SheetName == "" {
		opts.SheetName = "Contas"
	}

	credentials, err := readCredentials(opts)
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentials),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Exporter{
		svc:           svc,
		spreadsheetID: opts.SpreadsheetID,
		sheetName:     opts.SheetName,
	}, nil
}

func readCredentials(opts Options) ([]byte, error) {
	switch {
	case opts.ServiceAccountJSON != "":
		return []byte(opts.ServiceAccountJSON), nil
	case opts.ServiceAccountFile != "":
		credentials, err := os.ReadFile(opts.ServiceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return credentials, nil
	default:
		return nil, errors.New("missing service account credentials")
	}
}

// ExportDigest appends the digest to the configured sheet: a header row
// naming the month, then one row per bill.
func (e *Exporter) ExportDigest(ctx context.Context, digest *amqp.MonthlyDigestMessage) error {
	if e.svc == nil {
		return errors.New("sheets service not initialized")
	}

	rows := buildRows(digest)
	rng := fmt.Sprintf("%s!A:F", e.sheetName)
	vr := &gsheet.ValueRange{Values: rows}

	_, err := e.svc.Spreadsheets.Values.Append(e.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append digest to sheet %s: %w", e.sheetName, err)
	}

	slog.InfoContext(ctx, "Digest exported to Google Sheets",
		"spreadsheet", e.spreadsheetID,
		"sheet", e.sheetName,
		"rows", len(rows))
	return nil
}

func buildRows(digest *amqp.MonthlyDigestMessage) [][]any {
	rows := make([][]any, 0, len(digest.Bills)+1)
	rows = append(rows, []any{
		fmt.Sprintf("%04d-%02d", digest.Year, digest.Month),
		"", "", "",
		"total",
		centsToDecimal(digest.TotalCents),
	})
	for _, line := range digest.Bills {
		rows = append(rows, []any{
			line.DueDate,
			line.Description,
			line.Category,
			line.WalletID,
			"",
			centsToDecimal(line.ValueCents),
		})
	}
	return rows
}

// centsToDecimal renders cents as a plain decimal for the USER_ENTERED
// input mode, which lets the spreadsheet parse it as a number.
func centsToDecimal(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
