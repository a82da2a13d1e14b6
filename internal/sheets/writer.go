package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/Mahmoudshahin94/webhook-event-service/internal/config"
)

// Writer appends rows to a Google Sheets worksheet, creating the worksheet
// on first use.
type Writer struct {
	service       *sheets.Service
	spreadsheetID string
	log           *zap.Logger
}

// NewWriter creates the sheets adapter. Fails fast with a configuration
// error when the credentials file or spreadsheet id is missing.
func NewWriter(ctx context.Context, cfg config.Sheets, log *zap.Logger) (*Writer, error) {
	if cfg.CredentialsFile == "" {
		return nil, fmt.Errorf("GSHEET_CREDENTIALS_FILE: %w", config.ErrNotConfigured)
	}
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("GSHEET_SPREADSHEET_ID: %w", config.ErrNotConfigured)
	}

	service, err := sheets.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Writer{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		log:           log,
	}, nil
}

// AppendRow appends one row to the named worksheet, creating it if absent.
func (w *Writer) AppendRow(ctx context.Context, worksheet string, row []interface{}) error {
	if err := w.ensureWorksheet(ctx, worksheet); err != nil {
		return err
	}

	valueRange := &sheets.ValueRange{
		Values: [][]interface{}{row},
	}

	_, err := w.service.Spreadsheets.Values.
		Append(w.spreadsheetID, worksheet, valueRange).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append row to %s: %w", worksheet, err)
	}

	w.log.Info("Row appended to worksheet",
		zap.String("worksheet", worksheet),
		zap.Int("columns", len(row)))
	return nil
}

// ensureWorksheet creates the worksheet when it does not exist. Same
// lookup-then-create idiom the backup reconciler uses.
func (w *Writer) ensureWorksheet(ctx context.Context, worksheet string) error {
	spreadsheet, err := w.service.Spreadsheets.Get(w.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties.Title == worksheet {
			return nil
		}
	}

	w.log.Info("Creating worksheet", zap.String("worksheet", worksheet))
	_, err = w.service.Spreadsheets.BatchUpdate(w.spreadsheetID,
		&sheets.BatchUpdateSpreadsheetRequest{
			Requests: []*sheets.Request{{
				AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{Title: worksheet},
				},
			}},
		}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to create worksheet %s: %w", worksheet, err)
	}
	return nil
}
