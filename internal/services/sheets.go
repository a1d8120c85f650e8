package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetWriter overwrites one tab of a spreadsheet with a table and returns
// the number of data rows written.
type SheetWriter interface {
	WriteTable(ctx context.Context, spreadsheetID, sheetName string, table Table) (int, error)
}

// SheetsWriter writes tables through the Google Sheets v4 API.
type SheetsWriter struct {
	svc *sheets.Service
}

// NewSheetsWriter authenticates with a service-account key (JSON content).
// An empty key leaves authentication to opts.
func NewSheetsWriter(ctx context.Context, credentialsJSON string, opts ...option.ClientOption) (*SheetsWriter, error) {
	if credentialsJSON != "" {
		opts = append([]option.ClientOption{
			option.WithCredentialsJSON([]byte(credentialsJSON)),
			option.WithScopes(sheets.SpreadsheetsScope),
		}, opts...)
	}
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Sheets client: %w", err)
	}
	return &SheetsWriter{svc: svc}, nil
}

func (w *SheetsWriter) WriteTable(ctx context.Context, spreadsheetID, sheetName string, table Table) (int, error) {
	if err := w.ensureSheet(ctx, spreadsheetID, sheetName); err != nil {
		return 0, fmt.Errorf("failed to add sheet %q: %w", sheetName, err)
	}

	tab := quoteSheetName(sheetName)
	if _, err := w.svc.Spreadsheets.Values.Clear(spreadsheetID, tab, &sheets.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return 0, fmt.Errorf("failed to clear sheet %q: %w", sheetName, err)
	}

	_, err := w.svc.Spreadsheets.Values.Update(spreadsheetID, tab+"!A1", &sheets.ValueRange{
		MajorDimension: "ROWS",
		Values:         table.Values(),
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("failed to write sheet %q: %w", sheetName, err)
	}
	return len(table.Rows), nil
}

func (w *SheetsWriter) ensureSheet(ctx context.Context, spreadsheetID, sheetName string) error {
	_, err := w.svc.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: sheetName},
			},
		}},
	}).Context(ctx).Do()
	if err == nil || sheetExists(err) {
		return nil
	}
	return err
}

func sheetExists(err error) bool {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return false
	}
	return strings.Contains(strings.ToLower(gerr.Message), "already exists")
}

// quoteSheetName returns the A1-notation form of a tab title.
func quoteSheetName(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}
