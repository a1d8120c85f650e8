package services

import (
	"context"
	"time"

	"shortscope-backend/internal/models"
)

const (
	defaultSheetKeyword = "results"
	sheetURLPrefix      = "https://docs.google.com/spreadsheets/d/"
)

// Exporter writes ranked videos to a tab of the configured spreadsheet.
type Exporter struct {
	writer        SheetWriter
	spreadsheetID string
	now           func() time.Time
}

// NewExporter returns an exporter. A nil writer or empty spreadsheet id
// yields an exporter that rejects every call as not configured.
func NewExporter(writer SheetWriter, spreadsheetID string) *Exporter {
	return &Exporter{writer: writer, spreadsheetID: spreadsheetID, now: time.Now}
}

// Configured reports whether exports can be attempted at all.
func (e *Exporter) Configured() bool {
	return e != nil && e.writer != nil && e.spreadsheetID != ""
}

// Export validates the request, then overwrites the target tab. Nothing is
// sent to the spreadsheet service when a precondition fails.
func (e *Exporter) Export(ctx context.Context, req models.ExportRequest) (*models.ExportResult, error) {
	if !e.Configured() {
		return nil, &ExportPreconditionError{
			Message:       "Sheets export is not configured (GOOGLE_SA_JSON, SHEETS_PARENT_SPREADSHEET_ID)",
			NotConfigured: true,
		}
	}
	if len(req.Rows) == 0 {
		return nil, &ExportPreconditionError{Message: "No rows to export"}
	}

	name := req.SheetName
	if name == "" {
		name = e.defaultSheetName(req.Keyword)
	}

	rows, err := e.writer.WriteTable(ctx, e.spreadsheetID, name, ProjectTable(req.Rows))
	if err != nil {
		return nil, upstream("export", "sheets.write", err)
	}

	return &models.ExportResult{
		Message:   "Upload complete",
		SheetURL:  sheetURLPrefix + e.spreadsheetID,
		SheetName: name,
		Rows:      rows,
	}, nil
}

func (e *Exporter) defaultSheetName(keyword string) string {
	if keyword == "" {
		keyword = defaultSheetKeyword
	}
	return keyword + "_" + e.now().UTC().Format("20060102")
}
