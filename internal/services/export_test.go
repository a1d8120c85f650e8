package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shortscope-backend/internal/models"
)

type fakeSheetWriter struct {
	calls     int
	sheetID   string
	sheetName string
	table     Table
	err       error
}

func (f *fakeSheetWriter) WriteTable(ctx context.Context, spreadsheetID, sheetName string, table Table) (int, error) {
	f.calls++
	f.sheetID = spreadsheetID
	f.sheetName = sheetName
	f.table = table
	if f.err != nil {
		return 0, f.err
	}
	return len(table.Rows), nil
}

func newTestExporter(w SheetWriter, id string) *Exporter {
	e := NewExporter(w, id)
	e.now = func() time.Time { return fixedNow }
	return e
}

func TestExporter_EmptyRowsRejected(t *testing.T) {
	writer := &fakeSheetWriter{}
	exporter := newTestExporter(writer, "sheet-123")

	res, err := exporter.Export(context.Background(), models.ExportRequest{Keyword: "cats"})

	assert.Nil(t, res)
	var perr *ExportPreconditionError
	require.ErrorAs(t, err, &perr)
	assert.False(t, perr.NotConfigured)
	assert.Zero(t, writer.calls, "no spreadsheet call")
}

func TestExporter_NotConfigured(t *testing.T) {
	rows := []models.Video{{VideoID: "A"}}
	for name, exporter := range map[string]*Exporter{
		"nil writer":       newTestExporter(nil, "sheet-123"),
		"no spreadsheet":   newTestExporter(&fakeSheetWriter{}, ""),
		"nil exporter ptr": nil,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := exporter.Export(context.Background(), models.ExportRequest{Rows: rows})

			var perr *ExportPreconditionError
			require.ErrorAs(t, err, &perr)
			assert.True(t, perr.NotConfigured)
		})
	}
}

func TestExporter_DefaultSheetName(t *testing.T) {
	tests := []struct {
		keyword, sheetName, want string
	}{
		{"cats", "", "cats_20260301"},
		{"", "", "results_20260301"},
		{"cats", "My Tab", "My Tab"},
	}
	for _, tt := range tests {
		writer := &fakeSheetWriter{}
		res, err := newTestExporter(writer, "sheet-123").Export(context.Background(), models.ExportRequest{
			Keyword:   tt.keyword,
			SheetName: tt.sheetName,
			Rows:      []models.Video{{VideoID: "A"}},
		})

		require.NoError(t, err)
		assert.Equal(t, tt.want, writer.sheetName)
		assert.Equal(t, tt.want, res.SheetName)
	}
}

func TestExporter_Export(t *testing.T) {
	writer := &fakeSheetWriter{}
	rows := []models.Video{{VideoID: "A", ViewCount: 100}, {VideoID: "D", ViewCount: 10}}

	res, err := newTestExporter(writer, "sheet-123").Export(context.Background(), models.ExportRequest{Keyword: "cats", Rows: rows})

	require.NoError(t, err)
	assert.Equal(t, &models.ExportResult{
		Message:   "Upload complete",
		SheetURL:  "https://docs.google.com/spreadsheets/d/sheet-123",
		SheetName: "cats_20260301",
		Rows:      2,
	}, res)
	assert.Equal(t, "sheet-123", writer.sheetID)
	assert.Equal(t, ExportHeader, writer.table.Header)
	assert.Equal(t, "A", writer.table.Rows[0][11], "row order is kept")
}

func TestExporter_WriteFailureIsUpstream(t *testing.T) {
	writer := &fakeSheetWriter{err: errors.New("quota exceeded")}

	_, err := newTestExporter(writer, "sheet-123").Export(context.Background(), models.ExportRequest{
		Rows: []models.Video{{VideoID: "A"}},
	})

	var uerr *UpstreamError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "sheets.write", uerr.Op)
}
