// Package export renders decoded scans into downloadable documents.
package export

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/shandysiswandi/bankocr/internal/ocr/entity"
)

const (
	SheetEntries = "Entries"
	SheetSummary = "Summary"
)

// ContentType is the MIME type of the workbook written by XLSX.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

//nolint:gochecknoglobals // header layout
var entryHeader = []any{"Entry", "Line", "Account", "Status", "Illegible Positions"}

// XLSX writes a workbook with one row per entry and a summary sheet.
type XLSX struct{}

func NewXLSX() *XLSX {
	return &XLSX{}
}

func (x *XLSX) Export(ctx context.Context, meta entity.ScanMeta, entries []entity.DecodedEntry, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetEntries); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	header := entryHeader
	if err := f.SetSheetRow(SheetEntries, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(entryHeader), 1)
	if err := f.SetCellStyle(SheetEntries, "A1", last, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		// tokens stay strings so leading zeros survive
		row := []any{e.Index + 1, e.Line, e.Token, string(e.Status), positions(e.Illegible)}
		if err := f.SetSheetRow(SheetEntries, cell, &row); err != nil {
			return fmt.Errorf("write entry %d: %w", e.Index+1, err)
		}
	}

	if err := f.SetColWidth(SheetEntries, "A", "B", 8); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetEntries, "C", "C", 14); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetEntries, "E", "E", 20); err != nil {
		return err
	}

	if err := writeSummary(f, meta, bold); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}

	return nil
}

func writeSummary(f *excelize.File, meta entity.ScanMeta, bold int) error {
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}

	rows := [][]any{
		{"Scan ID", meta.ID},
		{"Status", string(meta.Status)},
		{"Entries", meta.Entries},
		{"Legible", meta.Legible},
		{"Illegible", meta.Illegible},
		{"Invalid", meta.Invalid},
	}
	for i := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(SheetSummary, cell, &rows[i]); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}

	lastRow := strconv.Itoa(len(rows))
	if err := f.SetCellStyle(SheetSummary, "A1", "A"+lastRow, bold); err != nil {
		return fmt.Errorf("style summary: %w", err)
	}

	return f.SetColWidth(SheetSummary, "A", "B", 16)
}

// positions renders zero-based positions as a one-based list, e.g. "3,7".
func positions(ps []int) string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = strconv.Itoa(p + 1)
	}
	return strings.Join(out, ",")
}
