package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ExcelExtractor reads workbooks with excelize and renders each sheet as
// pipe-delimited rows plus numeric aggregates across all cells.
type ExcelExtractor struct {
	previewRows int
}

// NewExcelExtractor creates an Excel extractor. previewRows caps how many
// rows per sheet are rendered into the normalized text.
func NewExcelExtractor(previewRows int) *ExcelExtractor {
	if previewRows < 1 {
		previewRows = 20
	}
	return &ExcelExtractor{previewRows: previewRows}
}

// Extract opens the workbook from memory. Parse failures yield
// Succeeded=false with guidance text rather than an error.
func (e *ExcelExtractor) Extract(ctx context.Context, doc Document) Result {
	f, err := excelize.OpenReader(bytes.NewReader(doc.RawBytes))
	if err != nil {
		return Result{
			Format:    FormatExcel,
			Method:    "excelize",
			Text:      fmt.Sprintf("Could not read %q as a workbook: the file may be corrupted or password-protected. Re-export it as .xlsx and try again.", doc.FileName),
			Succeeded: false,
		}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	details := &ExcelDetails{}
	stats := &NumericStats{}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Excel workbook: %s\n", doc.FileName)
	fmt.Fprintf(&sb, "Sheets (%d): %s\n", len(sheets), strings.Join(sheets, ", "))

	for _, name := range sheets {
		rows, err := f.GetRows(name)
		if err != nil {
			// A broken sheet should not sink the rest of the workbook.
			fmt.Fprintf(&sb, "\nSheet %q: unreadable\n", name)
			continue
		}

		cols := sheetColumns(name, f, rows)
		details.Sheets = append(details.Sheets, SheetDetails{
			Name:    name,
			Rows:    len(rows),
			Columns: cols,
		})
		details.TotalCells += len(rows) * cols

		fmt.Fprintf(&sb, "\nSheet %q (%d rows x %d columns):\n", name, len(rows), cols)
		limit := len(rows)
		if limit > e.previewRows {
			limit = e.previewRows
		}
		for _, row := range rows[:limit] {
			sb.WriteString(strings.Join(row, " | "))
			sb.WriteString("\n")
		}
		if len(rows) > limit {
			fmt.Fprintf(&sb, "... %d more rows\n", len(rows)-limit)
		}

		accumulateStats(stats, rows)
	}

	if stats.Count > 0 {
		stats.Average = stats.Sum / float64(stats.Count)
		details.Stats = stats
		fmt.Fprintf(&sb, "\nNumeric summary: count=%d sum=%s average=%s min=%s max=%s\n",
			stats.Count, formatNumber(stats.Sum), formatNumber(stats.Average),
			formatNumber(stats.Min), formatNumber(stats.Max))
	}

	text := strings.TrimRight(sb.String(), "\n")
	return Result{
		Format:     FormatExcel,
		Method:     "excelize",
		Units:      len(sheets),
		Text:       text,
		Characters: len(text),
		Succeeded:  true,
		Excel:      details,
	}
}

// sheetColumns prefers the sheet's declared dimension range and falls back
// to the widest materialized row.
func sheetColumns(name string, f *excelize.File, rows [][]string) int {
	if dim, err := f.GetSheetDimension(name); err == nil && dim != "" {
		parts := strings.Split(dim, ":")
		if len(parts) == 2 {
			if col, _, err := excelize.CellNameToCoordinates(parts[1]); err == nil {
				return col
			}
		}
	}
	cols := 0
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	return cols
}

func accumulateStats(stats *NumericStats, rows [][]string) {
	for _, row := range rows {
		for _, cell := range row {
			v, ok := coerceNumber(cell)
			if !ok {
				continue
			}
			if stats.Count == 0 || v < stats.Min {
				stats.Min = v
			}
			if stats.Count == 0 || v > stats.Max {
				stats.Max = v
			}
			stats.Sum += v
			stats.Count++
		}
	}
}

func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%.2f", f)
}
