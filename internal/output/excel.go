/*
PURPOSE:
  Writes collected rows to an xlsx workbook, the primary result artifact.
  Rows accumulate in memory; Save() can be called from the normal exit
  path or from an interrupt/error flush.

REQUIREMENTS:
  User-specified:
  - Spreadsheet output with a "VRAM Results" sheet, one row per scenario.

  Implementation-discovered:
  - Absent metrics must render as empty cells (nil, not zero).
  - Save must be callable more than once (partial flush then final save).

ARCHITECTURE INTEGRATION:
  - Called by: internal/collector
  - Consumes: internal/model.Row
  - Dependencies: github.com/xuri/excelize/v2

ERROR HANDLING:
  - Returns error on cell write or file save failure.

IMPLEMENTATION RULES:
  - Build the workbook in memory; SaveAs only on flush.
  - Same column order as the CSV writer (ResultColumns).

USAGE:
  w, err := output.NewExcelWriter()
  w.Append(row)
  w.Save("vram_results.xlsx")
  w.Close()

SELF-HEALING INSTRUCTIONS:
  - If columns change, update ResultColumns and the Append mapping together.

RELATED FILES:
  - internal/output/csv.go

MAINTENANCE:
  - Update when the result schema changes.
*/

package output

import (
	"fmt"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/Tugaytalha/vram-calculation-automation/internal/model"
)

// SheetName is the single results sheet in the workbook.
const SheetName = "VRAM Results"

// ExcelWriter accumulates rows into an in-memory xlsx workbook.
type ExcelWriter struct {
	file *excelize.File
	next int // next 1-based sheet row to write
	mu   sync.Mutex
}

// NewExcelWriter creates a workbook with the header row in place.
func NewExcelWriter() (*ExcelWriter, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name results sheet: %w", err)
	}

	header := make([]interface{}, len(ResultColumns))
	for i, c := range ResultColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write header row: %w", err)
	}

	return &ExcelWriter{file: f, next: 2}, nil
}

// Append adds one row below the rows written so far.
func (ew *ExcelWriter) Append(r model.Row) error {
	ew.mu.Lock()
	defer ew.mu.Unlock()

	record := []interface{}{
		r.Model,
		r.Quantization,
		r.BatchSize,
		r.ContextLength,
		r.ConcurrentUsers,
		metricCell(r.VRAMGB),
		metricCell(r.TokensPerUser),
		metricCell(r.TotalThroughput),
	}

	cell, err := excelize.CoordinatesToCellName(1, ew.next)
	if err != nil {
		return err
	}
	if err := ew.file.SetSheetRow(SheetName, cell, &record); err != nil {
		return err
	}
	ew.next++
	return nil
}

// Rows reports how many data rows have been appended.
func (ew *ExcelWriter) Rows() int {
	ew.mu.Lock()
	defer ew.mu.Unlock()
	return ew.next - 2
}

// Save writes the workbook to disk. Safe to call repeatedly; the last
// call wins.
func (ew *ExcelWriter) Save(path string) error {
	ew.mu.Lock()
	defer ew.mu.Unlock()
	return ew.file.SaveAs(path)
}

// Close releases the workbook.
func (ew *ExcelWriter) Close() error {
	return ew.file.Close()
}

// metricCell maps an absent metric to an empty cell.
func metricCell(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
