/*
PURPOSE:
  Writes collected rows to a CSV file, the plain-text backup next to the
  xlsx workbook. Ensures data integrity by flushing writes immediately.

REQUIREMENTS:
  User-specified:
  - Output to CSV as a backup alongside the spreadsheet.
  - Keep file handle open for flushing (crash resilience).

  Implementation-discovered:
  - Absent metrics must render as empty cells, not "0".

ARCHITECTURE INTEGRATION:
  - Called by: internal/collector
  - Consumes: internal/model.Row

ERROR HANDLING:
  - Returns error on file creation or write failure.

IMPLEMENTATION RULES:
  - Use encoding/csv.
  - Flush() after every write (critical for crash resilience).
  - Use Mutex if concurrent writes are expected.

USAGE:
  w, err := output.NewCSVWriter("vram_results.csv")
  w.Write(row)
  w.Close()

SELF-HEALING INSTRUCTIONS:
  - If CSV format changes, update header and record conversion.

RELATED FILES:
  - internal/model/types.go

MAINTENANCE:
  - Update Write() mapping when Row struct changes.
*/

package output

import (
	"encoding/csv"
	"os"
	"strconv"
	"sync"

	"github.com/Tugaytalha/vram-calculation-automation/internal/model"
)

// ResultColumns is the column order shared by the CSV and xlsx writers.
var ResultColumns = []string{
	"Model",
	"Quantization",
	"Batch Size",
	"Context Length",
	"Concurrent Users",
	"VRAM (GB)",
	"Tokens per User (tok/s)",
	"Total Throughput (tok/s)",
}

// CSVWriter handles writing rows to a CSV file.
type CSVWriter struct {
	file   *os.File
	writer *csv.Writer
	mu     sync.Mutex
}

// NewCSVWriter creates a new CSVWriter.
// It overwrites the file if it exists.
func NewCSVWriter(path string) (*CSVWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	w := csv.NewWriter(f)

	if err := w.Write(ResultColumns); err != nil {
		f.Close()
		return nil, err
	}
	w.Flush()

	return &CSVWriter{
		file:   f,
		writer: w,
	}, nil
}

// Write writes a single row to the CSV file.
// It is thread-safe.
func (cw *CSVWriter) Write(r model.Row) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	record := []string{
		r.Model,
		r.Quantization,
		strconv.Itoa(r.BatchSize),
		r.ContextLength,
		strconv.Itoa(r.ConcurrentUsers),
		formatMetric(r.VRAMGB),
		formatMetric(r.TokensPerUser),
		formatMetric(r.TotalThroughput),
	}

	if err := cw.writer.Write(record); err != nil {
		return err
	}
	cw.writer.Flush()
	return cw.writer.Error()
}

// Close closes the underlying file.
func (cw *CSVWriter) Close() error {
	cw.writer.Flush()
	return cw.file.Close()
}

// formatMetric renders an extracted metric, empty when absent.
func formatMetric(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
