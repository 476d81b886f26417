package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gprcli/internal/batch"
)

// utf8BOM lets spreadsheet tools detect the encoding
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter writes report tables as CSV
type CSVWriter struct {
	baseDir string
}

// NewCSVWriter creates a CSV writer; relative paths resolve against baseDir
func NewCSVWriter(baseDir string) *CSVWriter {
	return &CSVWriter{baseDir: baseDir}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	Append    bool
	BOMPrefix bool
}

// WriteCSV writes headers and records to filePath. Headers and the BOM are
// only written when the file is created or truncated.
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	file, err := w.open(filePath, options.Append, options.BOMPrefix && !options.Append)
	if err != nil {
		return err
	}
	defer file.Close()

	slog.Debug("csv_write",
		slog.String("path", file.Name()),
		slog.Int("records", len(options.Records)),
		slog.Bool("append", options.Append))

	writer := csv.NewWriter(file)
	if !options.Append && len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}
	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteSimpleCSV truncates filePath and writes a BOM, headers and records
func (w *CSVWriter) WriteSimpleCSV(filePath string, headers []string, records [][]string) error {
	return w.WriteCSV(filePath, WriteOptions{
		Headers:   headers,
		Records:   records,
		BOMPrefix: true,
	})
}

// WriteReportCSV writes the per-recipe results of a batch run
func (w *CSVWriter) WriteReportCSV(filePath, runID string, items []batch.ItemResult) error {
	return w.WriteSimpleCSV(filePath, ResultHeaders, resultRows(runID, items))
}

func (w *CSVWriter) open(filePath string, appendTo, bom bool) (*os.File, error) {
	fullPath := w.resolvePath(filePath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if appendTo {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	file, err := os.OpenFile(fullPath, flags, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", fullPath, err)
	}

	if bom {
		if _, err := file.Write(utf8BOM); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to write BOM: %w", err)
		}
	}
	return file, nil
}

func (w *CSVWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) || w.baseDir == "" {
		return filePath
	}
	return filepath.Join(w.baseDir, filePath)
}
