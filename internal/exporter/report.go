package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"

	"gprcli/internal/batch"
)

const (
	// ResultsSheet holds one row per recipe application
	ResultsSheet = "results"
	// ItemsSheet holds one row per gather
	ItemsSheet = "gathers"
)

// ResultHeaders are the columns of the results sheet
var ResultHeaders = []string{
	"run_id", "gather", "line", "recipe", "params", "status", "kind", "diagnostic", "calls", "duration_s",
}

// ItemHeaders are the columns of the gathers sheet
var ItemHeaders = []string{
	"run_id", "gather", "line", "output", "failed", "error", "duration_s",
}

// resultRows flattens the per-recipe results of a run
func resultRows(runID string, items []batch.ItemResult) [][]string {
	var rows [][]string
	for _, it := range items {
		for _, res := range it.Results {
			rows = append(rows, []string{
				runID,
				it.ID,
				it.Line,
				res.Recipe,
				formatParams(res.Params),
				res.Status(),
				string(res.Kind),
				res.Diagnostic,
				strconv.Itoa(res.Calls),
				formatSeconds(res.Duration),
			})
		}
	}
	return rows
}

func itemRows(runID string, items []batch.ItemResult) [][]string {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{
			runID,
			it.ID,
			it.Line,
			it.Output,
			strconv.FormatBool(it.Failed()),
			formatError(it.Err),
			formatSeconds(it.Duration),
		})
	}
	return rows
}

// WriteReport writes the processing report of a batch run as an xlsx
// workbook with a results sheet and a gathers sheet
func WriteReport(path, runID string, items []batch.ItemResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), ResultsSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := writeSheet(f, ResultsSheet, ResultHeaders, resultRows(runID, items)); err != nil {
		return err
	}

	if _, err := f.NewSheet(ItemsSheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := writeSheet(f, ItemsSheet, ItemHeaders, itemRows(runID, items)); err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save report %s: %w", path, err)
	}

	slog.Info("report_written",
		slog.String("path", path),
		slog.String("run_id", runID),
		slog.Int("gathers", len(items)))
	return nil
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]string) error {
	if err := setRow(f, sheet, 1, headers); err != nil {
		return err
	}
	for i, row := range rows {
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("failed to write row %d of %s: %w", row, sheet, err)
	}
	return nil
}
