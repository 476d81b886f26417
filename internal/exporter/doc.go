// Package exporter writes the processing report of a batch run.
//
// WriteReport produces an xlsx workbook with two sheets: "results" holds
// one row per recipe application (gather, recipe, params, status, kind,
// diagnostic, capability calls, duration) and "gathers" holds one row per
// input gather. CSVWriter writes the same results table as UTF-8 CSV with a
// BOM so spreadsheet tools detect the encoding.
//
// Example usage:
//
//	summary, err := runner.Run(ctx, items, cmds)
//	if err != nil {
//		return err
//	}
//	err = exporter.WriteReport("out/report.xlsx", summary.RunID, summary.Items)
package exporter
