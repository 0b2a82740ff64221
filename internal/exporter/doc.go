// Package exporter writes the normalized panel tables to CSV.
//
// CSVWriter provides the core writing functionality: headers, streaming,
// an auto-generated leading row-index column, and a UTF-8 BOM for Excel
// compatibility. PanelExporter sits on top of it and knows the panel's
// column groups (observed items, baseline fields, label columns, derived
// columns) and the long-form emotion output.
//
// Example usage:
//
//	e := exporter.NewPanelExporter(paths)
//	err := e.WritePanel("panel_long.csv", rows, cols)
//	err = e.WriteLong("emotions_long.csv", longRecords)
package exporter
