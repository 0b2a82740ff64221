package exporter

import (
	"fmt"
	"strconv"

	"panelcli/internal/config"
	"panelcli/pkg/contracts/domain"
)

// PanelColumns declares the output column order for the wide panel file.
// Groups appear in order: identifier and wave first, then observed survey
// items, baseline fields, baseline label columns, derived columns.
type PanelColumns struct {
	Observed []string
	Baseline []string
	Labeled  []string
	Derived  []string
}

// PanelExporter writes the normalized panel tables to CSV.
type PanelExporter struct {
	writer *CSVWriter
}

// NewPanelExporter creates a panel exporter resolving relative paths against
// the derived data directory.
func NewPanelExporter(paths *config.Paths) *PanelExporter {
	return &PanelExporter{writer: NewCSVWriter(paths)}
}

// WritePanel exports the assembled panel, one row per participant-wave.
// Missing values export as empty cells.
func (e *PanelExporter) WritePanel(filePath string, rows []domain.PanelRow, cols PanelColumns) error {
	headers := make([]string, 0, 2+len(cols.Observed)+len(cols.Baseline)+len(cols.Labeled)+len(cols.Derived))
	headers = append(headers, config.IdentifierColumn, config.WaveColumn)
	headers = append(headers, cols.Observed...)
	headers = append(headers, cols.Baseline...)
	for _, name := range cols.Labeled {
		headers = append(headers, labelColumn(name))
	}
	headers = append(headers, cols.Derived...)

	records := make([][]string, 0, len(rows))
	for i := range rows {
		row := &rows[i]
		record := make([]string, 0, len(headers))
		record = append(record,
			strconv.Itoa(row.ParticipantKey),
			strconv.Itoa(row.Wave))
		for _, name := range cols.Observed {
			record = append(record, cellString(row, name))
		}
		for _, name := range cols.Baseline {
			record = append(record, cellString(row, name))
		}
		for _, name := range cols.Labeled {
			record = append(record, row.BaselineLabels[name])
		}
		for _, name := range cols.Derived {
			record = append(record, cellString(row, name))
		}
		records = append(records, record)
	}

	return e.writer.WriteCSV(filePath, WriteOptions{
		Headers:     headers,
		Records:     records,
		IndexColumn: true,
		BOMPrefix:   true,
	})
}

// WriteLong exports reshaped long records via the streaming writer, one line
// per participant-measure.
func (e *PanelExporter) WriteLong(filePath string, records []domain.LongRecord) error {
	stream, err := e.writer.CreateStreamWriter(filePath,
		[]string{config.IdentifierColumn, config.WaveColumn, "emotion", "rating"}, true)
	if err != nil {
		return err
	}

	for i := range records {
		rec := &records[i]
		err := stream.WriteRecord([]string{
			strconv.Itoa(rec.ParticipantKey),
			strconv.Itoa(rec.Wave),
			rec.Variable,
			rec.Rating.String(),
		})
		if err != nil {
			stream.Close()
			return fmt.Errorf("failed to write long record %d: %w", i, err)
		}
	}

	return stream.Close()
}

// labelColumn names the companion label column for a coded variable.
func labelColumn(variable string) string {
	return variable + "_label"
}

func cellString(row *domain.PanelRow, name string) string {
	v, ok := row.Cell(name)
	if !ok {
		return ""
	}
	return v.String()
}
