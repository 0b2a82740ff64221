package loader

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"panelcli/internal/config"
	"panelcli/pkg/contracts/domain"
)

// ReadWorkbook loads the raw survey export from an xlsx workbook, for exports
// delivered uncut from the survey vendor. The data sheet is discovered by
// sniffing for a header row that carries the identifier and wave columns.
func ReadWorkbook(path string) (*RawTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	var rows [][]string
	var sheetName string

	for _, name := range f.GetSheetList() {
		sheetRows, err := f.GetRows(name)
		if err != nil || len(sheetRows) < 2 {
			continue
		}
		if isExportHeader(sheetRows[0]) {
			rows = sheetRows
			sheetName = name
			break
		}
	}

	if sheetName == "" {
		return nil, fmt.Errorf("could not find survey data sheet in workbook %s", path)
	}

	slog.Info("Found survey data sheet",
		slog.String("sheet_name", sheetName),
		slog.Int("total_rows", len(rows)))

	table, err := fromRows(rows)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return table, nil
}

// isExportHeader checks whether a row looks like the export's header row.
func isExportHeader(row []string) bool {
	hasID, hasWave := false, false
	for _, cell := range row {
		switch strings.TrimSpace(cell) {
		case config.IdentifierColumn:
			hasID = true
		case config.WaveColumn:
			hasWave = true
		}
	}
	return hasID && hasWave
}

// fromRows converts sheet rows to a RawTable using the same typing rules as
// the delimited loader. Excel pads short rows, so missing trailing cells are
// treated as empty rather than as a column-count error.
func fromRows(rows [][]string) (*RawTable, error) {
	header := stripBOM(rows[0])

	idIdx, waveIdx := -1, -1
	var columns []string
	colIdx := make(map[int]string, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		switch name {
		case config.IdentifierColumn:
			idIdx = i
		case config.WaveColumn:
			waveIdx = i
		default:
			columns = append(columns, name)
			colIdx[i] = name
		}
	}
	if idIdx == -1 {
		return nil, &ParseError{Line: 1, Column: config.IdentifierColumn, Reason: "identifier column missing from header"}
	}
	if waveIdx == -1 {
		return nil, &ParseError{Line: 1, Column: config.WaveColumn, Reason: "wave column missing from header"}
	}

	table := &RawTable{Columns: columns}

	for i := 1; i < len(rows); i++ {
		line := i + 1
		record := rows[i]

		if isBlankRow(record) {
			continue
		}

		cell := func(idx int) string {
			if idx < len(record) {
				return record[idx]
			}
			return ""
		}

		rawID := strings.TrimSpace(cell(idIdx))
		if rawID == "" {
			return nil, &ParseError{Line: line, Column: config.IdentifierColumn, Reason: "empty participant identifier"}
		}

		wave, err := strconv.Atoi(strings.TrimSpace(cell(waveIdx)))
		if err != nil {
			return nil, &ParseError{
				Line:   line,
				Column: config.WaveColumn,
				Token:  cell(waveIdx),
				Reason: "wave is not an integer",
				Err:    err,
			}
		}

		obs := domain.Observation{
			RawID:  rawID,
			Wave:   wave,
			Values: make(map[string]domain.Value, len(columns)),
		}

		for idx, name := range colIdx {
			value, err := parseCell(cell(idx))
			if err != nil {
				return nil, &ParseError{
					Line:   line,
					Column: name,
					Token:  cell(idx),
					Reason: "cell is not numeric",
					Err:    err,
				}
			}
			obs.Values[name] = value
		}

		table.Rows = append(table.Rows, obs)
	}

	return table, nil
}

// isBlankRow reports whether every cell in the row is empty.
func isBlankRow(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
