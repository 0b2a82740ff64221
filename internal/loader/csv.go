package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"panelcli/internal/config"
	"panelcli/pkg/contracts/domain"
)

// RawTable is the raw loader's output: the export's column order plus one
// Observation per row. Participant identifiers are still raw strings at this
// point.
type RawTable struct {
	// Columns holds the variable columns in export order, excluding the
	// identifier and wave columns.
	Columns []string
	Rows    []domain.Observation
}

// ParseError reports a malformed row or cell in the raw export. It is fatal:
// the run aborts and no partial output is written.
type ParseError struct {
	Line   int
	Column string
	Token  string
	Reason string
	Err    error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("parse error at line %d, column %q: %s (token %q)", e.Line, e.Column, e.Reason, e.Token)
	}
	return fmt.Sprintf("parse error at line %d: %s", e.Line, e.Reason)
}

// Unwrap returns the underlying error
func (e *ParseError) Unwrap() error {
	return e.Err
}

// ReadCSV loads the raw survey export from a delimited UTF-8 text file with a
// header row.
func ReadCSV(path string) (*RawTable, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open raw export: %w", err)
	}
	defer file.Close()

	table, err := Read(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	slog.Info("Loaded raw export",
		slog.String("path", path),
		slog.Int("rows", len(table.Rows)),
		slog.Int("columns", len(table.Columns)))

	return table, nil
}

// Read parses the raw export from a reader. The header row must contain the
// identifier and wave columns; every other column is typed numeric. The null
// tokens from config.NullTokens are recognized as missing during parsing, not
// just the empty string.
func Read(r io.Reader) (*RawTable, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = false

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &ParseError{Line: 1, Reason: "empty input"}
	}
	if err != nil {
		return nil, &ParseError{Line: 1, Reason: "unreadable header row", Err: err}
	}

	header = stripBOM(header)

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

	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ParseError{Line: line, Reason: "malformed row", Err: err}
		}
		if len(record) != len(header) {
			return nil, &ParseError{
				Line:   line,
				Reason: fmt.Sprintf("wrong column count: expected %d, got %d", len(header), len(record)),
			}
		}

		rawID := strings.TrimSpace(record[idIdx])
		if rawID == "" {
			return nil, &ParseError{Line: line, Column: config.IdentifierColumn, Reason: "empty participant identifier"}
		}

		wave, err := strconv.Atoi(strings.TrimSpace(record[waveIdx]))
		if err != nil {
			return nil, &ParseError{
				Line:   line,
				Column: config.WaveColumn,
				Token:  record[waveIdx],
				Reason: "wave is not an integer",
				Err:    err,
			}
		}

		obs := domain.Observation{
			RawID:  rawID,
			Wave:   wave,
			Values: make(map[string]domain.Value, len(columns)),
		}

		for i, cell := range record {
			name, ok := colIdx[i]
			if !ok {
				continue
			}
			value, err := parseCell(cell)
			if err != nil {
				return nil, &ParseError{
					Line:   line,
					Column: name,
					Token:  cell,
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

// parseCell types a single cell: null tokens become missing, everything else
// must parse as a number.
func parseCell(cell string) (domain.Value, error) {
	if isNullToken(cell) {
		return domain.Missing(), nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil {
		return domain.Missing(), err
	}
	return domain.Some(f), nil
}

// isNullToken checks a cell against the recognized missing-value markers.
// The token match is literal, so "999" is missing while " 999" (after trim)
// also is; "9990" is not.
func isNullToken(cell string) bool {
	for _, token := range config.NullTokens {
		if cell == token {
			return true
		}
	}
	return strings.TrimSpace(cell) == "" || strings.TrimSpace(cell) == "." || strings.TrimSpace(cell) == "999"
}

// stripBOM removes a UTF-8 BOM from the first header cell if present.
func stripBOM(header []string) []string {
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	return header
}
