package reshape

import (
	"fmt"
	"log/slog"

	"panelcli/pkg/contracts/domain"
)

// ValidateMeasures checks the declared measure list before any pivot runs:
// every measure needs a column and a label, no column may appear twice, and
// no label may be shared between columns. Label assignment is a lookup by
// column name, never a positional zip.
func ValidateMeasures(measures []domain.Measure) error {
	if len(measures) == 0 {
		return fmt.Errorf("reshape requires at least one measure")
	}

	columns := make(map[string]struct{}, len(measures))
	labels := make(map[string]string, len(measures))
	for _, m := range measures {
		if m.Column == "" {
			return fmt.Errorf("measure with empty column name")
		}
		if m.Label == "" {
			return fmt.Errorf("measure %q has no label", m.Column)
		}
		if _, dup := columns[m.Column]; dup {
			return fmt.Errorf("measure %q declared twice", m.Column)
		}
		if prev, dup := labels[m.Label]; dup {
			return fmt.Errorf("label %q assigned to both %q and %q", m.Label, prev, m.Column)
		}
		columns[m.Column] = struct{}{}
		labels[m.Label] = m.Column
	}

	return nil
}

// WideToLong pivots the rows of one designated wave into long format: one
// LongRecord per (row, measure) pair, with the measure's value in Rating and
// its label in Variable. The output length is exactly
// len(selected rows) * len(measures); no measure is dropped or duplicated.
func WideToLong(rows []domain.PanelRow, measures []domain.Measure, wave int) ([]domain.LongRecord, error) {
	if err := ValidateMeasures(measures); err != nil {
		return nil, fmt.Errorf("invalid measure set: %w", err)
	}

	var selected []domain.PanelRow
	for _, row := range rows {
		if row.Wave == wave {
			selected = append(selected, row)
		}
	}

	out := make([]domain.LongRecord, 0, len(selected)*len(measures))
	for _, row := range selected {
		for _, m := range measures {
			rating, ok := row.Values[m.Column]
			if !ok {
				rating = domain.Missing()
			}
			out = append(out, domain.LongRecord{
				ParticipantKey: row.ParticipantKey,
				Wave:           row.Wave,
				Variable:       m.Label,
				Rating:         rating,
			})
		}
	}

	slog.Info("Reshaped wide block to long format",
		slog.Int("wave", wave),
		slog.Int("input_rows", len(selected)),
		slog.Int("measures", len(measures)),
		slog.Int("long_records", len(out)))

	return out, nil
}
