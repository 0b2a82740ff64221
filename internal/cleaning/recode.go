package cleaning

import (
	"fmt"
	"log/slog"

	"panelcli/pkg/contracts/domain"
)

// ApplyRecode resolves a coded variable to its labels across the table,
// storing the label alongside the numeric value. The recode table is an
// explicit finite mapping: an unrecognized code aborts the run instead of
// being bucketed into a catch-all.
//
// Labels land in BaselineLabels when the variable lives in the row's
// baseline fields, which is the usual case for wave-1-only codes like vote
// choice.
func ApplyRecode(rows []domain.PanelRow, table *domain.RecodeTable) ([]domain.PanelRow, error) {
	variable := table.Variable()

	out := make([]domain.PanelRow, len(rows))
	labeled := 0
	for i, row := range rows {
		out[i] = row.Clone()

		v, ok := out[i].Cell(variable)
		if !ok {
			continue
		}
		label, err := table.Label(v)
		if err != nil {
			return nil, fmt.Errorf("recode %s: %w", variable, err)
		}
		if label == "" {
			continue
		}

		if _, inBaseline := out[i].Baseline[variable]; inBaseline {
			if out[i].BaselineLabels == nil {
				out[i].BaselineLabels = make(map[string]string, 1)
			}
			out[i].BaselineLabels[variable] = label
		}
		labeled++
	}

	slog.Debug("Applied recode table",
		slog.String("variable", variable),
		slog.Int("labeled_rows", labeled))

	return out, nil
}

// LabelBaseline resolves a coded baseline variable on the extracted baseline
// records themselves, before the join fans the labels out to every wave.
func LabelBaseline(records map[int]domain.BaselineRecord, table *domain.RecodeTable) (map[int]domain.BaselineRecord, error) {
	variable := table.Variable()

	out := make(map[int]domain.BaselineRecord, len(records))
	for key, record := range records {
		copied := domain.BaselineRecord{
			ParticipantKey: record.ParticipantKey,
			Fields:         make(map[string]domain.Value, len(record.Fields)),
			Labels:         make(map[string]string, len(record.Labels)+1),
		}
		for name, v := range record.Fields {
			copied.Fields[name] = v
		}
		for name, label := range record.Labels {
			copied.Labels[name] = label
		}

		if v, ok := copied.Fields[variable]; ok {
			label, err := table.Label(v)
			if err != nil {
				return nil, fmt.Errorf("recode %s for participant %d: %w", variable, key, err)
			}
			if label != "" {
				copied.Labels[variable] = label
			}
		}

		out[key] = copied
	}

	return out, nil
}
