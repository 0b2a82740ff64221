package panel

import (
	"fmt"
	"log/slog"

	"panelcli/pkg/contracts/domain"
)

// JoinCardinalityError reports more than one baseline row for the same
// participant key. The join contract assumes at most one baseline row per
// participant, so this is fatal.
type JoinCardinalityError struct {
	ParticipantKey int
	Wave           int
}

// Error implements the error interface
func (e *JoinCardinalityError) Error() string {
	return fmt.Sprintf("participant %d has more than one wave-%d baseline row", e.ParticipantKey, e.Wave)
}

// ExtractBaseline isolates the wave-1-only measurements into one
// BaselineRecord per participant with a baseline-wave row, containing only
// the designated baseline variables. A participant with no baseline-wave row
// produces no record at all, not a record full of missing values; the join
// then supplies missing for their baseline fields.
func ExtractBaseline(rows []domain.PanelRow, baselineVars []string, baselineWave int) (map[int]domain.BaselineRecord, error) {
	records := make(map[int]domain.BaselineRecord)

	for _, row := range rows {
		if row.Wave != baselineWave {
			continue
		}
		if _, dup := records[row.ParticipantKey]; dup {
			return nil, &JoinCardinalityError{ParticipantKey: row.ParticipantKey, Wave: baselineWave}
		}

		fields := make(map[string]domain.Value, len(baselineVars))
		for _, name := range baselineVars {
			if v, ok := row.Values[name]; ok {
				fields[name] = v
			} else {
				fields[name] = domain.Missing()
			}
		}

		records[row.ParticipantKey] = domain.BaselineRecord{
			ParticipantKey: row.ParticipantKey,
			Fields:         fields,
		}
	}

	slog.Info("Extracted baseline records",
		slog.Int("participants_with_baseline", len(records)),
		slog.Int("baseline_variables", len(baselineVars)))

	return records, nil
}

// AttachBaseline left-joins the baseline records onto every panel row by the
// resolved integer participant key. Every input row is preserved exactly
// once; one record per participant means no fan-out. Rows whose participant
// has no baseline record get missing for every baseline field.
func AttachBaseline(rows []domain.PanelRow, records map[int]domain.BaselineRecord, baselineVars []string) []domain.PanelRow {
	out := make([]domain.PanelRow, len(rows))
	matched := 0

	for i, row := range rows {
		out[i] = row.Clone()
		out[i].Baseline = make(map[string]domain.Value, len(baselineVars))

		record, ok := records[row.ParticipantKey]
		if ok {
			matched++
		}
		for _, name := range baselineVars {
			if ok {
				out[i].Baseline[name] = record.Fields[name]
			} else {
				out[i].Baseline[name] = domain.Missing()
			}
		}
		if ok && len(record.Labels) > 0 {
			out[i].BaselineLabels = make(map[string]string, len(record.Labels))
			for name, label := range record.Labels {
				out[i].BaselineLabels[name] = label
			}
		}
	}

	slog.Info("Attached baseline fields",
		slog.Int("rows", len(out)),
		slog.Int("rows_with_baseline", matched))

	return out
}
