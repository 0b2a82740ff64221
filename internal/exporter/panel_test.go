package exporter

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"panelcli/pkg/contracts/domain"
)

func TestWritePanel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "panel_long.csv")

	rows := []domain.PanelRow{
		{
			ParticipantKey: 1,
			Wave:           1,
			Values: map[string]domain.Value{
				"anger": domain.Some(3),
				"hope":  domain.Missing(),
			},
			Baseline:       map[string]domain.Value{"gender": domain.Some(1)},
			BaselineLabels: map[string]string{"vote_choice": "Opposition"},
			Derived:        map[string]domain.Value{"anger_centered": domain.Some(-0.5)},
		},
		{
			ParticipantKey: 2,
			Wave:           1,
			Values:         map[string]domain.Value{"anger": domain.Some(4)},
			Baseline:       map[string]domain.Value{"gender": domain.Missing()},
		},
	}

	e := NewPanelExporter(nil)
	err := e.WritePanel(path, rows, PanelColumns{
		Observed: []string{"anger", "hope"},
		Baseline: []string{"gender"},
		Labeled:  []string{"vote_choice"},
		Derived:  []string{"anger_centered"},
	})
	require.NoError(t, err)

	hasBOM, records := readBack(t, path)
	assert.True(t, hasBOM)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"", "caseid", "wave", "anger", "hope", "gender", "vote_choice_label", "anger_centered"}, records[0])
	assert.Equal(t, []string{"1", "1", "1", "3", "", "1", "Opposition", "-0.5"}, records[1])
	// Missing values and absent labels export as empty cells.
	assert.Equal(t, []string{"2", "2", "1", "4", "", "", "", ""}, records[2])
}

func TestWriteLong(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "emotions_long.csv")

	longRecords := []domain.LongRecord{
		{ParticipantKey: 1, Wave: 1, Variable: "Anger", Rating: domain.Some(3)},
		{ParticipantKey: 1, Wave: 1, Variable: "Hope", Rating: domain.Missing()},
		{ParticipantKey: 2, Wave: 1, Variable: "Anger", Rating: domain.Some(6)},
	}

	e := NewPanelExporter(nil)
	require.NoError(t, e.WriteLong(path, longRecords))

	_, records := readBack(t, path)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"", "caseid", "wave", "emotion", "rating"}, records[0])
	assert.Equal(t, []string{"1", "1", "1", "Anger", "3"}, records[1])
	assert.Equal(t, []string{"2", "1", "1", "Hope", ""}, records[2])
	assert.Equal(t, []string{"3", "2", "1", "Anger", "6"}, records[3])
}
