package center

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"panelcli/pkg/contracts/domain"
)

func rowWith(key, wave int, name string, v domain.Value) domain.PanelRow {
	return domain.PanelRow{
		ParticipantKey: key,
		Wave:           wave,
		Values:         map[string]domain.Value{name: v},
	}
}

func TestByWaveSingleGroup(t *testing.T) {
	// Group mean over {2, 4, 6} is 4; missing is excluded and stays missing.
	rows := []domain.PanelRow{
		rowWith(1, 1, "anger", domain.Some(2)),
		rowWith(2, 1, "anger", domain.Some(4)),
		rowWith(3, 1, "anger", domain.Missing()),
		rowWith(4, 1, "anger", domain.Some(6)),
	}

	out, err := ByWave(context.Background(), rows, []string{"anger"}, 0)
	require.NoError(t, err)
	require.Len(t, out, 4)

	want := []domain.Value{
		domain.Some(-2),
		domain.Some(0),
		domain.Missing(),
		domain.Some(2),
	}
	for i, w := range want {
		assert.True(t, out[i].Derived["anger_centered"].Equal(w, 1e-9), "row %d", i)
	}
}

func TestByWaveGroupsByWave(t *testing.T) {
	// Wave 1 mean is 2, wave 3 mean is 6: the same raw value centers
	// differently depending on its wave.
	rows := []domain.PanelRow{
		rowWith(1, 1, "hope", domain.Some(1)),
		rowWith(2, 1, "hope", domain.Some(3)),
		rowWith(1, 3, "hope", domain.Some(5)),
		rowWith(2, 3, "hope", domain.Some(7)),
	}

	out, err := ByWave(context.Background(), rows, []string{"hope"}, 0)
	require.NoError(t, err)

	assert.True(t, out[0].Derived["hope_centered"].Equal(domain.Some(-1), 1e-9))
	assert.True(t, out[2].Derived["hope_centered"].Equal(domain.Some(-1), 1e-9))
	assert.True(t, out[3].Derived["hope_centered"].Equal(domain.Some(1), 1e-9))
}

func TestByWaveCenteredValuesSumToZero(t *testing.T) {
	rows := []domain.PanelRow{
		rowWith(1, 2, "pride", domain.Some(1.5)),
		rowWith(2, 2, "pride", domain.Some(4)),
		rowWith(3, 2, "pride", domain.Some(6.25)),
		rowWith(4, 2, "pride", domain.Missing()),
	}

	out, err := ByWave(context.Background(), rows, []string{"pride"}, 0)
	require.NoError(t, err)

	sum := 0.0
	for i := range out {
		if v := out[i].Derived["pride_centered"]; v.Valid {
			sum += v.Float
		}
	}
	assert.InDelta(t, 0, sum, 1e-9)
}

func TestByWaveAllMissingGroup(t *testing.T) {
	rows := []domain.PanelRow{
		rowWith(1, 1, "anger", domain.Some(3)),
		rowWith(2, 1, "anger", domain.Some(5)),
		rowWith(1, 2, "anger", domain.Missing()),
		rowWith(2, 2, "anger", domain.Missing()),
	}

	out, err := ByWave(context.Background(), rows, []string{"anger"}, 0)
	require.NoError(t, err)

	// Wave 2 has no non-missing values; its centered column is all missing,
	// with no division error.
	assert.Equal(t, domain.Missing(), out[2].Derived["anger_centered"])
	assert.Equal(t, domain.Missing(), out[3].Derived["anger_centered"])
	// Wave 1 still centers normally.
	assert.True(t, out[0].Derived["anger_centered"].Equal(domain.Some(-1), 1e-9))
}

func TestByWaveMultipleVariables(t *testing.T) {
	rows := []domain.PanelRow{
		{
			ParticipantKey: 1,
			Wave:           1,
			Values: map[string]domain.Value{
				"anger": domain.Some(2),
				"hope":  domain.Some(7),
			},
		},
		{
			ParticipantKey: 2,
			Wave:           1,
			Values: map[string]domain.Value{
				"anger": domain.Some(4),
				"hope":  domain.Some(3),
			},
		},
	}

	out, err := ByWave(context.Background(), rows, []string{"anger", "hope"}, 2)
	require.NoError(t, err)

	assert.True(t, out[0].Derived["anger_centered"].Equal(domain.Some(-1), 1e-9))
	assert.True(t, out[0].Derived["hope_centered"].Equal(domain.Some(2), 1e-9))
	assert.True(t, out[1].Derived["anger_centered"].Equal(domain.Some(1), 1e-9))
	assert.True(t, out[1].Derived["hope_centered"].Equal(domain.Some(-2), 1e-9))
}

func TestByWavePreservesPriorColumns(t *testing.T) {
	rows := []domain.PanelRow{
		{
			ParticipantKey: 1,
			Wave:           1,
			Values:         map[string]domain.Value{"anger": domain.Some(4)},
			Baseline:       map[string]domain.Value{"gender": domain.Some(1)},
		},
	}

	out, err := ByWave(context.Background(), rows, []string{"anger"}, 0)
	require.NoError(t, err)

	// Raw value and baseline fields survive; only the derived column is new.
	assert.Equal(t, domain.Some(4), out[0].Values["anger"])
	assert.Equal(t, domain.Some(1), out[0].Baseline["gender"])
	// Input rows are not mutated.
	assert.Nil(t, rows[0].Derived)
}

func TestDerivedName(t *testing.T) {
	assert.Equal(t, "anger_centered", DerivedName("anger"))
}
