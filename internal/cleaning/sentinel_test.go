package cleaning

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"panelcli/pkg/contracts/domain"
)

func likertSpec(name string, max float64) domain.VariableSpec {
	return domain.VariableSpec{Name: name, ValidMin: 1, ValidMax: max, Scale: domain.ScaleLikert}
}

func TestNormalizeCutoff(t *testing.T) {
	spec := likertSpec("anger", 7)

	tests := []struct {
		name string
		in   domain.Value
		want domain.Value
	}{
		{name: "in range", in: domain.Some(3), want: domain.Some(3)},
		{name: "cutoff itself is valid", in: domain.Some(7), want: domain.Some(7)},
		{name: "just above cutoff", in: domain.Some(8), want: domain.Missing()},
		{name: "dont know code", in: domain.Some(88), want: domain.Missing()},
		{name: "refused code", in: domain.Some(99), want: domain.Missing()},
		{name: "missing stays missing", in: domain.Missing(), want: domain.Missing()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in, spec))
		})
	}
}

func TestNormalizeExplicitSentinels(t *testing.T) {
	spec := domain.VariableSpec{
		Name: "age", ValidMin: 18, ValidMax: 110,
		Sentinels: []float64{999},
		Scale:     domain.ScaleContinuous,
	}

	assert.Equal(t, domain.Some(45), Normalize(domain.Some(45), spec))
	assert.Equal(t, domain.Missing(), Normalize(domain.Some(999), spec))
	// Above the valid maximum, even though not in the explicit sentinel set.
	assert.Equal(t, domain.Missing(), Normalize(domain.Some(111), spec))
}

func TestApplyCatalogColumn(t *testing.T) {
	catalog, err := domain.NewCatalog(likertSpec("anger", 7))
	require.NoError(t, err)

	in := []float64{3, 7, 8, 9}
	rows := make([]domain.PanelRow, 0, len(in)+1)
	for i, f := range in {
		rows = append(rows, domain.PanelRow{
			ParticipantKey: i + 1,
			Wave:           1,
			Values:         map[string]domain.Value{"anger": domain.Some(f)},
		})
	}
	rows = append(rows, domain.PanelRow{
		ParticipantKey: 5,
		Wave:           1,
		Values:         map[string]domain.Value{"anger": domain.Missing()},
	})

	out, err := ApplyCatalog(context.Background(), rows, catalog, 0)
	require.NoError(t, err)
	require.Len(t, out, 5)

	want := []domain.Value{
		domain.Some(3),
		domain.Some(7),
		domain.Missing(),
		domain.Missing(),
		domain.Missing(),
	}
	for i, w := range want {
		assert.Equal(t, w, out[i].Values["anger"], "row %d", i)
	}

	// No surviving value above the cutoff.
	for i := range out {
		v := out[i].Values["anger"]
		if v.Valid {
			assert.LessOrEqual(t, v.Float, 7.0)
		}
	}
}

func TestApplyCatalogIndependentVariables(t *testing.T) {
	catalog, err := domain.NewCatalog(
		likertSpec("anger", 7),
		likertSpec("interest", 4),
	)
	require.NoError(t, err)

	rows := []domain.PanelRow{
		{
			ParticipantKey: 1,
			Wave:           1,
			Values: map[string]domain.Value{
				"anger":    domain.Some(6),
				"interest": domain.Some(6),
				"extra":    domain.Some(42),
			},
		},
	}

	out, err := ApplyCatalog(context.Background(), rows, catalog, 2)
	require.NoError(t, err)

	// 6 is valid on the 1-7 item but a sentinel on the 1-4 item.
	assert.Equal(t, domain.Some(6), out[0].Values["anger"])
	assert.Equal(t, domain.Missing(), out[0].Values["interest"])
	// Columns without a spec pass through untouched.
	assert.Equal(t, domain.Some(42), out[0].Values["extra"])
}

func TestApplyCatalogDoesNotMutateInput(t *testing.T) {
	catalog, err := domain.NewCatalog(likertSpec("anger", 7))
	require.NoError(t, err)

	rows := []domain.PanelRow{
		{ParticipantKey: 1, Wave: 1, Values: map[string]domain.Value{"anger": domain.Some(9)}},
	}

	_, err = ApplyCatalog(context.Background(), rows, catalog, 0)
	require.NoError(t, err)

	assert.Equal(t, domain.Some(9), rows[0].Values["anger"])
}

func TestApplyCatalogCancelledContext(t *testing.T) {
	catalog, err := domain.NewCatalog(likertSpec("anger", 7))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = ApplyCatalog(ctx, []domain.PanelRow{
		{ParticipantKey: 1, Wave: 1, Values: map[string]domain.Value{"anger": domain.Some(3)}},
	}, catalog, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
