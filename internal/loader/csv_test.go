package loader

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"panelcli/pkg/contracts/domain"
)

func TestRead(t *testing.T) {
	input := strings.Join([]string{
		"caseid,wave,anger,hope,age",
		"p7,1,3,7,45",
		"p2,1,999,.,999",
		"p7,2, ,5,",
	}, "\n")

	table, err := Read(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"anger", "hope", "age"}, table.Columns)
	require.Len(t, table.Rows, 3)

	first := table.Rows[0]
	assert.Equal(t, "p7", first.RawID)
	assert.Equal(t, 1, first.Wave)
	assert.Equal(t, domain.Some(3), first.Values["anger"])
	assert.Equal(t, domain.Some(7), first.Values["hope"])
	assert.Equal(t, domain.Some(45), first.Values["age"])
}

func TestReadNullTokens(t *testing.T) {
	tests := []struct {
		name string
		cell string
		want domain.Value
	}{
		{name: "empty cell", cell: "", want: domain.Missing()},
		{name: "single space", cell: " ", want: domain.Missing()},
		{name: "dot", cell: ".", want: domain.Missing()},
		{name: "999 literal", cell: "999", want: domain.Missing()},
		{name: "plain number", cell: "5", want: domain.Some(5)},
		{name: "decimal", cell: "3.5", want: domain.Some(3.5)},
		{name: "zero", cell: "0", want: domain.Some(0)},
		{name: "9990 is not a null token", cell: "9990", want: domain.Some(9990)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := "caseid,wave,item\np1,1," + tt.cell + "\n"
			table, err := Read(strings.NewReader(input))
			require.NoError(t, err)
			require.Len(t, table.Rows, 1)
			assert.Equal(t, tt.want, table.Rows[0].Values["item"])
		})
	}
}

func TestReadParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		line   int
		column string
	}{
		{
			name:  "empty input",
			input: "",
			line:  1,
		},
		{
			name:   "missing identifier column",
			input:  "respondent,wave,anger\nx,1,3\n",
			line:   1,
			column: "caseid",
		},
		{
			name:   "missing wave column",
			input:  "caseid,anger\np1,3\n",
			line:   1,
			column: "wave",
		},
		{
			name:   "non-numeric cell",
			input:  "caseid,wave,anger\np1,1,angry\n",
			line:   2,
			column: "anger",
		},
		{
			name:   "non-integer wave",
			input:  "caseid,wave,anger\np1,one,3\n",
			line:   2,
			column: "wave",
		},
		{
			name:   "empty identifier",
			input:  "caseid,wave,anger\n,1,3\n",
			line:   2,
			column: "caseid",
		},
		{
			name:  "bad cell on later row",
			input: "caseid,wave,anger\np1,1,3\np2,1,x\n",
			line:  3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input))
			require.Error(t, err)

			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr), "expected ParseError, got %T", err)
			assert.Equal(t, tt.line, parseErr.Line)
			if tt.column != "" {
				assert.Equal(t, tt.column, parseErr.Column)
			}
		})
	}
}

func TestReadWrongColumnCount(t *testing.T) {
	input := "caseid,wave,anger,hope\np1,1,3\n"

	_, err := Read(strings.NewReader(input))
	require.Error(t, err)

	// encoding/csv already rejects ragged rows; either way the caller sees a
	// ParseError pointing at the offending line.
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, 2, parseErr.Line)
}

func TestReadStripsBOM(t *testing.T) {
	input := "\ufeffcaseid,wave,anger\np1,1,3\n"

	table, err := Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "p1", table.Rows[0].RawID)
}

func TestReadNoPartialOutput(t *testing.T) {
	// Three good rows before the bad one; the whole read still fails.
	input := strings.Join([]string{
		"caseid,wave,anger",
		"p1,1,3",
		"p2,1,4",
		"p3,1,5",
		"p4,1,broken",
	}, "\n")

	table, err := Read(strings.NewReader(input))
	require.Error(t, err)
	assert.Nil(t, table)
}
