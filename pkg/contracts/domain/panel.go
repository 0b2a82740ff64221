package domain

import (
	"fmt"
	"math"
)

// Value is a single numeric cell in the panel. Missing answers (empty cells,
// null tokens, sentinel codes after normalization) carry Valid=false.
type Value struct {
	Float float64 `json:"float"`
	Valid bool    `json:"valid"`
}

// Some returns a present value.
func Some(f float64) Value {
	return Value{Float: f, Valid: true}
}

// Missing returns a missing value.
func Missing() Value {
	return Value{}
}

// IsMissing reports whether the value is missing.
func (v Value) IsMissing() bool {
	return !v.Valid
}

// Equal compares two values, treating missing as equal to missing and using
// an absolute tolerance for present values.
func (v Value) Equal(other Value, tolerance float64) bool {
	if v.Valid != other.Valid {
		return false
	}
	if !v.Valid {
		return true
	}
	return math.Abs(v.Float-other.Float) <= tolerance
}

// String renders the value for CSV serialization. Missing cells serialize as
// the empty string.
func (v Value) String() string {
	if !v.Valid {
		return ""
	}
	if v.Float == math.Trunc(v.Float) && math.Abs(v.Float) < 1e15 {
		return fmt.Sprintf("%d", int64(v.Float))
	}
	return fmt.Sprintf("%g", v.Float)
}

// Observation is one raw row of the survey export: one participant at one
// wave, identified by the raw string from the export. The participant key is
// unresolved until the identity resolver runs.
type Observation struct {
	RawID  string           `json:"raw_id"`
	Wave   int              `json:"wave"`
	Values map[string]Value `json:"values"`
}

// PanelRow is an Observation after identity resolution, with baseline fields
// attached by the panel assembler and derived columns appended by later
// stages. Stages never overwrite columns written by an earlier stage.
type PanelRow struct {
	ParticipantKey int               `json:"participant_key"`
	Wave           int               `json:"wave"`
	Values         map[string]Value  `json:"values"`
	Baseline       map[string]Value  `json:"baseline,omitempty"`
	BaselineLabels map[string]string `json:"baseline_labels,omitempty"`
	Derived        map[string]Value  `json:"derived,omitempty"`
}

// Clone returns a deep copy of the row. Stages copy tables forward rather
// than sharing mutable state.
func (r PanelRow) Clone() PanelRow {
	out := PanelRow{
		ParticipantKey: r.ParticipantKey,
		Wave:           r.Wave,
		Values:         cloneValues(r.Values),
		Baseline:       cloneValues(r.Baseline),
		Derived:        cloneValues(r.Derived),
	}
	if r.BaselineLabels != nil {
		out.BaselineLabels = make(map[string]string, len(r.BaselineLabels))
		for k, v := range r.BaselineLabels {
			out.BaselineLabels[k] = v
		}
	}
	return out
}

// Cell looks up a column across value, baseline and derived fields, in that
// order.
func (r PanelRow) Cell(column string) (Value, bool) {
	if v, ok := r.Values[column]; ok {
		return v, true
	}
	if v, ok := r.Baseline[column]; ok {
		return v, true
	}
	if v, ok := r.Derived[column]; ok {
		return v, true
	}
	return Missing(), false
}

func cloneValues(m map[string]Value) map[string]Value {
	if m == nil {
		return nil
	}
	out := make(map[string]Value, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// BaselineRecord holds the wave-1-only measurements for one participant.
// Exactly one record exists per participant with a wave-1 row.
type BaselineRecord struct {
	ParticipantKey int               `json:"participant_key"`
	Fields         map[string]Value  `json:"fields"`
	Labels         map[string]string `json:"labels,omitempty"`
}

// LongRecord is one reshaped (participant, measure) pair: the measure's value
// in Rating and its human-readable name in Variable.
type LongRecord struct {
	ParticipantKey int    `json:"participant_key"`
	Wave           int    `json:"wave"`
	Variable       string `json:"variable"`
	Rating         Value  `json:"rating"`
}
