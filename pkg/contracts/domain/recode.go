package domain

import (
	"fmt"
	"sort"
)

// RecodeTable is an explicit finite mapping from a numeric survey code to a
// human-readable label. Construction validates the table; application fails
// fast on a code the table does not know instead of bucketing it into a
// catch-all.
type RecodeTable struct {
	variable string
	labels   map[float64]string
}

// NewRecodeTable builds a recode table for the named variable. Labels must be
// non-empty and unique.
func NewRecodeTable(variable string, labels map[float64]string) (*RecodeTable, error) {
	if variable == "" {
		return nil, fmt.Errorf("recode table requires a variable name")
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("recode table for %q has no entries", variable)
	}
	seen := make(map[string]float64, len(labels))
	for code, label := range labels {
		if label == "" {
			return nil, fmt.Errorf("recode table for %q: code %g has an empty label", variable, code)
		}
		if prev, dup := seen[label]; dup {
			return nil, fmt.Errorf("recode table for %q: label %q assigned to both %g and %g",
				variable, label, prev, code)
		}
		seen[label] = code
	}
	copied := make(map[float64]string, len(labels))
	for code, label := range labels {
		copied[code] = label
	}
	return &RecodeTable{variable: variable, labels: copied}, nil
}

// Variable returns the variable this table recodes.
func (t *RecodeTable) Variable() string {
	return t.variable
}

// Label resolves a code to its label. Missing values resolve to the empty
// label with ok=true; an unknown present code returns an UnknownCodeError.
func (t *RecodeTable) Label(v Value) (string, error) {
	if !v.Valid {
		return "", nil
	}
	label, ok := t.labels[v.Float]
	if !ok {
		return "", &UnknownCodeError{Variable: t.variable, Code: v.Float, Known: t.Codes()}
	}
	return label, nil
}

// Codes returns the known codes in ascending order.
func (t *RecodeTable) Codes() []float64 {
	codes := make([]float64, 0, len(t.labels))
	for code := range t.labels {
		codes = append(codes, code)
	}
	sort.Float64s(codes)
	return codes
}

// UnknownCodeError reports a raw code outside the declared recode mapping.
type UnknownCodeError struct {
	Variable string
	Code     float64
	Known    []float64
}

// Error implements the error interface.
func (e *UnknownCodeError) Error() string {
	return fmt.Sprintf("unrecognized code %g for variable %q (known codes: %v)", e.Code, e.Variable, e.Known)
}
