package identity

import (
	"fmt"
	"log/slog"

	"panelcli/pkg/contracts/domain"
)

// Resolver maps raw participant identifier strings to dense integer keys in
// [1, N]. Keys are assigned in first-appearance order over the input row
// sequence, which makes the assignment deterministic for a given export:
// feeding the same rows in the same order always yields the same mapping.
type Resolver struct {
	keys  map[string]int
	order []string
}

// IdentityResolutionError reports more distinct identifiers than the panel
// is expected to contain.
type IdentityResolutionError struct {
	Expected int
	Found    int
}

// Error implements the error interface
func (e *IdentityResolutionError) Error() string {
	return fmt.Sprintf("identity resolution found %d distinct participants, expected at most %d", e.Found, e.Expected)
}

// Resolve builds the identifier mapping from the raw observations. Duplicate
// identifiers are expected (one per wave); each distinct identifier receives
// exactly one key. expected pins the panel size; zero disables the guard.
// The input rows are not mutated.
func Resolve(rows []domain.Observation, expected int) (*Resolver, error) {
	r := &Resolver{keys: make(map[string]int)}

	for _, row := range rows {
		if _, seen := r.keys[row.RawID]; seen {
			continue
		}
		r.keys[row.RawID] = len(r.order) + 1
		r.order = append(r.order, row.RawID)
	}

	if expected > 0 && len(r.order) > expected {
		return nil, &IdentityResolutionError{Expected: expected, Found: len(r.order)}
	}

	slog.Info("Resolved participant identities",
		slog.Int("distinct_participants", len(r.order)),
		slog.Int("input_rows", len(rows)))

	return r, nil
}

// Key returns the integer key for a raw identifier.
func (r *Resolver) Key(rawID string) (int, bool) {
	key, ok := r.keys[rawID]
	return key, ok
}

// Raw returns the raw identifier for an integer key (reverse lookup).
func (r *Resolver) Raw(key int) (string, bool) {
	if key < 1 || key > len(r.order) {
		return "", false
	}
	return r.order[key-1], true
}

// Len returns the number of distinct participants.
func (r *Resolver) Len() int {
	return len(r.order)
}

// Apply converts raw observations into panel rows carrying resolved integer
// keys. Every identifier was registered by Resolve, so a miss here is a
// programming error and is reported as one.
func (r *Resolver) Apply(rows []domain.Observation) ([]domain.PanelRow, error) {
	out := make([]domain.PanelRow, 0, len(rows))
	for i, row := range rows {
		key, ok := r.keys[row.RawID]
		if !ok {
			return nil, fmt.Errorf("row %d: identifier %q was not registered during resolution", i, row.RawID)
		}
		// Value-copy forward: the raw table stays untouched.
		values := make(map[string]domain.Value, len(row.Values))
		for name, v := range row.Values {
			values[name] = v
		}
		out = append(out, domain.PanelRow{
			ParticipantKey: key,
			Wave:           row.Wave,
			Values:         values,
		})
	}
	return out, nil
}
