package domain

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ScaleType classifies how a variable's codes are interpreted downstream.
type ScaleType string

const (
	ScaleLikert      ScaleType = "likert"
	ScaleCategorical ScaleType = "categorical"
	ScaleContinuous  ScaleType = "continuous"
)

// VariableSpec describes one survey variable: its valid range, the sentinel
// codes that mean "not a substantive answer", and its scale type. The valid
// maximum itself is a valid answer; only values strictly greater are treated
// as top-coded sentinels.
type VariableSpec struct {
	Name      string    `json:"name" validate:"required"`
	ValidMin  float64   `json:"valid_min"`
	ValidMax  float64   `json:"valid_max" validate:"gtefield=ValidMin"`
	Sentinels []float64 `json:"sentinels,omitempty"`
	Scale     ScaleType `json:"scale" validate:"required,oneof=likert categorical continuous"`
}

// IsSentinel reports whether v must be recoded to missing under this spec.
// Missing values are never sentinels.
func (s VariableSpec) IsSentinel(v Value) bool {
	if !v.Valid {
		return false
	}
	if v.Float > s.ValidMax {
		return true
	}
	for _, code := range s.Sentinels {
		if v.Float == code {
			return true
		}
	}
	return false
}

// Validate checks the spec's internal consistency: sentinel codes must never
// overlap the valid range.
func (s VariableSpec) Validate() error {
	if err := specValidator.Struct(s); err != nil {
		return fmt.Errorf("variable %q: %w", s.Name, err)
	}
	for _, code := range s.Sentinels {
		if code >= s.ValidMin && code <= s.ValidMax {
			return fmt.Errorf("variable %q: sentinel code %g overlaps valid range [%g, %g]",
				s.Name, code, s.ValidMin, s.ValidMax)
		}
	}
	return nil
}

var specValidator = validator.New()

// Catalog is the full set of variable specs for one survey layout, keyed by
// column name.
type Catalog map[string]VariableSpec

// NewCatalog validates every spec and rejects name mismatches between the map
// key and the spec.
func NewCatalog(specs ...VariableSpec) (Catalog, error) {
	catalog := make(Catalog, len(specs))
	for _, spec := range specs {
		if err := spec.Validate(); err != nil {
			return nil, err
		}
		if _, dup := catalog[spec.Name]; dup {
			return nil, fmt.Errorf("variable %q: duplicate spec", spec.Name)
		}
		catalog[spec.Name] = spec
	}
	return catalog, nil
}

// Names returns the catalog's variable names in unspecified order.
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	return names
}
