package domain

// Measure declares one (source column, human-readable label) pair for the
// wide-to-long reshape. The label is applied as a lookup by column name,
// never positionally.
type Measure struct {
	Column string `json:"column" validate:"required"`
	Label  string `json:"label" validate:"required"`
}
