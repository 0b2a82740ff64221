package config

import (
	"panelcli/pkg/contracts/domain"
)

// The fixed survey layout: one longitudinal study, waves 1..4, with a small
// set of baseline demographics measured once and a wave-varying emotion
// battery on a 1-7 scale.

// BaselineVariables are measured at wave 1 only and carried onto every later
// wave by the panel assembler.
func BaselineVariables() []string {
	return []string{"vote_choice", "gender", "age", "education"}
}

// CenteredVariables receive wave-centered companion columns.
func CenteredVariables() []string {
	return []string{"anger", "anxiety", "enthusiasm", "hope", "pride", "interest"}
}

// EmotionMeasures is the declared wide-to-long mapping for the 1-7 emotion
// battery. The reshaper validates it for completeness and overlap before any
// pivot runs.
func EmotionMeasures() []domain.Measure {
	return []domain.Measure{
		{Column: "anger", Label: "Anger"},
		{Column: "anxiety", Label: "Anxiety"},
		{Column: "enthusiasm", Label: "Enthusiasm"},
		{Column: "hope", Label: "Hope"},
		{Column: "pride", Label: "Pride"},
	}
}

// DefaultCatalog returns the variable specs for the fixed layout. Interview
// artifacts ("don't know", refusals) are top-coded above each item's valid
// maximum, except age which uses an explicit 999 refusal code.
func DefaultCatalog() (domain.Catalog, error) {
	return domain.NewCatalog(
		domain.VariableSpec{Name: "vote_choice", ValidMin: 1, ValidMax: 4, Scale: domain.ScaleCategorical},
		domain.VariableSpec{Name: "gender", ValidMin: 1, ValidMax: 2, Scale: domain.ScaleCategorical},
		domain.VariableSpec{Name: "age", ValidMin: 18, ValidMax: 110, Sentinels: []float64{999}, Scale: domain.ScaleContinuous},
		domain.VariableSpec{Name: "education", ValidMin: 1, ValidMax: 8, Scale: domain.ScaleCategorical},
		domain.VariableSpec{Name: "anger", ValidMin: 1, ValidMax: 7, Scale: domain.ScaleLikert},
		domain.VariableSpec{Name: "anxiety", ValidMin: 1, ValidMax: 7, Scale: domain.ScaleLikert},
		domain.VariableSpec{Name: "enthusiasm", ValidMin: 1, ValidMax: 7, Scale: domain.ScaleLikert},
		domain.VariableSpec{Name: "hope", ValidMin: 1, ValidMax: 7, Scale: domain.ScaleLikert},
		domain.VariableSpec{Name: "pride", ValidMin: 1, ValidMax: 7, Scale: domain.ScaleLikert},
		domain.VariableSpec{Name: "interest", ValidMin: 1, ValidMax: 4, Scale: domain.ScaleLikert},
	)
}

// VoteChoiceRecode maps the wave-1 vote codes onto party labels. Application
// fails fast on any code outside this table.
func VoteChoiceRecode() (*domain.RecodeTable, error) {
	return domain.NewRecodeTable("vote_choice", map[float64]string{
		1: "Government",
		2: "Opposition",
		3: "Independent",
		4: "Did not vote",
	})
}
